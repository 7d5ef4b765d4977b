// Package opener shows a file in the operating system's default viewer.
//
// The platform command is chosen once, when the Opener is created:
//
//	linux, freebsd, ...  xdg-open <path>
//	darwin               open <path>
//	windows              rundll32 url.dll,FileProtocolHandler <path>
package opener

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Opener opens a file in the default viewer.
type Opener interface {
	Open(ctx context.Context, path string) error
}

// Command runs an external program with the file path as its last argument.
type Command struct {
	Name string
	Args []string

	// run executes the command. Tests replace it.
	run func(cmd *exec.Cmd) error
}

// New returns the Opener for the current platform.
func New() *Command {
	return ForOS(runtime.GOOS)
}

// ForOS returns the Opener for goos.
func ForOS(goos string) *Command {
	switch goos {
	case "windows":
		return &Command{Name: "rundll32", Args: []string{"url.dll,FileProtocolHandler"}}
	case "darwin":
		return &Command{Name: "open"}
	default:
		return &Command{Name: "xdg-open"}
	}
}

// Open launches the viewer and waits for the launcher command to return.
// The viewer's output is discarded.
func (c *Command) Open(ctx context.Context, path string) error {
	args := append(append([]string{}, c.Args...), path)
	cmd := exec.CommandContext(ctx, c.Name, args...)

	run := c.run
	if run == nil {
		run = (*exec.Cmd).Run
	}
	if err := run(cmd); err != nil {
		return fmt.Errorf("%s %s: %w", c.Name, path, err)
	}
	return nil
}
