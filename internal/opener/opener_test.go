package opener

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForOS(t *testing.T) {
	tests := []struct {
		goos string
		want []string
	}{
		{goos: "linux", want: []string{"xdg-open", "/tmp/r.pdf"}},
		{goos: "freebsd", want: []string{"xdg-open", "/tmp/r.pdf"}},
		{goos: "darwin", want: []string{"open", "/tmp/r.pdf"}},
		{goos: "windows", want: []string{"rundll32", "url.dll,FileProtocolHandler", "/tmp/r.pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			c := ForOS(tt.goos)

			var got []string
			c.run = func(cmd *exec.Cmd) error {
				got = cmd.Args
				return nil
			}

			require.NoError(t, c.Open(context.Background(), "/tmp/r.pdf"))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenError(t *testing.T) {
	c := ForOS("linux")
	c.run = func(*exec.Cmd) error { return errors.New("exit status 3") }

	err := c.Open(context.Background(), "/tmp/r.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xdg-open")
}
