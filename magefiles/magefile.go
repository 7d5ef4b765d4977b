//go:build mage

// Package main contains Mage build targets for receipt-pdf developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// projectDirs lists the working directories the CLI expects by default.
var projectDirs = []string{
	"data",
	"templates",
	"output",
}

const (
	binDir     = "bin"
	binName    = "receipt"
	versionPkg = "github.com/ginjaninja78/receipt-pdf/cmd"
)

// Init creates the default data, template and output directories.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}
	fmt.Println("Project directories initialized.")
	return nil
}

// Build compiles the CLI binary into bin/ with version information.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}

	version := os.Getenv("VERSION")
	if version == "" {
		version = "dev"
	}
	ldflags := fmt.Sprintf("-X '%s.Version=%s' -X '%s.BuildDate=%s'",
		versionPkg, version, versionPkg, time.Now().UTC().Format("2006-01-02"))

	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "."); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Vet runs go vet on all packages.
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs vet and the tests.
func Check() {
	mg.SerialDeps(Vet, Test)
}

// Sample builds the binary and renders the bundled sample receipt.
func Sample() error {
	mg.Deps(Build, Init)
	return sh.RunV(filepath.Join(binDir, binName), "--input", "data/input.csv", "--template", "templates/template.html")
}

// Clean removes build artifacts and generated receipts.
func Clean() error {
	for _, dir := range []string{binDir, "output"} {
		if err := sh.Rm(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
	}
	return nil
}
