//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const binDir = "bin"

// Default target - build the binary
var Default = Build

// Build builds the yapenv binary with version metadata.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return err
	}
	version, _ := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if version == "" {
		version = "dev"
	}
	commit, _ := sh.Output("git", "rev-parse", "--short", "HEAD")
	if commit == "" {
		commit = "unknown"
	}
	ldflags := fmt.Sprintf(
		"-X github.com/LamaAni/yapenv/internal/version.Version=%s "+
			"-X github.com/LamaAni/yapenv/internal/version.CommitHash=%s "+
			"-X github.com/LamaAni/yapenv/internal/version.BuildDate=%s",
		version, commit, time.Now().UTC().Format(time.RFC3339),
	)
	out := filepath.Join(binDir, "yapenv")
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	return sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, "./cmd/yapenv")
}

// Install installs yapenv into GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "./cmd/yapenv")
}

// Clean removes build artifacts.
func Clean() error {
	return sh.Rm(binDir)
}

// Lint namespace for linting commands
type Lint mg.Namespace

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Format checks code formatting.
func (Lint) Format() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("files need formatting:\n%s", out)
	}
	return nil
}

// Test namespace for testing commands
type Test mg.Namespace

// All runs all tests.
func (Test) All() error {
	return sh.RunV("go", "test", "./...")
}

// Race runs tests with the race detector.
func (Test) Race() error {
	return sh.RunV("go", "test", "-race", "./...")
}

// Coverage runs tests with coverage.
func (Test) Coverage() error {
	return sh.RunV("go", "test", "-coverprofile=coverage.out", "./...")
}

// QA runs vet, format and tests, then builds.
func QA() error {
	mg.SerialDeps(Lint.Vet, Lint.Format, Test.All)
	return Build()
}
