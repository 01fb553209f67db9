//go:build mage

// Package main provides build targets for the tillsync project using Mage.
//
// Usage:
//
//	mage build     Compile tillsync binary to bin/
//	mage test      Run all tests
//	mage coverage  Run tests with coverage report
//	mage lint      Run golangci-lint
//	mage clean     Remove build artifacts
//	mage install   Install tillsync to GOPATH/bin
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "tillsync"
	binaryDir  = "bin"
	cmdDir     = "./cmd/tillsync"
)

// Build compiles the tillsync binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Test runs all tests.
func Test() error {
	return sh.RunV(binGo, "test", "./...")
}

// Coverage runs tests with coverage and prints the per-function report.
func Coverage() error {
	if err := sh.RunV(binGo, "test", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	return sh.RunV(binGo, "tool", "cover", "-func=coverage.out")
}

// Lint runs golangci-lint over the whole module.
func Lint() error {
	if _, err := sh.Output("golangci-lint", "version"); err != nil {
		return fmt.Errorf("golangci-lint not found: %w", err)
	}
	return sh.RunV("golangci-lint", "run", "./...")
}

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	_ = os.Remove("coverage.out")
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binaryName), filepath.Join(binaryDir, binaryName))
}
