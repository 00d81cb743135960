//go:build mage

// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main provides build targets for the funfair project using Mage.
//
// Usage:
//
//	mage build          Compile the funfair binary to bin/
//	mage test:all       Run all tests
//	mage test:unit      Run tests without the race detector, short mode
//	mage test:race      Run all tests with the race detector
//	mage test:cover     Write coverage.out and print a summary
//	mage lint           Run golangci-lint
//	mage vet            Run go vet
//	mage clean          Remove build artifacts
//	mage install        Install funfair to GOPATH/bin
//	mage play           Build and start a game
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/mesh-intelligence/funfair/pkg/funfair"
)

const (
	binGo      = "go"
	binaryName = "funfair"
	binaryDir  = "bin"
	cmdDir     = "./cmd/funfair"
	modulePath = "github.com/mesh-intelligence/funfair"
)

// Build compiles the funfair binary to bin/.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	return sh.RunV(binGo, "build", "-v", "-o", filepath.Join(binaryDir, binaryName), cmdDir)
}

// Clean removes build artifacts.
func Clean() error {
	for _, p := range []string{binaryDir, coverProfile} {
		if err := os.RemoveAll(p); err != nil {
			return err
		}
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Play builds the binary and starts a game on this terminal.
func Play() error {
	mg.Deps(Build)
	return sh.RunWithV(map[string]string{"FUNFAIR_LOG_LEVEL": "debug"},
		filepath.Join(binaryDir, binaryName), "play")
}

// Version prints the version the binary will report.
func Version() {
	fmt.Println(binaryName, "v"+funfair.Version, modulePath)
}
