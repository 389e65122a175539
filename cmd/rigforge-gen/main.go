// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/rigforge/rigforge/lib/registry"
	"github.com/rigforge/rigforge/lib/share"
	"github.com/rigforge/rigforge/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var registryPath string
	var webTablePath string
	var scriptTablePath string
	var check bool

	flagSet := pflag.NewFlagSet("rigforge-gen", pflag.ContinueOnError)
	flagSet.StringVar(&registryPath, "registry", "", "registry source file (default: the embedded registry)")
	flagSet.StringVar(&webTablePath, "web-table", "cmd/rigforge-share/table.json", "output path for the web app's table")
	flagSet.StringVar(&scriptTablePath, "script-table", "cmd/rigforge-apply/table.json", "output path for the terminal script's table")
	flagSet.BoolVar(&check, "check", false, "verify the tables are up to date without writing")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("rigforge-gen")
		return 0
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	reg, err := loadRegistry(registryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	table, err := share.BuildSnapshot(reg).MarshalTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	stale := 0
	for _, path := range []string{webTablePath, scriptTablePath} {
		if check {
			existing, err := os.ReadFile(path)
			if err != nil || !bytes.Equal(existing, table) {
				fmt.Printf("%s: out of date\n", path)
				stale++
			}
			continue
		}
		if err := os.WriteFile(path, table, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "error: writing %s: %v\n", path, err)
			return 2
		}
		fmt.Printf("%s: written\n", path)
	}

	if stale > 0 {
		fmt.Printf("run rigforge-gen to refresh\n")
		return 1
	}
	return 0
}

func loadRegistry(path string) (*registry.Registry, error) {
	if path == "" {
		return registry.Load()
	}
	return registry.ReadFile(path)
}
