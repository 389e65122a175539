// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/rigforge/rigforge/lib/catalog"
	"github.com/rigforge/rigforge/lib/registry"
	"github.com/rigforge/rigforge/lib/share"
	"github.com/rigforge/rigforge/lib/version"
)

func main() {
	os.Exit(run())
}

func run() int {
	var registryPath string
	var catalogPath string
	var webTablePath string
	var scriptTablePath string
	var jsonOutput bool

	flagSet := pflag.NewFlagSet("rigforge-audit", pflag.ContinueOnError)
	flagSet.StringVar(&registryPath, "registry", "", "registry source file (default: the embedded registry)")
	flagSet.StringVar(&catalogPath, "catalog", "", "catalog file (default: the embedded catalog)")
	flagSet.StringVar(&webTablePath, "web-table", "cmd/rigforge-share/table.json", "the web app's generated table")
	flagSet.StringVar(&scriptTablePath, "script-table", "cmd/rigforge-apply/table.json", "the terminal script's generated table")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit findings as JSON")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("rigforge-audit")
		return 0
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	inputs, err := loadInputs(registryPath, catalogPath, webTablePath, scriptTablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	violations := runAudit(inputs)
	nextIDs := nextAssignments(inputs.registry)

	if jsonOutput {
		report := struct {
			Consistent bool                 `json:"consistent"`
			Violations []registry.Violation `json:"violations"`
			NextIDs    map[string]int       `json:"next_ids"`
		}{
			Consistent: len(violations) == 0,
			Violations: violations,
			NextIDs:    nextIDs,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
	} else {
		for _, violation := range violations {
			fmt.Printf("violation: %s\n", violation)
		}
		fmt.Printf("next ids:")
		for _, category := range registry.Categories {
			fmt.Printf(" %s=%d", category, nextIDs[string(category)])
		}
		fmt.Println()
		if len(violations) == 0 {
			fmt.Println("registry, decoder tables, and catalog are consistent")
		} else {
			fmt.Printf("%d violations\n", len(violations))
		}
	}

	if len(violations) > 0 {
		return 1
	}
	return 0
}

func loadInputs(registryPath, catalogPath, webTablePath, scriptTablePath string) (auditInputs, error) {
	inputs := auditInputs{
		webName:    "web",
		scriptName: "script",
	}

	var err error
	if registryPath == "" {
		inputs.registry, err = registry.Load()
	} else {
		inputs.registry, err = registry.ReadFile(registryPath)
	}
	if err != nil {
		return auditInputs{}, err
	}

	if catalogPath == "" {
		inputs.catalog, err = catalog.Load()
	} else {
		inputs.catalog, err = catalog.ReadFile(catalogPath)
	}
	if err != nil {
		return auditInputs{}, err
	}

	inputs.web, err = readTable(webTablePath)
	if err != nil {
		return auditInputs{}, err
	}
	inputs.script, err = readTable(scriptTablePath)
	if err != nil {
		return auditInputs{}, err
	}
	return inputs, nil
}

func readTable(path string) (*share.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	snapshot, err := share.ParseSnapshot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snapshot, nil
}

func nextAssignments(reg *registry.Registry) map[string]int {
	next := make(map[string]int, len(registry.Categories))
	for _, category := range registry.Categories {
		next[string(category)] = reg.Table(category).NextID()
	}
	return next
}
