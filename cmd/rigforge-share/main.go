// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/rigforge/rigforge/lib/registry"
	"github.com/rigforge/rigforge/lib/share"
	"github.com/rigforge/rigforge/lib/version"
)

//go:generate go run github.com/rigforge/rigforge/cmd/rigforge-gen

// tableData is this binary's own copy of the decoder table — the
// same table the web app bundles. Generated by rigforge-gen.
//
//go:embed table.json
var tableData []byte

func main() {
	os.Exit(run())
}

func run() int {
	var cpu, gpu, dns, preset string
	var peripherals, monitors, optimizations, packages []string
	var baseURL string
	var jsonOutput bool

	flagSet := pflag.NewFlagSet("rigforge-share", pflag.ContinueOnError)
	flagSet.StringVar(&cpu, "cpu", "", "CPU profile (key or id)")
	flagSet.StringVar(&gpu, "gpu", "", "GPU profile (key or id)")
	flagSet.StringVar(&dns, "dns", "", "DNS provider (key or id)")
	flagSet.StringVar(&preset, "preset", "", "preset (key or id)")
	flagSet.StringArrayVar(&peripherals, "peripheral", nil, "peripheral profile (key or id, repeatable)")
	flagSet.StringArrayVar(&monitors, "monitor", nil, "monitor profile (key or id, repeatable)")
	flagSet.StringArrayVar(&optimizations, "opt", nil, "optimization flag (key or id, repeatable, applied in order)")
	flagSet.StringArrayVar(&packages, "package", nil, "package key (repeatable)")
	flagSet.StringVar(&baseURL, "base-url", "https://rigforge.gg/", "site the share URL points at")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit the selection and both forms as JSON")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("rigforge-share")
		return 0
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	snapshot, err := share.ParseSnapshot(tableData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: embedded table: %v\n", err)
		return 2
	}

	selection, err := buildSelection(snapshot, selectionArguments{
		cpu: cpu, gpu: gpu, dns: dns, preset: preset,
		peripherals:   peripherals,
		monitors:      monitors,
		optimizations: optimizations,
		packages:      packages,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if selection.IsEmpty() {
		fmt.Fprintf(os.Stderr, "error: nothing selected\n")
		return 2
	}

	encoder := share.NewEncoder(snapshot)
	fragment, err := encoder.EncodeFragment(selection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	query, err := encoder.EncodeQuery(selection)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	url := baseURL + "#b=" + fragment
	oneLiner := fmt.Sprintf("RIGFORGE_SHARE='%s' rigforge-apply", query)

	if jsonOutput {
		report := struct {
			Selection share.Selection `json:"selection"`
			URL       string          `json:"url"`
			OneLiner  string          `json:"one_liner"`
		}{selection, url, oneLiner}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		return 0
	}

	fmt.Printf("share URL:  %s\n", url)
	fmt.Printf("one-liner:  %s\n", oneLiner)
	return 0
}

type selectionArguments struct {
	cpu           string
	gpu           string
	dns           string
	preset        string
	peripherals   []string
	monitors      []string
	optimizations []string
	packages      []string
}

// buildSelection resolves user-facing arguments (keys or literal ids)
// into a numeric selection. Packages pass through as keys — that is
// their wire form.
func buildSelection(snapshot *share.Snapshot, arguments selectionArguments) (share.Selection, error) {
	var selection share.Selection
	var err error

	resolveScalar := func(category registry.Category, value string) (int, error) {
		if value == "" {
			return 0, nil
		}
		return resolve(snapshot, category, value)
	}

	if selection.CPU, err = resolveScalar(registry.CategoryCPU, arguments.cpu); err != nil {
		return share.Selection{}, err
	}
	if selection.GPU, err = resolveScalar(registry.CategoryGPU, arguments.gpu); err != nil {
		return share.Selection{}, err
	}
	if selection.DNS, err = resolveScalar(registry.CategoryDNS, arguments.dns); err != nil {
		return share.Selection{}, err
	}
	if selection.Preset, err = resolveScalar(registry.CategoryPreset, arguments.preset); err != nil {
		return share.Selection{}, err
	}

	resolveList := func(category registry.Category, values []string) ([]int, error) {
		var ids []int
		for _, value := range values {
			id, err := resolve(snapshot, category, value)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil
	}

	if selection.Peripherals, err = resolveList(registry.CategoryPeripheral, arguments.peripherals); err != nil {
		return share.Selection{}, err
	}
	if selection.Monitors, err = resolveList(registry.CategoryMonitor, arguments.monitors); err != nil {
		return share.Selection{}, err
	}
	if selection.Optimizations, err = resolveList(registry.CategoryOptimization, arguments.optimizations); err != nil {
		return share.Selection{}, err
	}

	selection.Packages = arguments.packages
	return selection, nil
}

// resolve accepts either a semantic key or a literal id. Numeric
// input is treated as an id and must be live; everything else is a
// key lookup.
func resolve(snapshot *share.Snapshot, category registry.Category, value string) (int, error) {
	if id, err := strconv.Atoi(value); err == nil {
		if _, ok := snapshot.Resolve(category, id); !ok {
			return 0, fmt.Errorf("%s id %d is not live (never assigned, or retired)", category, id)
		}
		return id, nil
	}
	id, ok := snapshot.Lookup(category, value)
	if !ok {
		return 0, fmt.Errorf("unknown %s %q", category, value)
	}
	return id, nil
}
