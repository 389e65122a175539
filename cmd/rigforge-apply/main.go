// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/rigforge/rigforge/lib/registry"
	"github.com/rigforge/rigforge/lib/share"
	"github.com/rigforge/rigforge/lib/version"
)

//go:generate go run github.com/rigforge/rigforge/cmd/rigforge-gen

// tableData is this binary's own copy of the decoder table,
// independent of the web app's. Generated by rigforge-gen.
//
//go:embed table.json
var tableData []byte

// workItem is one entry of the ordered list handed to the effector
// runner: what to do, identified by semantic key. The id is carried
// for log correlation with the share payload.
type workItem struct {
	Kind string `json:"kind"` // "dns", "optimization", "package"
	Key  string `json:"key"`
	ID   int    `json:"id,omitempty"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var shareText string
	var jsonOutput bool

	flagSet := pflag.NewFlagSet("rigforge-apply", pflag.ContinueOnError)
	flagSet.StringVar(&shareText, "share", "", "share query string (default: $RIGFORGE_SHARE)")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit the worklist as JSON")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("rigforge-apply")
		return 0
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if shareText == "" {
		shareText = os.Getenv("RIGFORGE_SHARE")
	}
	if shareText == "" {
		fmt.Fprintf(os.Stderr, "error: no share given (set RIGFORGE_SHARE or pass --share)\n")
		return 2
	}

	snapshot, err := share.ParseSnapshot(tableData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: embedded table: %v\n", err)
		return 2
	}

	result, worklist, err := applyShare(snapshot, shareText)
	if err != nil {
		// Hard failure: the worklist is empty, never a partial one,
		// and it is still printed so wrapping scripts always see the
		// same output shape. The reason code lets them branch without
		// parsing the message.
		if coder, ok := err.(interface{ Code() string }); ok {
			fmt.Fprintf(os.Stderr, "error: %v (reason: %s)\n", err, coder.Code())
		} else {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		if jsonOutput {
			report := struct {
				Worklist []workItem `json:"worklist"`
			}{worklist}
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(report); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
		} else {
			fmt.Println("worklist: empty")
		}
		return 1
	}

	if count := result.DropCount(); count > 0 {
		fmt.Fprintf(os.Stderr, "warning: %d selection(s) in this share are not supported by this build and were skipped:\n", count)
		for _, drop := range result.Dropped {
			fmt.Fprintf(os.Stderr, "  %s id %d\n", drop.Category, drop.ID)
		}
	}

	if jsonOutput {
		report := struct {
			Selection share.Selection `json:"selection"`
			Worklist  []workItem      `json:"worklist"`
			Dropped   []share.Drop    `json:"dropped,omitempty"`
		}{result.Selection, worklist, result.Dropped}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		return 0
	}

	printProfile(snapshot, result.Selection)
	if len(worklist) == 0 {
		fmt.Println("worklist: empty")
		return 0
	}
	fmt.Println("worklist:")
	for i, item := range worklist {
		if item.ID != 0 {
			fmt.Printf("  %2d. %s %s (id %d)\n", i+1, item.Kind, item.Key, item.ID)
		} else {
			fmt.Printf("  %2d. %s %s\n", i+1, item.Kind, item.Key)
		}
	}
	return 0
}

// applyShare decodes the share and builds the worklist. On a hard
// decode failure the returned worklist is empty and non-nil — the
// caller prints it as the usual output shape alongside the error.
func applyShare(snapshot *share.Snapshot, shareText string) (share.Result, []workItem, error) {
	result, err := share.NewDecoder(snapshot).DecodeQuery(shareText)
	if err != nil {
		return share.Result{}, []workItem{}, err
	}
	return result, buildWorklist(snapshot, result.Selection), nil
}

// buildWorklist produces the ordered effector list: the DNS change
// first (network effectors before anything that might need a clean
// resolver), then optimizations in payload order, then package
// installs. Every id here resolved during decoding, so lookups
// cannot miss.
func buildWorklist(snapshot *share.Snapshot, selection share.Selection) []workItem {
	var worklist []workItem

	if selection.DNS != 0 {
		key, _ := snapshot.Resolve(registry.CategoryDNS, selection.DNS)
		worklist = append(worklist, workItem{Kind: "dns", Key: key, ID: selection.DNS})
	}
	for _, id := range selection.Optimizations {
		key, _ := snapshot.Resolve(registry.CategoryOptimization, id)
		worklist = append(worklist, workItem{Kind: "optimization", Key: key, ID: id})
	}
	for _, key := range selection.Packages {
		worklist = append(worklist, workItem{Kind: "package", Key: key})
	}
	return worklist
}

// printProfile shows the hardware context of the share. Profile
// fields select effector variants (a CPU-specific power plan, say)
// but are not work items themselves.
func printProfile(snapshot *share.Snapshot, selection share.Selection) {
	line := func(label string, category registry.Category, id int) {
		if id == 0 {
			return
		}
		key, _ := snapshot.Resolve(category, id)
		fmt.Printf("%s: %s (id %d)\n", label, key, id)
	}
	line("cpu", registry.CategoryCPU, selection.CPU)
	line("gpu", registry.CategoryGPU, selection.GPU)
	line("preset", registry.CategoryPreset, selection.Preset)
	for _, id := range selection.Peripherals {
		line("peripheral", registry.CategoryPeripheral, id)
	}
	for _, id := range selection.Monitors {
		line("monitor", registry.CategoryMonitor, id)
	}
}
