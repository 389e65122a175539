// Copyright 2026 The RigForge Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogData []byte

// Optimization is one user-facing flag. The key is the stable
// semantic name registered in lib/registry; the title is what the UI
// shows next to the toggle.
type Optimization struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
}

// Package is one installable program. Everything except Key is
// opaque installer metadata consumed by the out-of-scope effector
// runner.
type Package struct {
	Key    string `yaml:"key"`
	Name   string `yaml:"name"`
	Winget string `yaml:"winget"`
}

// Catalog is the loaded offering.
type Catalog struct {
	optimizations []Optimization
	packages      map[string]Package
	packageOrder  []string
}

type catalogFile struct {
	Optimizations []Optimization `yaml:"optimizations"`
	Packages      []Package      `yaml:"packages"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(catalogData)
}

// ReadFile parses a catalog file from disk.
func ReadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse builds a catalog from YAML. Duplicate keys are an error here,
// not an audit finding: the catalog is plain presentation data with
// no history to preserve, so a bad edit should fail fast.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	cat := &Catalog{
		optimizations: file.Optimizations,
		packages:      make(map[string]Package, len(file.Packages)),
	}

	seen := make(map[string]bool, len(file.Optimizations))
	for _, optimization := range file.Optimizations {
		if optimization.Key == "" {
			return nil, fmt.Errorf("parsing catalog: optimization with empty key")
		}
		if seen[optimization.Key] {
			return nil, fmt.Errorf("parsing catalog: duplicate optimization key %q", optimization.Key)
		}
		seen[optimization.Key] = true
	}

	for _, pkg := range file.Packages {
		if pkg.Key == "" {
			return nil, fmt.Errorf("parsing catalog: package with empty key")
		}
		if _, dup := cat.packages[pkg.Key]; dup {
			return nil, fmt.Errorf("parsing catalog: duplicate package key %q", pkg.Key)
		}
		cat.packages[pkg.Key] = pkg
		cat.packageOrder = append(cat.packageOrder, pkg.Key)
	}
	return cat, nil
}

// Optimizations returns the offered flags in catalog order.
func (c *Catalog) Optimizations() []Optimization {
	out := make([]Optimization, len(c.optimizations))
	copy(out, c.optimizations)
	return out
}

// OptimizationKeys returns just the keys, in catalog order.
func (c *Catalog) OptimizationKeys() []string {
	keys := make([]string, len(c.optimizations))
	for i, optimization := range c.optimizations {
		keys[i] = optimization.Key
	}
	return keys
}

// Package looks up an installable by its share-payload key.
func (c *Catalog) Package(key string) (Package, bool) {
	pkg, ok := c.packages[key]
	return pkg, ok
}

// PackageKeys returns the offered package keys in catalog order.
func (c *Catalog) PackageKeys() []string {
	keys := make([]string, len(c.packageOrder))
	copy(keys, c.packageOrder)
	return keys
}
