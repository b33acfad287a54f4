// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
	"sigs.k8s.io/release-utils/util"
)

// DefaultPath returns the default configuration file location,
// .biofrost.yaml in the user's home directory.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".biofrost.yaml"
	}
	return filepath.Join(home, ".biofrost.yaml")
}

// Load reads and parses the biofrost configuration file. A missing
// file is not an error, callers get a nil Data back.
func Load(path string) (*Data, error) {
	if !util.Exists(path) {
		return nil, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	ret := &Data{}
	if err := yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("unmarshaling config file: %w", err)
	}
	return ret, nil
}

// Data is the parsed configuration file.
type Data struct {
	Organisms map[string]Organism `yaml:"organisms"`
	Taxonomy  Taxonomy            `yaml:"taxonomy"`
}

// Organism points at the reference data used to enrich gene lists
// from one species.
type Organism struct {
	// Mapping is a tab separated table translating gene identifiers
	// between namespaces (SYMBOL, ENSEMBL, ENTREZID)
	Mapping string `yaml:"mapping"`

	// GO gene set libraries in GMT format, one per ontology
	GO GOLibraries `yaml:"go"`

	// KEGG pathway library in GMT format
	KEGG string `yaml:"kegg"`
}

// GOLibraries holds the per ontology GMT paths.
type GOLibraries struct {
	BP string `yaml:"bp"`
	CC string `yaml:"cc"`
	MF string `yaml:"mf"`
}

// Taxonomy points at the NCBI taxdump files.
type Taxonomy struct {
	Nodes string `yaml:"nodes"`
	Names string `yaml:"names"`
}

// Organism looks up a species by its short code (Hs, Mm).
func (d *Data) Organism(code string) (*Organism, error) {
	if d == nil || d.Organisms == nil {
		return nil, fmt.Errorf("no organisms configured, cannot look up %q", code)
	}
	org, ok := d.Organisms[code]
	if !ok {
		return nil, fmt.Errorf("organism %q not found in configuration", code)
	}
	return &org, nil
}
