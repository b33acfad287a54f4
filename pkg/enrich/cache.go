// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/biofrost-dev/biofrost/pkg/fileio"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// Cache stores computed enrichment results keyed by a digest of the
// gene list, so repeated runs over the same list are free. Cached
// results are pre-filter: report cutoffs are applied after reading.
type Cache struct {
	Dir string
}

// NewCache opens (and creates if needed) a result cache directory. An
// empty dir selects <tmp>/biofrost.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "biofrost")
	}
	path, err := fileio.CheckDir(dir)
	if err != nil {
		return nil, fmt.Errorf("opening cache directory: %w", err)
	}
	return &Cache{Dir: path}, nil
}

// token digests the sorted gene list, the analysis coordinates and the
// caller-supplied scope (the identity of the tested libraries).
// Sorting makes the key independent of input order.
func (c *Cache) token(genes []string, analysis, organism, scope string) string {
	sorted := slices.Clone(genes)
	slices.Sort(sorted)

	h := sha256.New()
	h.Write([]byte(strings.Join(sorted, "\n")))
	h.Write([]byte("\n" + analysis + "\n" + organism + "\n" + scope))
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

func (c *Cache) path(genes []string, analysis, organism, scope string) string {
	return filepath.Join(c.Dir, fmt.Sprintf("enrich_%s_%s.json", c.token(genes, analysis, organism, scope), analysis))
}

// Get returns a cached result for the gene list, if any.
func (c *Cache) Get(genes []string, analysis, organism, scope string) (*api.Result, bool) {
	data, err := os.ReadFile(c.path(genes, analysis, organism, scope))
	if err != nil {
		return nil, false
	}
	res := &api.Result{}
	if err := json.Unmarshal(data, res); err != nil {
		return nil, false
	}
	return res, true
}

// Put stores a result for the gene list.
func (c *Cache) Put(genes []string, analysis, organism, scope string, res *api.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(c.path(genes, analysis, organism, scope), data, os.FileMode(0o644))
}
