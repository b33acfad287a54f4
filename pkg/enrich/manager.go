// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package enrich implements gene-set over-representation analysis:
// GMT libraries, identifier mapping, the hypergeometric test and the
// manager tying them together.
package enrich

import (
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// Manager runs enrichment analyses end to end: identifier mapping,
// per-library testing, merging and cutoff filtering.
type Manager struct {
	enricher  api.Enricher
	mapper    api.Mapper
	libraries []*api.Library

	// libNamespace is the identifier namespace of the libraries
	libNamespace api.IDType

	pvalueCutoff float64
	qvalueCutoff float64

	cache *Cache
}

// New creates a manager with clusterProfiler-style defaults and
// applies the given options.
func New(fn ...InitFunc) (*Manager, error) {
	manager := &Manager{
		enricher:     NewEngine(),
		libNamespace: api.IDTypeEntrez,
		pvalueCutoff: 0.05,
		qvalueCutoff: 0.2,
	}
	for _, f := range fn {
		if err := f(manager); err != nil {
			return nil, err
		}
	}
	if len(manager.libraries) == 0 {
		return nil, fmt.Errorf("no gene set libraries configured")
	}
	return manager, nil
}

// Run analyzes a gene list given in the from namespace and returns the
// merged, filtered result table.
func (m *Manager) Run(genes []string, from api.IDType, analysis, organism string) (*api.Result, error) {
	if len(genes) == 0 {
		return nil, fmt.Errorf("gene list is empty")
	}

	// The cache key is built from the mapped query, so lists given in
	// different namespaces (or through different mapping tables) never
	// collide.
	query, err := m.mapGenes(genes, from)
	if err != nil {
		return nil, err
	}
	scope := m.scope()

	if m.cache != nil {
		if res, ok := m.cache.Get(query, analysis, organism, scope); ok {
			logrus.Infof("Using cached %s result for %d genes", analysis, len(genes))
			return m.finish(res), nil
		}
	}

	res := &api.Result{Analysis: analysis, Organism: organism}
	for _, lib := range m.libraries {
		rows, err := m.enricher.Enrich(lib, query)
		if err != nil {
			return nil, fmt.Errorf("enriching against %s: %w", lib.Name, err)
		}
		logrus.Debugf("%s: %d sets with query hits", lib.Name, len(rows))
		res.Rows = append(res.Rows, rows...)
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("no gene sets with query hits in any of the %d libraries", len(m.libraries))
	}

	if m.cache != nil {
		// Cached pre-filter, so later runs can apply other cutoffs
		if err := m.cache.Put(query, analysis, organism, scope, res); err != nil {
			logrus.Warnf("Could not cache result: %v", err)
		}
	}
	return m.finish(res), nil
}

// scope fingerprints the tested libraries so cached results are bound
// to the gene set collections that produced them.
func (m *Manager) scope() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s", m.libNamespace)
	for _, lib := range m.libraries {
		fmt.Fprintf(h, "|%s:%d", lib.Name, len(lib.Sets))
		for _, set := range lib.Sets {
			fmt.Fprintf(h, ";%s=%d", set.ID, set.Size())
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}

func (m *Manager) finish(res *api.Result) *api.Result {
	res.Rows = m.filter(res.Rows)
	sort.SliceStable(res.Rows, func(a, b int) bool {
		return res.Rows[a].PValue < res.Rows[b].PValue
	})
	logrus.Infof("%d enriched sets pass the cutoffs", len(res.Rows))
	return res
}

func (m *Manager) mapGenes(genes []string, from api.IDType) ([]string, error) {
	if from == m.libNamespace {
		return genes, nil
	}
	if m.mapper == nil {
		return nil, fmt.Errorf("query is %s but libraries use %s and no mapping table is configured", from, m.libNamespace)
	}

	mapped, dropped, err := m.mapper.Map(genes, from, m.libNamespace)
	if err != nil {
		return nil, fmt.Errorf("mapping identifiers: %w", err)
	}
	if len(mapped) == 0 {
		return nil, fmt.Errorf("none of the %d query genes could be mapped from %s to %s", len(genes), from, m.libNamespace)
	}
	if len(dropped) > 0 {
		logrus.Warnf("%.1f%% of input genes failed to map from %s to %s",
			100*float64(len(dropped))/float64(len(genes)), from, m.libNamespace)
	}
	return mapped, nil
}

func (m *Manager) filter(rows []*api.Enrichment) []*api.Enrichment {
	kept := []*api.Enrichment{}
	for _, row := range rows {
		if row.AdjustedP <= m.pvalueCutoff && row.QValue <= m.qvalueCutoff {
			kept = append(kept, row)
		}
	}
	return kept
}
