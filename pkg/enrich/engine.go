// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// Engine runs over-representation tests of a gene list against the
// sets of a library. The background universe is the union of all
// genes annotated in the library.
type Engine struct {
	// MinSetSize / MaxSetSize exclude gene sets outside the range
	// from testing
	MinSetSize int
	MaxSetSize int
}

// NewEngine returns an engine with the customary set size window.
func NewEngine() *Engine {
	return &Engine{MinSetSize: 10, MaxSetSize: 500}
}

// Enrich tests every eligible set of the library against the query
// genes. Multiple-testing correction is applied within the library.
// Only sets with at least one query hit are reported.
func (e *Engine) Enrich(library *api.Library, genes []string) ([]*api.Enrichment, error) {
	if library == nil || len(library.Sets) == 0 {
		return nil, fmt.Errorf("empty gene set library")
	}

	universe := library.Universe()
	query := map[string]struct{}{}
	for _, g := range genes {
		if _, ok := universe[g]; ok {
			query[g] = struct{}{}
		}
	}
	if len(query) == 0 {
		// Not an error: merged runs test several ontologies and a
		// query may be annotated in only some of them.
		logrus.Warnf("None of the %d query genes are annotated in library %s", len(genes), library.Name)
		return []*api.Enrichment{}, nil
	}

	bigN := len(universe)
	n := len(query)

	rows := []*api.Enrichment{}
	for _, set := range library.Sets {
		size := set.Size()
		if size < e.MinSetSize || (e.MaxSetSize > 0 && size > e.MaxSetSize) {
			continue
		}

		hits := []string{}
		for _, g := range set.Genes {
			if _, ok := query[g]; ok {
				hits = append(hits, g)
			}
		}
		if len(hits) == 0 {
			continue
		}

		rows = append(rows, &api.Enrichment{
			Ontology:     library.Name,
			ID:           set.ID,
			Description:  set.Description,
			QueryHits:    len(hits),
			QuerySize:    n,
			SetSize:      size,
			UniverseSize: bigN,
			PValue:       hypergeomTail(n, bigN, size, len(hits)),
			Genes:        hits,
		})
	}
	if len(rows) == 0 {
		return rows, nil
	}

	pvals := make([]float64, len(rows))
	for i, row := range rows {
		pvals[i] = row.PValue
	}
	adjusted := adjustBH(pvals)
	qs := qvalues(pvals)
	for i, row := range rows {
		row.AdjustedP = adjusted[i]
		row.QValue = qs[i]
	}

	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].PValue < rows[b].PValue
	})
	return rows, nil
}
