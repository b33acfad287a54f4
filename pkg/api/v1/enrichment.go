// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package v1

import (
	"fmt"
	"strings"
)

// Enrichment is one row of an over-representation result: a gene set
// together with the statistics of its overlap with the query list.
type Enrichment struct {
	// Ontology is the library tag the set was tested in (BP/CC/MF/KEGG)
	Ontology string `json:"ontology"`

	// ID and Description identify the gene set
	ID          string `json:"id"`
	Description string `json:"description"`

	// QueryHits / QuerySize are the GeneRatio numerator and denominator
	QueryHits int `json:"query_hits"`
	QuerySize int `json:"query_size"`

	// SetSize / UniverseSize are the BgRatio numerator and denominator
	SetSize      int `json:"set_size"`
	UniverseSize int `json:"universe_size"`

	// PValue is the hypergeometric upper tail probability
	PValue float64 `json:"pvalue"`

	// AdjustedP is the Benjamini-Hochberg corrected p-value
	AdjustedP float64 `json:"p_adjust"`

	// QValue is the Storey q-value
	QValue float64 `json:"qvalue"`

	// Genes are the query genes found in the set
	Genes []string `json:"genes"`
}

// GeneRatio renders the query overlap as the k/n fraction string used
// in clusterProfiler tables.
func (e *Enrichment) GeneRatio() string {
	return fmt.Sprintf("%d/%d", e.QueryHits, e.QuerySize)
}

// BgRatio renders the background fraction as K/N.
func (e *Enrichment) BgRatio() string {
	return fmt.Sprintf("%d/%d", e.SetSize, e.UniverseSize)
}

// GeneID joins the overlapping genes with "/" for tabular output.
func (e *Enrichment) GeneID() string {
	return strings.Join(e.Genes, "/")
}

// Result is a merged enrichment table, the unit written to CSV.
type Result struct {
	// Analysis is the requested analysis (GO or KEGG)
	Analysis string `json:"analysis"`

	// Organism is the organism code the libraries belong to
	Organism string `json:"organism"`

	// Rows are the merged, p-value sorted enrichment rows
	Rows []*Enrichment `json:"rows"`
}

// ResultWriter persists an enrichment result somewhere (file, stdout).
type ResultWriter interface {
	WriteResult(res *Result) error
}
