// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package v1

// GeneSet is a named collection of gene identifiers, typically one
// record of a GMT library (a GO term or a KEGG pathway).
type GeneSet struct {
	// ID is the set accession (GO:0006915, hsa04210, ...)
	ID string `json:"id"`

	// Description is the human readable set name
	Description string `json:"description"`

	// Genes holds the member identifiers in the library namespace
	Genes []string `json:"genes"`
}

// Size returns the number of member genes.
func (gs *GeneSet) Size() int {
	return len(gs.Genes)
}

// Library is a gene-set collection tested as one unit. GO libraries
// carry the ontology namespace (BP/CC/MF) in Name, KEGG libraries use
// the name KEGG.
type Library struct {
	// Name tags the results produced from this library (ONTOLOGY column)
	Name string `json:"name"`

	// Sets are the gene sets in the library
	Sets []*GeneSet `json:"sets"`
}

// Universe returns the set of all genes annotated in the library. The
// enrichment background is built from it.
func (l *Library) Universe() map[string]struct{} {
	universe := map[string]struct{}{}
	for _, set := range l.Sets {
		for _, g := range set.Genes {
			universe[g] = struct{}{}
		}
	}
	return universe
}

// Enricher computes over-representation results of a query gene list
// against a gene-set library.
type Enricher interface {
	Enrich(library *Library, genes []string) ([]*Enrichment, error)
}

// IDType is an identifier namespace for gene lists.
type IDType string

const (
	IDTypeSymbol  IDType = "SYMBOL"
	IDTypeEnsembl IDType = "ENSEMBL"
	IDTypeEntrez  IDType = "ENTREZID"
)

// KnownIDTypes lists the namespaces the identifier mapper understands.
var KnownIDTypes = []IDType{IDTypeSymbol, IDTypeEnsembl, IDTypeEntrez}

// Mapper translates gene identifiers between namespaces, dropping
// identifiers with no translation.
type Mapper interface {
	Map(genes []string, from, to IDType) (mapped []string, dropped []string, err error)
}
