// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

func TestManagerRun(t *testing.T) {
	t.Parallel()

	mgr, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(testLibrary()),
		WithLibraryNamespace(api.IDTypeSymbol),
	)
	require.NoError(t, err)

	res, err := mgr.Run([]string{"g1", "g2", "g3", "g4", "g5"}, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Equal(t, "GO", res.Analysis)
	require.Equal(t, "Hs", res.Organism)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "GO:0000001", res.Rows[0].ID)
}

func TestManagerMapping(t *testing.T) {
	t.Parallel()

	mapper, err := ParseMapper(strings.NewReader(mappingTable))
	require.NoError(t, err)

	lib := &api.Library{
		Name: "KEGG",
		Sets: []*api.GeneSet{
			{ID: "hsa04210", Description: "Apoptosis", Genes: []string{"7157", "836", "581"}},
			{ID: "hsa04110", Description: "Cell cycle", Genes: []string{"595", "1026", "983"}},
		},
	}
	mgr, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(lib),
		WithMapper(mapper),
	)
	require.NoError(t, err)

	res, err := mgr.Run([]string{"TP53", "CASP3", "BAX"}, api.IDTypeSymbol, "KEGG", "Hs")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "hsa04210", res.Rows[0].ID)
	require.Equal(t, 3, res.Rows[0].QueryHits)

	// no mapper configured but namespaces differ
	mgr, err = New(WithEnricher(&Engine{MinSetSize: 1}), WithLibrary(lib))
	require.NoError(t, err)
	_, err = mgr.Run([]string{"TP53"}, api.IDTypeSymbol, "KEGG", "Hs")
	require.Error(t, err)
}

func TestManagerCache(t *testing.T) {
	t.Parallel()

	mgr, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(testLibrary()),
		WithLibraryNamespace(api.IDTypeSymbol),
		WithCache(t.TempDir()),
	)
	require.NoError(t, err)

	genes := []string{"g1", "g2", "g3", "g4", "g5"}
	first, err := mgr.Run(genes, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)

	second, err := mgr.Run(genes, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Equal(t, len(first.Rows), len(second.Rows))
	require.Equal(t, first.Rows[0].ID, second.Rows[0].ID)
}

func TestManagerCacheCutoffs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	genes := []string{"g1", "g2", "g3", "g4", "g5"}

	loose, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(testLibrary()),
		WithLibraryNamespace(api.IDTypeSymbol),
		WithCutoffs(1, 1),
		WithCache(dir),
	)
	require.NoError(t, err)
	res, err := loose.Run(genes, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)

	// a stricter manager sharing the cache applies its own cutoffs
	strict, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(testLibrary()),
		WithLibraryNamespace(api.IDTypeSymbol),
		WithCutoffs(1e-9, 1e-9),
		WithCache(dir),
	)
	require.NoError(t, err)
	res, err = strict.Run(genes, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Empty(t, res.Rows)
}

func TestManagerCacheLibraries(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	genes := []string{"g1", "g2", "g3", "g4", "g5"}

	mgr, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(testLibrary()),
		WithLibraryNamespace(api.IDTypeSymbol),
		WithCache(dir),
	)
	require.NoError(t, err)
	res, err := mgr.Run(genes, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Equal(t, "GO:0000001", res.Rows[0].ID)

	// a different library never sees the first library's cache entry
	other := &api.Library{
		Name: "CC",
		Sets: []*api.GeneSet{
			{ID: "GO:0009999", Description: "other", Genes: []string{"g1", "g2", "g3", "g4", "g5"}},
		},
	}
	mgr, err = New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(other),
		WithLibraryNamespace(api.IDTypeSymbol),
		WithCache(dir),
	)
	require.NoError(t, err)
	res, err = mgr.Run(genes, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "GO:0009999", res.Rows[0].ID)
}

func TestManagerPartialOverlap(t *testing.T) {
	t.Parallel()

	// the query is only annotated in the first library
	other := &api.Library{
		Name: "CC",
		Sets: []*api.GeneSet{
			{ID: "GO:0005737", Description: "cytoplasm", Genes: []string{"x1", "x2", "x3"}},
		},
	}
	mgr, err := New(
		WithEnricher(&Engine{MinSetSize: 1}),
		WithLibrary(testLibrary()),
		WithLibrary(other),
		WithLibraryNamespace(api.IDTypeSymbol),
	)
	require.NoError(t, err)

	res, err := mgr.Run([]string{"g1", "g2", "g3", "g4", "g5"}, api.IDTypeSymbol, "GO", "Hs")
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	require.Equal(t, "GO:0000001", res.Rows[0].ID)

	// but hits in none of the libraries is an error
	_, err = mgr.Run([]string{"nope"}, api.IDTypeSymbol, "GO", "Hs")
	require.Error(t, err)
}

func TestManagerValidation(t *testing.T) {
	t.Parallel()

	// libraries are mandatory
	_, err := New()
	require.Error(t, err)

	_, err = New(WithLibrary(testLibrary()), WithCutoffs(0, 0.2))
	require.Error(t, err)

	mgr, err := New(WithLibrary(testLibrary()))
	require.NoError(t, err)
	_, err = mgr.Run(nil, api.IDTypeSymbol, "GO", "Hs")
	require.Error(t, err)
}
