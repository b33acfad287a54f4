// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
	"github.com/biofrost-dev/biofrost/pkg/enrich/enrichr"
)

func TestWriteResult(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "result.csv")
	w := &CSVWriter{Path: path}

	res := &api.Result{
		Analysis: "GO",
		Organism: "Hs",
		Rows: []*api.Enrichment{
			{
				Ontology: "BP", ID: "GO:0006915", Description: "apoptotic process",
				QueryHits: 3, QuerySize: 10, SetSize: 50, UniverseSize: 2000,
				PValue: 0.001, AdjustedP: 0.003, QValue: 0.002,
				Genes: []string{"TP53", "CASP3", "BAX"},
			},
		},
	}
	require.NoError(t, w.WriteResult(res))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, ",ONTOLOGY,ID,Description,GeneRatio,BgRatio,pvalue,p.adjust,qvalue,geneID,Count", lines[0])
	require.Equal(t, "GO:0006915,BP,GO:0006915,apoptotic process,3/10,50/2000,0.001,0.003,0.002,TP53/CASP3/BAX,3", lines[1])
}

func TestWriteClosesOnError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "result.csv")
	w := &CSVWriter{Path: path}

	// a mid-write failure surfaces but the file is closed, so the
	// same path can be written again
	err := w.write(func(cw *csv.Writer) error {
		require.NoError(t, cw.Write([]string{"partial"}))
		return errors.New("row source failed")
	})
	require.ErrorContains(t, err, "row source failed")

	require.NoError(t, w.WriteTable([]string{"A", "B"}, [][]string{{"1", "2"}}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "A,B\n1,2\n", string(data))
}

func TestWriteEnrichr(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "enrichr.csv")
	w := &CSVWriter{Path: path}

	rows := []*enrichr.Row{
		{
			Rank: 1, Term: "apoptotic process (GO:0006915)",
			PValue: 0.001, ZScore: -1.5, CombinedScore: 10.4,
			Genes: []string{"CASP3", "BAX"},
			QValue: 0.01, OldPValue: 0.002, OldQValue: 0.02,
			Group: "GO_Biological_Process_2021",
		},
	}
	require.NoError(t, w.WriteEnrichr(rows))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, "Rank,Term,p,z,CombinedScore,Genes,q,old-p,old-q,Group", lines[0])
	require.Contains(t, lines[1], "CASP3;BAX")
}

func TestWriteTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "table.csv")
	w := &CSVWriter{Path: path}

	require.NoError(t, w.WriteTable(
		[]string{"target", "abundance"},
		[][]string{{"geneA", "0.75"}, {"geneB", "0.25"}},
	))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "target,abundance\ngeneA,0.75\ngeneB,0.25\n", string(data))
}
