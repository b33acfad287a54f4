// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package norm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const countsTSV = `gene	s1	s2
g1	10	20
g2	0	5
g3	100	80
`

func TestReadCounts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "counts.tsv")
	require.NoError(t, os.WriteFile(path, []byte(countsTSV), 0o644))

	m, err := ReadCounts(path)
	require.NoError(t, err)
	require.Equal(t, []string{"s1", "s2"}, m.Samples)
	require.Equal(t, []string{"g1", "g2", "g3"}, m.Genes)
	require.Equal(t, []float64{10, 20}, m.Counts[0])

	cols := m.Columns()
	require.Equal(t, []float64{10, 0, 100}, cols[0])
	require.Equal(t, []float64{20, 5, 80}, cols[1])

	cols[0][0] = 42
	m.FromColumns(cols)
	require.Equal(t, 42.0, m.Counts[0][0])
}

func TestReadCountsErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.tsv")
	require.NoError(t, os.WriteFile(empty, []byte(""), 0o644))
	_, err := ReadCounts(empty)
	require.Error(t, err)

	ragged := filepath.Join(dir, "ragged.tsv")
	require.NoError(t, os.WriteFile(ragged, []byte("gene\ts1\ts2\ng1\t10\n"), 0o644))
	_, err = ReadCounts(ragged)
	require.Error(t, err)

	noGenes := filepath.Join(dir, "nogenes.tsv")
	require.NoError(t, os.WriteFile(noGenes, []byte("gene\ts1\n"), 0o644))
	_, err = ReadCounts(noGenes)
	require.Error(t, err)
}
