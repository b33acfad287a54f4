// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package sequence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileStats(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "seqs.fa")
	data := ">s1\nACGTACGT\n>s2\nGGCC\n>s3\nAT\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	stats, err := Stats(path)
	require.NoError(t, err)
	require.Equal(t, 3, stats.Records)
	require.Equal(t, 14, stats.Bases)
	require.Equal(t, 2, stats.MinLen)
	require.Equal(t, 8, stats.MaxLen)
	require.Equal(t, 8, stats.N50)
	require.InDelta(t, 14.0/3.0, stats.MeanLen(), 1e-12)

	// 4 GC in s1, 4 in s2, 0 in s3
	require.InDelta(t, 8.0/14.0, stats.GC, 1e-12)
}

func TestFileStatsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.fa")
	_, err := Stats(path)
	require.Error(t, err)
}
