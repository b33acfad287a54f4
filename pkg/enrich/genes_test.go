// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadGeneList(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "genes.txt")
	require.NoError(t, os.WriteFile(path, []byte("TP53\n\n  CASP3  \nTP53\nBAX\n"), 0o644))

	genes, err := ReadGeneList(path)
	require.NoError(t, err)
	require.Equal(t, []string{"TP53", "CASP3", "BAX"}, genes)
}

func TestReadGeneListEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n"), 0o644))

	_, err := ReadGeneList(path)
	require.Error(t, err)

	_, err = ReadGeneList(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
