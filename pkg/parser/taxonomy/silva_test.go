// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const silvaTxt = `Archaea;	2	domain
Archaea;Aenigmarchaeota;	11084	phylum	119

Bacteria;	3	domain
`

const silvaMap = `2	Archaea
11084	Aenigmarchaeota
3	Bacteria
`

const silvaAcc = `A16379.1.1485	11084
A45315.1.1521	3
`

func testSilva(t *testing.T) *Silva {
	t.Helper()
	dir := t.TempDir()
	txt := filepath.Join(dir, "tax_slv.txt")
	mp := filepath.Join(dir, "tax_slv.map")
	acc := filepath.Join(dir, "tax_slv.acc_taxid")
	require.NoError(t, os.WriteFile(txt, []byte(silvaTxt), 0o644))
	require.NoError(t, os.WriteFile(mp, []byte(silvaMap), 0o644))
	require.NoError(t, os.WriteFile(acc, []byte(silvaAcc), 0o644))

	s, err := NewSilva(txt, mp, acc)
	require.NoError(t, err)
	return s
}

func TestSeqToTaxon(t *testing.T) {
	t.Parallel()
	s := testSilva(t)

	taxon, err := s.SeqToTaxon("A16379.1.1485")
	require.NoError(t, err)
	require.Equal(t, 11084, taxon.TaxID)
	require.Equal(t, "Aenigmarchaeota", taxon.Name)
	require.Equal(t, "Archaea;Aenigmarchaeota;", taxon.Path)
	require.Equal(t, "phylum", taxon.Rank)

	_, err = s.SeqToTaxon("X00000.1.1")
	require.Error(t, err)
}

func TestNewSilvaErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("onlyonefield\n"), 0o644))
	good := filepath.Join(dir, "good.map")
	require.NoError(t, os.WriteFile(good, []byte("2\tArchaea\n"), 0o644))

	_, err := NewSilva(bad, good, good)
	require.Error(t, err)
}
