// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package gff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const gtfLine = `chr1	HAVANA	gene	11869	14409	.	+	.	gene_id "ENSG00000223972"; gene_name "DDX11L1";`

const gff3Line = `chr1	ensembl	exon	11869	12227	.	+	.	ID=exon1;Parent=ENST00000456328`

func TestParseLineGTF(t *testing.T) {
	t.Parallel()

	feat, err := ParseLine(gtfLine, GTF)
	require.NoError(t, err)
	require.Equal(t, "chr1", feat.Contig)
	require.Equal(t, "gene", feat.Type)
	require.Equal(t, 11869, feat.Start)
	require.Equal(t, 14409, feat.End)
	require.Equal(t, "+", feat.Strand)
	require.Equal(t, "ENSG00000223972", feat.ID())
	require.Equal(t, "DDX11L1", feat.Attribs["gene_name"])
}

func TestParseLineGFF3(t *testing.T) {
	t.Parallel()

	feat, err := ParseLine(gff3Line, GFF3)
	require.NoError(t, err)
	require.Equal(t, "exon", feat.Type)
	require.Equal(t, "exon1", feat.ID())
	require.Equal(t, "ENST00000456328", feat.Transcript())
}

func TestParseLineErrors(t *testing.T) {
	t.Parallel()

	_, err := ParseLine("chr1\tonly\tthree", GTF)
	require.Error(t, err)

	_, err = ParseLine("chr1\tx\tgene\tnotanumber\t100\t.\t+\t.\tID=1", GFF3)
	require.Error(t, err)
}

func TestEachReader(t *testing.T) {
	t.Parallel()

	data := "# comment line\n\n" + gtfLine + "\n"
	types := []string{}
	require.NoError(t, EachReader(strings.NewReader(data), GTF, func(feat *Feature) error {
		types = append(types, feat.Type)
		return nil
	}))
	require.Equal(t, []string{"gene"}, types)
}
