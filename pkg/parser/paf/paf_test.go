// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package paf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const pafLine = "read1\t1000\t50\t950\t+\tchr1\t5000\t1200\t2100\t850\t900\t60\tNM:i:12\tde:f:0.013\ttp:A:P\tcg:Z:900M"

const pafData = `read1	1000	50	950	+	chr1	5000	1200	2100	850	900	60
read1	1000	60	940	-	chr2	4000	100	980	700	880	20
read2	500	0	500	+	chr1	5000	3000	3500	490	500	60
`

func TestParse(t *testing.T) {
	t.Parallel()

	rec, err := Parse(pafLine)
	require.NoError(t, err)
	require.Equal(t, "read1", rec.Query)
	require.Equal(t, 1000, rec.QueryLen)
	require.Equal(t, 50, rec.QueryStart)
	require.Equal(t, 950, rec.QueryEnd)
	require.Equal(t, StrandForward, rec.Strand)
	require.Equal(t, "chr1", rec.Target)
	require.Equal(t, 1200, rec.TargetStart)
	require.Equal(t, 850, rec.Matches)
	require.Equal(t, 60, rec.MapQ)

	tags, err := rec.Tags()
	require.NoError(t, err)
	require.Equal(t, 12, tags["NM"])
	require.InDelta(t, 0.013, tags["de"].(float64), 1e-12)
	require.Equal(t, "P", tags["tp"])
	require.Equal(t, "900M", tags["cg"])
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse("read1\t1000\t50")
	require.Error(t, err)

	_, err = Parse(strings.Replace(pafLine, "+", "x", 1))
	require.Error(t, err)

	rec, err := Parse("read1\t1000\t50\t950\t+\tchr1\t5000\t1200\t2100\t850\t900\t60\tNM:j:12")
	require.NoError(t, err)
	_, err = rec.Tags()
	require.Error(t, err)
}

func TestEachBatch(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aln.paf")
	require.NoError(t, os.WriteFile(path, []byte(pafData), 0o644))

	queries := []string{}
	sizes := []int{}
	require.NoError(t, EachBatch(path, func(query string, hits []*Record) error {
		queries = append(queries, query)
		sizes = append(sizes, len(hits))
		return nil
	}))
	require.Equal(t, []string{"read1", "read2"}, queries)
	require.Equal(t, []int{2, 1}, sizes)
}

func TestReadAll(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "aln.paf")
	require.NoError(t, os.WriteFile(path, []byte(pafData), 0o644))

	records, err := ReadAll(path)
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, StrandReverse, records[1].Strand)

	// String round-trips the core columns
	require.Equal(t, "read2\t500\t0\t500\t+\tchr1\t5000\t3000\t3500\t490\t500\t60", records[2].String())
}
