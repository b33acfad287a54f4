// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package norm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFactorsIdenticalSamples(t *testing.T) {
	t.Parallel()

	col := []float64{100, 200, 300, 400, 50, 80, 120, 900, 10, 60}
	factors, err := Factors([][]float64{col, col, col})
	require.NoError(t, err)
	require.Len(t, factors, 3)
	for _, f := range factors {
		require.InDelta(t, 1.0, f, 1e-12)
	}
}

func TestFactorsScaledSample(t *testing.T) {
	t.Parallel()

	// doubling a library changes depth, not composition: the factor
	// stays 1 because ratios are library-size normalized
	col := []float64{100, 200, 300, 400, 50, 80, 120, 900, 10, 60}
	doubled := make([]float64, len(col))
	for i, v := range col {
		doubled[i] = 2 * v
	}
	factors, err := Factors([][]float64{col, doubled})
	require.NoError(t, err)
	require.InDelta(t, 1.0, factors[0], 1e-9)
	require.InDelta(t, 1.0, factors[1], 1e-9)
}

func TestFactorsProperties(t *testing.T) {
	t.Parallel()

	a := []float64{100, 200, 300, 400, 50, 80, 120, 900, 10, 60}
	b := []float64{100, 200, 300, 400, 50, 80, 120, 100, 10, 60}
	c := []float64{90, 210, 280, 410, 55, 75, 130, 500, 12, 58}

	factors, err := Factors([][]float64{a, b, c})
	require.NoError(t, err)

	// factors are positive and multiply to one
	product := 1.0
	for _, f := range factors {
		require.Positive(t, f)
		product *= f
	}
	require.InDelta(t, 1.0, product, 1e-9)
}

func TestFactorsErrors(t *testing.T) {
	t.Parallel()

	_, err := Factors(nil)
	require.Error(t, err)

	_, err = Factors([][]float64{{1, 2}, {1, 2, 3}})
	require.Error(t, err)
}

func TestCPM(t *testing.T) {
	t.Parallel()

	col := []float64{100, 200, 300, 400}
	out, err := CPM([][]float64{col, col})
	require.NoError(t, err)
	require.Len(t, out, 2)

	// identical samples have factor 1: plain counts per million
	total := 0.0
	for _, v := range out[0] {
		total += v
	}
	require.InDelta(t, 1e6, total, 1e-6)
	require.InDelta(t, 1e5, out[0][0], 1e-9)
	require.InDelta(t, 4e5, out[0][3], 1e-9)
}
