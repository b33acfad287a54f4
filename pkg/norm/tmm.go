// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package norm normalizes read count matrices: TMM scaling factors
// and counts-per-million.
package norm

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// tmm trimming parameters, as in the reference implementation.
const (
	logRatioTrim = 0.3
	sumTrim      = 0.05
	aCutoff      = -1e10
)

// Factors computes TMM normalization factors for a count matrix given
// as columns (one slice of gene counts per sample). The factors are
// scaled so their log mean is zero.
func Factors(columns [][]float64) ([]float64, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("count matrix has no samples")
	}
	genes := len(columns[0])
	for i, col := range columns {
		if len(col) != genes {
			return nil, fmt.Errorf("sample %d has %d genes, want %d", i, len(col), genes)
		}
	}

	// Pick the sample whose upper quartile is closest to the mean as
	// the reference
	f75 := make([]float64, len(columns))
	for i, col := range columns {
		sorted := append([]float64(nil), col...)
		sort.Float64s(sorted)
		f75[i] = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	}
	mean75 := stat.Mean(f75, nil)
	refIdx := 0
	for i, q := range f75 {
		if math.Abs(q-mean75) < math.Abs(f75[refIdx]-mean75) {
			refIdx = i
		}
	}

	factors := make([]float64, len(columns))
	for i, col := range columns {
		factors[i] = pairFactor(col, columns[refIdx])
	}

	// Scale so the factors multiply to one
	logSum := 0.0
	for _, f := range factors {
		logSum += math.Log(f)
	}
	scale := math.Exp(logSum / float64(len(factors)))
	for i := range factors {
		factors[i] /= scale
	}
	return factors, nil
}

// pairFactor computes the TMM factor between an observation sample
// and the reference: a weighted mean of log ratios after trimming the
// extremes of both the ratio and the absolute expression.
func pairFactor(obs, ref []float64) float64 {
	nO := floats.Sum(obs)
	nR := floats.Sum(ref)

	logR := []float64{}
	absE := []float64{}
	v := []float64{}
	for i := range obs {
		r := math.Log2((obs[i] / nO) / (ref[i] / nR))
		a := (math.Log2(obs[i]/nO) + math.Log2(ref[i]/nR)) / 2
		if math.IsInf(r, 0) || math.IsNaN(r) || math.IsInf(a, 0) || math.IsNaN(a) || a <= aCutoff {
			continue
		}
		logR = append(logR, r)
		absE = append(absE, a)
		v = append(v, (nO-obs[i])/(nO*obs[i])+(nR-ref[i])/(nR*ref[i]))
	}

	n := len(logR)
	if n == 0 {
		return 1
	}

	loL := int(math.Floor(float64(n)*logRatioTrim)) + 1
	hiL := n + 1 - loL
	loS := int(math.Floor(float64(n)*sumTrim)) + 1
	hiS := n + 1 - loS

	keep := intersect(trimmedIndexes(logR, loL, hiL), trimmedIndexes(absE, loS, hiS))

	num, den := 0.0, 0.0
	for idx := range keep {
		num += logR[idx] / v[idx]
		den += 1 / v[idx]
	}
	if den == 0 {
		return 1
	}
	f := num / den
	if math.IsNaN(f) {
		f = 0
	}
	return math.Pow(2, f)
}

// trimmedIndexes returns the original indexes of the values whose
// positions in ascending order fall in [lo, hi).
func trimmedIndexes(values []float64, lo, hi int) map[int]struct{} {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	kept := map[int]struct{}{}
	for pos := lo; pos < hi && pos < len(order); pos++ {
		if pos < 0 {
			continue
		}
		kept[order[pos]] = struct{}{}
	}
	return kept
}

func intersect(a, b map[int]struct{}) map[int]struct{} {
	out := map[int]struct{}{}
	for k := range a {
		if _, ok := b[k]; ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// CPM converts count columns to counts per million scaled by the TMM
// factors.
func CPM(columns [][]float64) ([][]float64, error) {
	factors, err := Factors(columns)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(columns))
	for s, col := range columns {
		libSize := floats.Sum(col) * factors[s]
		out[s] = make([]float64, len(col))
		for i, c := range col {
			if libSize > 0 {
				out[s][i] = 1e6 * c / libSize
			}
		}
	}
	return out, nil
}
