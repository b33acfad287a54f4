// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package quant estimates gene or taxon abundance from read
// alignments, resolving multi-mapped reads by expectation
// maximization.
package quant

import (
	"fmt"
	"math"
	"sort"

	"github.com/sirupsen/logrus"
)

// Assignment links a read to one alignment target. A read appearing
// with several targets is multi-mapped.
type Assignment struct {
	Read   string
	Target string
}

// Options tune the EM loop.
type Options struct {
	// NoiseThreshold zeroes abundances below it between iterations
	NoiseThreshold float64

	// MaxIter caps the number of EM steps
	MaxIter int

	// MaxDelta stops iteration when the L1 change of the abundance
	// vector drops below it
	MaxDelta float64
}

// DefaultOptions mirror the customary EM settings.
func DefaultOptions() *Options {
	return &Options{
		NoiseThreshold: 0,
		MaxIter:        1000,
		MaxDelta:       1e-10,
	}
}

// Estimate is the outcome of an EM run.
type Estimate struct {
	// Abundance maps each target to its estimate. With ambiguous
	// reads present these are proportions summing to one; with only
	// uniquely mapped reads they are raw read counts.
	Abundance map[string]float64

	// Steps is the number of EM iterations performed
	Steps int
}

// EM resolves multi-mapped read assignments into target abundances.
// Uniquely mapping reads anchor the estimate; ambiguous reads are
// fractionally assigned and re-estimated until convergence.
func EM(assignments []Assignment, opts *Options) (*Estimate, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if len(assignments) == 0 {
		return nil, fmt.Errorf("no read assignments given")
	}

	// Duplicate (read, target) pairs count once
	readTargets := map[string]map[string]struct{}{}
	targetSet := map[string]struct{}{}
	for _, a := range assignments {
		if readTargets[a.Read] == nil {
			readTargets[a.Read] = map[string]struct{}{}
		}
		readTargets[a.Read][a.Target] = struct{}{}
		targetSet[a.Target] = struct{}{}
	}

	targets := make([]string, 0, len(targetSet))
	for t := range targetSet {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	uniqueCounts := map[string]float64{}
	ambiguous := map[string][]string{}
	for read, ts := range readTargets {
		if len(ts) == 1 {
			for t := range ts {
				uniqueCounts[t]++
			}
			continue
		}
		list := make([]string, 0, len(ts))
		for t := range ts {
			list = append(list, t)
		}
		sort.Strings(list)
		ambiguous[read] = list
	}

	if len(ambiguous) == 0 {
		abundance := map[string]float64{}
		for _, t := range targets {
			abundance[t] = uniqueCounts[t]
		}
		return &Estimate{Abundance: abundance, Steps: 1}, nil
	}

	nAmbiguous := float64(len(ambiguous))
	nUnique := float64(len(readTargets)) - nAmbiguous
	uniqueTotal := 0.0
	for _, c := range uniqueCounts {
		uniqueTotal += c
	}

	// Uniform prior
	current := map[string]float64{}
	for _, t := range targets {
		current[t] = 1 / float64(len(targets))
	}

	steps := 0
	for {
		// Expectation: fractionally assign each ambiguous read
		weights := map[string]float64{}
		for _, ts := range ambiguous {
			total := 0.0
			for _, t := range ts {
				total += current[t]
			}
			if total == 0 {
				continue
			}
			for _, t := range ts {
				weights[t] += current[t] / total
			}
		}

		// Maximization: blend with the unique-read anchor
		weightTotal := 0.0
		for _, w := range weights {
			weightTotal += w
		}

		next := map[string]float64{}
		for _, t := range targets {
			v := 0.0
			if weightTotal > 0 {
				v = weights[t] / weightTotal * nAmbiguous
			}
			if uniqueTotal > 0 {
				v += uniqueCounts[t] / uniqueTotal * nUnique
			}
			next[t] = v / (nAmbiguous + nUnique)
		}
		normalize(next)

		// De-noise
		if opts.NoiseThreshold > 0 {
			for t, v := range next {
				if v < opts.NoiseThreshold {
					next[t] = 0
				}
			}
			normalize(next)
		}

		delta := 0.0
		for _, t := range targets {
			delta += math.Abs(next[t] - current[t])
		}
		current = next
		steps++

		if delta <= opts.MaxDelta || steps >= opts.MaxIter {
			logrus.Debugf("EM converged after %d steps (delta %.3g)", steps, delta)
			break
		}
	}

	return &Estimate{Abundance: current, Steps: steps}, nil
}

func normalize(m map[string]float64) {
	total := 0.0
	for _, v := range m {
		total += v
	}
	if total == 0 {
		return
	}
	for k, v := range m {
		m[k] = v / total
	}
}
