// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package enrich

import (
	"fmt"

	api "github.com/biofrost-dev/biofrost/pkg/api/v1"
)

// InitFunc configures a Manager at construction time.
type InitFunc func(*Manager) error

// WithEnricher swaps the statistical engine.
func WithEnricher(e api.Enricher) InitFunc {
	return func(m *Manager) error {
		if e == nil {
			return fmt.Errorf("enricher not defined")
		}
		m.enricher = e
		return nil
	}
}

// WithMapper sets the identifier mapper used when the query namespace
// differs from the library namespace.
func WithMapper(mapper api.Mapper) InitFunc {
	return func(m *Manager) error {
		if mapper == nil {
			return fmt.Errorf("mapper not defined")
		}
		m.mapper = mapper
		return nil
	}
}

// WithLibrary adds an in-memory gene set library.
func WithLibrary(lib *api.Library) InitFunc {
	return func(m *Manager) error {
		if lib == nil {
			return fmt.Errorf("library not defined")
		}
		m.libraries = append(m.libraries, lib)
		return nil
	}
}

// WithLibraryFile loads a GMT file and adds it under the given tag.
func WithLibraryFile(name, path string) InitFunc {
	return func(m *Manager) error {
		lib, err := LoadLibrary(name, path)
		if err != nil {
			return err
		}
		m.libraries = append(m.libraries, lib)
		return nil
	}
}

// WithLibraryNamespace declares the identifier namespace the gene set
// libraries are keyed in (default ENTREZID).
func WithLibraryNamespace(t api.IDType) InitFunc {
	return func(m *Manager) error {
		m.libNamespace = t
		return nil
	}
}

// WithCutoffs sets the adjusted p-value and q-value report cutoffs.
func WithCutoffs(pvalue, qvalue float64) InitFunc {
	return func(m *Manager) error {
		if pvalue <= 0 || pvalue > 1 || qvalue <= 0 || qvalue > 1 {
			return fmt.Errorf("cutoffs must be in (0, 1]")
		}
		m.pvalueCutoff = pvalue
		m.qvalueCutoff = qvalue
		return nil
	}
}

// WithCache enables result caching in the given directory; an empty
// directory selects the system temp dir.
func WithCache(dir string) InitFunc {
	return func(m *Manager) error {
		cache, err := NewCache(dir)
		if err != nil {
			return err
		}
		m.cache = cache
		return nil
	}
}
