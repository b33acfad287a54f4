// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

// Package fileio has small helpers shared by the parsers: transparent
// gzip handling and path checks.
package fileio

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

var gzipMagic = []byte{0x1f, 0x8b}

// IsGzipped reports whether the file starts with the gzip magic bytes.
func IsGzipped(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	magic := make([]byte, 2)
	if _, err := io.ReadFull(f, magic); err != nil {
		// Files shorter than the magic cannot be gzipped
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, fmt.Errorf("reading magic bytes: %w", err)
	}
	return bytes.Equal(magic, gzipMagic), nil
}

type gzReadCloser struct {
	io.Reader
	gz *gzip.Reader
	f  *os.File
}

func (g *gzReadCloser) Close() error {
	if err := g.gz.Close(); err != nil {
		g.f.Close() //nolint:errcheck
		return err
	}
	return g.f.Close()
}

// Open opens a possibly gzipped file for reading, sniffing the
// compression from the magic bytes rather than the file name.
func Open(path string) (io.ReadCloser, error) {
	gzipped, err := IsGzipped(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	if !gzipped {
		return f, nil
	}

	gz, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close() //nolint:errcheck
		return nil, fmt.Errorf("opening gzip stream of %s: %w", path, err)
	}
	return &gzReadCloser{Reader: gz, gz: gz, f: f}, nil
}

// CheckFile verifies path points to a regular file and returns its
// absolute path.
func CheckFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%s not found", path)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory, not a file", path)
	}
	return filepath.Abs(path)
}

// CheckDir ensures a directory exists, creating it when missing. It
// errors when the path exists but is a file.
func CheckDir(path string) (string, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil && info.IsDir():
		// already there
	case err == nil:
		return "", fmt.Errorf("directory %s conflicts with an existing file", path)
	default:
		if err := os.MkdirAll(path, os.FileMode(0o755)); err != nil {
			return "", fmt.Errorf("creating directory %s: %w", path, err)
		}
	}
	return filepath.Abs(path)
}
