// SPDX-FileCopyrightText: Copyright 2025 The biofrost authors
// SPDX-License-Identifier: Apache-2.0

package fileio

import (
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeGzipped(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())
}

func TestOpen(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	plain := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(plain, []byte(">seq1\nACGT\n"), 0o644))

	zipped := filepath.Join(dir, "zipped.txt.gz")
	writeGzipped(t, zipped, ">seq1\nACGT\n")

	for _, path := range []string{plain, zipped} {
		r, err := Open(path)
		require.NoError(t, err)
		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, ">seq1\nACGT\n", string(data))
		require.NoError(t, r.Close())
	}

	_, err := Open(filepath.Join(dir, "missing"))
	require.Error(t, err)
}

func TestIsGzipped(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	zipped := filepath.Join(dir, "data.gz")
	writeGzipped(t, zipped, "payload")
	ok, err := IsGzipped(zipped)
	require.NoError(t, err)
	require.True(t, ok)

	plain := filepath.Join(dir, "data.txt")
	require.NoError(t, os.WriteFile(plain, []byte("payload"), 0o644))
	ok, err = IsGzipped(plain)
	require.NoError(t, err)
	require.False(t, ok)

	// too short for the magic bytes
	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte("x"), 0o644))
	ok, err = IsGzipped(short)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCheckDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	created := filepath.Join(dir, "sub", "dir")
	path, err := CheckDir(created)
	require.NoError(t, err)
	require.DirExists(t, path)

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = CheckDir(file)
	require.Error(t, err)
}

func TestCheckFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	path, err := CheckFile(file)
	require.NoError(t, err)
	require.FileExists(t, path)

	_, err = CheckFile(dir)
	require.Error(t, err)
	_, err = CheckFile(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
