// Package testutil provides testing utilities for Rain VM tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// ProgramBytes builds a raw program: a version byte followed by the
// given instruction words encoded big-endian.
func ProgramBytes(byteVersion uint8, words ...uint32) []byte {
	data := make([]byte, 1+4*len(words))
	data[0] = byteVersion
	for i, w := range words {
		binary.BigEndian.PutUint32(data[1+i*4:], w)
	}
	return data
}

// TempProgram writes raw program bytes to a temporary file and returns
// its path. The file is cleaned up when the test finishes.
func TempProgram(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rnb")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write temp program: %v", err)
	}
	return path
}

// TempFile creates a temporary file with the given content and extension.
func TempFile(t *testing.T, content, ext string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test"+ext)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}
