// Package loader reads Rain VM program bytes from external sources.
//
// The VM only requires a byte sequence; this package supplies one from
// the usual places: a file, an io.Reader, or a hand-written hex
// listing. Validation of the bytes themselves (version gate, word
// grouping) belongs to vm.ParseProgram.
package loader

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadFile reads a program file.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program %s: %w", path, err)
	}
	return data, nil
}

// Read reads a program from an arbitrary byte source.
func Read(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}
	return data, nil
}

// ParseHex decodes a hex text listing into raw program bytes,
// version byte included. The format exists so programs can be written
// by hand without an assembler. Whitespace separates tokens, each token
// is an even-length run of hex digits, and ';' starts a comment running
// to end of line:
//
//	01          ; byte version
//	04200000    ; MOVE R1, #...
//	0000002A    ; ...42
//	08000000    ; HALT
func ParseHex(text string) ([]byte, error) {
	var out []byte
	for ln, line := range strings.Split(text, "\n") {
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}
		for _, tok := range strings.Fields(line) {
			b, err := hex.DecodeString(tok)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid hex %q: %w", ln+1, tok, err)
			}
			out = append(out, b...)
		}
	}
	return out, nil
}

// ReadHexFile reads and decodes a hex listing file.
func ReadHexFile(path string) ([]byte, error) {
	data, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseHex(string(data))
}
