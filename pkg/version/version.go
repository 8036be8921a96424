// Package version defines Rain VM's two version schemes.
//
// The first is the byte version: the single leading byte of a program
// identifying which encoding revision is in use. The second is the
// dominant version: the semantic version a byte version resolves to.
// The VM accepts only programs whose resolved dominant version equals
// its own.
package version

const (
	// ByteVersion is the byte version this VM emits and accepts.
	ByteVersion uint8 = 1

	// Dominant is the dominant version this VM is built against.
	Dominant = "0.1.0"
)

// table maps byte versions to dominant versions. Byte version 0 is
// reserved and deliberately absent.
var table = map[uint8]string{
	1: "0.1.0",
}

// Lookup resolves a byte version to its dominant version.
func Lookup(b uint8) (string, bool) {
	d, ok := table[b]
	return d, ok
}

// Table returns a copy of the byte-version to dominant-version mapping.
func Table() map[uint8]string {
	m := make(map[uint8]string, len(table))
	for k, v := range table {
		m[k] = v
	}
	return m
}
