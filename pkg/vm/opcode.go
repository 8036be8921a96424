package vm

import "fmt"

// Opcode is the 5-bit operation selector occupying the top bits of an
// instruction word.
type Opcode uint8

const (
	OpMove Opcode = 0 // R[dst] = R[src], or R[dst] = literal (immediate form)
	OpHalt Opcode = 1 // stop execution; R0 holds the result of the run
	OpAdd  Opcode = 2 // R[dst] = R[src1] + R[src2], 32-bit wraparound
	OpBnz  Opcode = 3 // if R[reg] != 0, PC += offset (word-granular)

	// NumOpcodes bounds the defined opcode space. The 5-bit field admits
	// values up to 31; everything in [NumOpcodes, 31] is undefined and
	// faults at decode.
	NumOpcodes = 4
)

// Valid reports whether the opcode is defined.
func (o Opcode) Valid() bool {
	return o < NumOpcodes
}

// String returns the mnemonic for an opcode.
func (o Opcode) String() string {
	switch o {
	case OpMove:
		return "MOVE"
	case OpHalt:
		return "HALT"
	case OpAdd:
		return "ADD"
	case OpBnz:
		return "BNZ"
	default:
		return fmt.Sprintf("UNDEF_%02X", uint8(o))
	}
}
