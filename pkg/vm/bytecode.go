package vm

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rainlang/rainvm/pkg/version"
)

// Bytecode file format:
// - Byte 0: byte version (resolved through pkg/version)
// - Bytes 1..N: instruction stream, big-endian, in strict 4-byte words
//
// A trailing partial word is not rejected here; it is recorded on the
// Program and faults with ErrTruncatedStream when the PC reaches it.

var (
	ErrMissingVersion  = errors.New("missing version byte")
	ErrVersionMismatch = errors.New("version mismatch")
)

// Program is the decoded form of a Rain VM program.
type Program struct {
	Code []Instruction

	// ByteVersion is the byte version the program was parsed with.
	// Zero means "use the VM's own" when serializing.
	ByteVersion uint8

	// Trailing counts leftover bytes after the last full word.
	Trailing int
}

// ParseProgram runs the version gate and decodes the instruction
// stream. The gate fails before any instruction is decoded: an unknown
// byte version, or one whose dominant version differs from the VM's
// own, is a version mismatch.
func ParseProgram(data []byte) (*Program, error) {
	if len(data) == 0 {
		return nil, ErrMissingVersion
	}

	bv := data[0]
	dominant, ok := version.Lookup(bv)
	if !ok {
		return nil, fmt.Errorf("%w: byte version %d has no dominant version", ErrVersionMismatch, bv)
	}
	if dominant != version.Dominant {
		return nil, fmt.Errorf("%w: byte version %d resolves to %s, this VM is %s",
			ErrVersionMismatch, bv, dominant, version.Dominant)
	}

	body := data[1:]
	n := len(body) / 4
	code := make([]Instruction, n)
	for i := range code {
		code[i] = Instruction(binary.BigEndian.Uint32(body[i*4:]))
	}

	return &Program{
		Code:        code,
		ByteVersion: bv,
		Trailing:    len(body) % 4,
	}, nil
}

// SerializeProgram emits the program in the bytecode file format:
// version byte followed by big-endian instruction words. Round-trips
// with ParseProgram.
func SerializeProgram(p *Program) []byte {
	buf := make([]byte, 1+4*len(p.Code))
	buf[0] = p.byteVersion()
	for i, inst := range p.Code {
		binary.BigEndian.PutUint32(buf[1+i*4:], uint32(inst))
	}
	return buf
}

func (p *Program) byteVersion() uint8 {
	if p.ByteVersion == 0 {
		return version.ByteVersion
	}
	return p.ByteVersion
}

// Disassemble renders a program as a textual listing. The left column
// is the word index; immediate literals are folded into their
// instruction's line. The listing is display-only: there is no textual
// assembly syntax, and nothing parses this output back.
func Disassemble(p *Program) string {
	var buf bytes.Buffer

	bv := p.byteVersion()
	dominant, _ := version.Lookup(bv)
	fmt.Fprintf(&buf, "; rain-vm bytecode, byte version %d (dominant %s)\n", bv, dominant)
	fmt.Fprintf(&buf, "; %d words\n\n", len(p.Code))

	for pc := 0; pc < len(p.Code); {
		line, width := disassembleAt(p, pc)
		fmt.Fprintf(&buf, "%04d: %s\n", pc, line)
		pc += width
	}

	if p.Trailing > 0 {
		fmt.Fprintf(&buf, "; %d trailing byte(s), not a full word\n", p.Trailing)
	}

	return buf.String()
}

// disassembleAt renders the instruction at word index pc and reports
// how many words it occupies.
func disassembleAt(p *Program, pc int) (string, int) {
	inst := p.Code[pc]
	op := inst.Opcode()

	switch op {
	case OpMove:
		if inst.Immediate() {
			if pc+1 >= len(p.Code) {
				return fmt.Sprintf("%-5s R%d, #<missing literal>", op, inst.Dst()), 1
			}
			return fmt.Sprintf("%-5s R%d, #%d", op, inst.Dst(), uint32(p.Code[pc+1])), 2
		}
		return fmt.Sprintf("%-5s R%d, R%d", op, inst.Dst(), inst.Src1()), 1

	case OpHalt:
		return op.String(), 1

	case OpAdd:
		if inst.Immediate() {
			if pc+1 >= len(p.Code) {
				return fmt.Sprintf("%-5s R%d, R%d, #<missing literal>", op, inst.Dst(), inst.Src1()), 1
			}
			return fmt.Sprintf("%-5s R%d, R%d, #%d", op, inst.Dst(), inst.Src1(), uint32(p.Code[pc+1])), 2
		}
		return fmt.Sprintf("%-5s R%d, R%d, R%d", op, inst.Dst(), inst.Src1(), inst.Src2()), 1

	case OpBnz:
		return fmt.Sprintf("%-5s R%d, %+d", op, inst.Dst(), inst.Offset()), 1

	default:
		return fmt.Sprintf("%-5s 0x%08X", op, uint32(inst)), 1
	}
}
