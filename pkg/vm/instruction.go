package vm

// Instruction represents one 32-bit big-endian instruction word.
//
// Layout:
// ┌─────────┬─────┬───────┬───────┬───────┬──────────┐
// │ opcode  │ imm │  dst  │ src1  │ src2  │ reserved │
// │ 5 bits  │1 bit│5 bits │5 bits │5 bits │ 11 bits  │
// └─────────┴─────┴───────┴───────┴───────┴──────────┘
//
// BNZ repurposes the low bits as a signed branch offset:
// ┌─────────┬─────┬───────┬──────────────────────────┐
// │ opcode  │  0  │  reg  │     offset (signed)      │
// │ 5 bits  │1 bit│5 bits │         21 bits          │
// └─────────┴─────┴───────┴──────────────────────────┘
//
// When the imm flag is set (MOVE and ADD only), the instruction takes a
// full 32-bit literal from the next word in the stream and the PC
// advances by 2 instead of 1.
type Instruction uint32

const (
	opcodeShift = 27
	immFlag     = 1 << 26
	dstShift    = 21
	src1Shift   = 16
	src2Shift   = 11
	regMask     = 0x1F

	offsetMask = 0x1FFFFF // 21-bit branch offset
	offsetSign = 1 << 20
)

// EncodeMove encodes the register form of MOVE.
func EncodeMove(dst, src uint8) Instruction {
	return Instruction(uint32(OpMove)<<opcodeShift |
		uint32(dst&regMask)<<dstShift |
		uint32(src&regMask)<<src1Shift)
}

// EncodeMoveImm encodes the immediate form of MOVE. The 32-bit literal
// occupies the following word.
func EncodeMoveImm(dst uint8) Instruction {
	return Instruction(uint32(OpMove)<<opcodeShift | immFlag |
		uint32(dst&regMask)<<dstShift)
}

// EncodeAdd encodes the register form of ADD.
func EncodeAdd(dst, src1, src2 uint8) Instruction {
	return Instruction(uint32(OpAdd)<<opcodeShift |
		uint32(dst&regMask)<<dstShift |
		uint32(src1&regMask)<<src1Shift |
		uint32(src2&regMask)<<src2Shift)
}

// EncodeAddImm encodes the immediate form of ADD. The 32-bit literal
// occupies the following word.
func EncodeAddImm(dst, src1 uint8) Instruction {
	return Instruction(uint32(OpAdd)<<opcodeShift | immFlag |
		uint32(dst&regMask)<<dstShift |
		uint32(src1&regMask)<<src1Shift)
}

// EncodeBnz encodes BNZ with a signed word-granular offset relative to
// the BNZ instruction's own word.
func EncodeBnz(reg uint8, offset int32) Instruction {
	return Instruction(uint32(OpBnz)<<opcodeShift |
		uint32(reg&regMask)<<dstShift |
		uint32(offset)&offsetMask)
}

// EncodeHalt encodes HALT.
func EncodeHalt() Instruction {
	return Instruction(uint32(OpHalt) << opcodeShift)
}

// Opcode returns the opcode (bits 31-27).
func (i Instruction) Opcode() Opcode {
	return Opcode(i >> opcodeShift)
}

// Immediate reports whether the immediate-mode flag (bit 26) is set.
func (i Instruction) Immediate() bool {
	return i&immFlag != 0
}

// Dst returns operand A (bits 25-21): the destination register for
// MOVE/ADD, the tested register for BNZ.
func (i Instruction) Dst() uint8 {
	return uint8(i>>dstShift) & regMask
}

// Src1 returns operand B (bits 20-16).
func (i Instruction) Src1() uint8 {
	return uint8(i>>src1Shift) & regMask
}

// Src2 returns operand C (bits 15-11).
func (i Instruction) Src2() uint8 {
	return uint8(i>>src2Shift) & regMask
}

// Offset returns the sign-extended 21-bit branch offset (bits 20-0).
func (i Instruction) Offset() int32 {
	off := int32(i & offsetMask)
	if i&offsetSign != 0 {
		off -= 1 << 21
	}
	return off
}

// String returns the mnemonic of the instruction's opcode.
func (i Instruction) String() string {
	return i.Opcode().String()
}
