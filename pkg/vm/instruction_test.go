package vm

import "testing"

func TestEncodeMove(t *testing.T) {
	inst := EncodeMove(1, 30)

	if got := inst.Opcode(); got != OpMove {
		t.Errorf("Opcode() = %v, want MOVE", got)
	}
	if inst.Immediate() {
		t.Error("register-form MOVE must not set the immediate flag")
	}
	if got := inst.Dst(); got != 1 {
		t.Errorf("Dst() = %d, want 1", got)
	}
	if got := inst.Src1(); got != 30 {
		t.Errorf("Src1() = %d, want 30", got)
	}
}

func TestEncodeMoveImm(t *testing.T) {
	inst := EncodeMoveImm(31)

	if got := inst.Opcode(); got != OpMove {
		t.Errorf("Opcode() = %v, want MOVE", got)
	}
	if !inst.Immediate() {
		t.Error("immediate-form MOVE must set the immediate flag")
	}
	if got := inst.Dst(); got != 31 {
		t.Errorf("Dst() = %d, want 31", got)
	}
}

func TestEncodeAdd(t *testing.T) {
	inst := EncodeAdd(5, 10, 15)

	if got := inst.Opcode(); got != OpAdd {
		t.Errorf("Opcode() = %v, want ADD", got)
	}
	if inst.Immediate() {
		t.Error("register-form ADD must not set the immediate flag")
	}
	if got := inst.Dst(); got != 5 {
		t.Errorf("Dst() = %d, want 5", got)
	}
	if got := inst.Src1(); got != 10 {
		t.Errorf("Src1() = %d, want 10", got)
	}
	if got := inst.Src2(); got != 15 {
		t.Errorf("Src2() = %d, want 15", got)
	}
}

func TestEncodeAddImm(t *testing.T) {
	inst := EncodeAddImm(3, 4)

	if !inst.Immediate() {
		t.Error("immediate-form ADD must set the immediate flag")
	}
	if got, want := inst.Dst(), uint8(3); got != want {
		t.Errorf("Dst() = %d, want %d", got, want)
	}
	if got, want := inst.Src1(), uint8(4); got != want {
		t.Errorf("Src1() = %d, want %d", got, want)
	}
}

func TestEncodeBnzOffsets(t *testing.T) {
	tests := []struct {
		reg    uint8
		offset int32
	}{
		{0, 0},
		{1, 1},
		{2, 5},
		{3, -1},
		{7, -4},
		{31, (1 << 20) - 1}, // largest positive offset
		{31, -(1 << 20)},    // most negative offset
	}

	for _, tt := range tests {
		inst := EncodeBnz(tt.reg, tt.offset)
		if got := inst.Opcode(); got != OpBnz {
			t.Errorf("EncodeBnz(%d, %d): Opcode() = %v, want BNZ", tt.reg, tt.offset, got)
		}
		if got := inst.Dst(); got != tt.reg {
			t.Errorf("EncodeBnz(%d, %d): Dst() = %d, want %d", tt.reg, tt.offset, got, tt.reg)
		}
		if got := inst.Offset(); got != tt.offset {
			t.Errorf("EncodeBnz(%d, %d): Offset() = %d, want %d", tt.reg, tt.offset, got, tt.offset)
		}
	}
}

func TestEncodeHalt(t *testing.T) {
	inst := EncodeHalt()
	if got := inst.Opcode(); got != OpHalt {
		t.Errorf("Opcode() = %v, want HALT", got)
	}
	if uint32(inst) != 1<<27 {
		t.Errorf("EncodeHalt() = 0x%08X, want 0x08000000", uint32(inst))
	}
}

func TestOpcodeFromRawWord(t *testing.T) {
	// The opcode is the top 5 bits of the first byte of the word.
	tests := []struct {
		word uint32
		op   Opcode
	}{
		{0x00000000, OpMove},
		{0x08000000, OpHalt},
		{0x10000000, OpAdd},
		{0x18000000, OpBnz},
		{0xF8000000, Opcode(31)},
		{0x20000000, Opcode(4)},
	}

	for _, tt := range tests {
		if got := Instruction(tt.word).Opcode(); got != tt.op {
			t.Errorf("Instruction(0x%08X).Opcode() = %v, want %v", tt.word, got, tt.op)
		}
	}
}

func TestOpcodeValid(t *testing.T) {
	for op := Opcode(0); op < NumOpcodes; op++ {
		if !op.Valid() {
			t.Errorf("opcode %d should be valid", op)
		}
	}
	for op := Opcode(NumOpcodes); op < 32; op++ {
		if op.Valid() {
			t.Errorf("opcode %d should be undefined", op)
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpMove, "MOVE"},
		{OpHalt, "HALT"},
		{OpAdd, "ADD"},
		{OpBnz, "BNZ"},
		{Opcode(31), "UNDEF_1F"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Opcode(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
