package vm

import "testing"

func TestRegisterFileZeroInitialized(t *testing.T) {
	rf := NewRegisterFile()
	for i, v := range rf.R {
		if v != 0 {
			t.Errorf("R%d = %d, want 0", i, v)
		}
	}
	if rf.Result() != 0 {
		t.Errorf("Result() = %d, want 0", rf.Result())
	}
}

func TestRegisterFileReset(t *testing.T) {
	rf := NewRegisterFile()
	for i := range rf.R {
		rf.R[i] = uint32(i + 1)
	}

	rf.Reset()

	for i, v := range rf.R {
		if v != 0 {
			t.Errorf("after Reset, R%d = %d, want 0", i, v)
		}
	}
}

func TestRegisterFileResult(t *testing.T) {
	rf := NewRegisterFile()
	rf.R[ResultRegister] = 0xDEADBEEF
	if rf.Result() != 0xDEADBEEF {
		t.Errorf("Result() = 0x%08X, want 0xDEADBEEF", rf.Result())
	}
}
