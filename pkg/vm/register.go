package vm

const (
	// NumRegisters is the size of the register file.
	NumRegisters = 32

	// ResultRegister is the index of R0. On a successful HALT its value
	// is the externally observable output of the run.
	ResultRegister = 0
)

// RegisterFile holds the 32 general-purpose machine-word registers.
type RegisterFile struct {
	R [NumRegisters]uint32
}

// NewRegisterFile creates a register file with all registers zeroed.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{}
}

// Reset zeroes every register.
func (rf *RegisterFile) Reset() {
	for i := range rf.R {
		rf.R[i] = 0
	}
}

// Result returns the value of the result register, R0.
func (rf *RegisterFile) Result() uint32 {
	return rf.R[ResultRegister]
}
