// Package vm implements the Rain VM bytecode interpreter.
//
// The VM is a register machine with 32 general-purpose 32-bit
// registers. R0 is the result register: on a successful HALT its value
// is the output of the run. Each VM owns its register file and program
// view exclusively, so independent VMs may run in parallel goroutines.
//
// Basic usage:
//
//	program, err := vm.ParseProgram(data)
//	if err != nil { ... }
//	m := vm.NewVM()
//	m.Load(program)
//	result, err := m.Execute()
//
// The VM makes no termination guarantee: a program can loop forever on
// BNZ. Callers needing bounded execution impose a step limit or a
// context:
//
//	m := vm.NewVM()
//	m.SetMaxSteps(10000)
//	m.SetContext(ctx)
//	m.Load(program)
//	result, err := m.Execute()
package vm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error definitions. Every fault is terminal for the run; the wrapped
// message carries the word index and absolute byte offset at which the
// fault occurred.
var (
	ErrInvalidOpcode     = errors.New("invalid opcode")
	ErrTruncatedStream   = errors.New("truncated instruction stream")
	ErrBranchOutOfRange  = errors.New("branch target out of range")
	ErrNoHalt            = errors.New("program ended without HALT")
	ErrStepLimitExceeded = errors.New("step limit exceeded")
)

// ExecutionStats contains metrics about VM execution for observability.
type ExecutionStats struct {
	StepsExecuted   int64          // Instructions executed
	BranchesTaken   int64          // BNZ branches taken
	ExecutionTimeNs int64          // Execution time in nanoseconds
	OpCounts        map[string]int // Count of each opcode executed
}

// VM represents one Rain VM execution: a register file, a program view,
// and a program counter.
type VM struct {
	registers RegisterFile
	code      []Instruction
	trailing  int
	pc        int
	halted    bool

	// Resource limits
	maxSteps  int64
	stepCount int64

	// Context for cancellation, checked once per fetch iteration
	ctx context.Context

	// Observability
	stats        ExecutionStats
	statsEnabled bool
}

// NewVM creates a new VM instance with a zeroed register file.
func NewVM() *VM {
	return &VM{}
}

// Load loads a parsed program into the VM and resets execution state.
func (vm *VM) Load(program *Program) error {
	vm.code = program.Code
	vm.trailing = program.Trailing
	vm.Reset()
	return nil
}

// Reset rewinds the PC, clears the halt flag and step count, and zeroes
// the register file. The loaded program is kept.
func (vm *VM) Reset() {
	vm.pc = 0
	vm.halted = false
	vm.stepCount = 0
	vm.registers.Reset()
}

// SetMaxSteps sets the maximum number of execution steps. Zero means
// unlimited.
func (vm *VM) SetMaxSteps(n int64) {
	vm.maxSteps = n
}

// SetContext sets the context for cancellation/timeout.
func (vm *VM) SetContext(ctx context.Context) {
	vm.ctx = ctx
}

// EnableStats enables execution statistics collection.
func (vm *VM) EnableStats() {
	vm.statsEnabled = true
	vm.stats = ExecutionStats{
		OpCounts: make(map[string]int),
	}
}

// Stats returns the execution statistics from the last Execute() call.
// Returns nil if stats were not enabled via EnableStats().
func (vm *VM) Stats() *ExecutionStats {
	if !vm.statsEnabled {
		return nil
	}
	return &vm.stats
}

// Registers exposes the register file, for inspection by monitors and
// tests.
func (vm *VM) Registers() *RegisterFile {
	return &vm.registers
}

// PC returns the current program counter, in words.
func (vm *VM) PC() int {
	return vm.pc
}

// Halted reports whether the VM has executed HALT.
func (vm *VM) Halted() bool {
	return vm.halted
}

// byteOffset converts a word index to the absolute offset within the
// program file, accounting for the leading version byte.
func byteOffset(pc int) int {
	return 1 + 4*pc
}

// Execute runs the loaded program until HALT or a fault and returns the
// value of the result register, R0.
func (vm *VM) Execute() (uint32, error) {
	var start time.Time
	if vm.statsEnabled {
		start = time.Now()
		vm.stats.StepsExecuted = 0
		vm.stats.BranchesTaken = 0
		vm.stats.OpCounts = make(map[string]int)
	}

	for {
		if vm.ctx != nil {
			select {
			case <-vm.ctx.Done():
				return 0, vm.ctx.Err()
			default:
			}
		}

		done, err := vm.Step()
		if err != nil {
			return 0, err
		}
		if done {
			if vm.statsEnabled {
				vm.stats.ExecutionTimeNs = time.Since(start).Nanoseconds()
			}
			return vm.registers.Result(), nil
		}
	}
}

// Step executes a single instruction. It returns true once the VM has
// halted; calling Step after halt is a no-op returning true.
func (vm *VM) Step() (bool, error) {
	if vm.halted {
		return true, nil
	}

	if vm.pc >= len(vm.code) {
		if vm.trailing > 0 {
			return false, fmt.Errorf("%w: %d byte(s) left at word %d (byte offset %d)",
				ErrTruncatedStream, vm.trailing, vm.pc, byteOffset(vm.pc))
		}
		return false, fmt.Errorf("%w: ran off the end at word %d", ErrNoHalt, vm.pc)
	}

	vm.stepCount++
	if vm.maxSteps > 0 && vm.stepCount > vm.maxSteps {
		return false, fmt.Errorf("%w: %d steps", ErrStepLimitExceeded, vm.maxSteps)
	}

	inst := vm.code[vm.pc]
	op := inst.Opcode()

	if vm.statsEnabled {
		vm.stats.StepsExecuted++
		vm.stats.OpCounts[op.String()]++
	}

	switch op {
	case OpMove:
		if inst.Immediate() {
			lit, err := vm.literal()
			if err != nil {
				return false, err
			}
			vm.registers.R[inst.Dst()] = lit
			vm.pc += 2
		} else {
			vm.registers.R[inst.Dst()] = vm.registers.R[inst.Src1()]
			vm.pc++
		}

	case OpHalt:
		vm.halted = true
		return true, nil

	case OpAdd:
		// uint32 addition wraps; overflow is never a fault.
		if inst.Immediate() {
			lit, err := vm.literal()
			if err != nil {
				return false, err
			}
			vm.registers.R[inst.Dst()] = vm.registers.R[inst.Src1()] + lit
			vm.pc += 2
		} else {
			vm.registers.R[inst.Dst()] = vm.registers.R[inst.Src1()] + vm.registers.R[inst.Src2()]
			vm.pc++
		}

	case OpBnz:
		if vm.registers.R[inst.Dst()] != 0 {
			target := vm.pc + int(inst.Offset())
			if target < 0 || target >= len(vm.code) {
				return false, fmt.Errorf("%w: word %d from BNZ at word %d (byte offset %d)",
					ErrBranchOutOfRange, target, vm.pc, byteOffset(vm.pc))
			}
			if vm.statsEnabled {
				vm.stats.BranchesTaken++
			}
			vm.pc = target
		} else {
			vm.pc++
		}

	default:
		return false, fmt.Errorf("%w: 0x%02X at word %d (byte offset %d)",
			ErrInvalidOpcode, uint8(op), vm.pc, byteOffset(vm.pc))
	}

	return false, nil
}

// literal reads the 32-bit extension word following the instruction at
// the current PC.
func (vm *VM) literal() (uint32, error) {
	if vm.pc+1 >= len(vm.code) {
		return 0, fmt.Errorf("%w: missing literal word at word %d (byte offset %d)",
			ErrTruncatedStream, vm.pc+1, byteOffset(vm.pc+1))
	}
	return uint32(vm.code[vm.pc+1]), nil
}
