// Package repl implements an interactive monitor for Rain VM.
//
// There is no assembly syntax, so the monitor operates on raw
// instruction words: programs are loaded from files or entered as hex,
// then run or single-stepped while inspecting the register file.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rainlang/rainvm/pkg/loader"
	"github.com/rainlang/rainvm/pkg/version"
	"github.com/rainlang/rainvm/pkg/vm"
)

const prompt = "rain> "

// REPL provides an interactive monitor over a single VM.
type REPL struct {
	machine *vm.VM
	program *vm.Program
}

// New creates a new monitor instance.
func New() *REPL {
	return &REPL{
		machine: vm.NewVM(),
	}
}

// Start runs the monitor loop until quit or end of input.
func (r *REPL) Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "Rain VM monitor, dominant version %s\n", version.Dominant)
	fmt.Fprintln(out, "Type 'help' for available commands, 'quit' to exit")
	fmt.Fprintln(out)

	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}
		if r.handleCommand(scanner.Text(), out) {
			break
		}
	}
}

// handleCommand evaluates one input line and reports whether the
// monitor should quit.
func (r *REPL) handleCommand(line string, out io.Writer) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "quit", "exit", "q":
		fmt.Fprintln(out, "Goodbye!")
		return true

	case "help", "h", "?":
		r.printHelp(out)

	case "load":
		if len(parts) != 2 {
			fmt.Fprintln(out, "usage: load <file>")
			break
		}
		data, err := loader.ReadFile(parts[1])
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			break
		}
		r.loadBytes(data, out)

	case "hex":
		if len(parts) < 2 {
			fmt.Fprintln(out, "usage: hex <bytes...> (version byte first)")
			break
		}
		data, err := loader.ParseHex(strings.Join(parts[1:], " "))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			break
		}
		r.loadBytes(data, out)

	case "run":
		if r.program == nil {
			fmt.Fprintln(out, "no program loaded")
			break
		}
		result, err := r.machine.Execute()
		if err != nil {
			fmt.Fprintf(out, "fault: %v\n", err)
			break
		}
		fmt.Fprintf(out, "halted, R0 = %d\n", result)

	case "step":
		if r.program == nil {
			fmt.Fprintln(out, "no program loaded")
			break
		}
		pc := r.machine.PC()
		done, err := r.machine.Step()
		if err != nil {
			fmt.Fprintf(out, "fault: %v\n", err)
			break
		}
		if done {
			fmt.Fprintf(out, "halted, R0 = %d\n", r.machine.Registers().Result())
			break
		}
		fmt.Fprintf(out, "%04d: %s -> pc %d\n", pc, r.program.Code[pc], r.machine.PC())

	case "regs":
		regs := r.machine.Registers()
		for i, v := range regs.R {
			if v != 0 || i == vm.ResultRegister {
				fmt.Fprintf(out, "R%-2d = %d (0x%08X)\n", i, v, v)
			}
		}

	case "reset":
		r.machine.Reset()
		fmt.Fprintln(out, "machine reset")

	case "disasm":
		if r.program == nil {
			fmt.Fprintln(out, "no program loaded")
			break
		}
		fmt.Fprint(out, vm.Disassemble(r.program))

	case "limit":
		if len(parts) != 2 {
			fmt.Fprintln(out, "usage: limit <steps>")
			break
		}
		n, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || n < 0 {
			fmt.Fprintf(out, "invalid step limit: %s\n", parts[1])
			break
		}
		r.machine.SetMaxSteps(n)
		fmt.Fprintf(out, "step limit set to %d\n", n)

	default:
		fmt.Fprintf(out, "unknown command: %s (try 'help')\n", parts[0])
	}

	return false
}

func (r *REPL) loadBytes(data []byte, out io.Writer) {
	program, err := vm.ParseProgram(data)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	if err := r.machine.Load(program); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		return
	}
	r.program = program
	fmt.Fprintf(out, "loaded %d words (byte version %d)\n", len(program.Code), program.ByteVersion)
}

func (r *REPL) printHelp(out io.Writer) {
	fmt.Fprintln(out, `Commands:
  load <file>      load a program file (version byte first)
  hex <bytes...>   load a program from hex bytes
  run              execute until HALT or fault
  step             execute a single instruction
  regs             show the register file (nonzero registers and R0)
  reset            rewind the PC and zero the registers
  disasm           disassemble the loaded program
  limit <steps>    set the step limit (0 = unlimited)
  help             show this help
  quit             exit the monitor`)
}
