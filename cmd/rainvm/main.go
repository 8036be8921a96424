// Package main provides the CLI entry point for Rain VM.
//
// Usage:
//
//	rainvm run program.rnb         # Execute a bytecode file, print R0
//	rainvm run -hex program.hex    # Execute a hex listing
//	rainvm disasm program.rnb      # Disassemble bytecode
//	rainvm versions                # Show the byte/dominant version table
//	rainvm repl                    # Start the interactive monitor
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/rainlang/rainvm/pkg/loader"
	"github.com/rainlang/rainvm/pkg/repl"
	"github.com/rainlang/rainvm/pkg/version"
	"github.com/rainlang/rainvm/pkg/vm"
)

// Version info set by GoReleaser via ldflags
var (
	buildVersion = "dev"
	commit       = "none"
	date         = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return printUsage()
	}

	cmd := os.Args[1]

	switch cmd {
	case "run":
		return runCommand(os.Args[2:])
	case "disasm":
		return disasmCommand(os.Args[2:])
	case "versions":
		return versionsCommand(os.Stdout)
	case "repl":
		r := repl.New()
		r.Start(os.Stdin, os.Stdout)
		return nil
	case "version":
		fmt.Printf("rainvm version %s (dominant %s, byte version %d)\n",
			buildVersion, version.Dominant, version.ByteVersion)
		if commit != "none" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if date != "unknown" {
			fmt.Printf("  built:  %s\n", date)
		}
		return nil
	case "help", "-h", "--help":
		return printUsage()
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose output")
	hexInput := fs.Bool("hex", false, "input is a hex listing, not raw bytecode")
	steps := fs.Int64("steps", 0, "maximum instructions to execute (0 = unlimited)")
	timeout := fs.Duration("timeout", 0, "maximum wall time (0 = unlimited)")
	stats := fs.Bool("stats", false, "print execution statistics after the run")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: rainvm run <file>")
	}

	path := fs.Arg(0)

	// Flags may also follow the file argument.
	if fs.NArg() > 1 {
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return err
		}
	}

	var (
		data []byte
		err  error
	)
	if *hexInput {
		data, err = loader.ReadHexFile(path)
	} else {
		data, err = loader.ReadFile(path)
	}
	if err != nil {
		return err
	}

	program, err := vm.ParseProgram(data)
	if err != nil {
		return err
	}

	if *verbose {
		fmt.Printf("Loaded %d words (byte version %d)\n", len(program.Code), program.ByteVersion)
	}

	machine := vm.NewVM()
	machine.SetMaxSteps(*steps)
	if *stats {
		machine.EnableStats()
	}
	if *timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), *timeout)
		defer cancel()
		machine.SetContext(ctx)
	}

	if err := machine.Load(program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	result, err := machine.Execute()
	if err != nil {
		return fmt.Errorf("executing: %w", err)
	}

	fmt.Printf("%d\n", result)

	if *stats {
		printStats(machine.Stats())
	}

	return nil
}

func printStats(stats *vm.ExecutionStats) {
	fmt.Printf("\nsteps: %d, branches taken: %d, time: %s\n",
		stats.StepsExecuted, stats.BranchesTaken,
		time.Duration(stats.ExecutionTimeNs))

	ops := make([]string, 0, len(stats.OpCounts))
	for op := range stats.OpCounts {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Opcode", "Count"})
	for _, op := range ops {
		table.Append([]string{op, fmt.Sprintf("%d", stats.OpCounts[op])})
	}
	table.Render()
}

func disasmCommand(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	output := fs.String("o", "", "output file (default: stdout)")
	hexInput := fs.Bool("hex", false, "input is a hex listing, not raw bytecode")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: rainvm disasm <file> [-o output]")
	}

	path := fs.Arg(0)

	// Flags may also follow the file argument.
	if fs.NArg() > 1 {
		if err := fs.Parse(fs.Args()[1:]); err != nil {
			return err
		}
	}

	var (
		data []byte
		err  error
	)
	if *hexInput {
		data, err = loader.ReadHexFile(path)
	} else {
		data, err = loader.ReadFile(path)
	}
	if err != nil {
		return err
	}

	program, err := vm.ParseProgram(data)
	if err != nil {
		return err
	}

	listing := vm.Disassemble(program)

	if *output != "" {
		if err := os.WriteFile(*output, []byte(listing), 0644); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		fmt.Printf("Disassembled to: %s\n", *output)
	} else {
		fmt.Print(listing)
	}

	return nil
}

// versionsCommand renders the byte-version to dominant-version
// comparison table.
func versionsCommand(out *os.File) error {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Byte Version", "Dominant Version"})

	m := version.Table()
	byteVersions := make([]int, 0, len(m))
	for bv := range m {
		byteVersions = append(byteVersions, int(bv))
	}
	sort.Ints(byteVersions)

	for _, bv := range byteVersions {
		dominant := m[uint8(bv)]
		if uint8(bv) == version.ByteVersion {
			dominant += " (current)"
		}
		table.Append([]string{fmt.Sprintf("%d", bv), dominant})
	}
	table.Render()

	fmt.Fprintln(out, "byte version 0 is reserved and always rejected")
	return nil
}

func printUsage() error {
	fmt.Println(`Rain VM - bytecode interpreter for Rain ML

Usage:
  rainvm <command> [arguments]

Commands:
  run <file>        Execute a bytecode file and print R0
  disasm <file>     Disassemble bytecode
  versions          Show the byte-version/dominant-version table
  repl              Start the interactive monitor
  version           Print version information
  help              Show this help message

Run Options:
  -v                Verbose output
  -hex              Treat input as a hex listing
  -steps <n>        Maximum instructions to execute (0 = unlimited)
  -timeout <d>      Maximum wall time, e.g. 5s (0 = unlimited)
  -stats            Print execution statistics after the run

Disasm Options:
  -o <file>         Output file (default: stdout)
  -hex              Treat input as a hex listing

Examples:
  rainvm run program.rnb
  rainvm run -hex -stats program.hex
  rainvm run -steps 100000 program.rnb
  rainvm disasm program.rnb
  rainvm versions`)
	return nil
}
