package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Urethramancer/x64asm/assembler"
	"github.com/Urethramancer/x64asm/disassembler"
	"github.com/grimdork/climate/arg"
	"golang.org/x/term"
)

func main() {
	opt := arg.New("x64asm")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "o", "output", "Write the machine code to this file.", "", false, arg.VarString, nil)
	opt.SetOption(arg.GroupDefault, "x", "hex", "Print the machine code as hex.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "l", "listing", "Print a disassembly listing of the result.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "s", "strict", "Reject duplicate labels.", false, false, arg.VarBool, nil)
	opt.SetOption(arg.GroupDefault, "S", "symbols", "Print the symbol table.", false, false, arg.VarBool, nil)
	opt.SetPositional("FILE", "Assembly source file.", "", true, arg.VarString)

	err := opt.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			opt.PrintHelp()
			return
		}

		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	src, err := os.ReadFile(opt.GetPosString("FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	asm := assembler.New()
	asm.Strict = opt.GetBool("strict")
	prog, err := asm.AssembleSource(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Assembly error: %v\n", err)
		os.Exit(1)
	}

	if out := opt.GetString("output"); out != "" {
		if err := os.WriteFile(out, prog.Code, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "%d bytes written to %s\n", len(prog.Code), out)
	}

	if opt.GetBool("symbols") {
		printSymbols(prog.Labels)
	}

	if opt.GetBool("listing") {
		fmt.Print(disassembler.Format(disassembler.Disassemble(prog.Code, prog.Labels)))
		return
	}

	// Raw bytes only go to a pipe or redirect.
	if opt.GetBool("hex") || (opt.GetString("output") == "" && term.IsTerminal(int(os.Stdout.Fd()))) {
		printHex(prog.Code)
		return
	}

	if opt.GetString("output") == "" {
		if err := writeRaw(os.Stdout, prog.Code); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
	}
}

// writeRaw copies the machine code to w, treating a short write as an error.
func writeRaw(w io.Writer, code []byte) error {
	n, err := w.Write(code)
	if err == nil && n < len(code) {
		err = io.ErrShortWrite
	}
	return err
}

func printHex(code []byte) {
	for i, b := range code {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Printf("%02X", b)
	}
	fmt.Println()
}

func printSymbols(labels map[string]uint64) {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if labels[names[i]] != labels[names[j]] {
			return labels[names[i]] < labels[names[j]]
		}
		return names[i] < names[j]
	})

	for _, name := range names {
		fmt.Printf("%08x %s\n", labels[name], name)
	}
}
