package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Urethramancer/x64asm/disassembler"
	"github.com/grimdork/climate/arg"
)

func main() {
	opt := arg.New("x64dis")
	opt.SetDefaultHelp(true)
	opt.SetOption(arg.GroupDefault, "o", "output", "Write the listing to this file.", "", false, arg.VarString, nil)
	opt.SetPositional("FILE", "Raw 64-bit machine code, loaded at address 0.", "", true, arg.VarString)

	err := opt.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, arg.ErrNoArgs) {
			opt.PrintHelp()
			return
		}

		fmt.Fprintf(os.Stderr, "Error parsing arguments: %v\n", err)
		os.Exit(1)
	}

	code, err := os.ReadFile(opt.GetPosString("FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}

	text := disassembler.Format(disassembler.Disassemble(code, nil))
	outputFile := opt.GetString("output")
	if outputFile == "" {
		fmt.Print(text)
		return
	}

	if err := os.WriteFile(outputFile, []byte(text), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Disassembly written to %s\n", outputFile)
}
