package assembler

import (
	"errors"
	"fmt"
	"maps"
)

// Assembler holds the state for the assembly process.
type Assembler struct {
	// Strict makes a second definition of a label an error. By default the
	// last definition wins.
	Strict bool

	labels map[string]uint64
}

// Program is the output of one assembly run.
type Program struct {
	// Code is the concatenated machine code in source order.
	Code []byte
	// Labels maps each label to its final address.
	Labels map[string]uint64
	// Addresses holds the start address of every instruction, by index.
	Addresses []uint64
}

// New creates a new Assembler instance.
func New() *Assembler {
	return &Assembler{
		labels: make(map[string]uint64),
	}
}

// Labels returns the label table of the last successful run.
func (asm *Assembler) Labels() map[string]uint64 {
	return maps.Clone(asm.labels)
}

// AssembleSource parses source text and assembles it.
func (asm *Assembler) AssembleSource(src string) (*Program, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing error: %w", err)
	}
	return asm.Assemble(prog)
}

// Assemble encodes prog in two passes: discoverLabels lays out the code and
// records every label address, then emit re-encodes everything against the
// complete label table. Nothing is returned unless the whole run succeeds.
func (asm *Assembler) Assemble(prog []Instruction) (*Program, error) {
	layout, labels, size, err := asm.discoverLabels(prog)
	if err != nil {
		return nil, err
	}

	out, err := emit(prog, labels, layout, size)
	if err != nil {
		return nil, err
	}
	asm.labels = out.Labels
	return out, nil
}

// discoverLabels is the first pass. It returns the start address of each
// instruction, the label table and the total size. Instructions that refer
// to a label not seen yet are sized by their mnemonic's estimate; any other
// encoding error aborts.
func (asm *Assembler) discoverLabels(prog []Instruction) ([]uint64, map[string]uint64, uint64, error) {
	layout := make([]uint64, len(prog))
	labels := make(map[string]uint64)
	var pc uint64

	for i, ins := range prog {
		layout[i] = pc
		if ins.Label != "" {
			if _, ok := labels[ins.Label]; ok && asm.Strict {
				return nil, nil, 0, &Error{
					Line:     ins.Line,
					Mnemonic: ins.Mnemonic,
					Err:      fmt.Errorf("%w: %s", ErrDuplicateLabel, ins.Label),
				}
			}
			labels[ins.Label] = pc
		}
		if ins.Mnemonic == "" {
			continue
		}

		code, err := Encode(ins, labels, pc)
		switch {
		case err == nil:
			pc += uint64(len(code))
		case errors.Is(err, ErrUnresolvedLabel):
			mn, _ := ParseMnemonic(ins.Mnemonic)
			pc += mn.EstimatedSize()
		default:
			return nil, nil, 0, err
		}
	}
	return layout, labels, pc, nil
}

// emit is the second pass. Every label must land where the first pass put
// it, otherwise branches encoded against the first-pass table would be wrong.
func emit(prog []Instruction, labels map[string]uint64, layout []uint64, size uint64) (*Program, error) {
	out := &Program{
		Code:      make([]byte, 0, size),
		Labels:    maps.Clone(labels),
		Addresses: make([]uint64, len(prog)),
	}

	var pc uint64
	for i, ins := range prog {
		out.Addresses[i] = pc
		if ins.Label != "" {
			if pc != layout[i] {
				return nil, &Error{
					Line:     ins.Line,
					Mnemonic: ins.Mnemonic,
					Err:      fmt.Errorf("%w: %s moved from %#x to %#x", ErrUnstableLayout, ins.Label, layout[i], pc),
				}
			}
			out.Labels[ins.Label] = pc
		}

		code, err := Encode(ins, out.Labels, pc)
		if err != nil {
			return nil, err
		}
		out.Code = append(out.Code, code...)
		pc += uint64(len(code))
	}
	return out, nil
}
