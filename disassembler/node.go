package disassembler

import "fmt"

// LabelType defines the context of a label.
type LabelType int

const (
	// JumpTarget is for a JMP or Jcc target.
	JumpTarget LabelType = iota
	// SubroutineEntry is for a CALL target.
	SubroutineEntry
	// Named is for a label supplied by the caller, e.g. from an assembler run.
	Named
)

// Line is one rendered row of a listing: a decoded instruction or a run of data.
type Line struct {
	Address uint64
	Bytes   []byte
	Text    string
	// Label is the name defined at Address, if any.
	Label  string
	IsCode bool
}

// labelName returns a synthetic name for an address without a caller-supplied label.
func labelName(addr uint64, t LabelType) string {
	if t == SubroutineEntry {
		return fmt.Sprintf("sub_%04x", addr)
	}
	return fmt.Sprintf("loc_%04x", addr)
}
