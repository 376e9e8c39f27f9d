package assembler

import (
	"fmt"

	"github.com/Urethramancer/x64asm/cpu"
)

// Mnemonic identifies a supported instruction.
type Mnemonic int

const (
	MnemonicInvalid Mnemonic = iota
	MOV
	ADD
	SUB
	CMP
	JMP
	JE
	CALL
	RET
)

var mnemonicNames = map[string]Mnemonic{
	"MOV":  MOV,
	"ADD":  ADD,
	"SUB":  SUB,
	"CMP":  CMP,
	"JMP":  JMP,
	"JE":   JE,
	"CALL": CALL,
	"RET":  RET,
}

// ParseMnemonic maps canonical uppercase text to a Mnemonic.
func ParseMnemonic(s string) (Mnemonic, error) {
	mn, ok := mnemonicNames[s]
	if !ok {
		return MnemonicInvalid, fmt.Errorf("%w: %s", ErrUnknownMnemonic, s)
	}
	return mn, nil
}

func (m Mnemonic) String() string {
	switch m {
	case MOV:
		return "MOV"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case CMP:
		return "CMP"
	case JMP:
		return "JMP"
	case JE:
		return "JE"
	case CALL:
		return "CALL"
	case RET:
		return "RET"
	}
	return "INVALID"
}

// EstimatedSize is the length assumed during label discovery when the
// instruction cannot be encoded yet because a label is still unknown.
func (m Mnemonic) EstimatedSize() uint64 {
	switch m {
	case JMP:
		return cpu.LenJMP
	case CALL:
		return cpu.LenCALL
	case JE:
		return cpu.LenJE
	case RET:
		return cpu.LenRET
	case MOV, ADD, SUB, CMP, MnemonicInvalid:
		return 1
	}
	return 1
}
