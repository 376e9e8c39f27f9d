package assembler

import (
	"fmt"

	"github.com/Urethramancer/x64asm/cpu"
)

var (
	opcodeJMP  = []byte{cpu.OPJMP}
	opcodeJE   = []byte{cpu.OPEscape, cpu.OPJE}
	opcodeCALL = []byte{cpu.OPCALL}
)

// Encode returns the machine code for one instruction placed at addr,
// resolving branch targets through labels. A label-only line encodes to
// nothing. Errors are *Error values carrying the line and mnemonic.
func Encode(ins Instruction, labels map[string]uint64, addr uint64) ([]byte, error) {
	if ins.Mnemonic == "" {
		return nil, nil
	}

	mn, err := ParseMnemonic(ins.Mnemonic)
	if err != nil {
		return nil, lineError(ins, err)
	}

	code, err := encode(mn, ins, labels, addr)
	if err != nil {
		return nil, lineError(ins, err)
	}
	return code, nil
}

// encode dispatches to the instruction encoders.
func encode(mn Mnemonic, ins Instruction, labels map[string]uint64, addr uint64) ([]byte, error) {
	switch mn {
	case MOV:
		return encodeMov(ins)
	case ADD:
		return encodeArith(ins, cpu.OPADD, cpu.ExtADD)
	case SUB:
		return encodeArith(ins, cpu.OPSUB, cpu.ExtSUB)
	case CMP:
		return encodeCmp(ins)
	case JMP:
		return encodeBranch(ins, opcodeJMP, labels, addr)
	case JE:
		return encodeBranch(ins, opcodeJE, labels, addr)
	case CALL:
		return encodeBranch(ins, opcodeCALL, labels, addr)
	case RET:
		return encodeRet()
	case MnemonicInvalid:
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownMnemonic, ins.Mnemonic)
}
