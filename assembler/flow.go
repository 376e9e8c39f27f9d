package assembler

import (
	"fmt"

	"github.com/Urethramancer/x64asm/cpu"
)

// encodeBranch emits a rel32 branch. The offset is relative to the end of
// the instruction, so it depends on the encoded length.
func encodeBranch(ins Instruction, opcode []byte, labels map[string]uint64, addr uint64) ([]byte, error) {
	if err := requireOperands(ins, 1); err != nil {
		return nil, err
	}
	op := ins.Operands[0]
	if op.Kind != OperandLabel {
		return nil, kindError(ins)
	}

	target, ok := labels[op.Text]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedLabel, op.Text)
	}

	size := uint64(len(opcode) + 4)
	rel := int64(target - (addr + size))
	if !cpu.FitsInt32(rel) {
		return nil, fmt.Errorf("%w: branch to '%s' out of rel32 range (%d)", ErrUnsupportedAddressing, op.Text, rel)
	}

	code := make([]byte, 0, size)
	code = append(code, opcode...)
	return cpu.AppendLE(code, uint64(rel), 4), nil
}

// encodeRet emits a near return. Operands are ignored.
func encodeRet() ([]byte, error) { return []byte{cpu.OPRET}, nil }
