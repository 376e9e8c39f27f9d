package assembler

import "github.com/Urethramancer/x64asm/cpu"

// encodeCmp handles CMP r64, imm32, the only supported compare form.
func encodeCmp(ins Instruction) ([]byte, error) {
	if err := requireOperands(ins, 2); err != nil {
		return nil, err
	}
	if err := checkRegisterSlots(ins, 0); err != nil {
		return nil, err
	}
	if !shape(ins.Operands, OperandRegister, OperandImmediate) {
		return nil, kindError(ins)
	}
	return encodeImm32(ins, cpu.ExtCMP)
}
