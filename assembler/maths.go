package assembler

import (
	"github.com/Urethramancer/x64asm/cpu"
)

// encodeArith handles ADD and SUB. The register form uses the r/m,reg
// opcode (01 or 29) with the destination in ModRM.rm; the immediate form
// uses 81 with the operation in ModRM.reg and an imm32.
func encodeArith(ins Instruction, opcode, ext byte) ([]byte, error) {
	if err := requireOperands(ins, 2); err != nil {
		return nil, err
	}
	if err := checkRegisterSlots(ins, 0, 1); err != nil {
		return nil, err
	}

	switch {
	case shape(ins.Operands, OperandRegister, OperandRegister):
		rd, err := register(ins.Operands[0].Text)
		if err != nil {
			return nil, err
		}
		rs, err := register(ins.Operands[1].Text)
		if err != nil {
			return nil, err
		}
		return []byte{
			cpu.REX(true, rs.Ext(), false, rd.Ext()),
			opcode,
			cpu.ModRM(cpu.ModDirect, rs.Low(), rd.Low()),
		}, nil

	case shape(ins.Operands, OperandRegister, OperandImmediate):
		return encodeImm32(ins, ext)
	}

	return nil, kindError(ins)
}

// encodeImm32 emits REX.W 81 /ext ib32 against a register destination.
func encodeImm32(ins Instruction, ext byte) ([]byte, error) {
	rd, err := register(ins.Operands[0].Text)
	if err != nil {
		return nil, err
	}
	imm, err := parseImmediate32(ins.Operands[1].Text)
	if err != nil {
		return nil, err
	}

	code := make([]byte, 0, 7)
	code = append(code,
		cpu.REX(true, false, false, rd.Ext()),
		cpu.OPALUImm,
		cpu.ModRM(cpu.ModDirect, ext, rd.Low()),
	)
	return cpu.AppendLE(code, uint64(imm), 4), nil
}
