package assembler

import (
	"github.com/Urethramancer/x64asm/cpu"
)

// encodeMov handles the four MOV forms. All moves are 64-bit.
func encodeMov(ins Instruction) ([]byte, error) {
	if err := requireOperands(ins, 2); err != nil {
		return nil, err
	}
	if err := checkRegisterSlots(ins, 0, 1); err != nil {
		return nil, err
	}
	dst, src := ins.Operands[0], ins.Operands[1]

	switch {
	// --- MOV r64, imm64 ---
	case shape(ins.Operands, OperandRegister, OperandImmediate):
		rd, err := register(dst.Text)
		if err != nil {
			return nil, err
		}
		imm, err := parseImmediate(src.Text)
		if err != nil {
			return nil, err
		}
		code := make([]byte, 0, 10)
		code = append(code, cpu.REX(true, false, false, rd.Ext()), cpu.OPMOVImm+rd.Low())
		return cpu.AppendLE(code, imm, 8), nil

	// --- MOV r/m64, r64 (register direct) ---
	case shape(ins.Operands, OperandRegister, OperandRegister):
		rd, err := register(dst.Text)
		if err != nil {
			return nil, err
		}
		rs, err := register(src.Text)
		if err != nil {
			return nil, err
		}
		return []byte{
			cpu.REX(true, rs.Ext(), false, rd.Ext()),
			cpu.OPMOVStore,
			cpu.ModRM(cpu.ModDirect, rs.Low(), rd.Low()),
		}, nil

	// --- MOV r64, [mem] ---
	case shape(ins.Operands, OperandRegister, OperandMemory):
		return encodeMovMemory(cpu.OPMOVLoad, dst.Text, src.Mem)

	// --- MOV [mem], r64 ---
	case shape(ins.Operands, OperandMemory, OperandRegister):
		return encodeMovMemory(cpu.OPMOVStore, src.Text, dst.Mem)
	}

	return nil, kindError(ins)
}

// encodeMovMemory emits a load or store between a register and memory.
func encodeMovMemory(opcode byte, regName string, m Memory) ([]byte, error) {
	r, err := register(regName)
	if err != nil {
		return nil, err
	}
	ref, err := resolveMemory(m)
	if err != nil {
		return nil, err
	}

	code := make([]byte, 0, 8)
	code = append(code, cpu.REX(true, r.Ext(), ref.rexX(), ref.rexB()), opcode)
	return ref.appendAddress(code, r.Low()), nil
}
