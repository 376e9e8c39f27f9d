package assembler

import (
	"strconv"
	"strings"
)

// OperandKind selects which fields of an Operand are meaningful.
type OperandKind int

const (
	// OperandRegister is a 64-bit general-purpose register.
	OperandRegister OperandKind = iota
	// OperandImmediate is integer literal text, parsed at encode time.
	OperandImmediate
	// OperandMemory is a [base + index*scale + disp] reference.
	OperandMemory
	// OperandLabel is a reference to a label.
	OperandLabel
)

func (k OperandKind) String() string {
	switch k {
	case OperandRegister:
		return "register"
	case OperandImmediate:
		return "immediate"
	case OperandMemory:
		return "memory"
	case OperandLabel:
		return "label"
	}
	return "invalid"
}

// Memory is a base-relative memory reference. Empty register names mean absent.
type Memory struct {
	Base         string
	Index        string
	Scale        int // 1, 2, 4 or 8; 0 means 1
	Displacement int64
}

// Operand represents a parsed instruction operand.
// Text holds the register name, immediate literal or label name.
type Operand struct {
	Kind OperandKind
	Text string
	Mem  Memory
}

// Reg returns a register operand.
func Reg(name string) Operand { return Operand{Kind: OperandRegister, Text: name} }

// Imm returns an immediate operand with literal text.
func Imm(text string) Operand { return Operand{Kind: OperandImmediate, Text: text} }

// Mem returns a memory operand.
func Mem(base, index string, scale int, disp int64) Operand {
	return Operand{Kind: OperandMemory, Mem: Memory{Base: base, Index: index, Scale: scale, Displacement: disp}}
}

// LabelRef returns a label reference operand.
func LabelRef(name string) Operand { return Operand{Kind: OperandLabel, Text: name} }

func (o Operand) String() string {
	if o.Kind != OperandMemory {
		return o.Text
	}
	var sb strings.Builder
	sb.WriteByte('[')
	sb.WriteString(o.Mem.Base)
	if o.Mem.Index != "" {
		if sb.Len() > 1 {
			sb.WriteString(" + ")
		}
		sb.WriteString(o.Mem.Index)
		if o.Mem.Scale > 1 {
			sb.WriteByte('*')
			sb.WriteString(strconv.Itoa(o.Mem.Scale))
		}
	}
	if d := o.Mem.Displacement; d != 0 || sb.Len() == 1 {
		switch {
		case sb.Len() == 1:
			sb.WriteString(strconv.FormatInt(d, 10))
		case d < 0:
			sb.WriteString(" - ")
			sb.WriteString(strconv.FormatInt(-d, 10))
		default:
			sb.WriteString(" + ")
			sb.WriteString(strconv.FormatInt(d, 10))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

// Instruction is one parsed source line. A line that only defines a label
// has an empty Mnemonic.
type Instruction struct {
	Mnemonic string
	Operands []Operand
	Label    string
	Line     int
}

func (ins Instruction) String() string {
	var sb strings.Builder
	if ins.Label != "" {
		sb.WriteString(ins.Label)
		sb.WriteByte(':')
		if ins.Mnemonic != "" {
			sb.WriteByte(' ')
		}
	}
	sb.WriteString(ins.Mnemonic)
	for i, op := range ins.Operands {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(op.String())
	}
	return sb.String()
}
