package assembler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Urethramancer/x64asm/cpu"
)

// register resolves a register operand name.
func register(name string) (cpu.Reg, error) {
	r, ok := cpu.LookupRegister(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownRegister, name)
	}
	return r, nil
}

// parseLiteral splits integer text into magnitude and sign. A leading 0x or
// 0X selects base 16, otherwise base 10.
func parseLiteral(text string) (uint64, bool, error) {
	s := strings.TrimSpace(text)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false, fmt.Errorf("%w: %s", ErrMalformedImmediate, text)
	}

	mag, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s", ErrMalformedImmediate, text)
	}
	return mag, neg, nil
}

// parseImmediate returns the 64-bit pattern for an immediate. Any int64 or
// uint64 value is accepted.
func parseImmediate(text string) (uint64, error) {
	mag, neg, err := parseLiteral(text)
	if err != nil {
		return 0, err
	}
	if !neg {
		return mag, nil
	}
	if mag > 1<<63 {
		return 0, fmt.Errorf("%w: %s out of 64-bit range", ErrMalformedImmediate, text)
	}
	return -mag, nil
}

// parseImmediate32 returns the 32-bit pattern for the imm32 forms. Signed or
// unsigned 32-bit values are accepted.
func parseImmediate32(text string) (uint32, error) {
	mag, neg, err := parseLiteral(text)
	if err != nil {
		return 0, err
	}
	if (neg && mag > 1<<31) || (!neg && mag > 1<<32-1) {
		return 0, fmt.Errorf("%w: %s does not fit in 32 bits", ErrMalformedImmediate, text)
	}
	if neg {
		return uint32(-int64(mag)), nil
	}
	return uint32(mag), nil
}

// requireOperands checks the operand count.
func requireOperands(ins Instruction, n int) error {
	if len(ins.Operands) != n {
		return fmt.Errorf("%w: %s requires %d, got %d", ErrOperandArity, ins.Mnemonic, n, len(ins.Operands))
	}
	return nil
}

// checkRegisterSlots reports an identifier in an operand slot that takes a
// register as an unknown register. The parser cannot tell a misspelt
// register from a label, so bare names arrive as label references.
func checkRegisterSlots(ins Instruction, slots ...int) error {
	for _, i := range slots {
		if i >= len(ins.Operands) || ins.Operands[i].Kind != OperandLabel {
			continue
		}
		if _, err := register(ins.Operands[i].Text); err != nil {
			return err
		}
	}
	return nil
}

// kindError reports an unsupported operand shape.
func kindError(ins Instruction) error {
	kinds := make([]string, len(ins.Operands))
	for i, op := range ins.Operands {
		kinds[i] = op.Kind.String()
	}
	return fmt.Errorf("%w: %s %s", ErrOperandKind, ins.Mnemonic, strings.Join(kinds, ","))
}

// shape reports whether the operands have exactly the given kinds.
func shape(ops []Operand, kinds ...OperandKind) bool {
	if len(ops) != len(kinds) {
		return false
	}
	for i, k := range kinds {
		if ops[i].Kind != k {
			return false
		}
	}
	return true
}
