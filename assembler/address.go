package assembler

import (
	"fmt"

	"github.com/Urethramancer/x64asm/cpu"
)

// memRef is a memory operand with its registers resolved.
type memRef struct {
	base     cpu.Reg
	index    cpu.Reg
	hasIndex bool
	scale    byte // SIB exponent
	disp     int64
}

// resolveMemory validates a memory operand against the supported subset:
// a base register, an optional index register and a 32-bit displacement.
func resolveMemory(m Memory) (memRef, error) {
	if m.Base == "" {
		return memRef{}, fmt.Errorf("%w: memory operand without base register", ErrUnsupportedAddressing)
	}
	base, err := register(m.Base)
	if err != nil {
		return memRef{}, err
	}
	ref := memRef{base: base, disp: m.Displacement}

	if m.Index != "" {
		idx, err := register(m.Index)
		if err != nil {
			return memRef{}, err
		}
		// SIB.index 100 without REX.X means "no index".
		if idx == cpu.RSP {
			return memRef{}, fmt.Errorf("%w: RSP cannot be an index register", ErrUnsupportedAddressing)
		}
		scale, ok := cpu.ScaleBits(m.Scale)
		if !ok {
			return memRef{}, fmt.Errorf("%w: scale %d", ErrUnsupportedAddressing, m.Scale)
		}
		ref.index, ref.hasIndex, ref.scale = idx, true, scale
	}

	if !cpu.FitsInt32(m.Displacement) {
		return memRef{}, fmt.Errorf("%w: displacement %d exceeds 32 bits", ErrUnsupportedAddressing, m.Displacement)
	}
	return ref, nil
}

func (r memRef) rexX() bool { return r.hasIndex && r.index.Ext() }
func (r memRef) rexB() bool { return r.base.Ext() }

// needsSIB reports whether the reference must be expressed with a SIB byte:
// an index is present, or the base encodes as 100 (RSP, R12).
func (r memRef) needsSIB() bool {
	return r.hasIndex || r.base.Low() == cpu.RMSIB
}

// mod picks the smallest displacement form. A base encoding as 101 (RBP,
// R13) has no mod 00 form, so a zero displacement is emitted as disp8.
func (r memRef) mod() byte {
	switch {
	case r.disp == 0 && r.base.Low() != cpu.RMDisp32:
		return cpu.ModIndirect
	case cpu.FitsDisp8(r.disp):
		return cpu.ModDisp8
	default:
		return cpu.ModDisp32
	}
}

// appendAddress appends ModRM, the optional SIB byte and the displacement,
// with reg going into ModRM.reg.
func (r memRef) appendAddress(dst []byte, reg byte) []byte {
	mod := r.mod()
	rm := r.base.Low()
	if r.needsSIB() {
		rm = cpu.RMSIB
	}
	dst = append(dst, cpu.ModRM(mod, reg, rm))

	if r.needsSIB() {
		index, scale := cpu.SIBNoIndex, byte(0)
		if r.hasIndex {
			index, scale = r.index.Low(), r.scale
		}
		dst = append(dst, cpu.SIB(scale, index, r.base.Low()))
	}

	switch mod {
	case cpu.ModDisp8:
		dst = cpu.AppendLE(dst, uint64(r.disp), 1)
	case cpu.ModDisp32:
		dst = cpu.AppendLE(dst, uint64(r.disp), 4)
	}
	return dst
}
