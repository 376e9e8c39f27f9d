package cpu

// ModRM mod field values (2 bits).
const (
	// 00: [base], or the SIB and RIP-relative special cases
	ModIndirect byte = 0

	// 01: [base + disp8]
	ModDisp8 byte = 1

	// 10: [base + disp32]
	ModDisp32 byte = 2

	// 11: register direct
	ModDirect byte = 3
)

// Special encodings of the 3-bit ModRM.rm and SIB.index fields.
const (
	// RMSIB in ModRM.rm (mod != 11) means a SIB byte follows.
	RMSIB byte = 4

	// RMDisp32 in ModRM.rm with mod 00 means RIP-relative; as SIB.base with
	// mod 00 it means no base register and a disp32.
	RMDisp32 byte = 5

	// SIBNoIndex in SIB.index (with REX.X clear) means no index register.
	SIBNoIndex byte = 4
)

// REX prefix bits.
const (
	REXBase = 0x40
	REXW    = 0x08 // 64-bit operand size
	REXR    = 0x04 // extends ModRM.reg
	REXX    = 0x02 // extends SIB.index
	REXB    = 0x01 // extends ModRM.rm, SIB.base or the opcode register
)

// REX builds a REX prefix byte: 0100WRXB.
func REX(w, r, x, b bool) byte {
	prefix := byte(REXBase)
	if w {
		prefix |= REXW
	}
	if r {
		prefix |= REXR
	}
	if x {
		prefix |= REXX
	}
	if b {
		prefix |= REXB
	}
	return prefix
}

// ModRM builds a ModRM byte: mm rrr bbb.
func ModRM(mod, reg, rm byte) byte {
	return (mod&3)<<6 | (reg&7)<<3 | rm&7
}

// SIB builds a SIB byte: ss iii bbb. The scale is the 2-bit exponent, see ScaleBits.
func SIB(scale, index, base byte) byte {
	return (scale&3)<<6 | (index&7)<<3 | base&7
}

// ScaleBits converts a linear scale factor to the SIB exponent encoding.
// A factor of 0 is the zero value of a scale field and means 1.
func ScaleBits(factor int) (byte, bool) {
	switch factor {
	case 0, 1:
		return 0, true
	case 2:
		return 1, true
	case 4:
		return 2, true
	case 8:
		return 3, true
	}
	return 0, false
}

// FitsDisp8 reports whether a displacement can be encoded as a signed byte.
func FitsDisp8(disp int64) bool {
	return disp >= -128 && disp <= 127
}

// FitsInt32 reports whether a value can be encoded as a signed 32-bit field.
func FitsInt32(v int64) bool {
	return v >= -1<<31 && v <= 1<<31-1
}
