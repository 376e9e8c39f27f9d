package cpu

// Reg is a 4-bit general-purpose register number.
type Reg byte

// 64-bit general-purpose registers.
const (
	RAX Reg = iota
	RCX
	RDX
	RBX
	RSP
	RBP
	RSI
	RDI
	R8
	R9
	R10
	R11
	R12
	R13
	R14
	R15
)

var registers = map[string]Reg{
	"RAX": RAX, "RCX": RCX, "RDX": RDX, "RBX": RBX,
	"RSP": RSP, "RBP": RBP, "RSI": RSI, "RDI": RDI,
	"R8": R8, "R9": R9, "R10": R10, "R11": R11,
	"R12": R12, "R13": R13, "R14": R14, "R15": R15,
}

var registerNames = [16]string{
	"RAX", "RCX", "RDX", "RBX", "RSP", "RBP", "RSI", "RDI",
	"R8", "R9", "R10", "R11", "R12", "R13", "R14", "R15",
}

// LookupRegister returns the register for a canonical uppercase name.
func LookupRegister(name string) (Reg, bool) {
	r, ok := registers[name]
	return r, ok
}

// IsRegister reports whether name is one of the sixteen register names.
func IsRegister(name string) bool {
	_, ok := registers[name]
	return ok
}

// Low returns the 3 bits that go into ModRM, SIB or the opcode.
func (r Reg) Low() byte { return byte(r) & 7 }

// Ext reports whether the register needs a REX extension bit (R8-R15).
func (r Reg) Ext() bool { return r >= R8 }

func (r Reg) String() string {
	if int(r) < len(registerNames) {
		return registerNames[r]
	}
	return "R?"
}
