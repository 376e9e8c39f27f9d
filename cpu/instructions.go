package cpu

// Opcodes for the supported instructions.
const (
	// Move Instructions
	OPMOVStore = 0x89 // MOV r/m64, r64
	OPMOVLoad  = 0x8B // MOV r64, r/m64
	OPMOVImm   = 0xB8 // MOV r64, imm64 (register OR'd into the low 3 bits)

	// Arithmetic Instructions
	OPADD    = 0x01 // ADD r/m64, r64
	OPSUB    = 0x29 // SUB r/m64, r64
	OPALUImm = 0x81 // ADD/SUB/CMP r/m64, imm32 (operation in ModRM.reg)

	// Control Instructions
	OPJMP  = 0xE9 // JMP rel32
	OPCALL = 0xE8 // CALL rel32
	OPRET  = 0xC3 // RET

	// Two-byte opcodes
	OPEscape = 0x0F // Two-byte opcode escape
	OPJE     = 0x84 // JE rel32, follows OPEscape
)

// Opcode extensions carried in ModRM.reg for OPALUImm (the "/digit" forms).
const (
	ExtADD byte = 0 // 81 /0
	ExtSUB byte = 5 // 81 /5
	ExtCMP byte = 7 // 81 /7
)

// Encoded lengths of the relative branches: opcode bytes plus rel32.
const (
	LenJMP  = 5
	LenCALL = 5
	LenJE   = 6
	LenRET  = 1
)
