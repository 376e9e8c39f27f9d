package assembler_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Urethramancer/x64asm/assembler"
)

func TestParseLines(t *testing.T) {
	src := "start: mov rax, 5 ; five\r\n\r\n  add RAX,rbx\nend:\n jmp start\nret"
	got, err := assembler.Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	want := []assembler.Instruction{
		{Label: "start", Mnemonic: "MOV", Operands: []assembler.Operand{assembler.Reg("RAX"), assembler.Imm("5")}, Line: 1},
		{Mnemonic: "ADD", Operands: []assembler.Operand{assembler.Reg("RAX"), assembler.Reg("RBX")}, Line: 3},
		{Label: "end", Line: 4},
		{Mnemonic: "JMP", Operands: []assembler.Operand{assembler.LabelRef("start")}, Line: 5},
		{Mnemonic: "RET", Line: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse mismatch\n got: %+v\nwant: %+v", got, want)
	}
}

func TestParseOperands(t *testing.T) {
	tests := []struct {
		src  string
		want assembler.Operand
	}{
		{"RET r15", assembler.Reg("R15")},
		{"RET -42", assembler.Imm("-42")},
		{"RET 0x1F", assembler.Imm("0x1F")},
		{"RET 12abc", assembler.Imm("12abc")},
		{"RET Loop_1", assembler.LabelRef("Loop_1")},
		{"RET .local", assembler.LabelRef(".local")},
		{"RET [rbx]", assembler.Mem("RBX", "", 1, 0)},
		{"RET [rbx+8]", assembler.Mem("RBX", "", 1, 8)},
		{"RET [ rbx - 0x10 ]", assembler.Mem("RBX", "", 1, -16)},
		{"RET [-8 + rbp]", assembler.Mem("RBP", "", 1, -8)},
		{"RET [rax+rcx*4]", assembler.Mem("RAX", "RCX", 4, 0)},
		{"RET [rax + 8*r9 + 3 - 1]", assembler.Mem("RAX", "R9", 8, 2)},
		{"RET [rsi+rdi]", assembler.Mem("RSI", "RDI", 1, 0)},
		{"RET [rcx*2]", assembler.Mem("", "RCX", 2, 0)},
		{"RET [64]", assembler.Mem("", "", 1, 64)},
		{"RET [foo+8]", assembler.Mem("foo", "", 1, 8)},
		{"RET [rbx-9223372036854775808]", assembler.Mem("RBX", "", 1, -1<<63)},
		{"RET [rbx+9223372036854775807-1]", assembler.Mem("RBX", "", 1, 9223372036854775806)},
	}
	for _, tt := range tests {
		prog, err := assembler.Parse(tt.src)
		if err != nil {
			t.Errorf("%q: %v", tt.src, err)
			continue
		}
		if len(prog) != 1 || len(prog[0].Operands) != 1 {
			t.Errorf("%q: parsed %+v", tt.src, prog)
			continue
		}
		if got := prog[0].Operands[0]; !reflect.DeepEqual(got, tt.want) {
			t.Errorf("%q: got %+v, want %+v", tt.src, got, tt.want)
		}
	}
}

func TestParseSplitsOperandsOutsideBrackets(t *testing.T) {
	prog, err := assembler.Parse("MOV [RBX+RCX*2+4], RAX")
	if err != nil {
		t.Fatal(err)
	}
	ops := prog[0].Operands
	if len(ops) != 2 || ops[0].Kind != assembler.OperandMemory || ops[1].Kind != assembler.OperandRegister {
		t.Fatalf("operands = %+v", ops)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"1bad: RET", 1},
		{"RET\nrax: RET", 2},
		{"RET\n\n123", 3},
		{"MOV RAX,", 1},
		{"MOV , RAX", 1},
		{"MOV RAX, [RBX", 1},
		{"MOV RAX, [RBX+]", 1},
		{"MOV RAX, [RBX+RCX+RDX]", 1},
		{"MOV RAX, [RBX+RCX*2+RDX*4]", 1},
		{"MOV RAX, [RBX-RCX]", 1},
		{"MOV RAX, [RBX+$]", 1},
		{"MOV RAX, @x", 1},
		{"MOV RAX, [RBX+9223372036854775808+9223372036854775808+5]", 1},
		{"MOV RAX, [RBX+9223372036854775807+1]", 1},
		{"MOV RAX, [RBX-9223372036854775808-1]", 1},
	}
	for _, tt := range tests {
		_, err := assembler.Parse(tt.src)
		if !errors.Is(err, assembler.ErrSyntax) {
			t.Errorf("%q: got %v, want syntax error", tt.src, err)
			continue
		}
		var aerr *assembler.Error
		if errors.As(err, &aerr) && aerr.Line != tt.line {
			t.Errorf("%q: line %d, want %d", tt.src, aerr.Line, tt.line)
		}
	}
}

func TestParseLeavesMnemonicCheckToEncoder(t *testing.T) {
	prog, err := assembler.Parse("frob RAX")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if prog[0].Mnemonic != "FROB" {
		t.Errorf("mnemonic = %s", prog[0].Mnemonic)
	}
	_, err = assembler.New().Assemble(prog)
	if !errors.Is(err, assembler.ErrUnknownMnemonic) {
		t.Errorf("got %v, want ErrUnknownMnemonic", err)
	}
}

func TestSourceErrorsWrapped(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"MOV RAX, [foo]", assembler.ErrUnknownRegister},
		{"MOV RAX, [RBX+xyz*2]", assembler.ErrUnknownRegister},
		{"MOV RAX, [64]", assembler.ErrUnsupportedAddressing},
		{"MOV RAX, [RBX+RSP]", assembler.ErrUnsupportedAddressing},
		{"MOV RAX, 0x1G", assembler.ErrMalformedImmediate},
		{"JMP nowhere", assembler.ErrUnresolvedLabel},
		{"CMP RAX, RBX", assembler.ErrOperandKind},
		{"ADD RAX", assembler.ErrOperandArity},
		{"MOV RAX, [", assembler.ErrSyntax},
		{"MOV RAX, [RBX+RCX*3]", assembler.ErrUnsupportedAddressing},
		{"MOV RAX, [RBX+RCX*0]", assembler.ErrUnsupportedAddressing},
		{"MOV [RBX+0*RCX], RAX", assembler.ErrUnsupportedAddressing},
		{"MOV RAX, [RBX+RCX*99999999999999999999]", assembler.ErrUnsupportedAddressing},
	}
	for _, tt := range tests {
		_, err := assembler.New().AssembleSource(tt.src)
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: got %v, want %v", tt.src, err, tt.want)
		}
	}
}

func TestZeroScaleRejected(t *testing.T) {
	_, err := assembler.Parse("RET\nMOV RAX, [RBX+RCX*0]")
	if !errors.Is(err, assembler.ErrUnsupportedAddressing) {
		t.Fatalf("got %v, want ErrUnsupportedAddressing", err)
	}
	var aerr *assembler.Error
	if !errors.As(err, &aerr) || aerr.Line != 2 || aerr.Mnemonic != "MOV" {
		t.Errorf("error position = %+v", aerr)
	}
}

func TestSourceUnknownRegisterNamed(t *testing.T) {
	tests := []struct {
		src, name string
	}{
		{"MOV RAX, RQX", "RQX"},
		{"MOV RQX, 1", "RQX"},
		{"MOV [RBX], rqx", "rqx"},
		{"MOV eax, [RBX]", "eax"},
		{"ADD RAX, EAX", "EAX"},
		{"ADD r16, 1", "r16"},
		{"SUB ebx, RCX", "ebx"},
		{"CMP AL, 1", "AL"},
	}
	for _, tt := range tests {
		_, err := assembler.New().AssembleSource(tt.src)
		if !errors.Is(err, assembler.ErrUnknownRegister) {
			t.Errorf("%q: got %v, want ErrUnknownRegister", tt.src, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.name) {
			t.Errorf("%q: error %q does not name %q", tt.src, err, tt.name)
		}
	}

	// Identifiers stay labels where no register is allowed.
	if _, err := assembler.New().AssembleSource("CMP RAX, zz9"); !errors.Is(err, assembler.ErrOperandKind) {
		t.Errorf("CMP with identifier immediate: got %v, want ErrOperandKind", err)
	}
	if _, err := assembler.New().AssembleSource("JMP RQX"); !errors.Is(err, assembler.ErrUnresolvedLabel) {
		t.Errorf("JMP to undefined name: got %v, want ErrUnresolvedLabel", err)
	}
}

func TestInstructionString(t *testing.T) {
	prog, err := assembler.Parse("top: mov [rbx + rcx*4 - 8], rax")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := prog[0].String(), "top: MOV [RBX + RCX*4 - 8], RAX"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
