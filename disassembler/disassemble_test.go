package disassembler_test

import (
	"strings"
	"testing"

	"github.com/Urethramancer/x64asm/assembler"
	"github.com/Urethramancer/x64asm/disassembler"
)

func TestDisassembleAssembledProgram(t *testing.T) {
	prog, err := assembler.New().AssembleSource("start: MOV RAX, 5\nADD RAX, RBX\nJMP start\n")
	if err != nil {
		t.Fatal(err)
	}

	lines := disassembler.Disassemble(prog.Code, prog.Labels)
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), disassembler.Format(lines))
	}
	wantAddr := []uint64{0, 10, 13}
	for i, l := range lines {
		if !l.IsCode {
			t.Errorf("line %d not decoded as code: %+v", i, l)
		}
		if l.Address != wantAddr[i] {
			t.Errorf("line %d at %d, want %d", i, l.Address, wantAddr[i])
		}
	}
	if lines[0].Label != "start" {
		t.Errorf("label = %q, want start", lines[0].Label)
	}
	if lines[2].Text != "jmp start" {
		t.Errorf("branch = %q, want \"jmp start\"", lines[2].Text)
	}
	if !strings.HasPrefix(lines[1].Text, "add") {
		t.Errorf("second instruction = %q", lines[1].Text)
	}

	out := disassembler.Format(lines)
	if !strings.HasPrefix(out, "start:\n") {
		t.Errorf("listing does not open with the label:\n%s", out)
	}
	if !strings.Contains(out, "48 01 d8") {
		t.Errorf("listing lacks raw bytes:\n%s", out)
	}
}

func TestDisassembleSynthesisesLabels(t *testing.T) {
	// call +1 ; ret ; je -8 (back to 0) ; ret
	code := []byte{0xE8, 0x01, 0x00, 0x00, 0x00, 0xC3, 0x0F, 0x84, 0xF4, 0xFF, 0xFF, 0xFF, 0xC3}
	lines := disassembler.Disassemble(code, nil)

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text
	}
	want := []string{"call sub_0006", "ret", "je loc_0000", "ret"}
	if len(texts) != len(want) {
		t.Fatalf("got %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, texts[i], want[i])
		}
	}
	if lines[0].Label != "loc_0000" || lines[2].Label != "sub_0006" {
		t.Errorf("labels = %q, %q", lines[0].Label, lines[2].Label)
	}
}

func TestDisassembleUnreachableBytesAsData(t *testing.T) {
	code := []byte{0xC3, 'H', 'i', 'y', 'a', 0x00, 0xFF, 0xFE}
	lines := disassembler.Disassemble(code, nil)
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), disassembler.Format(lines))
	}
	if lines[1].IsCode || lines[1].Text != "db 'Hiya',0" || lines[1].Address != 1 {
		t.Errorf("string line = %+v", lines[1])
	}
	if lines[2].Text != "db 0xff,0xfe" || lines[2].Address != 6 {
		t.Errorf("data line = %+v", lines[2])
	}
}

func TestDisassembleNamedDataAndTrailingLabel(t *testing.T) {
	code := []byte{0xC3, 0xFF, 0xFF}
	labels := map[string]uint64{"table": 1, "end": 3}
	out := disassembler.Format(disassembler.Disassemble(code, labels))
	for _, want := range []string{"table:\n", "db 0xff,0xff", "end:\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing lacks %q:\n%s", want, out)
		}
	}
}

func TestDisassembleEmpty(t *testing.T) {
	if lines := disassembler.Disassemble(nil, nil); lines != nil {
		t.Errorf("got %+v", lines)
	}
}
