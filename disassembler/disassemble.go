package disassembler

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/arch/x86/x86asm"
)

// Disassemble decodes 64-bit x86 machine code loaded at address 0.
// Decoding follows control flow from address 0 and from every entry in
// labels; bytes never reached are rendered as data. labels may be nil.
func Disassemble(code []byte, labels map[string]uint64) []Line {
	if len(code) == 0 {
		return nil
	}
	size := uint64(len(code))

	// --- STAGE 1: Names supplied by the caller ---
	names := make(map[uint64]string)
	kinds := make(map[uint64]LabelType)
	for _, name := range sortedNames(labels) {
		addr := labels[name]
		if _, taken := names[addr]; !taken && addr <= size {
			names[addr] = name
			kinds[addr] = Named
		}
	}

	// --- STAGE 2: Control Flow Analysis ---
	instructions := make(map[uint64]x86asm.Inst)
	q := newQueue()
	q.push(0)
	for addr := range names {
		q.push(addr)
	}

	for {
		addr, ok := q.pop()
		if !ok {
			break
		}
		if addr >= size {
			continue
		}
		if _, done := instructions[addr]; done {
			continue
		}
		inst, err := x86asm.Decode(code[addr:], 64)
		if err != nil {
			continue
		}
		instructions[addr] = inst

		if !isTerminal(inst.Op) {
			q.push(addr + uint64(inst.Len))
		}
		if target, ok := branchTarget(inst, addr); ok && target <= size {
			q.push(target)
			if _, named := names[target]; !named {
				kind := JumpTarget
				if inst.Op == x86asm.CALL {
					kind = SubroutineEntry
				}
				names[target] = labelName(target, kind)
				kinds[target] = kind
			}
		}
	}

	// --- STAGE 3: Render ---
	var lines []Line
	for pc := uint64(0); pc < size; {
		inst, isCode := instructions[pc]
		if !isCode {
			end := pc + 1
			for end < size {
				if _, ok := instructions[end]; ok {
					break
				}
				if _, ok := names[end]; ok {
					break
				}
				end++
			}
			data := formatData(code[pc:end], pc)
			if name, ok := names[pc]; ok && len(data) > 0 {
				data[0].Label = name
			}
			lines = append(lines, data...)
			pc = end
			continue
		}

		lines = append(lines, Line{
			Address: pc,
			Bytes:   code[pc : pc+uint64(inst.Len)],
			Text:    render(inst, pc, names),
			Label:   names[pc],
			IsCode:  true,
		})
		pc += uint64(inst.Len)
	}

	// A label may sit just past the last byte.
	if name, ok := names[size]; ok {
		lines = append(lines, Line{Address: size, Label: name})
	}
	return lines
}

// Format renders lines as a listing: labels on their own line, then the
// address, the raw bytes and the instruction text.
func Format(lines []Line) string {
	var out strings.Builder
	for _, l := range lines {
		if l.Label != "" {
			fmt.Fprintf(&out, "%s:\n", l.Label)
		}
		if l.Text == "" {
			continue
		}
		fmt.Fprintf(&out, "    %04x  %-24s %s\n", l.Address, fmt.Sprintf("% x", l.Bytes), l.Text)
	}
	return out.String()
}

// render formats one instruction in Intel syntax, naming branch targets.
func render(inst x86asm.Inst, pc uint64, names map[uint64]string) string {
	if target, ok := branchTarget(inst, pc); ok {
		name, named := names[target]
		if !named {
			name = fmt.Sprintf("0x%x", target)
		}
		return fmt.Sprintf("%s %s", strings.ToLower(inst.Op.String()), name)
	}

	return x86asm.IntelSyntax(inst, pc, func(addr uint64) (string, uint64) {
		if name, ok := names[addr]; ok {
			return name, addr
		}
		return "", 0
	})
}

// branchTarget returns the absolute target of a relative branch or call.
func branchTarget(inst x86asm.Inst, pc uint64) (uint64, bool) {
	rel, ok := inst.Args[0].(x86asm.Rel)
	if !ok {
		return 0, false
	}
	return pc + uint64(inst.Len) + uint64(int64(rel)), true
}

// isTerminal checks if an instruction unconditionally stops linear execution.
func isTerminal(op x86asm.Op) bool {
	switch op {
	case x86asm.RET, x86asm.JMP, x86asm.HLT, x86asm.UD2:
		return true
	}
	return false
}

func sortedNames(labels map[string]uint64) []string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type addrQueue struct {
	items []uint64
	seen  map[uint64]bool
}

func newQueue() *addrQueue {
	return &addrQueue{seen: make(map[uint64]bool)}
}

func (q *addrQueue) push(addr uint64) {
	if !q.seen[addr] {
		q.items = append(q.items, addr)
		q.seen[addr] = true
	}
}

func (q *addrQueue) pop() (uint64, bool) {
	if len(q.items) == 0 {
		return 0, false
	}
	a := q.items[0]
	q.items = q.items[1:]
	return a, true
}
