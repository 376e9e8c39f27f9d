package assembler

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Urethramancer/x64asm/cpu"
)

var (
	reLabel    = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)
	reMnemonic = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)
	reNumeric  = regexp.MustCompile(`^-?[0-9]`)
	reScaled   = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)\s*\*\s*([0-9]+)$|^([0-9]+)\s*\*\s*([A-Za-z][A-Za-z0-9]*)$`)
)

// Parse converts source text into instructions, one per non-empty line:
//
//	[label:] [MNEMONIC operand (, operand)*]
//
// A semicolon starts a comment. Mnemonics and register names are
// case-insensitive and come out uppercase; label names keep their case.
func Parse(src string) ([]Instruction, error) {
	lines := strings.Split(strings.ReplaceAll(src, "\r\n", "\n"), "\n")

	var prog []Instruction
	for i, line := range lines {
		ins, ok, err := parseLine(line, i+1)
		if err != nil {
			return nil, err
		}
		if ok {
			prog = append(prog, ins)
		}
	}
	return prog, nil
}

// parseLine parses one source line. It reports false for blank lines.
func parseLine(line string, num int) (Instruction, bool, error) {
	if commentIndex := strings.IndexRune(line, ';'); commentIndex != -1 {
		line = line[:commentIndex]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return Instruction{}, false, nil
	}

	ins := Instruction{Line: num}
	syntax := func(format string, args ...any) error {
		return &Error{Line: num, Mnemonic: ins.Mnemonic, Err: fmt.Errorf("%w: "+format, append([]any{ErrSyntax}, args...)...)}
	}

	// A colon before any operand bracket ends a label.
	if colon := strings.IndexRune(line, ':'); colon != -1 && !strings.ContainsRune(line[:colon], '[') {
		label := strings.TrimSpace(line[:colon])
		if !reLabel.MatchString(label) {
			return ins, false, syntax("invalid label '%s'", label)
		}
		if cpu.IsRegister(strings.ToUpper(label)) {
			return ins, false, syntax("label '%s' is a register name", label)
		}
		ins.Label = label
		line = strings.TrimSpace(line[colon+1:])
	}
	if line == "" {
		return ins, true, nil
	}

	mnemonic, operandStr := line, ""
	if firstSpace := strings.IndexAny(line, " \t"); firstSpace != -1 {
		mnemonic = line[:firstSpace]
		operandStr = strings.TrimSpace(line[firstSpace:])
	}
	if !reMnemonic.MatchString(mnemonic) {
		return ins, false, syntax("invalid mnemonic '%s'", mnemonic)
	}
	ins.Mnemonic = strings.ToUpper(mnemonic)

	if operandStr == "" {
		return ins, true, nil
	}
	for _, s := range splitOperands(operandStr) {
		if s == "" {
			return ins, false, syntax("empty operand in '%s'", operandStr)
		}
		op, err := parseOperand(s)
		if errors.Is(err, ErrUnsupportedAddressing) {
			return ins, false, &Error{Line: num, Mnemonic: ins.Mnemonic, Err: err}
		}
		if err != nil {
			return ins, false, syntax("%v", err)
		}
		ins.Operands = append(ins.Operands, op)
	}
	return ins, true, nil
}

// parseOperand converts an operand string into a structured Operand.
func parseOperand(s string) (Operand, error) {
	switch {
	case strings.HasPrefix(s, "["):
		if !strings.HasSuffix(s, "]") {
			return Operand{}, fmt.Errorf("unterminated memory operand '%s'", s)
		}
		return parseMemory(s[1 : len(s)-1])
	case cpu.IsRegister(strings.ToUpper(s)):
		return Reg(strings.ToUpper(s)), nil
	case reNumeric.MatchString(s):
		// Validated when encoded.
		return Imm(s), nil
	case reLabel.MatchString(s):
		return LabelRef(s), nil
	}
	return Operand{}, fmt.Errorf("unknown operand format '%s'", s)
}

// parseMemory parses the inside of [...]: terms joined by + or -, where a
// REG*N term is the index, the first bare register the base, a second bare
// register the index, and numbers add up to the displacement.
func parseMemory(inner string) (Operand, error) {
	terms, err := splitTerms(inner)
	if err != nil {
		return Operand{}, err
	}

	op := Mem("", "", 1, 0)
	m := &op.Mem
	for _, t := range terms {
		if sm := reScaled.FindStringSubmatch(t.text); sm != nil {
			if t.neg {
				return Operand{}, fmt.Errorf("index '%s' cannot be subtracted", t.text)
			}
			if m.Index != "" {
				return Operand{}, fmt.Errorf("more than one index register in '[%s]'", inner)
			}
			name, factor := sm[1], sm[2]
			if name == "" {
				name, factor = sm[4], sm[3]
			}
			// A zero Scale in Memory means 1, so a written *0 has to stop here.
			scale, err := strconv.Atoi(factor)
			if err != nil || scale == 0 {
				return Operand{}, fmt.Errorf("%w: scale %s", ErrUnsupportedAddressing, factor)
			}
			m.Index, m.Scale = registerText(name), scale
			continue
		}

		if reNumeric.MatchString(t.text) {
			mag, _, err := parseLiteral(t.text)
			if err != nil {
				return Operand{}, fmt.Errorf("invalid displacement '%s'", t.text)
			}
			var v int64
			switch {
			case t.neg && mag <= 1<<63:
				v = int64(-mag)
			case !t.neg && mag <= math.MaxInt64:
				v = int64(mag)
			default:
				return Operand{}, fmt.Errorf("displacement '%s' out of range", t.text)
			}
			sum := m.Displacement + v
			if (v > 0 && sum < m.Displacement) || (v < 0 && sum > m.Displacement) {
				return Operand{}, fmt.Errorf("displacement overflows in '[%s]'", inner)
			}
			m.Displacement = sum
			continue
		}

		if t.neg {
			return Operand{}, fmt.Errorf("register '%s' cannot be subtracted", t.text)
		}
		if !reLabel.MatchString(t.text) {
			return Operand{}, fmt.Errorf("invalid term '%s' in '[%s]'", t.text, inner)
		}
		switch {
		case m.Base == "":
			m.Base = registerText(t.text)
		case m.Index == "":
			m.Index = registerText(t.text)
		default:
			return Operand{}, fmt.Errorf("too many registers in '[%s]'", inner)
		}
	}
	return op, nil
}

// registerText normalises a known register name to uppercase and leaves
// anything else as written, so an unknown name is reported verbatim.
func registerText(s string) string {
	if up := strings.ToUpper(s); cpu.IsRegister(up) {
		return up
	}
	return s
}

type term struct {
	text string
	neg  bool
}

// splitTerms splits an address expression on top-level + and - signs.
func splitTerms(s string) ([]term, error) {
	var terms []term
	neg := false
	last := 0
	flush := func(end int) error {
		text := strings.TrimSpace(s[last:end])
		if text == "" {
			return fmt.Errorf("empty term in '[%s]'", s)
		}
		terms = append(terms, term{text: text, neg: neg})
		return nil
	}

	for i, r := range s {
		if r != '+' && r != '-' {
			continue
		}
		if strings.TrimSpace(s[last:i]) == "" && len(terms) == 0 && r == '-' && !neg {
			// Leading sign on the first term.
			neg = true
			last = i + 1
			continue
		}
		if err := flush(i); err != nil {
			return nil, err
		}
		neg = r == '-'
		last = i + 1
	}
	if err := flush(len(s)); err != nil {
		return nil, err
	}
	return terms, nil
}

// splitOperands splits an operand string by commas, but ignores commas inside brackets.
func splitOperands(s string) []string {
	var result []string
	depth := 0
	last := 0
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			depth--
		case ',':
			if depth == 0 {
				result = append(result, strings.TrimSpace(s[last:i]))
				last = i + 1
			}
		}
	}
	result = append(result, strings.TrimSpace(s[last:]))
	return result
}
