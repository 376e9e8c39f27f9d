package assembler

import (
	"errors"
	"fmt"
)

// Error classes. Every error returned by the encoder, the parser or the
// driver wraps exactly one of these, so callers can test with errors.Is.
var (
	ErrUnknownMnemonic       = errors.New("unknown mnemonic")
	ErrOperandArity          = errors.New("wrong number of operands")
	ErrOperandKind           = errors.New("invalid operand kind")
	ErrUnknownRegister       = errors.New("unknown register")
	ErrUnresolvedLabel       = errors.New("unresolved label")
	ErrUnsupportedAddressing = errors.New("unsupported addressing mode")
	ErrMalformedImmediate    = errors.New("malformed immediate")
	ErrSyntax                = errors.New("syntax error")
	ErrDuplicateLabel        = errors.New("duplicate label")
	ErrUnstableLayout        = errors.New("label address changed between passes")
)

// Error reports a failure tied to one source line.
type Error struct {
	Line     int
	Mnemonic string
	Err      error
}

func (e *Error) Error() string {
	if e.Mnemonic == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Mnemonic, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// lineError attaches the instruction's position to err.
func lineError(ins Instruction, err error) error {
	return &Error{Line: ins.Line, Mnemonic: ins.Mnemonic, Err: err}
}
