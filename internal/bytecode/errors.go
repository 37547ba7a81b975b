package bytecode

import (
	"errors"
	"fmt"
)

// ErrEndOfCode is returned by Cursor.Next when the program counter has
// reached the end of the code array without an explicit return; a
// well-formed method body never ends this way, so the interpreter treats
// this as a fatal abort rather than a normal loop exit.
var ErrEndOfCode = errors.New("program counter reached end of code without a return")

// InvalidOpcodeError reports an unrecognized opcode byte at a given pc.
// Per the specification this is a fatal abort, not a recoverable decode
// error: a verified class file never contains one.
type InvalidOpcodeError struct {
	Pc     uint32
	Opcode uint8
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode 0x%02X at pc %d", e.Opcode, e.Pc)
}

// TruncatedError reports that decoding an instruction ran past the end of
// the code array.
type TruncatedError struct {
	Pc uint32
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated instruction at pc %d", e.Pc)
}
