package vm

import "fmt"

// FatalError reports an interpreter invariant violation, such as a
// malformed operand stack or an instruction that cannot be decoded or
// executed. These mirror the original interpreter's panic! calls, which
// abort the whole process; Interpreter.Run and Interpreter.Invoke recover
// from them at the top of the call stack and report them as an ordinary
// error instead, so a caller never needs to handle a Go panic directly.
// Unsupported opcodes are reported separately as UnsupportedOpError.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return e.Msg }

func fatalf(format string, args ...any) *FatalError {
	return &FatalError{Msg: fmt.Sprintf(format, args...)}
}

// ClassNotFoundError reports that a referenced class was never loaded
// into the ClassRegistry.
type ClassNotFoundError struct {
	Name string
}

func (e *ClassNotFoundError) Error() string {
	return fmt.Sprintf("class not found: %s", e.Name)
}

// MethodNotFoundError reports that a class has no method matching a
// given name and descriptor.
type MethodNotFoundError struct {
	Class, Name, Descriptor string
}

func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method not found: %s.%s%s", e.Class, e.Name, e.Descriptor)
}

// StackOverflowError reports that the call stack exceeded its configured
// depth guard, the interpreter's substitute for the JVM's StackOverflowError.
type StackOverflowError struct {
	Limit int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("call stack exceeded depth limit of %d frames", e.Limit)
}

// UnsupportedOpError reports an opcode this interpreter does not execute
// (anything touching objects, arrays, exceptions, or monitors), per the
// specification's explicit Non-goals.
type UnsupportedOpError struct {
	Op string
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported opcode: %s", e.Op)
}
