package bytecode

import "github.com/wevanson/classvm/internal/classfile"

// ArrayKind names the primitive element type of a newarray operand.
type ArrayKind int

const (
	ArrayBool ArrayKind = iota + 4
	ArrayChar
	ArrayFloat
	ArrayDouble
	ArrayByte
	ArrayShort
	ArrayInt
	ArrayLong
)

func arrayKindFromTag(tag uint8) ArrayKind { return ArrayKind(tag) }

// Instruction is one decoded opcode. Rather than a closed sum of
// per-opcode types, it is a tagged struct: Op names which of the operand
// fields below are meaningful, mirroring the Rust Instruction enum's
// variant payloads while fitting Go's lack of sum types.
type Instruction struct {
	Op Op

	// IntOperand carries iconst/bipush/sipush's literal and
	// ifeq/if_icmp*/goto/jsr/goto_w/jsr_w's signed branch offset.
	IntOperand int32
	// LongOperand carries lconst's literal.
	LongOperand int64
	// Float32Operand carries fconst's literal.
	Float32Operand float32
	// Float64Operand carries dconst's literal.
	Float64Operand float64

	// Local carries the local-variable index for load/store/ret opcodes
	// (and their wide counterparts); IincConst carries iinc's signed
	// increment.
	Local     uint16
	IincConst int16

	// ConstIdx carries a constant-pool reference for ldc/ldc_w/ldc2_w,
	// field/method-reference opcodes, new/anewarray/checkcast/instanceof,
	// and multianewarray.
	ConstIdx classfile.ConstantIdx

	// InvokeInterfaceCount is invokeinterface's argument count byte.
	InvokeInterfaceCount uint8
	// Dimensions is multianewarray's dimension count byte.
	Dimensions uint8

	ArrayKind ArrayKind

	Table  *TableSwitch
	Lookup *LookupSwitch
}

// fcmpUsesGreaterOnNaN reports whether this comparison op treats NaN
// operands as greater (fcmpg/dcmpg) rather than lesser (fcmpl/dcmpl).
func (i Instruction) fcmpUsesGreaterOnNaN() bool {
	return i.Op == Fcmpg || i.Op == Dcmpg
}

// NaNGreater reports whether a *cmpg instruction (rather than its *cmpl
// counterpart) decoded this comparison. Valid only when Op is Fcmpl,
// Fcmpg, Dcmpl, or Dcmpg.
func (i Instruction) NaNGreater() bool { return i.fcmpUsesGreaterOnNaN() }
