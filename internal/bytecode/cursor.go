package bytecode

import (
	"fmt"
	"strings"

	"github.com/wevanson/classvm/internal/classfile"
	"github.com/wevanson/classvm/internal/reader"
)

// Cursor is a lazy, restartable walk over a method's code bytes. It
// decodes the instruction at the current pc on each call to Next,
// advances past it, and can be repositioned with SetPc for branches —
// mirroring the original's Bytecode<'a> iterator plus set_pc.
type Cursor struct {
	code []byte
	pc   uint32
}

// NewCursor wraps code. The cursor aliases code; the caller must not
// mutate it while the cursor is in use.
func NewCursor(code []byte) *Cursor {
	return &Cursor{code: code}
}

// Pc returns the program counter of the next instruction to be decoded.
func (c *Cursor) Pc() uint32 { return c.pc }

// SetPc repositions the cursor; the next Next() call decodes from here.
func (c *Cursor) SetPc(pc uint32) { c.pc = pc }

// Next decodes the instruction at the current pc, advances past it, and
// returns the pc the instruction started at alongside the decoded
// Instruction. It returns ErrEndOfCode once the program counter reaches
// the end of the code array, an *InvalidOpcodeError or *TruncatedError
// if the bytes there do not form a valid instruction, and a plain error
// for malformed operands (a non-zero reserved byte in invokeinterface or
// invokedynamic, or a tableswitch whose high is below its low).
func (c *Cursor) Next() (instrPc uint32, instr Instruction, err error) {
	if int(c.pc) >= len(c.code) {
		return c.pc, Instruction{}, ErrEndOfCode
	}
	instrPc = c.pc
	instr, newPc, err := decodeAt(c.code, c.pc)
	if err != nil {
		return instrPc, Instruction{}, err
	}
	c.pc = newPc
	return instrPc, instr, nil
}

func decodeAt(code []byte, pc uint32) (Instruction, uint32, error) {
	r := reader.New(code[pc:])
	opcode, err := r.ReadU8()
	if err != nil {
		return Instruction{}, pc, &TruncatedError{Pc: pc}
	}

	instr, err := decodeOpcode(r, opcode, pc, code)
	if err != nil {
		return Instruction{}, pc, err
	}

	consumed := len(code[pc:]) - r.Remaining()
	return instr, pc + uint32(consumed), nil
}

// switchPadding computes the number of padding bytes tableswitch and
// lookupswitch skip after their opcode byte so that the following 32-bit
// fields start on a 4-byte boundary relative to the start of the code
// array. pc is the absolute offset of the switch opcode byte itself.
func switchPadding(pc uint32) int {
	return int((4 - (pc+1)%4) % 4)
}

func decodeOpcode(r *reader.Reader, opcode uint8, pc uint32, code []byte) (Instruction, error) {
	trunc := func(err error) error {
		if err == reader.ErrUnexpectedEOF {
			return &TruncatedError{Pc: pc}
		}
		return err
	}

	switch opcode {
	case 0x00:
		return Instruction{Op: Nop}, nil
	case 0x01:
		return Instruction{Op: AconstNull}, nil
	case 0x02:
		return Instruction{Op: Iconst, IntOperand: -1}, nil
	case 0x03:
		return Instruction{Op: Iconst, IntOperand: 0}, nil
	case 0x04:
		return Instruction{Op: Iconst, IntOperand: 1}, nil
	case 0x05:
		return Instruction{Op: Iconst, IntOperand: 2}, nil
	case 0x06:
		return Instruction{Op: Iconst, IntOperand: 3}, nil
	case 0x07:
		return Instruction{Op: Iconst, IntOperand: 4}, nil
	case 0x08:
		return Instruction{Op: Iconst, IntOperand: 5}, nil
	case 0x09:
		return Instruction{Op: Lconst, LongOperand: 0}, nil
	case 0x0A:
		return Instruction{Op: Lconst, LongOperand: 1}, nil
	case 0x0B:
		return Instruction{Op: Fconst, Float32Operand: 0}, nil
	case 0x0C:
		return Instruction{Op: Fconst, Float32Operand: 1}, nil
	case 0x0D:
		return Instruction{Op: Fconst, Float32Operand: 2}, nil
	case 0x0E:
		return Instruction{Op: Dconst, Float64Operand: 0}, nil
	case 0x0F:
		return Instruction{Op: Dconst, Float64Operand: 1}, nil
	case 0x10:
		v, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: Bipush, IntOperand: int32(int8(v))}, nil
	case 0x11:
		v, err := r.ReadI16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: Sipush, IntOperand: int32(v)}, nil
	case 0x12:
		v, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: Ldc, ConstIdx: classfile.ConstantIdx(v)}, nil
	case 0x13:
		v, err := r.ReadU16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: LdcW, ConstIdx: classfile.ConstantIdx(v)}, nil
	case 0x14:
		v, err := r.ReadU16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: Ldc2W, ConstIdx: classfile.ConstantIdx(v)}, nil

	// Loads, wide-indexed form
	case 0x15:
		return decodeLoad1(r, Iload, trunc)
	case 0x16:
		return decodeLoad1(r, Lload, trunc)
	case 0x17:
		return decodeLoad1(r, Fload, trunc)
	case 0x18:
		return decodeLoad1(r, Dload, trunc)
	case 0x19:
		return decodeLoad1(r, Aload, trunc)

	// Loads, literal-indexed short forms
	case 0x1A, 0x1B, 0x1C, 0x1D:
		return Instruction{Op: Iload, Local: uint16(opcode - 0x1A)}, nil
	case 0x1E, 0x1F, 0x20, 0x21:
		return Instruction{Op: Lload, Local: uint16(opcode - 0x1E)}, nil
	case 0x22, 0x23, 0x24, 0x25:
		return Instruction{Op: Fload, Local: uint16(opcode - 0x22)}, nil
	case 0x26, 0x27, 0x28, 0x29:
		return Instruction{Op: Dload, Local: uint16(opcode - 0x26)}, nil
	case 0x2A, 0x2B, 0x2C, 0x2D:
		return Instruction{Op: Aload, Local: uint16(opcode - 0x2A)}, nil

	case 0x2E:
		return Instruction{Op: Iaload}, nil
	case 0x2F:
		return Instruction{Op: Laload}, nil
	case 0x30:
		return Instruction{Op: Faload}, nil
	case 0x31:
		return Instruction{Op: Daload}, nil
	case 0x32:
		return Instruction{Op: Aaload}, nil
	case 0x33:
		return Instruction{Op: Baload}, nil
	case 0x34:
		return Instruction{Op: Caload}, nil
	case 0x35:
		return Instruction{Op: Saload}, nil

	// Stores, wide-indexed form
	case 0x36:
		return decodeLoad1(r, Istore, trunc)
	case 0x37:
		return decodeLoad1(r, Lstore, trunc)
	case 0x38:
		return decodeLoad1(r, Fstore, trunc)
	case 0x39:
		return decodeLoad1(r, Dstore, trunc)
	case 0x3A:
		return decodeLoad1(r, Astore, trunc)

	// Stores, literal-indexed short forms
	case 0x3B, 0x3C, 0x3D, 0x3E:
		return Instruction{Op: Istore, Local: uint16(opcode - 0x3B)}, nil
	case 0x3F, 0x40, 0x41, 0x42:
		return Instruction{Op: Lstore, Local: uint16(opcode - 0x3F)}, nil
	case 0x43, 0x44, 0x45, 0x46:
		return Instruction{Op: Fstore, Local: uint16(opcode - 0x43)}, nil
	case 0x47, 0x48, 0x49, 0x4A:
		return Instruction{Op: Dstore, Local: uint16(opcode - 0x47)}, nil
	case 0x4B, 0x4C, 0x4D, 0x4E:
		return Instruction{Op: Astore, Local: uint16(opcode - 0x4B)}, nil

	case 0x4F:
		return Instruction{Op: Iastore}, nil
	case 0x50:
		return Instruction{Op: Lastore}, nil
	case 0x51:
		return Instruction{Op: Fastore}, nil
	case 0x52:
		return Instruction{Op: Dastore}, nil
	case 0x53:
		return Instruction{Op: Aastore}, nil
	case 0x54:
		return Instruction{Op: Bastore}, nil
	case 0x55:
		return Instruction{Op: Castore}, nil
	case 0x56:
		return Instruction{Op: Sastore}, nil

	case 0x57:
		return Instruction{Op: Pop}, nil
	case 0x58:
		return Instruction{Op: Pop2}, nil
	case 0x59:
		return Instruction{Op: Dup}, nil
	case 0x5A:
		return Instruction{Op: DupX1}, nil
	case 0x5B:
		return Instruction{Op: DupX2}, nil
	case 0x5C:
		return Instruction{Op: Dup2}, nil
	case 0x5D:
		return Instruction{Op: Dup2X1}, nil
	case 0x5E:
		return Instruction{Op: Dup2X2}, nil
	case 0x5F:
		return Instruction{Op: Swap}, nil

	case 0x60:
		return Instruction{Op: Iadd}, nil
	case 0x61:
		return Instruction{Op: Ladd}, nil
	case 0x62:
		return Instruction{Op: Fadd}, nil
	case 0x63:
		return Instruction{Op: Dadd}, nil
	case 0x64:
		return Instruction{Op: Isub}, nil
	case 0x65:
		return Instruction{Op: Lsub}, nil
	case 0x66:
		return Instruction{Op: Fsub}, nil
	case 0x67:
		return Instruction{Op: Dsub}, nil
	case 0x68:
		return Instruction{Op: Imul}, nil
	case 0x69:
		return Instruction{Op: Lmul}, nil
	case 0x6A:
		return Instruction{Op: Fmul}, nil
	case 0x6B:
		return Instruction{Op: Dmul}, nil
	case 0x6C:
		return Instruction{Op: Idiv}, nil
	case 0x6D:
		return Instruction{Op: Ldiv}, nil
	case 0x6E:
		return Instruction{Op: Fdiv}, nil
	case 0x6F:
		return Instruction{Op: Ddiv}, nil
	case 0x70:
		return Instruction{Op: Irem}, nil
	case 0x71:
		return Instruction{Op: Lrem}, nil
	case 0x72:
		return Instruction{Op: Frem}, nil
	case 0x73:
		return Instruction{Op: Drem}, nil
	case 0x74:
		return Instruction{Op: Ineg}, nil
	case 0x75:
		return Instruction{Op: Lneg}, nil
	case 0x76:
		return Instruction{Op: Fneg}, nil
	case 0x77:
		return Instruction{Op: Dneg}, nil
	case 0x78:
		return Instruction{Op: Ishl}, nil
	case 0x79:
		return Instruction{Op: Lshl}, nil
	case 0x7A:
		return Instruction{Op: Ishr}, nil
	case 0x7B:
		return Instruction{Op: Lshr}, nil
	case 0x7C:
		return Instruction{Op: Iushr}, nil
	case 0x7D:
		return Instruction{Op: Lushr}, nil
	case 0x7E:
		return Instruction{Op: Iand}, nil
	case 0x7F:
		return Instruction{Op: Land}, nil
	case 0x80:
		return Instruction{Op: Ior}, nil
	case 0x81:
		return Instruction{Op: Lor}, nil
	case 0x82:
		return Instruction{Op: Ixor}, nil
	case 0x83:
		return Instruction{Op: Lxor}, nil
	case 0x84:
		idx, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		c, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: Iinc, Local: uint16(idx), IincConst: int16(int8(c))}, nil

	case 0x85:
		return Instruction{Op: I2l}, nil
	case 0x86:
		return Instruction{Op: I2f}, nil
	case 0x87:
		return Instruction{Op: I2d}, nil
	case 0x88:
		return Instruction{Op: L2i}, nil
	case 0x89:
		return Instruction{Op: L2f}, nil
	case 0x8A:
		return Instruction{Op: L2d}, nil
	case 0x8B:
		return Instruction{Op: F2i}, nil
	case 0x8C:
		return Instruction{Op: F2l}, nil
	case 0x8D:
		return Instruction{Op: F2d}, nil
	case 0x8E:
		return Instruction{Op: D2i}, nil
	case 0x8F:
		return Instruction{Op: D2l}, nil
	case 0x90:
		return Instruction{Op: D2f}, nil
	case 0x91:
		return Instruction{Op: I2b}, nil
	case 0x92:
		return Instruction{Op: I2c}, nil
	case 0x93:
		return Instruction{Op: I2s}, nil

	case 0x94:
		return Instruction{Op: Lcmp}, nil
	case 0x95:
		return Instruction{Op: Fcmpl}, nil
	case 0x96:
		return Instruction{Op: Fcmpg}, nil
	case 0x97:
		return Instruction{Op: Dcmpl}, nil
	case 0x98:
		return Instruction{Op: Dcmpg}, nil

	case 0x99:
		return decodeBranch16(r, IfEq, trunc)
	case 0x9A:
		return decodeBranch16(r, IfNe, trunc)
	case 0x9B:
		return decodeBranch16(r, IfLt, trunc)
	case 0x9C:
		return decodeBranch16(r, IfGe, trunc)
	case 0x9D:
		return decodeBranch16(r, IfGt, trunc)
	case 0x9E:
		return decodeBranch16(r, IfLe, trunc)
	case 0x9F:
		return decodeBranch16(r, IfIcmpEq, trunc)
	case 0xA0:
		return decodeBranch16(r, IfIcmpNe, trunc)
	case 0xA1:
		return decodeBranch16(r, IfIcmpLt, trunc)
	case 0xA2:
		return decodeBranch16(r, IfIcmpGe, trunc)
	case 0xA3:
		return decodeBranch16(r, IfIcmpGt, trunc)
	case 0xA4:
		return decodeBranch16(r, IfIcmpLe, trunc)
	case 0xA5:
		return decodeBranch16(r, IfAcmpEq, trunc)
	case 0xA6:
		return decodeBranch16(r, IfAcmpNe, trunc)

	case 0xA7:
		return decodeBranch16(r, Goto, trunc)
	case 0xA8:
		return decodeBranch16(r, Jsr, trunc)
	case 0xA9:
		idx, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: Ret, Local: uint16(idx)}, nil

	case 0xAA:
		return decodeTableSwitch(r, pc, code, trunc)
	case 0xAB:
		return decodeLookupSwitch(r, pc, code, trunc)

	case 0xAC:
		return Instruction{Op: Ireturn}, nil
	case 0xAD:
		return Instruction{Op: Lreturn}, nil
	case 0xAE:
		return Instruction{Op: Freturn}, nil
	case 0xAF:
		return Instruction{Op: Dreturn}, nil
	case 0xB0:
		return Instruction{Op: Areturn}, nil
	case 0xB1:
		return Instruction{Op: ReturnVoid}, nil

	case 0xB2:
		return decodeConstRef16(r, GetStatic, trunc)
	case 0xB3:
		return decodeConstRef16(r, PutStatic, trunc)
	case 0xB4:
		return decodeConstRef16(r, GetField, trunc)
	case 0xB5:
		return decodeConstRef16(r, PutField, trunc)
	case 0xB6:
		return decodeConstRef16(r, InvokeVirtual, trunc)
	case 0xB7:
		return decodeConstRef16(r, InvokeSpecial, trunc)
	case 0xB8:
		return decodeConstRef16(r, InvokeStatic, trunc)
	case 0xB9:
		idx, err := r.ReadU16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		count, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		reserved, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		if reserved != 0 {
			return Instruction{}, fmt.Errorf("invokeinterface at pc %d: reserved byte must be 0, got %d", pc, reserved)
		}
		return Instruction{Op: InvokeInterface, ConstIdx: classfile.ConstantIdx(idx), InvokeInterfaceCount: count}, nil
	case 0xBA:
		idx, err := r.ReadU16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		reserved, err := r.ReadU16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		if reserved != 0 {
			return Instruction{}, fmt.Errorf("invokedynamic at pc %d: reserved bytes must be 0, got %d", pc, reserved)
		}
		return Instruction{Op: InvokeDynamic, ConstIdx: classfile.ConstantIdx(idx)}, nil

	case 0xBB:
		return decodeConstRef16(r, New, trunc)
	case 0xBC:
		tag, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: NewArray, ArrayKind: arrayKindFromTag(tag)}, nil
	case 0xBD:
		return decodeConstRef16(r, ANewArray, trunc)
	case 0xBE:
		return Instruction{Op: ArrayLength}, nil
	case 0xBF:
		return Instruction{Op: AThrow}, nil
	case 0xC0:
		return decodeConstRef16(r, CheckCast, trunc)
	case 0xC1:
		return decodeConstRef16(r, InstanceOf, trunc)
	case 0xC2:
		return Instruction{Op: MonitorEnter}, nil
	case 0xC3:
		return Instruction{Op: MonitorExit}, nil

	case 0xC4:
		return decodeWide(r, pc, trunc)

	case 0xC5:
		idx, err := r.ReadU16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		dims, err := r.ReadU8()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: MultiANewArray, ConstIdx: classfile.ConstantIdx(idx), Dimensions: dims}, nil
	case 0xC6:
		return decodeBranch16(r, IfNull, trunc)
	case 0xC7:
		return decodeBranch16(r, IfNonNull, trunc)
	case 0xC8:
		v, err := r.ReadI32()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: GotoW, IntOperand: v}, nil
	case 0xC9:
		v, err := r.ReadI32()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: JsrW, IntOperand: v}, nil

	default:
		return Instruction{}, &InvalidOpcodeError{Pc: pc, Opcode: opcode}
	}
}

func decodeLoad1(r *reader.Reader, op Op, trunc func(error) error) (Instruction, error) {
	idx, err := r.ReadU8()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	return Instruction{Op: op, Local: uint16(idx)}, nil
}

func decodeBranch16(r *reader.Reader, op Op, trunc func(error) error) (Instruction, error) {
	v, err := r.ReadI16()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	return Instruction{Op: op, IntOperand: int32(v)}, nil
}

func decodeConstRef16(r *reader.Reader, op Op, trunc func(error) error) (Instruction, error) {
	v, err := r.ReadU16()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	return Instruction{Op: op, ConstIdx: classfile.ConstantIdx(v)}, nil
}

func decodeTableSwitch(r *reader.Reader, pc uint32, code []byte, trunc func(error) error) (Instruction, error) {
	if err := r.Skip(switchPadding(pc)); err != nil {
		return Instruction{}, trunc(err)
	}
	def, err := r.ReadI32()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	low, err := r.ReadI32()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	high, err := r.ReadI32()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	count := high - low + 1
	if count < 0 {
		return Instruction{}, fmt.Errorf("tableswitch at pc %d: high (%d) < low (%d)", pc, high, low)
	}
	offsets, err := r.ReadSlice(int(count) * 4)
	if err != nil {
		return Instruction{}, trunc(err)
	}
	return Instruction{Op: TableSwitchOp, Table: NewTableSwitch(def, low, high, offsets)}, nil
}

func decodeLookupSwitch(r *reader.Reader, pc uint32, code []byte, trunc func(error) error) (Instruction, error) {
	if err := r.Skip(switchPadding(pc)); err != nil {
		return Instruction{}, trunc(err)
	}
	def, err := r.ReadI32()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	npairs, err := r.ReadU32()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	pairs, err := r.ReadSlice(int(npairs) * 8)
	if err != nil {
		return Instruction{}, trunc(err)
	}
	return Instruction{Op: LookupSwitchOp, Lookup: NewLookupSwitch(def, pairs)}, nil
}

func decodeWide(r *reader.Reader, pc uint32, trunc func(error) error) (Instruction, error) {
	opcode, err := r.ReadU8()
	if err != nil {
		return Instruction{}, trunc(err)
	}
	index, err := r.ReadU16()
	if err != nil {
		return Instruction{}, trunc(err)
	}

	switch opcode {
	case 0x15:
		return Instruction{Op: WideIload, Local: index}, nil
	case 0x16:
		return Instruction{Op: WideLload, Local: index}, nil
	case 0x17:
		return Instruction{Op: WideFload, Local: index}, nil
	case 0x18:
		return Instruction{Op: WideDload, Local: index}, nil
	case 0x19:
		return Instruction{Op: WideAload, Local: index}, nil
	case 0x36:
		return Instruction{Op: WideIstore, Local: index}, nil
	case 0x37:
		return Instruction{Op: WideLstore, Local: index}, nil
	case 0x38:
		return Instruction{Op: WideFstore, Local: index}, nil
	case 0x39:
		return Instruction{Op: WideDstore, Local: index}, nil
	case 0x3A:
		return Instruction{Op: WideAstore, Local: index}, nil
	case 0xA9:
		return Instruction{Op: WideRet, Local: index}, nil
	case 0x84:
		c, err := r.ReadI16()
		if err != nil {
			return Instruction{}, trunc(err)
		}
		return Instruction{Op: WideIinc, Local: index, IincConst: c}, nil
	default:
		return Instruction{}, &InvalidOpcodeError{Pc: pc, Opcode: opcode}
	}
}

// Disassemble renders every instruction in code as one line per
// instruction, in the style "pc: mnemonic operand", for diagnostics.
// Supplements the specification with the disassembly helper named in the
// expanded spec's supplemented features section.
func Disassemble(code []byte) string {
	var b strings.Builder
	cur := NewCursor(code)
	for {
		pc, instr, err := cur.Next()
		if err == ErrEndOfCode {
			break
		}
		if err != nil {
			fmt.Fprintf(&b, "%d: <error: %v>\n", pc, err)
			break
		}
		fmt.Fprintf(&b, "%d: %s\n", pc, formatInstruction(instr))
	}
	return b.String()
}

func formatInstruction(i Instruction) string {
	switch i.Op {
	case Iconst:
		return fmt.Sprintf("iconst %d", i.IntOperand)
	case Lconst:
		return fmt.Sprintf("lconst %d", i.LongOperand)
	case Fconst:
		return fmt.Sprintf("fconst %g", i.Float32Operand)
	case Dconst:
		return fmt.Sprintf("dconst %g", i.Float64Operand)
	case Bipush, Sipush:
		return fmt.Sprintf("%s %d", i.Op, i.IntOperand)
	case Ldc, LdcW, Ldc2W:
		return fmt.Sprintf("%s #%d", i.Op, i.ConstIdx)
	case Iload, Lload, Fload, Dload, Aload, Istore, Lstore, Fstore, Dstore, Astore,
		WideIload, WideLload, WideFload, WideDload, WideAload,
		WideIstore, WideLstore, WideFstore, WideDstore, WideAstore, Ret, WideRet:
		return fmt.Sprintf("%s %d", i.Op, i.Local)
	case Iinc, WideIinc:
		return fmt.Sprintf("%s %d %d", i.Op, i.Local, i.IincConst)
	case IfEq, IfNe, IfLt, IfGe, IfGt, IfLe, IfIcmpEq, IfIcmpNe, IfIcmpLt, IfIcmpGe,
		IfIcmpGt, IfIcmpLe, IfAcmpEq, IfAcmpNe, Goto, Jsr, IfNull, IfNonNull:
		return fmt.Sprintf("%s %+d", i.Op, i.IntOperand)
	case GotoW, JsrW:
		return fmt.Sprintf("%s %+d", i.Op, i.IntOperand)
	case GetStatic, PutStatic, GetField, PutField, InvokeVirtual, InvokeSpecial,
		InvokeStatic, InvokeDynamic, New, ANewArray, CheckCast, InstanceOf:
		return fmt.Sprintf("%s #%d", i.Op, i.ConstIdx)
	case InvokeInterface:
		return fmt.Sprintf("%s #%d, %d", i.Op, i.ConstIdx, i.InvokeInterfaceCount)
	case MultiANewArray:
		return fmt.Sprintf("%s #%d, %d", i.Op, i.ConstIdx, i.Dimensions)
	case NewArray:
		return fmt.Sprintf("%s %d", i.Op, i.ArrayKind)
	case TableSwitchOp:
		return fmt.Sprintf("tableswitch [%d..%d] default=%+d", i.Table.Low, i.Table.High, i.Table.Default)
	case LookupSwitchOp:
		return fmt.Sprintf("lookupswitch default=%+d", i.Lookup.Default)
	default:
		return i.Op.String()
	}
}
