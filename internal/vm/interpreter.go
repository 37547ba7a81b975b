package vm

import (
	"math"

	"github.com/wevanson/classvm/internal/bytecode"
	"github.com/wevanson/classvm/internal/classfile"
	"github.com/wevanson/classvm/internal/trace"
)

// DefaultMaxCallStackDepth bounds recursion depth in the absence of a
// configured override (internal/config). spec.md leaves the frame stack
// unbounded; a malformed or adversarial class file that recurses forever
// should hit a traceable, configurable limit rather than exhaust the
// host Go runtime's goroutine stack.
const DefaultMaxCallStackDepth = 2048

// Interpreter runs one method-invocation's worth of bytecode at a time,
// driving a call stack of Frames until it empties. It implements
// spec.md's "invokestatic only" subset: every other invocation, field,
// array, object, exception, and monitor opcode is a fatal
// UnsupportedOpError.
type Interpreter struct {
	classes      *ClassRegistry
	maxCallDepth int
}

// NewInterpreter returns an Interpreter backed by classes, with the
// default call-stack depth guard. Use SetMaxCallStackDepth to override
// it from configuration.
func NewInterpreter(classes *ClassRegistry) *Interpreter {
	return &Interpreter{classes: classes, maxCallDepth: DefaultMaxCallStackDepth}
}

// SetMaxCallStackDepth overrides the call-stack depth guard.
func (in *Interpreter) SetMaxCallStackDepth(n int) { in.maxCallDepth = n }

// callStackEntry pairs a Frame with the class it belongs to, needed to
// resolve invokestatic's own constant pool.
type callStackEntry struct {
	class *classfile.Class
	frame *Frame
}

// Run invokes className's "main" method with descriptor
// "([Ljava/lang/String;)V" and executes it to completion. It recovers
// any panic raised during decoding or execution and returns it as an
// ordinary error: a panic carrying an error value (FatalError,
// UnsupportedOpError, StackOverflowError, ...) is returned as is, and
// anything else is wrapped in a FatalError. This mirrors the original's
// panic!-aborts-the-process behavior without taking this process down
// with it.
func (in *Interpreter) Run(className string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fatalf("%v", r)
		}
	}()

	class, ok := in.classes.Get(className)
	if !ok {
		return &ClassNotFoundError{Name: className}
	}
	method, ok := class.GetMethod("main", "([Ljava/lang/String;)V")
	if !ok {
		return &MethodNotFoundError{Class: className, Name: "main", Descriptor: "([Ljava/lang/String;)V"}
	}
	if method.Code == nil {
		panic(fatalf("main method of %s has no Code attribute", className))
	}

	trace.Trace("invoking " + className + ".main")
	stack := []callStackEntry{{class: class, frame: NewFrame(class.Pool, method.Code)}}
	in.loop(stack)
	return nil
}

// Invoke runs methodName/descriptor on className directly (bypassing
// main-method resolution), placing args into locals 0.. the way
// invokestatic does. It is the entry point tests use to exercise
// individual methods in isolation; the CLI only ever calls Run. It
// returns the method's return value, or ok=false for a void method.
func (in *Interpreter) Invoke(className, methodName, descriptor string, args []Value) (result Value, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			err = fatalf("%v", r)
		}
	}()

	class, found := in.classes.Get(className)
	if !found {
		return Value{}, false, &ClassNotFoundError{Name: className}
	}
	method, found := class.GetMethod(methodName, descriptor)
	if !found {
		return Value{}, false, &MethodNotFoundError{Class: className, Name: methodName, Descriptor: descriptor}
	}
	if method.Code == nil {
		panic(fatalf("%s.%s%s has no Code attribute", className, methodName, descriptor))
	}

	frame := NewFrame(class.Pool, method.Code)
	localIdx := 0
	for _, arg := range args {
		frame.Locals.Set(localIdx, arg)
		localIdx += arg.Size()
	}

	stack := []callStackEntry{{class: class, frame: frame}}
	result, ok = in.loop(stack)
	return result, ok, nil
}

// loop is the interpreter's core dispatch: it runs the topmost frame
// until it returns or pushes a callee frame, repeating until the call
// stack empties. It reports the value the bottommost frame returned, if
// any, for Invoke's benefit; Run discards it.
func (in *Interpreter) loop(stack []callStackEntry) (rootResult Value, rootHasValue bool) {
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		action := in.step(top)
		switch action.kind {
		case actionContinue:
			// fall through to the next iteration of the outer loop; the
			// frame's own pc has already advanced.
		case actionReturn:
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				if action.hasValue {
					stack[len(stack)-1].frame.Stack.Push(action.value)
				}
			} else {
				rootResult, rootHasValue = action.value, action.hasValue
			}
		case actionInvoke:
			if len(stack) >= in.maxCallDepth {
				panic(&StackOverflowError{Limit: in.maxCallDepth})
			}
			stack = append(stack, action.callee)
		}
	}
	return
}

type actionKind int

const (
	actionContinue actionKind = iota
	actionReturn
	actionInvoke
)

type stepAction struct {
	kind     actionKind
	hasValue bool
	value    Value
	callee   callStackEntry
}

// step decodes and executes exactly one instruction from the top frame,
// running its control-flow effect (branch/return/invoke) inline and
// reporting what the outer loop should do with the call stack.
func (in *Interpreter) step(top *callStackEntry) stepAction {
	frame := top.frame
	pc, instr, err := frame.Cursor.Next()
	if err != nil {
		panic(fatalf("%v", err))
	}

	switch instr.Op {
	case bytecode.Nop:

	case bytecode.AconstNull:
		panic(fatalf("aconst_null: no support for objects"))

	case bytecode.Iconst, bytecode.Bipush, bytecode.Sipush:
		frame.Stack.PushInt(instr.IntOperand)
	case bytecode.Lconst:
		frame.Stack.PushLong(instr.LongOperand)
	case bytecode.Fconst:
		frame.Stack.PushFloat(instr.Float32Operand)
	case bytecode.Dconst:
		frame.Stack.PushDouble(instr.Float64Operand)

	case bytecode.Ldc, bytecode.LdcW:
		entry := frame.Pool.MustGet(instr.ConstIdx)
		switch entry.Kind {
		case classfile.IntegerEntry:
			frame.Stack.PushInt(entry.AsInteger())
		case classfile.FloatEntry:
			frame.Stack.PushFloat(entry.AsFloat())
		default:
			panic(fatalf("ldc: unsupported constant pool entry kind %s", entry.Kind))
		}
	case bytecode.Ldc2W:
		entry := frame.Pool.MustGet(instr.ConstIdx)
		switch entry.Kind {
		case classfile.LongEntry:
			frame.Stack.PushLong(entry.AsLong())
		case classfile.DoubleEntry:
			frame.Stack.PushDouble(entry.AsDouble())
		default:
			panic(fatalf("ldc2_w: unsupported constant pool entry kind %s", entry.Kind))
		}

	case bytecode.Iload, bytecode.WideIload:
		frame.Stack.PushInt(frame.Locals.GetInt(int(instr.Local)))
	case bytecode.Lload, bytecode.WideLload:
		frame.Stack.PushLong(frame.Locals.GetLong(int(instr.Local)))
	case bytecode.Fload, bytecode.WideFload:
		frame.Stack.PushFloat(frame.Locals.GetFloat(int(instr.Local)))
	case bytecode.Dload, bytecode.WideDload:
		frame.Stack.PushDouble(frame.Locals.GetDouble(int(instr.Local)))

	case bytecode.Istore, bytecode.WideIstore:
		frame.Locals.SetInt(int(instr.Local), frame.Stack.PopInt())
	case bytecode.Lstore, bytecode.WideLstore:
		frame.Locals.SetLong(int(instr.Local), frame.Stack.PopLong())
	case bytecode.Fstore, bytecode.WideFstore:
		frame.Locals.SetFloat(int(instr.Local), frame.Stack.PopFloat())
	case bytecode.Dstore, bytecode.WideDstore:
		frame.Locals.SetDouble(int(instr.Local), frame.Stack.PopDouble())

	case bytecode.Pop:
		frame.Stack.Pop1()
	case bytecode.Pop2:
		frame.Stack.Pop2()
	case bytecode.Dup:
		frame.Stack.Dup()
	case bytecode.DupX1:
		frame.Stack.DupX1()
	case bytecode.DupX2:
		frame.Stack.DupX2()
	case bytecode.Dup2:
		frame.Stack.Dup2()
	case bytecode.Dup2X1:
		frame.Stack.Dup2X1()
	case bytecode.Dup2X2:
		frame.Stack.Dup2X2()
	case bytecode.Swap:
		frame.Stack.Swap()

	case bytecode.Iadd:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a + b })
	case bytecode.Isub:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a - b })
	case bytecode.Imul:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a * b })
	case bytecode.Idiv:
		binOpInt(frame.Stack, func(a, b int32) int32 {
			if b == 0 {
				panic(fatalf("idiv: division by zero"))
			}
			return a / b
		})
	case bytecode.Irem:
		binOpInt(frame.Stack, func(a, b int32) int32 {
			if b == 0 {
				panic(fatalf("irem: division by zero"))
			}
			return a % b
		})
	case bytecode.Ineg:
		frame.Stack.PushInt(-frame.Stack.PopInt())
	case bytecode.Ishl:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a << (uint32(b) & 0x1F) })
	case bytecode.Ishr:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a >> (uint32(b) & 0x1F) })
	case bytecode.Iushr:
		binOpInt(frame.Stack, func(a, b int32) int32 { return int32(uint32(a) >> (uint32(b) & 0x1F)) })
	case bytecode.Iand:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a & b })
	case bytecode.Ior:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a | b })
	case bytecode.Ixor:
		binOpInt(frame.Stack, func(a, b int32) int32 { return a ^ b })
	case bytecode.Iinc, bytecode.WideIinc:
		v := frame.Locals.GetInt(int(instr.Local))
		frame.Locals.SetInt(int(instr.Local), v+int32(instr.IincConst))

	case bytecode.Ladd:
		binOpLong(frame.Stack, func(a, b int64) int64 { return a + b })
	case bytecode.Lsub:
		binOpLong(frame.Stack, func(a, b int64) int64 { return a - b })
	case bytecode.Lmul:
		binOpLong(frame.Stack, func(a, b int64) int64 { return a * b })
	case bytecode.Ldiv:
		binOpLong(frame.Stack, func(a, b int64) int64 {
			if b == 0 {
				panic(fatalf("ldiv: division by zero"))
			}
			return a / b
		})
	case bytecode.Lrem:
		binOpLong(frame.Stack, func(a, b int64) int64 {
			if b == 0 {
				panic(fatalf("lrem: division by zero"))
			}
			return a % b
		})
	case bytecode.Lneg:
		frame.Stack.PushLong(-frame.Stack.PopLong())
	case bytecode.Lshl:
		shiftVal := frame.Stack.PopInt()
		lhs := frame.Stack.PopLong()
		frame.Stack.PushLong(lhs << (uint32(shiftVal) & 0x3F))
	case bytecode.Lshr:
		shiftVal := frame.Stack.PopInt()
		lhs := frame.Stack.PopLong()
		frame.Stack.PushLong(lhs >> (uint32(shiftVal) & 0x3F))
	case bytecode.Lushr:
		shiftVal := frame.Stack.PopInt()
		lhs := frame.Stack.PopLong()
		frame.Stack.PushLong(int64(uint64(lhs) >> (uint32(shiftVal) & 0x3F)))
	case bytecode.Land:
		binOpLong(frame.Stack, func(a, b int64) int64 { return a & b })
	case bytecode.Lor:
		binOpLong(frame.Stack, func(a, b int64) int64 { return a | b })
	case bytecode.Lxor:
		binOpLong(frame.Stack, func(a, b int64) int64 { return a ^ b })

	case bytecode.Fadd:
		binOpFloat(frame.Stack, func(a, b float32) float32 { return a + b })
	case bytecode.Fsub:
		binOpFloat(frame.Stack, func(a, b float32) float32 { return a - b })
	case bytecode.Fmul:
		binOpFloat(frame.Stack, func(a, b float32) float32 { return a * b })
	case bytecode.Fdiv:
		binOpFloat(frame.Stack, func(a, b float32) float32 { return a / b })
	case bytecode.Frem:
		binOpFloat(frame.Stack, func(a, b float32) float32 { return float32(math.Mod(float64(a), float64(b))) })
	case bytecode.Fneg:
		frame.Stack.PushFloat(-frame.Stack.PopFloat())

	case bytecode.Dadd:
		binOpDouble(frame.Stack, func(a, b float64) float64 { return a + b })
	case bytecode.Dsub:
		binOpDouble(frame.Stack, func(a, b float64) float64 { return a - b })
	case bytecode.Dmul:
		binOpDouble(frame.Stack, func(a, b float64) float64 { return a * b })
	case bytecode.Ddiv:
		binOpDouble(frame.Stack, func(a, b float64) float64 { return a / b })
	case bytecode.Drem:
		binOpDouble(frame.Stack, math.Mod)
	case bytecode.Dneg:
		frame.Stack.PushDouble(-frame.Stack.PopDouble())

	case bytecode.I2l:
		frame.Stack.PushLong(int64(frame.Stack.PopInt()))
	case bytecode.I2f:
		frame.Stack.PushFloat(float32(frame.Stack.PopInt()))
	case bytecode.I2d:
		frame.Stack.PushDouble(float64(frame.Stack.PopInt()))
	case bytecode.L2i:
		frame.Stack.PushInt(int32(frame.Stack.PopLong()))
	case bytecode.L2f:
		frame.Stack.PushFloat(float32(frame.Stack.PopLong()))
	case bytecode.L2d:
		frame.Stack.PushDouble(float64(frame.Stack.PopLong()))
	case bytecode.F2i:
		frame.Stack.PushInt(int32(frame.Stack.PopFloat()))
	case bytecode.F2l:
		frame.Stack.PushLong(int64(frame.Stack.PopFloat()))
	case bytecode.F2d:
		frame.Stack.PushDouble(float64(frame.Stack.PopFloat()))
	case bytecode.D2i:
		frame.Stack.PushInt(int32(frame.Stack.PopDouble()))
	case bytecode.D2l:
		frame.Stack.PushLong(int64(frame.Stack.PopDouble()))
	case bytecode.D2f:
		frame.Stack.PushFloat(float32(frame.Stack.PopDouble()))
	case bytecode.I2b:
		frame.Stack.PushInt(int32(int8(frame.Stack.PopInt())))
	case bytecode.I2c:
		frame.Stack.PushInt(int32(uint16(frame.Stack.PopInt())))
	case bytecode.I2s:
		frame.Stack.PushInt(int32(int16(frame.Stack.PopInt())))

	case bytecode.Lcmp:
		rhs, lhs := frame.Stack.PopLong(), frame.Stack.PopLong()
		frame.Stack.PushInt(compareOrdered(lhs, rhs))
	case bytecode.Fcmpl, bytecode.Fcmpg:
		rhs, lhs := frame.Stack.PopFloat(), frame.Stack.PopFloat()
		frame.Stack.PushInt(compareFloat(float64(lhs), float64(rhs), instr.NaNGreater()))
	case bytecode.Dcmpl, bytecode.Dcmpg:
		rhs, lhs := frame.Stack.PopDouble(), frame.Stack.PopDouble()
		frame.Stack.PushInt(compareFloat(lhs, rhs, instr.NaNGreater()))

	case bytecode.IfEq:
		in.branchIf(frame, pc, instr, frame.Stack.PopInt() == 0)
	case bytecode.IfNe:
		in.branchIf(frame, pc, instr, frame.Stack.PopInt() != 0)
	case bytecode.IfLt:
		in.branchIf(frame, pc, instr, frame.Stack.PopInt() < 0)
	case bytecode.IfLe:
		in.branchIf(frame, pc, instr, frame.Stack.PopInt() <= 0)
	case bytecode.IfGt:
		in.branchIf(frame, pc, instr, frame.Stack.PopInt() > 0)
	case bytecode.IfGe:
		in.branchIf(frame, pc, instr, frame.Stack.PopInt() >= 0)
	case bytecode.IfIcmpEq:
		rhs, lhs := frame.Stack.PopInt(), frame.Stack.PopInt()
		in.branchIf(frame, pc, instr, lhs == rhs)
	case bytecode.IfIcmpNe:
		rhs, lhs := frame.Stack.PopInt(), frame.Stack.PopInt()
		in.branchIf(frame, pc, instr, lhs != rhs)
	case bytecode.IfIcmpLt:
		rhs, lhs := frame.Stack.PopInt(), frame.Stack.PopInt()
		in.branchIf(frame, pc, instr, lhs < rhs)
	case bytecode.IfIcmpLe:
		rhs, lhs := frame.Stack.PopInt(), frame.Stack.PopInt()
		in.branchIf(frame, pc, instr, lhs <= rhs)
	case bytecode.IfIcmpGt:
		rhs, lhs := frame.Stack.PopInt(), frame.Stack.PopInt()
		in.branchIf(frame, pc, instr, lhs > rhs)
	case bytecode.IfIcmpGe:
		rhs, lhs := frame.Stack.PopInt(), frame.Stack.PopInt()
		in.branchIf(frame, pc, instr, lhs >= rhs)

	case bytecode.Goto:
		frame.Cursor.SetPc(branchTarget(pc, instr.IntOperand))
	case bytecode.GotoW:
		frame.Cursor.SetPc(branchTarget(pc, instr.IntOperand))
	case bytecode.Jsr, bytecode.JsrW:
		frame.Stack.PushRetAddr(frame.Cursor.Pc())
		frame.Cursor.SetPc(branchTarget(pc, instr.IntOperand))
	case bytecode.Ret, bytecode.WideRet:
		frame.Cursor.SetPc(frame.Locals.GetRetAddr(int(instr.Local)))
	case bytecode.TableSwitchOp:
		key := frame.Stack.PopInt()
		frame.Cursor.SetPc(branchTarget(pc, instr.Table.Lookup(key)))
	case bytecode.LookupSwitchOp:
		key := frame.Stack.PopInt()
		frame.Cursor.SetPc(branchTarget(pc, instr.Lookup.Lookup(key)))

	case bytecode.Ireturn:
		return stepAction{kind: actionReturn, hasValue: true, value: IntValue(frame.Stack.PopInt())}
	case bytecode.Lreturn:
		return stepAction{kind: actionReturn, hasValue: true, value: LongValue(frame.Stack.PopLong())}
	case bytecode.Freturn:
		return stepAction{kind: actionReturn, hasValue: true, value: FloatValue(frame.Stack.PopFloat())}
	case bytecode.Dreturn:
		return stepAction{kind: actionReturn, hasValue: true, value: DoubleValue(frame.Stack.PopDouble())}
	case bytecode.ReturnVoid:
		return stepAction{kind: actionReturn}

	case bytecode.InvokeStatic:
		return in.invokeStatic(top, instr)

	default:
		panic(&UnsupportedOpError{Op: instr.Op.String()})
	}

	return stepAction{kind: actionContinue}
}

// branchTarget applies a signed branch offset relative to the branching
// instruction's own pc (not the cursor's post-decode pc), per the class
// file format's branchoffset semantics.
func branchTarget(instrPc uint32, offset int32) uint32 {
	return uint32(int64(instrPc) + int64(offset))
}

// branchIf sets the frame's pc to the branch target if taken is true.
func (in *Interpreter) branchIf(frame *Frame, pc uint32, instr bytecode.Instruction, taken bool) {
	if taken {
		frame.Cursor.SetPc(branchTarget(pc, instr.IntOperand))
	}
}

func binOpInt(s *Stack, f func(a, b int32) int32) {
	rhs, lhs := s.PopInt(), s.PopInt()
	s.PushInt(f(lhs, rhs))
}

func binOpLong(s *Stack, f func(a, b int64) int64) {
	rhs, lhs := s.PopLong(), s.PopLong()
	s.PushLong(f(lhs, rhs))
}

func binOpFloat(s *Stack, f func(a, b float32) float32) {
	rhs, lhs := s.PopFloat(), s.PopFloat()
	s.PushFloat(f(lhs, rhs))
}

func binOpDouble(s *Stack, f func(a, b float64) float64) {
	rhs, lhs := s.PopDouble(), s.PopDouble()
	s.PushDouble(f(lhs, rhs))
}

// compareOrdered implements lcmp: total ordering, no NaN case.
func compareOrdered(lhs, rhs int64) int32 {
	switch {
	case lhs > rhs:
		return 1
	case lhs == rhs:
		return 0
	default:
		return -1
	}
}

// compareFloat implements fcmpl/fcmpg/dcmpl/dcmpg: ordered comparison
// with greaterOnNaN selecting which sentinel a NaN operand produces (1
// for the *cmpg forms, -1 for the *cmpl forms).
func compareFloat(lhs, rhs float64, greaterOnNaN bool) int32 {
	if math.IsNaN(lhs) || math.IsNaN(rhs) {
		if greaterOnNaN {
			return 1
		}
		return -1
	}
	switch {
	case lhs > rhs:
		return 1
	case lhs == rhs:
		return 0
	default:
		return -1
	}
}

// invokeStatic resolves instr's MethodRef, builds the callee's frame,
// pops argument slots off the caller's stack in reverse order and
// copies them forward into the callee's locals starting at index 0, and
// reports the callee frame for the outer loop to push.
func (in *Interpreter) invokeStatic(caller *callStackEntry, instr bytecode.Instruction) stepAction {
	frame := caller.frame
	entry := frame.Pool.MustGet(instr.ConstIdx)
	classIdx, nameTypeIdx := entry.AsRef()
	classNameIdx := frame.Pool.MustGet(classIdx).AsClassName()
	className := frame.Pool.MustGet(classNameIdx).AsUtf8().GoString()

	nameIdx, descIdx := frame.Pool.MustGet(nameTypeIdx).AsNameType()
	methodName := frame.Pool.MustGet(nameIdx).AsUtf8().GoString()
	methodDesc := frame.Pool.MustGet(descIdx).AsUtf8().GoString()

	class, ok := in.classes.Get(className)
	if !ok {
		panic(fatalf("invokestatic: class %s is not loaded", className))
	}
	method, ok := class.GetMethod(methodName, methodDesc)
	if !ok {
		panic(&MethodNotFoundError{Class: className, Name: methodName, Descriptor: methodDesc})
	}
	if method.Code == nil {
		panic(fatalf("invokestatic: %s.%s%s has no Code attribute", className, methodName, methodDesc))
	}

	callee := NewFrame(class.Pool, method.Code)

	args := make([]Value, len(method.Descriptor.Params))
	for i := len(args) - 1; i >= 0; i-- {
		args[i] = frame.Stack.Pop()
	}
	localIdx := 0
	for _, arg := range args {
		callee.Locals.Set(localIdx, arg)
		localIdx += arg.Size()
	}

	return stepAction{kind: actionInvoke, callee: callStackEntry{class: class, frame: callee}}
}
