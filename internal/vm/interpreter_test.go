package vm

import (
	"testing"

	"github.com/wevanson/classvm/internal/classfile"
	"github.com/wevanson/classvm/internal/mutf8"
)

// testClass builds a classfile.Class directly from in-memory domain
// values, sidestepping the byte-level decoder (already exercised in
// internal/classfile) so these tests can focus purely on interpretation.
// name is the class's own binary name; methods lists each method's name,
// descriptor, stack/locals limits, and code.
type methodSpec struct {
	name, descriptor string
	maxStack         uint16
	maxLocals        uint16
	code             []byte
}

func testClass(t *testing.T, name string, methods []methodSpec) *classfile.Class {
	t.Helper()
	pool := classfile.NewCPool(8)

	utf8 := func(s string) classfile.ConstantIdx {
		pool.Add(classfile.Entry{Kind: classfile.Utf8Entry, Utf8: mutf8.FromGoString(s)})
		return classfile.ConstantIdx(pool.Len())
	}
	classIdx := func(nameIdx classfile.ConstantIdx) classfile.ConstantIdx {
		pool.Add(classfile.Entry{Kind: classfile.ClassEntry, Idx1: nameIdx})
		return classfile.ConstantIdx(pool.Len())
	}

	nameIdx := utf8(name)
	thisClass := classIdx(nameIdx)

	class := &classfile.Class{
		Pool:      pool,
		ThisClass: thisClass,
	}
	for _, m := range methods {
		desc, err := classfile.ParseMethodDescriptor(m.descriptor)
		if err != nil {
			t.Fatalf("ParseMethodDescriptor(%q): %v", m.descriptor, err)
		}
		class.Methods = append(class.Methods, classfile.Method{
			NameIdx:    utf8(m.name),
			DescIdx:    utf8(m.descriptor),
			Descriptor: desc,
			Code: &classfile.CodeAttribute{
				MaxStack:  m.maxStack,
				MaxLocals: m.maxLocals,
				Code:      m.code,
			},
		})
	}
	return class
}

func newTestInterpreter(t *testing.T, class *classfile.Class) *Interpreter {
	t.Helper()
	reg := NewClassRegistry()
	reg.classes[class.Name().GoString()] = class
	return NewInterpreter(reg)
}

// TestInvokeConstantAddAndReturn mirrors end-to-end scenario 1: iconst_3
// iconst_4 iadd ireturn, descriptor "()I", returns 7.
func TestInvokeConstantAddAndReturn(t *testing.T) {
	class := testClass(t, "Scenario1", []methodSpec{
		{name: "compute", descriptor: "()I", maxStack: 2, maxLocals: 0,
			code: []byte{0x06, 0x07, 0x60, 0xAC}}, // iconst_3 iconst_4 iadd ireturn
	})
	in := newTestInterpreter(t, class)

	result, ok, err := in.Invoke("Scenario1", "compute", "()I", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !ok || result.Int != 7 {
		t.Fatalf("result = %+v (ok=%v), want Int=7", result, ok)
	}
}

// TestInvokeIandReturnsTwo mirrors scenario 2: iconst_m1 iconst_2 iand
// ireturn, returns 2.
func TestInvokeIandReturnsTwo(t *testing.T) {
	class := testClass(t, "Scenario2", []methodSpec{
		{name: "compute", descriptor: "()I", maxStack: 2, maxLocals: 0,
			code: []byte{0x02, 0x05, 0x7E, 0xAC}}, // iconst_m1 iconst_2 iand ireturn
	})
	in := newTestInterpreter(t, class)

	result, ok, err := in.Invoke("Scenario2", "compute", "()I", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !ok || result.Int != 2 {
		t.Fatalf("result = %+v (ok=%v), want Int=2", result, ok)
	}
}

// TestInvokeLdcFloatThenF2i mirrors scenario 3: ldc referencing a Float
// constant 3.5, followed by f2i ireturn, returns 3.
func TestInvokeLdcFloatThenF2i(t *testing.T) {
	pool := classfile.NewCPool(8)
	utf8 := func(s string) classfile.ConstantIdx {
		pool.Add(classfile.Entry{Kind: classfile.Utf8Entry, Utf8: mutf8.FromGoString(s)})
		return classfile.ConstantIdx(pool.Len())
	}
	nameIdx := utf8("Scenario3")
	pool.Add(classfile.Entry{Kind: classfile.ClassEntry, Idx1: nameIdx})
	thisClass := classfile.ConstantIdx(pool.Len())
	pool.Add(classfile.Entry{Kind: classfile.FloatEntry, Float32: 3.5})
	floatIdx := classfile.ConstantIdx(pool.Len())

	desc, err := classfile.ParseMethodDescriptor("()I")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	class := &classfile.Class{
		Pool:      pool,
		ThisClass: thisClass,
		Methods: []classfile.Method{{
			NameIdx:    utf8("compute"),
			DescIdx:    utf8("()I"),
			Descriptor: desc,
			Code: &classfile.CodeAttribute{
				MaxStack: 2, MaxLocals: 0,
				// ldc #floatIdx, f2i, ireturn
				Code: []byte{0x12, byte(floatIdx), 0x8B, 0xAC},
			},
		}},
	}
	in := newTestInterpreter(t, class)

	result, ok, err := in.Invoke("Scenario3", "compute", "()I", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !ok || result.Int != 3 {
		t.Fatalf("result = %+v (ok=%v), want Int=3", result, ok)
	}
}

// TestInvokeIfIcmpLtBranch mirrors scenario 4: sipush 10 sipush 20
// if_icmplt L; iconst_0 ireturn; L: iconst_1 ireturn -- returns 1.
func TestInvokeIfIcmpLtBranch(t *testing.T) {
	// pc:  0 sipush 10 (3 bytes) -> pc 3 sipush 20 (3 bytes) -> pc 6
	// if_icmplt +7 (3 bytes, target pc 13) -> pc 9 iconst_0 -> pc10 ireturn
	// pc 11: (pad to reach 13) -- lay out explicitly instead.
	code := []byte{
		0x11, 0x00, 0x0A, // 0: sipush 10
		0x11, 0x00, 0x14, // 3: sipush 20
		0xA1, 0x00, 0x07, // 6: if_icmplt +7 -> target pc 13
		0x03,       // 9: iconst_0
		0xAC,       // 10: ireturn
		0x00, 0x00, // 11-12: padding nops (unreached)
		0x04, // 13: iconst_1
		0xAC, // 14: ireturn
	}
	class := testClass(t, "Scenario4", []methodSpec{
		{name: "compute", descriptor: "()I", maxStack: 2, maxLocals: 0, code: code},
	})
	in := newTestInterpreter(t, class)

	result, ok, err := in.Invoke("Scenario4", "compute", "()I", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !ok || result.Int != 1 {
		t.Fatalf("result = %+v (ok=%v), want Int=1", result, ok)
	}
}

// TestInvokeIincLoop mirrors scenario 6: bipush 10 istore_1 iinc 1 5
// iload_1 ireturn -- returns 15.
func TestInvokeIincLoop(t *testing.T) {
	code := []byte{0x10, 10, 0x3C, 0x84, 1, 5, 0x1B, 0xAC}
	class := testClass(t, "Scenario6", []methodSpec{
		{name: "compute", descriptor: "()I", maxStack: 2, maxLocals: 2, code: code},
	})
	in := newTestInterpreter(t, class)

	result, ok, err := in.Invoke("Scenario6", "compute", "()I", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !ok || result.Int != 15 {
		t.Fatalf("result = %+v (ok=%v), want Int=15", result, ok)
	}
}

// TestInvokeStaticPassesArgumentsInOrder invokes a static method through
// a caller method via invokestatic, exercising the call-frame push,
// argument-order resolution, and return-value handoff end to end.
func TestInvokeStaticPassesArgumentsInOrder(t *testing.T) {
	pool := classfile.NewCPool(16)
	utf8 := func(s string) classfile.ConstantIdx {
		pool.Add(classfile.Entry{Kind: classfile.Utf8Entry, Utf8: mutf8.FromGoString(s)})
		return classfile.ConstantIdx(pool.Len())
	}
	nameIdx := utf8("Scenario")
	pool.Add(classfile.Entry{Kind: classfile.ClassEntry, Idx1: nameIdx})
	thisClass := classfile.ConstantIdx(pool.Len())

	subDescIdx := utf8("(II)I")
	nameTypeIdx := func(name, desc classfile.ConstantIdx) classfile.ConstantIdx {
		pool.Add(classfile.Entry{Kind: classfile.NameTypeEntry, Idx1: name, Idx2: desc})
		return classfile.ConstantIdx(pool.Len())
	}
	subNameIdx := utf8("sub")
	ntIdx := nameTypeIdx(subNameIdx, subDescIdx)
	pool.Add(classfile.Entry{Kind: classfile.MethodRefEntry, Idx1: thisClass, Idx2: ntIdx})
	methodRefIdx := classfile.ConstantIdx(pool.Len())

	subDesc, err := classfile.ParseMethodDescriptor("(II)I")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	callerDesc, err := classfile.ParseMethodDescriptor("()I")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}

	// sub(int a, int b) { return a - b; }
	subCode := []byte{0x1A, 0x1B, 0x64, 0xAC} // iload_0 iload_1 isub ireturn

	// caller() { return sub(10, 3); }  -- bipush 10, bipush 3, invokestatic, ireturn
	callerCode := []byte{
		0x10, 10, // bipush 10
		0x10, 3, // bipush 3
		0xB8, byte(methodRefIdx >> 8), byte(methodRefIdx), // invokestatic #methodRefIdx
		0xAC, // ireturn
	}

	class := &classfile.Class{
		Pool:      pool,
		ThisClass: thisClass,
		Methods: []classfile.Method{
			{
				NameIdx: subNameIdx, DescIdx: subDescIdx, Descriptor: subDesc,
				Code: &classfile.CodeAttribute{MaxStack: 2, MaxLocals: 2, Code: subCode},
			},
			{
				NameIdx: utf8("caller"), DescIdx: utf8("()I"), Descriptor: callerDesc,
				Code: &classfile.CodeAttribute{MaxStack: 2, MaxLocals: 0, Code: callerCode},
			},
		},
	}
	in := newTestInterpreter(t, class)

	result, ok, err := in.Invoke("Scenario", "caller", "()I", nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if !ok || result.Int != 7 {
		t.Fatalf("result = %+v (ok=%v), want Int=7 (10-3)", result, ok)
	}
}

func TestInvokeDivisionByZeroIsFatal(t *testing.T) {
	code := []byte{0x06, 0x03, 0x6C, 0xAC} // iconst_3 iconst_0 idiv ireturn
	class := testClass(t, "DivZero", []methodSpec{
		{name: "compute", descriptor: "()I", maxStack: 2, maxLocals: 0, code: code},
	})
	in := newTestInterpreter(t, class)

	_, _, err := in.Invoke("DivZero", "compute", "()I", nil)
	if err == nil {
		t.Fatal("expected a fatal error for division by zero")
	}
}

func TestInvokeUnsupportedOpcodeIsFatal(t *testing.T) {
	code := []byte{0xBB, 0x00, 0x01} // new #1 (object allocation: unsupported)
	class := testClass(t, "Unsupported", []methodSpec{
		{name: "compute", descriptor: "()V", maxStack: 1, maxLocals: 0, code: code},
	})
	in := newTestInterpreter(t, class)

	_, _, err := in.Invoke("Unsupported", "compute", "()V", nil)
	if _, ok := err.(*UnsupportedOpError); !ok {
		t.Fatalf("expected *UnsupportedOpError, got %T (%v)", err, err)
	}
}

func TestInvokeMethodNotFound(t *testing.T) {
	class := testClass(t, "Empty", nil)
	in := newTestInterpreter(t, class)

	_, _, err := in.Invoke("Empty", "missing", "()V", nil)
	if _, ok := err.(*MethodNotFoundError); !ok {
		t.Fatalf("expected *MethodNotFoundError, got %T (%v)", err, err)
	}
}
