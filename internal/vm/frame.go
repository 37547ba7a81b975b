package vm

import (
	"github.com/wevanson/classvm/internal/bytecode"
	"github.com/wevanson/classvm/internal/classfile"
)

// slot is either a live value or the dead marker trailing a category-2
// (long/double) entry, mirroring call_frame.rs's Slot enum.
type slot struct {
	value  Value
	marker bool
}

// Stack is a method's operand stack: a slot-addressable store where every
// push/pop observes the category-1/category-2 width rule instead of
// tracking values one at a time.
type Stack struct {
	slots []slot
}

// NewStack allocates a stack with room for at least n slots (a method's
// max_stack).
func NewStack(n int) *Stack {
	return &Stack{slots: make([]slot, 0, n)}
}

// Push pushes val, additionally pushing a dead marker slot if val is a
// category-2 (long/double) value.
func (s *Stack) Push(val Value) {
	s.slots = append(s.slots, slot{value: val})
	if val.Kind == VLong || val.Kind == VDouble {
		s.slots = append(s.slots, slot{marker: true})
	}
}

func (s *Stack) PushInt(v int32)      { s.Push(IntValue(v)) }
func (s *Stack) PushLong(v int64)     { s.Push(LongValue(v)) }
func (s *Stack) PushFloat(v float32)  { s.Push(FloatValue(v)) }
func (s *Stack) PushDouble(v float64) { s.Push(DoubleValue(v)) }
func (s *Stack) PushRetAddr(v uint32) { s.Push(RetAddrValue(v)) }

func (s *Stack) popSlot() slot {
	if len(s.slots) == 0 {
		panic("cannot pop from empty stack")
	}
	top := s.slots[len(s.slots)-1]
	s.slots = s.slots[:len(s.slots)-1]
	return top
}

// Pop removes and returns the top value, transparently popping through a
// trailing dead marker for category-2 values.
func (s *Stack) Pop() Value {
	top := s.popSlot()
	if !top.marker {
		return top.value
	}
	next := s.popSlot()
	if next.marker {
		panic("invalid stack state")
	}
	return next.value
}

func (s *Stack) PopInt() int32      { return s.Pop().asInt() }
func (s *Stack) PopLong() int64     { return s.Pop().asLong() }
func (s *Stack) PopFloat() float32  { return s.Pop().asFloat() }
func (s *Stack) PopDouble() float64 { return s.Pop().asDouble() }
func (s *Stack) PopRetAddr() uint32 { return s.Pop().asRetAddr() }

// Pop1 implements the "pop" instruction: discards the top category-1
// value, panicking if it is a category-2 marker.
func (s *Stack) Pop1() {
	top := s.popSlot()
	if top.marker {
		panic("found category 2 type but expected category 1 type")
	}
}

// Pop2 implements the "pop2" instruction: discards the top two slots
// unconditionally, whether they hold one category-2 value or two
// category-1 values.
func (s *Stack) Pop2() {
	s.popSlot()
	top := s.popSlot()
	if top.marker {
		panic("invalid stack state")
	}
}

func (s *Stack) top() slot {
	if len(s.slots) == 0 {
		panic("cannot pop from empty stack")
	}
	return s.slots[len(s.slots)-1]
}

// dupCat1 duplicates the top category-1 slot and inserts the copy n slots
// below the (now two-deep) top, implementing dup/dup_x1/dup_x2.
func (s *Stack) dupCat1(n int) {
	top := s.top()
	if top.marker {
		panic("invalid stack state")
	}
	s.insertAt(len(s.slots)-n-1, top)
}

// dupCat2 duplicates the top two slots as a unit and inserts the copy n
// slots below the (now four-deep) top, implementing dup2/dup2_x1/dup2_x2.
func (s *Stack) dupCat2(n int) {
	if len(s.slots) < 2 {
		panic("cannot pop from empty stack")
	}
	lower, upper := s.slots[len(s.slots)-2], s.slots[len(s.slots)-1]
	if lower.marker {
		panic("invalid stack state")
	}
	at := len(s.slots) - n - 2
	s.insertAt(at, upper)
	s.insertAt(at, lower)
}

func (s *Stack) insertAt(i int, v slot) {
	s.slots = append(s.slots, slot{})
	copy(s.slots[i+1:], s.slots[i:len(s.slots)-1])
	s.slots[i] = v
}

func (s *Stack) Dup()     { s.dupCat1(0) }
func (s *Stack) DupX1()   { s.dupCat1(1) }
func (s *Stack) DupX2()   { s.dupCat1(2) }
func (s *Stack) Dup2()    { s.dupCat2(0) }
func (s *Stack) Dup2X1()  { s.dupCat2(1) }
func (s *Stack) Dup2X2()  { s.dupCat2(2) }

// Swap exchanges the top two category-1 slots, panicking if either is
// part of a category-2 value.
func (s *Stack) Swap() {
	if len(s.slots) < 2 {
		panic("cannot swap with stack len less than 2")
	}
	i, j := len(s.slots)-2, len(s.slots)-1
	if s.slots[i].marker || s.slots[j].marker {
		panic("invalid stack state")
	}
	s.slots[i], s.slots[j] = s.slots[j], s.slots[i]
}

// Locals is a method's local-variable array. Every slot starts as a dead
// marker; Set/Get observe the category-2 two-slot rule the same way Stack
// does.
type Locals struct {
	slots []slot
}

// NewLocals allocates n marker slots (a method's max_locals).
func NewLocals(n int) *Locals {
	slots := make([]slot, n)
	for i := range slots {
		slots[i].marker = true
	}
	return &Locals{slots: slots}
}

// Get reads the value at i, panicking if the index is out of range or
// holds a dead marker (an uninitialized or upper-half slot).
func (l *Locals) Get(i int) Value {
	if i < 0 || i >= len(l.slots) || l.slots[i].marker {
		panic("invalid local index")
	}
	return l.slots[i].value
}

func (l *Locals) GetInt(i int) int32      { return l.Get(i).asInt() }
func (l *Locals) GetLong(i int) int64     { return l.Get(i).asLong() }
func (l *Locals) GetFloat(i int) float32  { return l.Get(i).asFloat() }
func (l *Locals) GetDouble(i int) float64 { return l.Get(i).asDouble() }
func (l *Locals) GetRetAddr(i int) uint32 { return l.Get(i).asRetAddr() }

// Set writes val at i, additionally marking slot i+1 dead if val is a
// category-2 value.
func (l *Locals) Set(i int, val Value) {
	l.slots[i] = slot{value: val}
	if val.Kind == VLong || val.Kind == VDouble {
		l.slots[i+1] = slot{marker: true}
	}
}

func (l *Locals) SetInt(i int, v int32)      { l.Set(i, IntValue(v)) }
func (l *Locals) SetLong(i int, v int64)     { l.Set(i, LongValue(v)) }
func (l *Locals) SetFloat(i int, v float32)  { l.Set(i, FloatValue(v)) }
func (l *Locals) SetDouble(i int, v float64) { l.Set(i, DoubleValue(v)) }
func (l *Locals) SetRetAddr(i int, v uint32) { l.Set(i, RetAddrValue(v)) }

// Frame is one method activation: the defining class's constant pool, a
// cursor over its bytecode, and its locals and operand stack.
type Frame struct {
	Pool   *classfile.CPool
	Cursor *bytecode.Cursor
	Locals *Locals
	Stack  *Stack
}

// NewFrame builds the initial frame for invoking method on a class whose
// constant pool is pool. Code must be non-nil (the caller is responsible
// for rejecting abstract/native methods before invocation).
func NewFrame(pool *classfile.CPool, code *classfile.CodeAttribute) *Frame {
	return &Frame{
		Pool:   pool,
		Cursor: bytecode.NewCursor(code.Code),
		Locals: NewLocals(int(code.MaxLocals)),
		Stack:  NewStack(int(code.MaxStack)),
	}
}
