package classfile

import (
	"fmt"

	"github.com/wevanson/classvm/internal/mutf8"
)

// ConstantIdx is a one-based index into a CPool. The zero value means "no
// index"; it is valid only in the few places the format defines it as a
// sentinel (the class table's "no super class" case).
type ConstantIdx uint16

// EntryKind discriminates the tagged union of constant-pool entry shapes.
type EntryKind int

const (
	Utf8Entry EntryKind = iota
	IntegerEntry
	FloatEntry
	LongEntry
	DoubleEntry
	ClassEntry
	StringEntry
	FieldRefEntry
	MethodRefEntry
	InterfaceMethodRefEntry
	NameTypeEntry
	MethodHandleEntry
	MethodTypeEntry
	InvokeDynamicEntry
)

func (k EntryKind) String() string {
	switch k {
	case Utf8Entry:
		return "Utf8"
	case IntegerEntry:
		return "Integer"
	case FloatEntry:
		return "Float"
	case LongEntry:
		return "Long"
	case DoubleEntry:
		return "Double"
	case ClassEntry:
		return "Class"
	case StringEntry:
		return "String"
	case FieldRefEntry:
		return "FieldRef"
	case MethodRefEntry:
		return "MethodRef"
	case InterfaceMethodRefEntry:
		return "InterfaceMethodRef"
	case NameTypeEntry:
		return "NameType"
	case MethodHandleEntry:
		return "MethodHandle"
	case MethodTypeEntry:
		return "MethodType"
	case InvokeDynamicEntry:
		return "InvokeDynamic"
	default:
		return "Unknown"
	}
}

// ReferenceKind characterizes a MethodHandle's bytecode behavior.
type ReferenceKind int

const (
	RefGetField ReferenceKind = iota + 1
	RefGetStatic
	RefPutField
	RefPutStatic
	RefInvokeVirtual
	RefInvokeStatic
	RefInvokeSpecial
	RefNewInvokeSpecial
	RefInvokeInterface
)

// Entry is one constant-pool slot's payload. Rather than per-kind types
// dispatched through an interface, it is a tagged struct: Kind names which
// fields are live, and the As* accessors assert that tag the way the
// original's into_utf8/into_integer/... accessors do, panicking on a
// mismatch since a verified class file never produces one.
type Entry struct {
	Kind EntryKind

	Utf8    mutf8.String
	Int     int32
	Float32 float32
	Long    int64
	Float64 float64

	// Idx1/Idx2 carry the entry's constant-pool index operands:
	//   Class:              Idx1 = name index
	//   String:              Idx1 = utf8 index
	//   FieldRef/MethodRef/
	//   InterfaceMethodRef:  Idx1 = class index,      Idx2 = name-and-type index
	//   NameType:            Idx1 = name index,        Idx2 = descriptor index
	//   MethodHandle:        Idx1 = reference index,  RefKind = handle kind
	//   MethodType:          Idx1 = descriptor index
	//   InvokeDynamic:       Idx2 = name-and-type index, BootstrapMethodAttrIdx used instead of Idx1
	Idx1 ConstantIdx
	Idx2 ConstantIdx

	RefKind ReferenceKind

	BootstrapMethodAttrIdx uint16
}

func invalidEntry(kind EntryKind, want string) string {
	return fmt.Sprintf("invalid constant pool entry: want %s, got %s", want, kind)
}

// AsUtf8 asserts this entry is a Utf8 constant.
func (e *Entry) AsUtf8() mutf8.String {
	if e.Kind != Utf8Entry {
		panic(invalidEntry(e.Kind, "Utf8"))
	}
	return e.Utf8
}

// AsInteger asserts this entry is an Integer constant.
func (e *Entry) AsInteger() int32 {
	if e.Kind != IntegerEntry {
		panic(invalidEntry(e.Kind, "Integer"))
	}
	return e.Int
}

// AsFloat asserts this entry is a Float constant.
func (e *Entry) AsFloat() float32 {
	if e.Kind != FloatEntry {
		panic(invalidEntry(e.Kind, "Float"))
	}
	return e.Float32
}

// AsLong asserts this entry is a Long constant.
func (e *Entry) AsLong() int64 {
	if e.Kind != LongEntry {
		panic(invalidEntry(e.Kind, "Long"))
	}
	return e.Long
}

// AsDouble asserts this entry is a Double constant.
func (e *Entry) AsDouble() float64 {
	if e.Kind != DoubleEntry {
		panic(invalidEntry(e.Kind, "Double"))
	}
	return e.Float64
}

// AsClassName asserts this entry is a Class reference and returns its name
// index.
func (e *Entry) AsClassName() ConstantIdx {
	if e.Kind != ClassEntry {
		panic(invalidEntry(e.Kind, "Class"))
	}
	return e.Idx1
}

// AsString asserts this entry is a String constant and returns its utf8
// index.
func (e *Entry) AsString() ConstantIdx {
	if e.Kind != StringEntry {
		panic(invalidEntry(e.Kind, "String"))
	}
	return e.Idx1
}

// AsRef asserts this entry is a FieldRef, MethodRef, or InterfaceMethodRef
// and returns (class index, name-and-type index).
func (e *Entry) AsRef() (ConstantIdx, ConstantIdx) {
	switch e.Kind {
	case FieldRefEntry, MethodRefEntry, InterfaceMethodRefEntry:
		return e.Idx1, e.Idx2
	default:
		panic(invalidEntry(e.Kind, "FieldRef/MethodRef/InterfaceMethodRef"))
	}
}

// AsNameType asserts this entry is a NameType and returns (name index,
// descriptor index).
func (e *Entry) AsNameType() (ConstantIdx, ConstantIdx) {
	if e.Kind != NameTypeEntry {
		panic(invalidEntry(e.Kind, "NameType"))
	}
	return e.Idx1, e.Idx2
}

// AsMethodHandle asserts this entry is a MethodHandle and returns (kind,
// reference index).
func (e *Entry) AsMethodHandle() (ReferenceKind, ConstantIdx) {
	if e.Kind != MethodHandleEntry {
		panic(invalidEntry(e.Kind, "MethodHandle"))
	}
	return e.RefKind, e.Idx1
}

// AsMethodType asserts this entry is a MethodType and returns its
// descriptor index.
func (e *Entry) AsMethodType() ConstantIdx {
	if e.Kind != MethodTypeEntry {
		panic(invalidEntry(e.Kind, "MethodType"))
	}
	return e.Idx1
}

// AsInvokeDynamic asserts this entry is an InvokeDynamic and returns the
// bootstrap method attribute index and the name-and-type index.
func (e *Entry) AsInvokeDynamic() (uint16, ConstantIdx) {
	if e.Kind != InvokeDynamicEntry {
		panic(invalidEntry(e.Kind, "InvokeDynamic"))
	}
	return e.BootstrapMethodAttrIdx, e.Idx2
}

// slot is either a live entry or the dead marker trailing a Long/Double.
type slot struct {
	entry  Entry
	marker bool
}

// CPool is the one-indexed runtime constant pool. Long and Double entries
// consume two index slots: the entry at index i, and a dead marker at
// i+1. Construct with NewCPool and populate with Add during decoding; a
// CPool is immutable once a Class is built from it.
type CPool struct {
	slots []slot
}

// NewCPool allocates a pool with room for at least capacity slots.
func NewCPool(capacity int) *CPool {
	return &CPool{slots: make([]slot, 0, capacity)}
}

// Add appends entry, additionally reserving a dead marker slot for
// Long/Double entries.
func (p *CPool) Add(entry Entry) {
	p.slots = append(p.slots, slot{entry: entry})
	if entry.Kind == LongEntry || entry.Kind == DoubleEntry {
		p.slots = append(p.slots, slot{marker: true})
	}
}

// Len returns the slot count, including dead marker slots, so the decoder
// can iterate until the file's declared constant_pool_count is reached.
func (p *CPool) Len() int {
	return len(p.slots)
}

// Get resolves a one-based ConstantIdx to its entry. It fails with
// InvalidConstantIdx if idx is zero, out of range, or names a dead marker
// slot.
func (p *CPool) Get(idx ConstantIdx) (*Entry, error) {
	if idx == 0 {
		return nil, newError(InvalidConstantIdx, "constant pool index must be non-zero")
	}
	i := int(idx) - 1
	if i < 0 || i >= len(p.slots) || p.slots[i].marker {
		return nil, newError(InvalidConstantIdx, "invalid constant pool index %d", idx)
	}
	return &p.slots[i].entry, nil
}

// MustGet resolves idx like Get but panics on failure. The interpreter
// uses this for constant-pool references reached after class-file
// validation has already succeeded, where a failure is a fatal invariant
// violation rather than a reportable parse error.
func (p *CPool) MustGet(idx ConstantIdx) *Entry {
	e, err := p.Get(idx)
	if err != nil {
		panic(err)
	}
	return e
}

// Utf8At is a convenience for the common case of resolving idx directly
// to its modified-UTF-8 bytes.
func (p *CPool) Utf8At(idx ConstantIdx) (mutf8.String, error) {
	e, err := p.Get(idx)
	if err != nil {
		return nil, err
	}
	if e.Kind != Utf8Entry {
		return nil, newError(InvalidConstantTag, "index %d: want Utf8, got %s", idx, e.Kind)
	}
	return e.Utf8, nil
}
