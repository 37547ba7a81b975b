package classfile

import "github.com/wevanson/classvm/internal/mutf8"

// AccessFlags is the 16-bit access/modifier bitset shared by classes,
// fields, and methods. Unknown bits are ignored per the specification,
// so callers should test with & rather than require an exact match.
type AccessFlags uint16

const (
	AccPublic       AccessFlags = 0x0001
	AccPrivate      AccessFlags = 0x0002
	AccProtected    AccessFlags = 0x0004
	AccStatic       AccessFlags = 0x0008
	AccFinal        AccessFlags = 0x0010
	AccSynchronized AccessFlags = 0x0020
	AccSuper        AccessFlags = 0x0020
	AccBridge       AccessFlags = 0x0040
	AccVarargs      AccessFlags = 0x0080
	AccNative       AccessFlags = 0x0100
	AccInterface    AccessFlags = 0x0200
	AccAbstract     AccessFlags = 0x0400
	AccStrict       AccessFlags = 0x0800
	AccSynthetic    AccessFlags = 0x1000
	AccAnnotation   AccessFlags = 0x2000
	AccEnum         AccessFlags = 0x4000
)

func (f AccessFlags) Has(bit AccessFlags) bool { return f&bit != 0 }

// Attribute is a length-prefixed, name-tagged chunk attached to a class,
// field, or method. Only "Code" is interpreted further (see CodeAttribute
// below); every other attribute is retained as opaque payload bytes, per
// the specification's "parsed for length and skipped" rule.
type Attribute struct {
	NameIdx ConstantIdx
	Data    []byte
}

// ExceptionTableEntry is one row of a Code attribute's exception table.
// The interpreter in this spec does not unwind exceptions; the table is
// parsed and retained but otherwise unused.
type ExceptionTableEntry struct {
	StartPC   uint16
	EndPC     uint16
	HandlerPC uint16
	CatchType ConstantIdx
}

// CodeAttribute is the decoded form of a method's "Code" attribute.
type CodeAttribute struct {
	MaxStack       uint16
	MaxLocals      uint16
	Code           []byte
	ExceptionTable []ExceptionTableEntry
	Attributes     []Attribute
}

// Field is one field_info record.
type Field struct {
	AccessFlags AccessFlags
	NameIdx     ConstantIdx
	DescIdx     ConstantIdx
	Descriptor  FieldType
	Attributes  []Attribute
}

// Method is one method_info record. Code is nil for abstract and native
// methods, which declare no Code attribute.
type Method struct {
	AccessFlags AccessFlags
	NameIdx     ConstantIdx
	DescIdx     ConstantIdx
	Descriptor  MethodDescriptor
	Code        *CodeAttribute
	Attributes  []Attribute
}

// Class is the fully decoded, immutable representation of one class file.
type Class struct {
	MinorVersion uint16
	MajorVersion uint16

	Pool *CPool

	AccessFlags AccessFlags
	ThisClass   ConstantIdx
	// SuperClass is zero for the root of the class hierarchy (java/lang/Object).
	SuperClass ConstantIdx

	Interfaces []ConstantIdx
	Fields     []Field
	Methods    []Method
	Attributes []Attribute
}

// Name returns the class's own binary name, resolved through the
// constant pool's this_class entry.
func (c *Class) Name() mutf8.String {
	nameIdx := c.Pool.MustGet(c.ThisClass).AsClassName()
	return c.Pool.MustGet(nameIdx).AsUtf8()
}

// SuperName returns the superclass's binary name, and ok=false if this
// class has no superclass (SuperClass == 0).
func (c *Class) SuperName() (name mutf8.String, ok bool) {
	if c.SuperClass == 0 {
		return nil, false
	}
	nameIdx := c.Pool.MustGet(c.SuperClass).AsClassName()
	return c.Pool.MustGet(nameIdx).AsUtf8(), true
}

// GetMethod finds the method with the given name and descriptor string,
// returning ok=false if no method matches both.
func (c *Class) GetMethod(name, descriptor string) (*Method, bool) {
	for i := range c.Methods {
		m := &c.Methods[i]
		mn := c.Pool.MustGet(m.NameIdx).AsUtf8()
		md := c.Pool.MustGet(m.DescIdx).AsUtf8()
		if mn.GoString() == name && md.GoString() == descriptor {
			return m, true
		}
	}
	return nil, false
}

// GetField finds the field with the given name and descriptor string,
// returning ok=false if no field matches both.
func (c *Class) GetField(name, descriptor string) (*Field, bool) {
	for i := range c.Fields {
		f := &c.Fields[i]
		fn := c.Pool.MustGet(f.NameIdx).AsUtf8()
		fd := c.Pool.MustGet(f.DescIdx).AsUtf8()
		if fn.GoString() == name && fd.GoString() == descriptor {
			return f, true
		}
	}
	return nil, false
}
