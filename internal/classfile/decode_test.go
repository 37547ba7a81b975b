package classfile

import (
	"bytes"
	"encoding/binary"
	"testing"
)

// classBuilder assembles class-file bytes by hand for tests; there is no
// compiler in this module, so fixtures are built byte-by-byte the way the
// teacher's formatCheck_test.go builds ParsedClass values field-by-field.
type classBuilder struct {
	buf bytes.Buffer
}

func (b *classBuilder) u8(v uint8)   { b.buf.WriteByte(v) }
func (b *classBuilder) u16(v uint16) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) u32(v uint32) { binary.Write(&b.buf, binary.BigEndian, v) }
func (b *classBuilder) bytes(v []byte) { b.buf.Write(v) }

func (b *classBuilder) utf8Entry(s string) {
	b.u8(tagUtf8)
	b.u16(uint16(len(s)))
	b.bytes([]byte(s))
}

func (b *classBuilder) classEntry(nameIdx uint16) {
	b.u8(tagClass)
	b.u16(nameIdx)
}

// buildMinimalClass produces a class named "TestClass" (no superclass)
// with one static method whose Code attribute runs code.
func buildMinimalClass(t *testing.T, methodName, descriptor string, code []byte) []byte {
	t.Helper()
	var b classBuilder

	b.u32(magicNumber)
	b.u16(0)    // minor
	b.u16(61)   // major
	b.u16(6)    // constant_pool_count (5 live entries, indices 1..5)

	b.utf8Entry("TestClass")     // 1
	b.classEntry(1)              // 2 -> Class(name=1)
	b.utf8Entry("Code")          // 3
	b.utf8Entry(methodName)      // 4
	b.utf8Entry(descriptor)      // 5

	b.u16(0x0009) // access_flags: public static (class-level, unused precisely but harmless)
	b.u16(2)      // this_class -> index 2
	b.u16(0)      // super_class: none
	b.u16(0)      // interfaces_count
	b.u16(0)      // fields_count

	b.u16(1)      // methods_count
	b.u16(0x0009) // method access_flags: public static
	b.u16(4)      // name_idx
	b.u16(5)      // desc_idx
	b.u16(1)      // attributes_count

	b.u16(3) // attribute name_idx -> "Code"
	var code_buf classBuilder
	code_buf.u16(2)                   // max_stack
	code_buf.u16(1)                   // max_locals
	code_buf.u32(uint32(len(code)))   // code_length
	code_buf.bytes(code)
	code_buf.u16(0) // exception_table_count
	code_buf.u16(0) // attributes_count
	attr := code_buf.buf.Bytes()
	b.u32(uint32(len(attr)))
	b.bytes(attr)

	b.u16(0) // class attributes_count

	return b.buf.Bytes()
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte{0x00, 0x00, 0x00, 0x00})
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != InvalidMagicNumber {
		t.Fatalf("expected InvalidMagicNumber, got %v", err)
	}
}

func TestDecodeRejectsTruncatedFile(t *testing.T) {
	_, err := Decode([]byte{0xCA, 0xFE, 0xBA, 0xBE, 0x00})
	pe, ok := err.(*ParseError)
	if !ok || pe.Kind != UnexpectedEndOfFile {
		t.Fatalf("expected UnexpectedEndOfFile, got %v", err)
	}
}

// TestDecodeMinimalClassAndResolveCode mirrors end-to-end scenario 1 from
// the specification: iconst_3 iconst_4 iadd ireturn, descriptor "()I".
func TestDecodeMinimalClassAndResolveCode(t *testing.T) {
	code := []byte{0x06, 0x07, 0x60, 0xAC} // iconst_3 iconst_4 iadd ireturn
	data := buildMinimalClass(t, "compute", "()I", code)

	class, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if class.Name().GoString() != "TestClass" {
		t.Errorf("Name() = %q, want TestClass", class.Name().GoString())
	}
	if _, ok := class.SuperName(); ok {
		t.Error("expected no superclass")
	}

	m, ok := class.GetMethod("compute", "()I")
	if !ok {
		t.Fatal("GetMethod(compute, ()I) not found")
	}
	if m.Code == nil {
		t.Fatal("expected a decoded Code attribute")
	}
	if m.Code.MaxStack != 2 || m.Code.MaxLocals != 1 {
		t.Errorf("MaxStack/MaxLocals = %d/%d, want 2/1", m.Code.MaxStack, m.Code.MaxLocals)
	}
	if !bytes.Equal(m.Code.Code, code) {
		t.Errorf("Code = %x, want %x", m.Code.Code, code)
	}
}
