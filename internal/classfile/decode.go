package classfile

import (
	"math"

	"github.com/wevanson/classvm/internal/mutf8"
	"github.com/wevanson/classvm/internal/reader"
)

const magicNumber = 0xCAFEBABE

// constant pool tag bytes, per the canonical class-file format.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagInvokeDynamic      = 18
)

func wrapReaderErr(err error) error {
	if err == reader.ErrUnexpectedEOF {
		return newError(UnexpectedEndOfFile, "unexpected end of file")
	}
	return err
}

// Decode parses a complete class file from b, per the layout in
// specification section 4.5: magic, version, constant pool, access flags,
// this/super class, interfaces, fields, methods, attributes.
func Decode(b []byte) (*Class, error) {
	r := reader.New(b)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	if magic != magicNumber {
		return nil, newError(InvalidMagicNumber, "got %#08x, want %#08x", magic, uint32(magicNumber))
	}

	minor, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	major, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}

	cpCount, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	pool := NewCPool(int(cpCount))
	for pool.Len() < int(cpCount)-1 {
		if err := decodeOneConstant(r, pool); err != nil {
			return nil, err
		}
	}

	accessFlags, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}

	thisClass, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	if thisClass == 0 {
		return nil, newError(InvalidConstantIdx, "this_class must be non-zero")
	}

	superClass, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}

	interfaceCount, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	interfaces := make([]ConstantIdx, 0, interfaceCount)
	for i := 0; i < int(interfaceCount); i++ {
		idx, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		interfaces = append(interfaces, ConstantIdx(idx))
	}

	fields, err := decodeFields(r, pool)
	if err != nil {
		return nil, err
	}

	methods, err := decodeMethods(r, pool)
	if err != nil {
		return nil, err
	}

	classAttrCount, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	classAttrs, err := decodeAttributes(r, int(classAttrCount))
	if err != nil {
		return nil, err
	}

	return &Class{
		MinorVersion: minor,
		MajorVersion: major,
		Pool:         pool,
		AccessFlags:  AccessFlags(accessFlags),
		ThisClass:    ConstantIdx(thisClass),
		SuperClass:   ConstantIdx(superClass),
		Interfaces:   interfaces,
		Fields:       fields,
		Methods:      methods,
		Attributes:   classAttrs,
	}, nil
}

func decodeOneConstant(r *reader.Reader, pool *CPool) error {
	tag, err := r.ReadU8()
	if err != nil {
		return wrapReaderErr(err)
	}

	switch tag {
	case tagUtf8:
		length, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		raw, err := r.ReadSlice(int(length))
		if err != nil {
			return wrapReaderErr(err)
		}
		s, err := mutf8.New(raw)
		if err != nil {
			return newError(InvalidEncodedString, "%v", err)
		}
		pool.Add(Entry{Kind: Utf8Entry, Utf8: s})

	case tagInteger:
		v, err := r.ReadI32()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: IntegerEntry, Int: v})

	case tagFloat:
		v, err := r.ReadU32()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: FloatEntry, Float32: decodeFloat32(v)})

	case tagLong:
		hi, err := r.ReadU32()
		if err != nil {
			return wrapReaderErr(err)
		}
		lo, err := r.ReadU32()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: LongEntry, Long: int64(uint64(hi)<<32 | uint64(lo))})

	case tagDouble:
		hi, err := r.ReadU32()
		if err != nil {
			return wrapReaderErr(err)
		}
		lo, err := r.ReadU32()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: DoubleEntry, Float64: decodeFloat64(uint64(hi)<<32 | uint64(lo))})

	case tagClass:
		nameIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: ClassEntry, Idx1: ConstantIdx(nameIdx)})

	case tagString:
		utf8Idx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: StringEntry, Idx1: ConstantIdx(utf8Idx)})

	case tagFieldref, tagMethodref, tagInterfaceMethodref:
		classIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		natIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		kind := FieldRefEntry
		if tag == tagMethodref {
			kind = MethodRefEntry
		} else if tag == tagInterfaceMethodref {
			kind = InterfaceMethodRefEntry
		}
		pool.Add(Entry{Kind: kind, Idx1: ConstantIdx(classIdx), Idx2: ConstantIdx(natIdx)})

	case tagNameAndType:
		nameIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		descIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: NameTypeEntry, Idx1: ConstantIdx(nameIdx), Idx2: ConstantIdx(descIdx)})

	case tagMethodHandle:
		refKind, err := r.ReadU8()
		if err != nil {
			return wrapReaderErr(err)
		}
		refIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: MethodHandleEntry, RefKind: ReferenceKind(refKind), Idx1: ConstantIdx(refIdx)})

	case tagMethodType:
		descIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: MethodTypeEntry, Idx1: ConstantIdx(descIdx)})

	case tagInvokeDynamic:
		bootstrapIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		natIdx, err := r.ReadU16()
		if err != nil {
			return wrapReaderErr(err)
		}
		pool.Add(Entry{Kind: InvokeDynamicEntry, BootstrapMethodAttrIdx: bootstrapIdx, Idx2: ConstantIdx(natIdx)})

	default:
		return newError(InvalidConstantTag, "unknown constant pool tag %d", tag)
	}
	return nil
}

func decodeFloat32(bits uint32) float32 {
	return math.Float32frombits(bits)
}

func decodeFloat64(bits uint64) float64 {
	return math.Float64frombits(bits)
}

func decodeAttributes(r *reader.Reader, count int) ([]Attribute, error) {
	attrs := make([]Attribute, 0, count)
	for i := 0; i < count; i++ {
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		length, err := r.ReadU32()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		data, err := r.ReadSlice(int(length))
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		attrs = append(attrs, Attribute{NameIdx: ConstantIdx(nameIdx), Data: data})
	}
	return attrs, nil
}

func decodeFields(r *reader.Reader, pool *CPool) ([]Field, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	fields := make([]Field, 0, count)
	for i := 0; i < int(count); i++ {
		accessFlags, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		descIdx, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		attrCount, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		attrs, err := decodeAttributes(r, int(attrCount))
		if err != nil {
			return nil, err
		}

		descStr, err := pool.Utf8At(ConstantIdx(descIdx))
		if err != nil {
			return nil, err
		}
		parsed, err := ParseFieldType(descStr.GoString())
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{
			AccessFlags: AccessFlags(accessFlags),
			NameIdx:     ConstantIdx(nameIdx),
			DescIdx:     ConstantIdx(descIdx),
			Descriptor:  parsed,
			Attributes:  attrs,
		})
	}
	return fields, nil
}

const codeAttributeName = "Code"

func decodeMethods(r *reader.Reader, pool *CPool) ([]Method, error) {
	count, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	methods := make([]Method, 0, count)
	for i := 0; i < int(count); i++ {
		accessFlags, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		nameIdx, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		descIdx, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		attrCount, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}

		var code *CodeAttribute
		attrs := make([]Attribute, 0, attrCount)
		for j := 0; j < int(attrCount); j++ {
			attrNameIdx, err := r.ReadU16()
			if err != nil {
				return nil, wrapReaderErr(err)
			}
			length, err := r.ReadU32()
			if err != nil {
				return nil, wrapReaderErr(err)
			}
			payload, err := r.ReadSlice(int(length))
			if err != nil {
				return nil, wrapReaderErr(err)
			}

			name, nerr := pool.Utf8At(ConstantIdx(attrNameIdx))
			if nerr == nil && name.GoString() == codeAttributeName {
				c, err := decodeCodeAttribute(payload)
				if err != nil {
					return nil, err
				}
				code = c
				continue
			}
			attrs = append(attrs, Attribute{NameIdx: ConstantIdx(attrNameIdx), Data: payload})
		}

		descStr, err := pool.Utf8At(ConstantIdx(descIdx))
		if err != nil {
			return nil, err
		}
		parsed, err := ParseMethodDescriptor(descStr.GoString())
		if err != nil {
			return nil, err
		}

		methods = append(methods, Method{
			AccessFlags: AccessFlags(accessFlags),
			NameIdx:     ConstantIdx(nameIdx),
			DescIdx:     ConstantIdx(descIdx),
			Descriptor:  parsed,
			Code:        code,
			Attributes:  attrs,
		})
	}
	return methods, nil
}

// decodeCodeAttribute parses the payload of a "Code" attribute, per
// specification section 4.5 item 9: max_stack, max_locals, the code
// array, the exception table, and sub-attributes (recursively skipped;
// nested Code-within-Code cannot occur).
func decodeCodeAttribute(payload []byte) (*CodeAttribute, error) {
	r := reader.New(payload)

	maxStack, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	maxLocals, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	codeLen, err := r.ReadU32()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	code, err := r.ReadSlice(int(codeLen))
	if err != nil {
		return nil, wrapReaderErr(err)
	}

	excCount, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	exceptions := make([]ExceptionTableEntry, 0, excCount)
	for i := 0; i < int(excCount); i++ {
		startPC, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		endPC, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		handlerPC, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		catchType, err := r.ReadU16()
		if err != nil {
			return nil, wrapReaderErr(err)
		}
		exceptions = append(exceptions, ExceptionTableEntry{
			StartPC:   startPC,
			EndPC:     endPC,
			HandlerPC: handlerPC,
			CatchType: ConstantIdx(catchType),
		})
	}

	subAttrCount, err := r.ReadU16()
	if err != nil {
		return nil, wrapReaderErr(err)
	}
	subAttrs, err := decodeAttributes(r, int(subAttrCount))
	if err != nil {
		return nil, err
	}

	return &CodeAttribute{
		MaxStack:       maxStack,
		MaxLocals:      maxLocals,
		Code:           code,
		ExceptionTable: exceptions,
		Attributes:     subAttrs,
	}, nil
}
