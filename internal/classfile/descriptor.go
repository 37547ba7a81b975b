package classfile

import "strings"

// FieldTypeKind discriminates the field-descriptor grammar's primitive,
// class, and array productions.
type FieldTypeKind int

const (
	TByte FieldTypeKind = iota
	TShort
	TInt
	TLong
	TFloat
	TDouble
	TChar
	TBool
	TClass
	TArray
)

// FieldType is a parsed field descriptor. Class carries the internal class
// name (without the surrounding "L" and ";"); Array carries one level of
// element type, so an N-dimensional array is N nested FieldTypes.
type FieldType struct {
	Kind    FieldTypeKind
	Class   string
	Element *FieldType
}

// String renders a FieldType back into descriptor syntax, the exact
// inverse of parseFieldType.
func (t FieldType) String() string {
	switch t.Kind {
	case TByte:
		return "B"
	case TShort:
		return "S"
	case TInt:
		return "I"
	case TLong:
		return "J"
	case TFloat:
		return "F"
	case TDouble:
		return "D"
	case TChar:
		return "C"
	case TBool:
		return "Z"
	case TClass:
		return "L" + t.Class + ";"
	case TArray:
		return "[" + t.Element.String()
	default:
		return "?"
	}
}

// Category reports the slot width of a FieldType's runtime value: 2 for
// Long and Double, 1 for everything else.
func (t FieldType) Category() int {
	if t.Kind == TLong || t.Kind == TDouble {
		return 2
	}
	return 1
}

// MethodDescriptor is a parsed method descriptor: an ordered parameter
// list and an optional return type (nil means void).
type MethodDescriptor struct {
	Params []FieldType
	Ret    *FieldType
}

// String renders a MethodDescriptor back into descriptor syntax.
func (d MethodDescriptor) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range d.Params {
		b.WriteString(p.String())
	}
	b.WriteByte(')')
	if d.Ret != nil {
		b.WriteString(d.Ret.String())
	} else {
		b.WriteByte('V')
	}
	return b.String()
}

// descriptorScanner walks a descriptor string one rune at a time; runes
// are ASCII in every valid descriptor so byte indexing is safe.
type descriptorScanner struct {
	s   string
	pos int
}

func (s *descriptorScanner) peek() (byte, bool) {
	if s.pos >= len(s.s) {
		return 0, false
	}
	return s.s[s.pos], true
}

func (s *descriptorScanner) next() (byte, bool) {
	b, ok := s.peek()
	if ok {
		s.pos++
	}
	return b, ok
}

// ParseFieldType parses a single field-type descriptor, e.g. "I",
// "Ljava/lang/String;", or "[[D".
func ParseFieldType(s string) (FieldType, error) {
	sc := &descriptorScanner{s: s}
	t, err := parseFieldType(sc)
	if err != nil {
		return FieldType{}, err
	}
	if sc.pos != len(sc.s) {
		return FieldType{}, newError(InvalidEncodedString, "trailing data in field descriptor %q", s)
	}
	return t, nil
}

func parseFieldType(sc *descriptorScanner) (FieldType, error) {
	b, ok := sc.next()
	if !ok {
		return FieldType{}, newError(UnexpectedEndOfFile, "empty field descriptor")
	}
	switch b {
	case 'B':
		return FieldType{Kind: TByte}, nil
	case 'S':
		return FieldType{Kind: TShort}, nil
	case 'I':
		return FieldType{Kind: TInt}, nil
	case 'J':
		return FieldType{Kind: TLong}, nil
	case 'F':
		return FieldType{Kind: TFloat}, nil
	case 'D':
		return FieldType{Kind: TDouble}, nil
	case 'C':
		return FieldType{Kind: TChar}, nil
	case 'Z':
		return FieldType{Kind: TBool}, nil
	case 'L':
		start := sc.pos
		for {
			c, ok := sc.next()
			if !ok {
				return FieldType{}, newError(UnexpectedEndOfFile, "unterminated class descriptor in %q", sc.s)
			}
			if c == ';' {
				return FieldType{Kind: TClass, Class: sc.s[start : sc.pos-1]}, nil
			}
		}
	case '[':
		elem, err := parseFieldType(sc)
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Kind: TArray, Element: &elem}, nil
	default:
		return FieldType{}, newError(InvalidEncodedString, "invalid field descriptor byte %q in %q", b, sc.s)
	}
}

// ParseMethodDescriptor parses a method descriptor, e.g.
// "(ILjava/lang/String;)V".
func ParseMethodDescriptor(s string) (MethodDescriptor, error) {
	sc := &descriptorScanner{s: s}
	open, ok := sc.next()
	if !ok || open != '(' {
		return MethodDescriptor{}, newError(InvalidEncodedString, "method descriptor %q must start with '('", s)
	}

	var params []FieldType
	for {
		b, ok := sc.peek()
		if !ok {
			return MethodDescriptor{}, newError(UnexpectedEndOfFile, "unterminated parameter list in %q", s)
		}
		if b == ')' {
			sc.next()
			break
		}
		p, err := parseFieldType(sc)
		if err != nil {
			return MethodDescriptor{}, err
		}
		params = append(params, p)
	}

	retByte, ok := sc.peek()
	if !ok {
		return MethodDescriptor{}, newError(UnexpectedEndOfFile, "missing return type in %q", s)
	}
	if retByte == 'V' {
		sc.next()
		if sc.pos != len(sc.s) {
			return MethodDescriptor{}, newError(InvalidEncodedString, "trailing data in method descriptor %q", s)
		}
		return MethodDescriptor{Params: params}, nil
	}

	ret, err := parseFieldType(sc)
	if err != nil {
		return MethodDescriptor{}, err
	}
	if sc.pos != len(sc.s) {
		return MethodDescriptor{}, newError(InvalidEncodedString, "trailing data in method descriptor %q", s)
	}
	return MethodDescriptor{Params: params, Ret: &ret}, nil
}
