package classfile

import "testing"

func TestParseFieldTypePrimitives(t *testing.T) {
	cases := map[string]FieldTypeKind{
		"B": TByte, "S": TShort, "I": TInt, "J": TLong,
		"F": TFloat, "D": TDouble, "C": TChar, "Z": TBool,
	}
	for s, want := range cases {
		ft, err := ParseFieldType(s)
		if err != nil {
			t.Fatalf("ParseFieldType(%q): %v", s, err)
		}
		if ft.Kind != want {
			t.Errorf("ParseFieldType(%q).Kind = %v, want %v", s, ft.Kind, want)
		}
		if ft.String() != s {
			t.Errorf("round trip: ParseFieldType(%q).String() = %q", s, ft.String())
		}
	}
}

func TestParseFieldTypeClassAndArray(t *testing.T) {
	ft, err := ParseFieldType("Ljava/lang/String;")
	if err != nil {
		t.Fatalf("ParseFieldType: %v", err)
	}
	if ft.Kind != TClass || ft.Class != "java/lang/String" {
		t.Errorf("got %+v", ft)
	}
	if ft.String() != "Ljava/lang/String;" {
		t.Errorf("String() = %q", ft.String())
	}

	arr, err := ParseFieldType("[[D")
	if err != nil {
		t.Fatalf("ParseFieldType([[D): %v", err)
	}
	if arr.Kind != TArray || arr.Element.Kind != TArray || arr.Element.Element.Kind != TDouble {
		t.Errorf("got %+v", arr)
	}
	if arr.String() != "[[D" {
		t.Errorf("String() = %q", arr.String())
	}
	if arr.Category() != 1 {
		t.Errorf("array reference Category() = %d, want 1", arr.Category())
	}
}

func TestParseFieldTypeRejectsGarbage(t *testing.T) {
	if _, err := ParseFieldType("Q"); err == nil {
		t.Error("expected error for unknown descriptor byte")
	}
	if _, err := ParseFieldType("Ljava/lang/String"); err == nil {
		t.Error("expected error for unterminated class name")
	}
	if _, err := ParseFieldType("II"); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestParseMethodDescriptor(t *testing.T) {
	d, err := ParseMethodDescriptor("(ILjava/lang/String;[D)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(d.Params) != 3 {
		t.Fatalf("len(Params) = %d, want 3", len(d.Params))
	}
	if d.Params[0].Kind != TInt || d.Params[1].Kind != TClass || d.Params[2].Kind != TArray {
		t.Errorf("got %+v", d.Params)
	}
	if d.Ret != nil {
		t.Errorf("expected void return, got %+v", d.Ret)
	}
	if d.String() != "(ILjava/lang/String;[D)V" {
		t.Errorf("String() round trip = %q", d.String())
	}
}

func TestParseMethodDescriptorWithReturnValue(t *testing.T) {
	d, err := ParseMethodDescriptor("()I")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if len(d.Params) != 0 {
		t.Errorf("expected no params, got %d", len(d.Params))
	}
	if d.Ret == nil || d.Ret.Kind != TInt {
		t.Errorf("expected int return, got %+v", d.Ret)
	}
	if d.String() != "()I" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestMainDescriptorRoundTrips(t *testing.T) {
	d, err := ParseMethodDescriptor("([Ljava/lang/String;)V")
	if err != nil {
		t.Fatalf("ParseMethodDescriptor: %v", err)
	}
	if d.String() != "([Ljava/lang/String;)V" {
		t.Errorf("String() = %q", d.String())
	}
}

func TestParseMethodDescriptorRejectsMissingParens(t *testing.T) {
	if _, err := ParseMethodDescriptor("IV"); err == nil {
		t.Error("expected error for method descriptor missing leading '('")
	}
}
