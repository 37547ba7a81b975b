package mutf8

import "testing"

func TestValidateRejectsBareNul(t *testing.T) {
	err := Validate([]byte{0x41, 0x00, 0x42})
	if err == nil {
		t.Fatal("expected error for bare NUL byte")
	}
	ee := err.(*EncodingError)
	if ee.ValidUpTo != 1 || ee.ErrorLen != 1 {
		t.Errorf("got ValidUpTo=%d ErrorLen=%d, want 1,1", ee.ValidUpTo, ee.ErrorLen)
	}
}

func TestValidateAcceptsEncodedNul(t *testing.T) {
	if err := Validate([]byte{0xC0, 0x80}); err != nil {
		t.Fatalf("C0 80 should be valid encoded NUL: %v", err)
	}
}

func TestValidateRejectsOverlong(t *testing.T) {
	// 0xC1 0x81 would decode to 0x41 ('A'), an overlong 2-byte encoding.
	if err := Validate([]byte{0xC1, 0x81}); err == nil {
		t.Fatal("expected overlong 2-byte sequence to be rejected")
	}
}

func TestValidateRejectsFourByteUTF8(t *testing.T) {
	// U+1F600 encoded as plain 4-byte UTF-8 rather than a 6-byte surrogate pair.
	if err := Validate([]byte{0xF0, 0x9F, 0x98, 0x80}); err == nil {
		t.Fatal("expected 4-byte UTF-8 leading byte to be rejected")
	}
}

func TestValidateAcceptsSupplementarySurrogatePair(t *testing.T) {
	s := FromGoString("\U0001F600")
	if err := Validate(s); err != nil {
		t.Fatalf("supplementary code point surrogate pair should validate: %v", err)
	}
	if len(s) != 6 {
		t.Errorf("expected 6-byte encoding, got %d bytes", len(s))
	}
}

func TestRoundTripForwardIterationThenEncode(t *testing.T) {
	cases := []string{
		"",
		"hello, world",
		"\x00leading nul",
		"emoji \U0001F600 and \U0001F601",
		"ࠀ߿",
	}
	for _, c := range cases {
		s := FromGoString(c)
		if err := Validate(s); err != nil {
			t.Fatalf("FromGoString(%q) produced invalid mutf8: %v", c, err)
		}

		var rebuilt []byte
		it := s.Iter()
		for {
			cp, ok := it.Next()
			if !ok {
				break
			}
			rebuilt = Encode(rebuilt, cp)
		}
		if !String(rebuilt).Equal(s) {
			t.Errorf("round trip mismatch for %q: got %x want %x", c, rebuilt, s)
		}
	}
}

func TestReverseIterationMatchesForwardReversed(t *testing.T) {
	s := FromGoString("abc \U0001F600 def ࠀ")

	var forward []uint32
	it := s.Iter()
	for {
		cp, ok := it.Next()
		if !ok {
			break
		}
		forward = append(forward, cp)
	}

	var backward []uint32
	rit := s.ReverseIter()
	for {
		cp, ok := rit.Next()
		if !ok {
			break
		}
		backward = append(backward, cp)
	}

	if len(forward) != len(backward) {
		t.Fatalf("length mismatch: forward=%d backward=%d", len(forward), len(backward))
	}
	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			t.Errorf("mismatch at %d: forward=%d reversed-backward=%d", i, forward[i], backward[len(backward)-1-i])
		}
	}
}

// TestReverseIterationLeadingSupplementaryCodePoint exercises the case
// where the final step of reverse iteration has exactly the 6 bytes of
// a surrogate pair left in the buffer (the supplementary code point
// sits at the very start of the string, with no bytes before it).
func TestReverseIterationLeadingSupplementaryCodePoint(t *testing.T) {
	s := FromGoString("\U0001F600abc")

	var backward []uint32
	rit := s.ReverseIter()
	for {
		cp, ok := rit.Next()
		if !ok {
			break
		}
		backward = append(backward, cp)
	}

	want := []uint32{'c', 'b', 'a', 0x1F600}
	if len(backward) != len(want) {
		t.Fatalf("length mismatch: got %d want %d (%v)", len(backward), len(want), backward)
	}
	for i := range want {
		if backward[i] != want[i] {
			t.Errorf("mismatch at %d: got %#x want %#x", i, backward[i], want[i])
		}
	}
}

func TestEqual(t *testing.T) {
	a := FromGoString("same")
	b := FromGoString("same")
	c := FromGoString("different")
	if !a.Equal(b) {
		t.Error("expected equal strings to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected different strings to compare unequal")
	}
}
