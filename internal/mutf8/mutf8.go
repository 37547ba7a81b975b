// Package mutf8 implements the class-file string encoding: a byte encoding
// close to UTF-8, except that U+0000 is always encoded as the two-byte
// sequence C0 80 and supplementary code points (U+10000..U+10FFFF) are
// encoded as two three-byte "surrogate" triplets (six bytes total) rather
// than a single four-byte UTF-8 sequence.
//
// Grounded on the original Rust implementation's string/mod.rs (validate,
// from_utf8, encode_raw, get_surrogate_index) and on the teacher's own
// ad-hoc UTF-8 handling of constant-pool Utf8 entries.
package mutf8

import "fmt"

// EncodingError reports the position and extent of the first invalid byte
// sequence found while validating a candidate encoded string.
type EncodingError struct {
	// ValidUpTo is the byte index up to which the input was valid.
	ValidUpTo int
	// ErrorLen is the length, in bytes, of the invalid sequence starting at
	// ValidUpTo. Zero means the input ended unexpectedly mid-sequence.
	ErrorLen int
}

func (e *EncodingError) Error() string {
	if e.ErrorLen == 0 {
		return fmt.Sprintf("invalid modified UTF-8 byte sequence from index %d: unexpected end of input", e.ValidUpTo)
	}
	return fmt.Sprintf("invalid modified UTF-8 sequence of %d bytes from index %d", e.ErrorLen, e.ValidUpTo)
}

// String is a byte sequence already known to be valid modified UTF-8.
// Construct one with New or FromGoString; the zero value is the empty
// string.
type String []byte

// New validates b and, on success, wraps it as a String. The returned
// String aliases b; callers must not mutate b afterward.
func New(b []byte) (String, error) {
	if err := Validate(b); err != nil {
		return nil, err
	}
	return String(b), nil
}

// Equal reports whether two validated strings hold the exact same bytes.
func (s String) Equal(other String) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Bytes returns the underlying validated byte slice.
func (s String) Bytes() []byte { return []byte(s) }

// GoString renders s as a best-effort Go string, for diagnostics only:
// unpaired surrogate code points cannot be represented in UTF-8 and are
// rendered as U+FFFD, so the conversion is lossy for such inputs.
func (s String) GoString() string {
	runes := make([]rune, 0, len(s))
	it := s.Iter()
	for {
		cp, ok := it.Next()
		if !ok {
			break
		}
		runes = append(runes, rune(cp))
	}
	return string(runes)
}

// overlongFloor[n] is the smallest code point legally encoded in n bytes.
var overlongFloor = [4]uint32{0x0, 0x80, 0x800, 0x10000}

// Validate walks b and reports the first invalid byte sequence, if any.
func Validate(b []byte) error {
	i := 0
	for i < len(b) {
		first := b[i]
		switch {
		case first == 0x00:
			return &EncodingError{ValidUpTo: i, ErrorLen: 1}

		case first < 0x80:
			i++

		case first&0b1110_0000 == 0b1100_0000:
			if i+1 >= len(b) {
				return &EncodingError{ValidUpTo: i, ErrorLen: 0}
			}
			second := b[i+1]
			if second&0b1100_0000 != 0b1000_0000 {
				return &EncodingError{ValidUpTo: i, ErrorLen: 2}
			}
			cp := (uint32(first&0x1F) << 6) | uint32(second&0x3F)
			if cp < overlongFloor[1] && cp != 0 {
				return &EncodingError{ValidUpTo: i, ErrorLen: 2}
			}
			i += 2

		case first&0b1111_0000 == 0b1110_0000:
			if cp, ok := surrogatePairAt(b, i); ok {
				if cp < overlongFloor[3] || cp > 0x10FFFF {
					return &EncodingError{ValidUpTo: i, ErrorLen: 6}
				}
				i += 6
				continue
			}
			if i+2 >= len(b) {
				return &EncodingError{ValidUpTo: i, ErrorLen: 0}
			}
			second, third := b[i+1], b[i+2]
			if second&0b1100_0000 != 0b1000_0000 {
				return &EncodingError{ValidUpTo: i, ErrorLen: 2}
			}
			if third&0b1100_0000 != 0b1000_0000 {
				return &EncodingError{ValidUpTo: i, ErrorLen: 3}
			}
			cp := (uint32(first&0x0F) << 12) | (uint32(second&0x3F) << 6) | uint32(third&0x3F)
			if cp < overlongFloor[2] {
				return &EncodingError{ValidUpTo: i, ErrorLen: 3}
			}
			i += 3

		default:
			// four-byte-leading UTF-8 and anything else is never valid here.
			return &EncodingError{ValidUpTo: i, ErrorLen: 1}
		}
	}
	return nil
}

// surrogatePairAt reports whether a six-byte supplementary-character
// surrogate pair starts at index i, and if so its decoded code point.
func surrogatePairAt(v []byte, i int) (uint32, bool) {
	if i+6 > len(v) {
		return 0, false
	}
	if v[i] != 0xED || v[i+1]&0xF0 != 0xA0 || v[i+2]&0xC0 != 0x80 ||
		v[i+3] != 0xED || v[i+4]&0xF0 != 0xB0 || v[i+5]&0xC0 != 0x80 {
		return 0, false
	}
	cp := 0x10000 +
		((uint32(v[i+1]&0x0F) << 16) |
			(uint32(v[i+2]&0x3F) << 10) |
			(uint32(v[i+4]&0x0F) << 6) |
			uint32(v[i+5]&0x3F))
	return cp, true
}

// EncodedLen returns the number of bytes needed to encode a single code
// point as modified UTF-8.
func EncodedLen(cp uint32) int {
	switch {
	case cp == 0:
		return 2
	case cp < 0x80:
		return 1
	case cp < 0x800:
		return 2
	case cp < 0x10000:
		return 3
	default:
		return 6
	}
}

// Encode appends the modified-UTF-8 encoding of cp to dst and returns the
// extended slice.
func Encode(dst []byte, cp uint32) []byte {
	switch n := EncodedLen(cp); n {
	case 1:
		return append(dst, byte(cp))
	case 2:
		return append(dst,
			0b1100_0000|byte(cp>>6&0x1F),
			0b1000_0000|byte(cp&0x3F))
	case 3:
		return append(dst,
			0b1110_0000|byte(cp>>12&0x0F),
			0b1000_0000|byte(cp>>6&0x3F),
			0b1000_0000|byte(cp&0x3F))
	default: // 6
		hi := cp - 0x10000
		return append(dst,
			0xED, 0xA0|byte(hi>>16&0x0F), 0x80|byte(hi>>10&0x3F),
			0xED, 0xB0|byte(hi>>6&0x0F), 0x80|byte(hi&0x3F))
	}
}

// FromGoString converts a Go (standard UTF-8) string to modified UTF-8. It
// copies only when the source contains U+0000 or a supplementary code
// point; otherwise the result aliases the same bytes as a plain conversion
// would produce.
//
// There is no macro system in Go to build these at true compile time;
// calling FromGoString on a string literal (for example to initialize a
// package-level var) is the substitute, a small, deterministic function
// over a constant input.
func FromGoString(s string) String {
	src := []byte(s)
	needsCopy := false
	for _, r := range s {
		if r == 0 || r > 0xFFFF {
			needsCopy = true
			break
		}
	}
	if !needsCopy {
		return String(src)
	}

	out := make([]byte, 0, len(src)+4)
	for _, r := range s {
		out = Encode(out, uint32(r))
	}
	return String(out)
}

// Iter walks the code points of a validated String forward.
type Iter struct{ rest []byte }

// Iter returns a forward iterator over s.
func (s String) Iter() *Iter { return &Iter{rest: s} }

// Next returns the next code point, or ok=false once exhausted.
func (it *Iter) Next() (cp uint32, ok bool) {
	if len(it.rest) == 0 {
		return 0, false
	}
	first := it.rest[0]
	switch {
	case first < 0x80:
		cp = uint32(first)
		it.rest = it.rest[1:]
	case first&0b1110_0000 == 0b1100_0000:
		cp = (uint32(first&0x1F) << 6) | uint32(it.rest[1]&0x3F)
		it.rest = it.rest[2:]
	default:
		if sp, ok2 := surrogatePairAt(it.rest, 0); ok2 {
			cp = sp
			it.rest = it.rest[6:]
		} else {
			second, third := it.rest[1], it.rest[2]
			cp = (uint32(first&0x0F) << 12) | (uint32(second&0x3F) << 6) | uint32(third&0x3F)
			it.rest = it.rest[3:]
		}
	}
	return cp, true
}

// ReverseIter walks the code points of a validated String backward.
type ReverseIter struct{ rest []byte }

// ReverseIter returns a reverse iterator over s.
func (s String) ReverseIter() *ReverseIter { return &ReverseIter{rest: s} }

// Next returns the next (walking backward) code point, or ok=false once
// exhausted.
func (it *ReverseIter) Next() (cp uint32, ok bool) {
	n := len(it.rest)
	if n == 0 {
		return 0, false
	}
	last := it.rest[n-1]
	if last < 0x80 {
		it.rest = it.rest[:n-1]
		return uint32(last), true
	}

	second := it.rest[n-2]
	if second&0b1110_0000 == 0b1100_0000 {
		cp = (uint32(second&0x1F) << 6) | uint32(last&0x3F)
		it.rest = it.rest[:n-2]
		return cp, true
	}

	if n >= 6 {
		if sp, ok2 := surrogatePairAt(it.rest, n-6); ok2 {
			it.rest = it.rest[:n-6]
			return sp, true
		}
	}

	third := it.rest[n-3]
	cp = (uint32(third&0x0F) << 12) | (uint32(second&0x3F) << 6) | uint32(last&0x3F)
	it.rest = it.rest[:n-3]
	return cp, true
}
