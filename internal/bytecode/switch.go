package bytecode

import "github.com/wevanson/classvm/internal/reader"

// TableSwitch is the decoded payload of a tableswitch instruction. It
// borrows its offsets sub-slice from the method's code array and decodes
// entries on demand rather than eagerly materializing them, mirroring the
// Rust TableSwitch's borrowed &[u8] payload.
type TableSwitch struct {
	Default int32
	Low     int32
	High    int32
	offsets []byte
}

// NewTableSwitch wraps offsets, which must hold exactly (high-low+1)
// 4-byte big-endian entries.
func NewTableSwitch(def, low, high int32, offsets []byte) *TableSwitch {
	return &TableSwitch{Default: def, Low: low, High: high, offsets: offsets}
}

// Lookup returns the branch offset for key: the (key-low)'th table entry
// if low <= key <= high, else Default.
func (t *TableSwitch) Lookup(key int32) int32 {
	if key < t.Low || key > t.High {
		return t.Default
	}
	r := reader.New(t.offsets)
	if err := r.Skip(int(key-t.Low) * 4); err != nil {
		return t.Default
	}
	v, err := r.ReadU32()
	if err != nil {
		return t.Default
	}
	return int32(v)
}

// Offsets iterates every table entry in ascending key order.
func (t *TableSwitch) Offsets() []int32 {
	r := reader.New(t.offsets)
	out := make([]int32, 0, (t.High-t.Low+1))
	for !r.IsEmpty() {
		v, err := r.ReadU32()
		if err != nil {
			break
		}
		out = append(out, int32(v))
	}
	return out
}

// LookupSwitch is the decoded payload of a lookupswitch instruction. Like
// TableSwitch, its match/offset pairs are borrowed and decoded lazily.
type LookupSwitch struct {
	Default int32
	pairs   []byte
}

// NewLookupSwitch wraps pairs, which must hold npairs 8-byte (key, offset)
// big-endian entries, in strictly ascending key order.
func NewLookupSwitch(def int32, pairs []byte) *LookupSwitch {
	return &LookupSwitch{Default: def, pairs: pairs}
}

// Lookup returns the offset of the first pair whose key equals key, else
// Default.
func (l *LookupSwitch) Lookup(key int32) int32 {
	r := reader.New(l.pairs)
	for !r.IsEmpty() {
		k, err := r.ReadU32()
		if err != nil {
			break
		}
		v, err := r.ReadU32()
		if err != nil {
			break
		}
		if int32(k) == key {
			return int32(v)
		}
	}
	return l.Default
}

// Pair is one (key, offset) entry of a LookupSwitch.
type Pair struct {
	Key    int32
	Offset int32
}

// Pairs returns every (key, offset) entry in the order they were encoded.
func (l *LookupSwitch) Pairs() []Pair {
	r := reader.New(l.pairs)
	var out []Pair
	for !r.IsEmpty() {
		k, err := r.ReadU32()
		if err != nil {
			break
		}
		v, err := r.ReadU32()
		if err != nil {
			break
		}
		out = append(out, Pair{Key: int32(k), Offset: int32(v)})
	}
	return out
}
