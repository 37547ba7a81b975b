package vm

import "testing"

func TestStackPushPopInt(t *testing.T) {
	s := NewStack(4)
	s.PushInt(3)
	s.PushInt(4)
	if got := s.PopInt(); got != 4 {
		t.Fatalf("PopInt() = %d, want 4", got)
	}
	if got := s.PopInt(); got != 3 {
		t.Fatalf("PopInt() = %d, want 3", got)
	}
}

func TestStackLongOccupiesTwoSlotsButPopsOnce(t *testing.T) {
	s := NewStack(4)
	s.PushLong(42)
	if got := s.PopLong(); got != 42 {
		t.Fatalf("PopLong() = %d, want 42", got)
	}
}

func TestStackMixedCategoryPushPop(t *testing.T) {
	s := NewStack(8)
	s.PushInt(1)
	s.PushDouble(2.5)
	s.PushInt(2)
	if got := s.PopInt(); got != 2 {
		t.Fatalf("top PopInt() = %d, want 2", got)
	}
	if got := s.PopDouble(); got != 2.5 {
		t.Fatalf("PopDouble() = %v, want 2.5", got)
	}
	if got := s.PopInt(); got != 1 {
		t.Fatalf("PopInt() = %d, want 1", got)
	}
}

func TestPop1RejectsCategory2(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping a category-2 marker with Pop1")
		}
	}()
	s := NewStack(2)
	s.PushLong(1)
	s.Pop1()
}

func TestPop2DiscardsOneLongOrTwoInts(t *testing.T) {
	s := NewStack(4)
	s.PushLong(99)
	s.Pop2()
	if len(s.slots) != 0 {
		t.Fatalf("after Pop2 on a long, slots = %d, want 0", len(s.slots))
	}

	s.PushInt(1)
	s.PushInt(2)
	s.Pop2()
	if len(s.slots) != 0 {
		t.Fatalf("after Pop2 on two ints, slots = %d, want 0", len(s.slots))
	}
}

func TestDupDuplicatesTopCategory1(t *testing.T) {
	s := NewStack(4)
	s.PushInt(7)
	s.Dup()
	if got := s.PopInt(); got != 7 {
		t.Fatalf("PopInt() = %d, want 7", got)
	}
	if got := s.PopInt(); got != 7 {
		t.Fatalf("PopInt() = %d, want 7", got)
	}
}

func TestDupX1InsertsBelowSecond(t *testing.T) {
	s := NewStack(4)
	s.PushInt(1)
	s.PushInt(2)
	s.DupX1()
	// stack bottom->top: 2, 1, 2
	if got := s.PopInt(); got != 2 {
		t.Fatalf("PopInt() = %d, want 2", got)
	}
	if got := s.PopInt(); got != 1 {
		t.Fatalf("PopInt() = %d, want 1", got)
	}
	if got := s.PopInt(); got != 2 {
		t.Fatalf("PopInt() = %d, want 2", got)
	}
}

func TestDup2DuplicatesTwoCategory1Slots(t *testing.T) {
	s := NewStack(8)
	s.PushInt(1)
	s.PushInt(2)
	s.Dup2()
	// bottom->top: 1, 2, 1, 2
	want := []int32{2, 1, 2, 1}
	for _, w := range want {
		if got := s.PopInt(); got != w {
			t.Fatalf("PopInt() = %d, want %d", got, w)
		}
	}
}

func TestDup2OnLongDuplicatesEntryAndMarker(t *testing.T) {
	s := NewStack(8)
	s.PushLong(5)
	s.Dup2()
	if got := s.PopLong(); got != 5 {
		t.Fatalf("PopLong() = %d, want 5", got)
	}
	if got := s.PopLong(); got != 5 {
		t.Fatalf("PopLong() = %d, want 5", got)
	}
}

func TestSwapExchangesTopTwoCategory1(t *testing.T) {
	s := NewStack(4)
	s.PushInt(1)
	s.PushInt(2)
	s.Swap()
	if got := s.PopInt(); got != 1 {
		t.Fatalf("PopInt() = %d, want 1", got)
	}
	if got := s.PopInt(); got != 2 {
		t.Fatalf("PopInt() = %d, want 2", got)
	}
}

func TestSwapRejectsCategory2(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic swapping across a category-2 value")
		}
	}()
	s := NewStack(4)
	s.PushLong(1)
	s.PushInt(2)
	s.Swap()
}

func TestLocalsSetGetRoundTrip(t *testing.T) {
	l := NewLocals(4)
	l.SetInt(0, 10)
	l.SetDouble(1, 3.5)
	if got := l.GetInt(0); got != 10 {
		t.Fatalf("GetInt(0) = %d, want 10", got)
	}
	if got := l.GetDouble(1); got != 3.5 {
		t.Fatalf("GetDouble(1) = %v, want 3.5", got)
	}
}

func TestLocalsGetMarkerSlotPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading an uninitialized local")
		}
	}()
	l := NewLocals(2)
	l.GetInt(0)
}

func TestLocalsDoubleOccupiesUpperSlotAsMarker(t *testing.T) {
	l := NewLocals(3)
	l.SetDouble(0, 1.0)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic reading the dead upper half of a double local")
		}
	}()
	l.Get(1)
}
