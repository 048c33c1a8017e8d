package entropy

import "testing"

func TestStreamReproducible(t *testing.T) {
	a := NewStream(42, 7)
	b := NewStream(42, 7)
	for i := 0; i < 1000; i++ {
		if x, y := a.Uint64(), b.Uint64(); x != y {
			t.Fatalf("draw %d diverged: %d vs %d", i, x, y)
		}
	}
}

func TestStreamsIndependent(t *testing.T) {
	a := NewStream(42, 1)
	b := NewStream(42, 2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	if same > 0 {
		t.Fatalf("streams 1 and 2 produced %d identical draws", same)
	}
}

func TestStreamCopyIsSnapshot(t *testing.T) {
	a := NewStream(9, 9)
	a.Uint64()
	snapshot := a
	want := a.Float64()
	if got := snapshot.Float64(); got != want {
		t.Fatalf("copied stream drew %v, want %v", got, want)
	}
}

func TestRanges(t *testing.T) {
	s := NewStream(1, 1)
	for i := 0; i < 10000; i++ {
		if f := s.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %v", f)
		}
		if f := s.Range(1, 6); f < 1 || f >= 6 {
			t.Fatalf("Range(1,6) out of range: %v", f)
		}
		if n := s.IntRange(-3, 4); n < -3 || n > 3 {
			t.Fatalf("IntRange(-3,4) out of range: %d", n)
		}
	}
}

func TestIntNCoversAllValues(t *testing.T) {
	s := NewStream(3, 3)
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		seen[s.IntN(7)] = true
	}
	if len(seen) != 7 {
		t.Fatalf("IntN(7) hit %d distinct values, want 7", len(seen))
	}
}

func TestIntNRejectsEmptyRange(t *testing.T) {
	for _, n := range []int{0, -3} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("IntN(%d) did not panic", n)
				}
			}()
			s := NewStream(1, 1)
			s.IntN(n)
		}()
	}
}
