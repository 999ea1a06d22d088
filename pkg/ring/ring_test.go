package ring

import "testing"

func TestPushPopPrefix(t *testing.T) {
	b := New(8)
	in := []byte{1, 2, 3, 4, 5}
	for _, c := range in {
		b.PushOne(c)
	}
	for _, want := range in {
		got, ok := b.PopOne()
		if !ok || got != want {
			t.Fatalf("got (%v,%v) want (%v,true)", got, ok, want)
		}
	}
	if !b.IsEmpty() {
		t.Fatalf("buffer must be empty after draining all pushed bytes")
	}
}

func TestOverflowDropsOldestSuffix(t *testing.T) {
	b := New(4)
	for _, c := range []byte{1, 2, 3, 4, 5, 6} {
		b.PushOne(c)
	}
	var got []byte
	for i := 0; i < 4; i++ {
		c, ok := b.PopOne()
		if !ok {
			t.Fatalf("expected 4 bytes available after overflow")
		}
		got = append(got, c)
	}
	want := []byte{3, 4, 5, 6}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestCapacityAndAvailable(t *testing.T) {
	b := New(4)
	if b.Capacity() != 4 || b.Available() != 4 {
		t.Fatalf("fresh buffer of capacity 4 must report Available()==4")
	}
	b.PushOne('a')
	b.PushOne('b')
	if b.Size() != 2 || b.Available() != 2 {
		t.Fatalf("size/available mismatch after two pushes")
	}
}

func TestIsFull(t *testing.T) {
	b := New(2)
	if b.IsFull() {
		t.Fatalf("fresh buffer must not be full")
	}
	b.PushOne('a')
	b.PushOne('b')
	if !b.IsFull() {
		t.Fatalf("buffer at capacity must report full")
	}
}

func TestPopEmpty(t *testing.T) {
	b := New(2)
	if _, ok := b.PopOne(); ok {
		t.Fatalf("pop on empty buffer must report ok=false")
	}
}

func TestBulkCopy(t *testing.T) {
	b := New(8)
	n := b.BulkCopyFrom([]byte("hello"))
	if n != 0 {
		t.Fatalf("no bytes should drop when writing within capacity, got %d", n)
	}
	dst := make([]byte, 5)
	if got := b.BulkCopyTo(dst); got != 5 || string(dst) != "hello" {
		t.Fatalf("got %q (%d) want %q (5)", dst, got, "hello")
	}
}

func TestZeroCapacity(t *testing.T) {
	b := New(0)
	if !b.IsEmpty() || !b.IsFull() {
		t.Fatalf("zero-capacity buffer must be both empty and full")
	}
	b.PushOne('x')
	if _, ok := b.PopOne(); ok {
		t.Fatalf("zero-capacity buffer must never yield a byte")
	}
}

// interleaved push/pop without ever exceeding capacity must preserve
// FIFO prefix ordering.
func TestInterleavedNoOverflowIsPrefix(t *testing.T) {
	b := New(3)
	var produced, consumed []byte
	push := func(c byte) {
		if b.Size() < b.Capacity() {
			b.PushOne(c)
			produced = append(produced, c)
		}
	}
	pop := func() {
		if c, ok := b.PopOne(); ok {
			consumed = append(consumed, c)
		}
	}
	push(1)
	push(2)
	pop()
	push(3)
	push(4)
	pop()
	pop()
	pop()
	if len(consumed) != len(produced) {
		t.Fatalf("got %v want prefix of %v", consumed, produced)
	}
	for i := range consumed {
		if consumed[i] != produced[i] {
			t.Fatalf("got %v want prefix of %v", consumed, produced)
		}
	}
}
