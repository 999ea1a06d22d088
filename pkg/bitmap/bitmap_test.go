package bitmap

import "testing"

func TestSetTest(t *testing.T) {
	var b Bitmap
	if b.Test(3) {
		t.Fatalf("fresh bitmap must be empty")
	}
	b.Set(3)
	if !b.Test(3) {
		t.Fatalf("set(3); test(3) must be true")
	}
	if b.Test(4) {
		t.Fatalf("test(4) must remain false after set(3)")
	}
}

func TestUnset(t *testing.T) {
	var b Bitmap
	b.Set(10)
	b.Unset(10)
	if b.Test(10) {
		t.Fatalf("unset(10); test(10) must be false")
	}
}

func TestClear(t *testing.T) {
	var b Bitmap
	for i := 0; i < MaxWidth; i++ {
		b.Set(i)
	}
	b.Clear()
	for i := 0; i < MaxWidth; i++ {
		if b.Test(i) {
			t.Fatalf("clear(); test(%d) must be false", i)
		}
	}
}

func TestToggle(t *testing.T) {
	var b Bitmap
	b.Toggle(5)
	if !b.Test(5) {
		t.Fatalf("toggle on unset bit must set it")
	}
	b.Toggle(5)
	if b.Test(5) {
		t.Fatalf("toggle on set bit must unset it")
	}
}

func TestOutOfRangeIsIgnored(t *testing.T) {
	var b Bitmap
	b.Set(-1)
	b.Set(MaxWidth)
	b.Set(1000)
	if !b.IsEmpty() {
		t.Fatalf("out-of-range set() must be a no-op")
	}
	if b.Test(-1) || b.Test(MaxWidth) {
		t.Fatalf("out-of-range test() must be false")
	}
}

func TestMerge(t *testing.T) {
	var a, b Bitmap
	a.Set(1)
	b.Set(2)
	a.Merge(b)
	if !a.Test(1) || !a.Test(2) {
		t.Fatalf("merge must union bits")
	}
}

func TestEachAscending(t *testing.T) {
	b := Of(5, 1, 3)
	var got []int
	b.Each(func(i int) bool {
		got = append(got, i)
		return true
	})
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestEachStopsEarly(t *testing.T) {
	b := Of(0, 1, 2, 3)
	count := 0
	b.Each(func(i int) bool {
		count++
		return i < 1
	})
	if count != 2 {
		t.Fatalf("Each must stop after f returns false, got %d calls", count)
	}
}
