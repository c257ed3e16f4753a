package slub

import "testing"

func TestAlignUp(t *testing.T) {
	cases := []struct{ n, a, want uintptr }{
		{0, 16, 0},
		{1, 16, 16},
		{16, 16, 16},
		{17, 16, 32},
		{9, 8, 16},
	}
	for _, c := range cases {
		if got := alignUp(c.n, c.a); got != c.want {
			t.Errorf("alignUp(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestAlignDown(t *testing.T) {
	cases := []struct{ n, a, want uintptr }{
		{0, 16, 0},
		{15, 16, 0},
		{16, 16, 16},
		{31, 16, 16},
	}
	for _, c := range cases {
		if got := alignDown(c.n, c.a); got != c.want {
			t.Errorf("alignDown(%d, %d) = %d, want %d", c.n, c.a, got, c.want)
		}
	}
}

func TestRoundUpPow2(t *testing.T) {
	cases := []struct{ n, want uintptr }{
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 4},
		{5, 8},
		{64, 64},
		{65, 128},
	}
	for _, c := range cases {
		if got := roundUpPow2(c.n); got != c.want {
			t.Errorf("roundUpPow2(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}

func TestClassIndex(t *testing.T) {
	cases := []struct {
		n    uintptr
		want int
	}{
		{1, 0},
		{8, 0},
		{9, 1},
		{2048, 8},
	}
	for _, c := range cases {
		if got := classIndex(c.n); got != c.want {
			t.Errorf("classIndex(%d) = %d, want %d", c.n, got, c.want)
		}
	}
}
