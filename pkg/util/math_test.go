package util

import "testing"

func TestRoundTo(t *testing.T) {
	cases := []struct {
		v      float64
		places int
		want   float64
	}{
		{1.2345, 2, 1.23},
		{1.236, 2, 1.24},
		{66.666666, 1, 66.7},
		{-1.236, 2, -1.24},
		{10, 0, 10},
		{2.5, 0, 3}, // half away from zero
	}
	for _, c := range cases {
		if got := RoundTo(c.v, c.places); got != c.want {
			t.Fatalf("RoundTo(%v, %d) = %v, want %v", c.v, c.places, got, c.want)
		}
	}
}
