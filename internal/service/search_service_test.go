package service

import "testing"

func TestClampTopK(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{-5, defaultTopK},
		{0, defaultTopK},
		{1, 1},
		{50, 50},
		{100, 100},
		{500, maxTopK}, // 超出上限截断，而不是回落到默认值
	}
	for _, tc := range cases {
		if got := clampTopK(tc.in); got != tc.want {
			t.Fatalf("clampTopK(%d) = %d, 期望 %d", tc.in, got, tc.want)
		}
	}
}
