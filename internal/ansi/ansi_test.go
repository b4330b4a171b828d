package ansi

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		percent float64
		width   int
		filled  int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{99.9, 10, 9},
		{100, 10, 10},
		{150, 4, 4},
		{-3, 4, 0},
	}
	for _, tt := range tests {
		got := Bar(tt.percent, tt.width)
		if n := utf8.RuneCountInString(got); n != tt.width {
			t.Errorf("Bar(%v, %d) has %d cells, want %d", tt.percent, tt.width, n, tt.width)
		}
		if n := strings.Count(got, "█"); n != tt.filled {
			t.Errorf("Bar(%v, %d) filled %d, want %d", tt.percent, tt.width, n, tt.filled)
		}
	}
	if Bar(50, 0) != "" {
		t.Error("Bar with zero width should be empty")
	}
}
