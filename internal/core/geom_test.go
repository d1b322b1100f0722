package core

import (
	"math"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := NewRect(10, 10, 5, 5)

	tests := []struct {
		name     string
		x, y     int
		expected bool
	}{
		{"inside", 12, 12, true},
		{"top-left corner", 10, 10, true},
		{"bottom-right inside", 14, 14, true},
		{"right edge (exclusive)", 15, 12, false},
		{"bottom edge (exclusive)", 12, 15, false},
		{"outside left", 5, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.expected {
				t.Errorf("Contains(%d, %d) = %v, expected %v", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected int
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 10, 0},
		{10, 0, 10, 10},
	}

	for _, tt := range tests {
		if got := Clamp(tt.val, tt.lo, tt.hi); got != tt.expected {
			t.Errorf("Clamp(%d, %d, %d) = %d, expected %d", tt.val, tt.lo, tt.hi, got, tt.expected)
		}
	}
}

func TestVecOps(t *testing.T) {
	v := Vec{3, 4}

	if v.Len() != 5 {
		t.Errorf("Len() = %v, expected 5", v.Len())
	}

	n := v.Normalize()
	if math.Abs(n.Len()-1) > 1e-9 {
		t.Errorf("Normalize().Len() = %v, expected 1", n.Len())
	}

	if (Vec{}).Normalize() != (Vec{}) {
		t.Error("Normalize() of zero vector should stay zero")
	}

	l := v.Limit(2.5)
	if math.Abs(l.Len()-2.5) > 1e-9 {
		t.Errorf("Limit(2.5).Len() = %v, expected 2.5", l.Len())
	}
	if v.Limit(10) != v {
		t.Error("Limit() above length should not change the vector")
	}

	mid := Vec{0, 0}.Lerp(Vec{10, 20}, 0.5)
	if mid != (Vec{5, 10}) {
		t.Errorf("Lerp(0.5) = %v, expected {5 10}", mid)
	}
	if (Vec{0, 0}).Lerp(Vec{10, 20}, 2) != (Vec{10, 20}) {
		t.Error("Lerp() should clamp t to 1")
	}

	if got := v.Dot(Vec{1, 1}); got != 7 {
		t.Errorf("Dot() = %v, expected 7", got)
	}
}
