package core

import (
	"math"
	"testing"
)

func TestVecRotate(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec2
		theta    float64
		expected Vec2
	}{
		{"zero angle", V(3, 4), 0, V(3, 4)},
		{"quarter turn", V(1, 0), math.Pi / 2, V(0, 1)},
		{"half turn", V(1, 2), math.Pi, V(-1, -2)},
		{"negative quarter", V(0, 1), -math.Pi / 2, V(1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.v.Rotate(tc.theta)
			if !result.ApproxEqual(tc.expected, 1e-9) {
				t.Errorf("Rotate(%v) = %v, expected %v", tc.theta, result, tc.expected)
			}
		})
	}
}

func TestVecRotateInverse(t *testing.T) {
	v := V(12.5, -7.25)
	for _, theta := range []float64{0.1, 1, 2.5, -3, 10} {
		back := v.Rotate(theta).Rotate(-theta)
		if !back.ApproxEqual(v, 1e-9) {
			t.Errorf("Rotate(%v) then Rotate(%v) = %v, expected %v", theta, -theta, back, v)
		}
	}
}

func TestVecNormalize(t *testing.T) {
	n := V(3, 4).Normalize()
	if math.Abs(n.Len()-1) > 1e-12 {
		t.Errorf("Normalize().Len() = %f, expected 1", n.Len())
	}
	if !V(0, 0).Normalize().IsZero() {
		t.Error("zero vector should normalize to zero")
	}
}

func TestVecClampLen(t *testing.T) {
	tests := []struct {
		name     string
		v        Vec2
		max      float64
		expected float64
	}{
		{"shorter than max", V(3, 4), 10, 5},
		{"longer than max", V(30, 40), 10, 10},
		{"zero", V(0, 0), 1, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := tc.v.ClampLen(tc.max).Len()
			if math.Abs(result-tc.expected) > 1e-9 {
				t.Errorf("ClampLen(%v).Len() = %f, expected %f", tc.max, result, tc.expected)
			}
		})
	}
}

func TestClampF(t *testing.T) {
	tests := []struct {
		val, min, max, expected float64
	}{
		{5.5, 0.0, 10.0, 5.5},
		{-5.5, 0.0, 10.0, 0.0},
		{15.5, 0.0, 10.0, 10.0},
	}

	for _, tc := range tests {
		result := ClampF(tc.val, tc.min, tc.max)
		if result != tc.expected {
			t.Errorf("ClampF(%f, %f, %f) = %f, expected %f", tc.val, tc.min, tc.max, result, tc.expected)
		}
	}
}

func TestInputFrameRotation(t *testing.T) {
	f := NewInputFrame()
	if f.Rotation() != 0 {
		t.Errorf("empty frame rotation = %f, expected 0", f.Rotation())
	}
	f.Set(ActionRotateLeft)
	if f.Rotation() != 1 {
		t.Errorf("left rotation = %f, expected 1", f.Rotation())
	}
	f.Set(ActionRotateRight)
	if f.Rotation() != 0 {
		t.Errorf("both rotations = %f, expected 0", f.Rotation())
	}

	f.AddMove(1, 0)
	f.Clear()
	if f.Has(ActionRotateLeft) || !f.Move.IsZero() {
		t.Error("Clear() should reset actions and movement")
	}
}
