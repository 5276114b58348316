package math

import (
	"math"
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec2Lerp(t *testing.T) {
	got := Vec2{0, 0}.Lerp(Vec2{2, 4}, 0.25)
	want := Vec2{0.5, 1}
	if got != want {
		t.Errorf("Vec2.Lerp() = %v, want %v", got, want)
	}
}

func TestVec2Near(t *testing.T) {
	if !(Vec2{1, 1}).Near(Vec2{1 + 1e-12, 1}, 1e-9) {
		t.Error("expected points within tolerance to be near")
	}
	if (Vec2{1, 1}).Near(Vec2{1.1, 1}, 1e-9) {
		t.Error("expected distant points not to be near")
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	if l := n.Length(); math.Abs(l-1) > 1e-12 {
		t.Errorf("Vec3.Normalize().Length() = %v, want 1", l)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero vector should stay zero, got %v", z)
	}
}

func TestTriangleNormal(t *testing.T) {
	n := TriangleNormal(Vec3{0, 0, 0}, Vec3{1, 0, 0}, Vec3{0, 1, 0})
	if n != (Vec3{0, 0, 1}) {
		t.Errorf("TriangleNormal() = %v, want +Z", n)
	}

	// Collinear points have no area.
	d := TriangleNormal(Vec3{0, 0, 0}, Vec3{1, 1, 1}, Vec3{2, 2, 2})
	if d != (Vec3{}) {
		t.Errorf("degenerate TriangleNormal() = %v, want zero", d)
	}
}
