package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	// Off-diagonal should be 0
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	if m[12] != 5 || m[13] != 10 || m[14] != 15 {
		t.Errorf("Translate: got (%f, %f, %f), want (5, 10, 15)", m[12], m[13], m[14])
	}
}

func TestScale(t *testing.T) {
	m := Scale(2, 3, 4)

	if m[0] != 2 || m[5] != 3 || m[10] != 4 {
		t.Errorf("Scale diagonal: got (%f, %f, %f), want (2, 3, 4)", m[0], m[5], m[10])
	}
}

func TestTransformPoint(t *testing.T) {
	// Translate by (10, 20, 30)
	m := Translate(10, 20, 30)
	p := [3]float32{1, 2, 3}
	result := m.TransformPoint(p)

	expected := [3]float32{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestComposeTRS(t *testing.T) {
	m := ComposeTRS(Vec3{1, 2, 3}, QuatIdentity(), Vec3{2, 2, 2})

	// Point (1,0,0) scaled by 2 then translated by (1,2,3) = (3,2,3)
	got := m.TransformVec3(Vec3{1, 0, 0})
	want := Vec3{3, 2, 3}
	if got.Distance(want) > 0.0001 {
		t.Errorf("ComposeTRS transform: got %v, want %v", got, want)
	}
}

func TestComposeTRSRotation(t *testing.T) {
	// 90 degrees around Y maps +X to -Z
	r := QuatFromAxisAngle(Vec3{0, 1, 0}, float32(math.Pi/2))
	m := ComposeTRS(Vec3{}, r, Vec3One())

	got := m.TransformVec3(Vec3{1, 0, 0})
	want := Vec3{0, 0, -1}
	if got.Distance(want) > 0.0001 {
		t.Errorf("ComposeTRS rotation: got %v, want %v", got, want)
	}
}

func TestInverse(t *testing.T) {
	m := ComposeTRS(Vec3{4, -2, 7}, QuatFromAxisAngle(Vec3{0, 1, 0}, 0.5), Vec3One())
	inv := m.Inverse()
	result := m.Mul(inv)

	identity := Identity()
	for i := 0; i < 16; i++ {
		if math.Abs(float64(result[i]-identity[i])) > 0.0001 {
			t.Errorf("M * M^-1 element %d: got %f, want %f", i, result[i], identity[i])
		}
	}
}

func TestTranslation(t *testing.T) {
	m := Translate(7, 8, 9)
	got := m.Translation()
	want := Vec3{7, 8, 9}
	if got != want {
		t.Errorf("Translation: got %v, want %v", got, want)
	}
}
