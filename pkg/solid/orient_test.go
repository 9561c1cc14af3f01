package solid

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps
}

func vecNear(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestOrientUpIsIdentity(t *testing.T) {
	_, angle, err := OrientUp.Rotation()
	if err != nil {
		t.Fatalf("Rotation() error: %v", err)
	}
	if angle != 0 {
		t.Errorf("angle = %v, want 0", angle)
	}
}

// TestOrientRoll pins the canonical roll convention: the rotation
// taking +z to the target is the minimal one, about z cross dir, and
// the antiparallel case rotates pi about +x.
func TestOrientRoll(t *testing.T) {
	tests := []struct {
		name     string
		orient   Orient
		wantAxis Vec3
		wantAng  float64
	}{
		{"to +x", OrientRight, Vec3{0, 1, 0}, math.Pi / 2},
		{"to -x", OrientLeft, Vec3{0, -1, 0}, math.Pi / 2},
		{"to +y", OrientBack, Vec3{-1, 0, 0}, math.Pi / 2},
		{"to -y", OrientForward, Vec3{1, 0, 0}, math.Pi / 2},
		{"antiparallel", OrientDown, Vec3{1, 0, 0}, math.Pi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, angle, err := tt.orient.Rotation()
			if err != nil {
				t.Fatalf("Rotation() error: %v", err)
			}
			if !vecNear(axis, tt.wantAxis) {
				t.Errorf("axis = %v, want %v", axis, tt.wantAxis)
			}
			if !near(angle, tt.wantAng) {
				t.Errorf("angle = %v, want %v", angle, tt.wantAng)
			}
		})
	}
}

func TestOrientMapsUpToDirection(t *testing.T) {
	dirs := []Vec3{
		{1, 0, 0}, {0, 1, 0}, {0, 0, -1},
		{1, 1, 1}, {-2, 3, 0.5}, {0.1, 0, -4},
	}
	for _, d := range dirs {
		axis, angle, err := (Orient{Dir: d}).Rotation()
		if err != nil {
			t.Fatalf("Rotation(%v) error: %v", d, err)
		}
		tr := Affine{Axis: axis, Angle: angle}
		got := tr.ApplyDirection(Vec3{0, 0, 1})
		want := d.Normalize()
		if !vecNear(got, want) {
			t.Errorf("rotation for %v maps +z to %v, want %v", d, got, want)
		}
	}
}

func TestOrientRejectsBadDirections(t *testing.T) {
	if _, _, err := (Orient{Dir: Vec3{math.NaN(), 0, 0}}).Rotation(); err == nil {
		t.Error("NaN direction should be rejected")
	}
	if _, _, err := (Orient{Dir: Vec3{math.Inf(1), 0, 0}}).Rotation(); err == nil {
		t.Error("infinite direction should be rejected")
	}
	if _, _, err := (Orient{}).Rotation(); err == nil {
		t.Error("zero-length direction should be rejected")
	}
}

func TestParseOrient(t *testing.T) {
	got, err := ParseOrient("down")
	if err != nil {
		t.Fatalf("ParseOrient error: %v", err)
	}
	if got != OrientDown {
		t.Errorf("ParseOrient(down) = %v", got)
	}
	if _, err := ParseOrient("sideways"); err == nil {
		t.Error("invalid orientation name should be rejected")
	}
}
