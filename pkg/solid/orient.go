package solid

import (
	"fmt"
	"math"
)

// Orient specifies the world direction the solid's local +z axis
// points after placement. The direction must be a finite, non-zero
// vector; it is normalized during resolution. An absent orientation
// (nil in Options) means +z, identity rotation.
type Orient struct {
	Dir Vec3
}

// The six axis orientations.
var (
	OrientUp      = Orient{Vec3{0, 0, 1}}
	OrientDown    = Orient{Vec3{0, 0, -1}}
	OrientRight   = Orient{Vec3{1, 0, 0}}
	OrientLeft    = Orient{Vec3{-1, 0, 0}}
	OrientBack    = Orient{Vec3{0, 1, 0}}
	OrientForward = Orient{Vec3{0, -1, 0}}
)

// ParseOrient parses an orientation name as written in the DSL.
func ParseOrient(name string) (Orient, error) {
	switch name {
	case "up", "z":
		return OrientUp, nil
	case "down":
		return OrientDown, nil
	case "right", "x":
		return OrientRight, nil
	case "left":
		return OrientLeft, nil
	case "back", "y":
		return OrientBack, nil
	case "front", "forward":
		return OrientForward, nil
	}
	return Orient{}, fmt.Errorf("invalid orientation %q", name)
}

// Rotation resolves the orientation to an axis-angle rotation taking
// local +z to the requested direction.
//
// Roll convention, fixed for every call: the rotation is the minimal
// one, about the axis z × dir, which keeps the projection of local +x
// as close to world +x as any rotation achieving the mapping can. The
// one ambiguous case, dir antiparallel to +z, rotates by pi about +x.
//
// A zero-length or non-finite direction is a configuration error.
func (o Orient) Rotation() (axis Vec3, angle float64, err error) {
	if !o.Dir.IsFinite() {
		return Vec3{}, 0, fmt.Errorf("orientation direction must be finite, got (%v, %v, %v)",
			o.Dir.X, o.Dir.Y, o.Dir.Z)
	}
	if o.Dir.IsZero() {
		return Vec3{}, 0, fmt.Errorf("orientation direction must be non-zero")
	}
	dir := o.Dir.Normalize()
	up := Vec3{0, 0, 1}

	c := up.Dot(dir)
	switch {
	case c >= 1-1e-12:
		// Already +z.
		return up, 0, nil
	case c <= -1+1e-12:
		// Antiparallel: axis is ambiguous, pick +x by convention.
		return Vec3{1, 0, 0}, math.Pi, nil
	}
	axis = up.Cross(dir).Normalize()
	angle = math.Acos(c)
	return axis, angle, nil
}
