package solid

import "fmt"

// ExpandSize normalizes a user-supplied size into a full 3-axis size.
//
// The DSL allows sizes to be given as a single scalar or as a partial
// vector; the engine layer converts either form into a component slice
// before calling here:
//
//	[s]       -> (s, s, s)
//	[x, y]    -> (x, y, fallback)
//	[x, y, z] -> (x, y, z)
//
// A negative component, an empty slice, or more than three components
// is a configuration error. Zero components are permitted and produce
// degenerate (flat) solids downstream.
func ExpandSize(components []float64, fallback float64) (Vec3, error) {
	var size Vec3
	switch len(components) {
	case 1:
		s := components[0]
		size = Vec3{s, s, s}
	case 2:
		size = Vec3{components[0], components[1], fallback}
	case 3:
		size = Vec3{components[0], components[1], components[2]}
	default:
		return Vec3{}, fmt.Errorf("size must have 1 to 3 components, got %d", len(components))
	}
	if err := CheckSize(size); err != nil {
		return Vec3{}, err
	}
	return size, nil
}

// CheckSize validates a size triple: every component must be finite
// and non-negative.
func CheckSize(size Vec3) error {
	if !size.IsFinite() {
		return fmt.Errorf("size components must be finite, got (%v, %v, %v)", size.X, size.Y, size.Z)
	}
	if size.X < 0 || size.Y < 0 || size.Z < 0 {
		return fmt.Errorf("size components must be non-negative, got (%v, %v, %v)", size.X, size.Y, size.Z)
	}
	return nil
}
