package solid

import "fmt"

// RadiusSpec collects the radius/diameter arguments a primitive call
// may supply. All fields are optional; nil means "not given". Tapered
// primitives (cones) distinguish the bottom end (R1/D1) from the top
// end (R2/D2); the generic R/D apply to both ends.
type RadiusSpec struct {
	R  *float64 // radius, both ends
	D  *float64 // diameter, both ends
	R1 *float64 // bottom radius
	D1 *float64 // bottom diameter
	R2 *float64 // top radius
	D2 *float64 // top diameter

	// Default is the radius used when no radius or diameter argument
	// applies to an end.
	Default float64
}

// ResolveBottom resolves the radius of the bottom end.
//
// Precedence, most specific first: R1, R, D1/2, D/2, Default. A radius
// argument wins over a simultaneously supplied diameter for the same
// end; the conflicting diameter is silently ignored. That rule is
// legacy behavior kept for script compatibility and is pinned by the
// resolver tests.
func (s RadiusSpec) ResolveBottom() (float64, error) {
	return s.resolve(s.R1, s.D1, "bottom")
}

// ResolveTop resolves the radius of the top end. Same precedence as
// ResolveBottom, using R2/D2 as the end-specific arguments.
func (s RadiusSpec) ResolveTop() (float64, error) {
	return s.resolve(s.R2, s.D2, "top")
}

func (s RadiusSpec) resolve(endR, endD *float64, end string) (float64, error) {
	var r float64
	switch {
	case endR != nil:
		r = *endR
	case s.R != nil:
		r = *s.R
	case endD != nil:
		r = *endD / 2
	case s.D != nil:
		r = *s.D / 2
	default:
		r = s.Default
	}
	if r < 0 {
		return 0, fmt.Errorf("%s radius resolves to %v, must be non-negative", end, r)
	}
	return r, nil
}

// Ref is a convenience for building optional scalar arguments.
func Ref(v float64) *float64 { return &v }
