package solid

import (
	"fmt"
	"math"
)

// Default smoothness settings, matching the conventional defaults of
// scripted CAD tools: at most 12 degrees or 2 units of arc per segment,
// and never fewer than 5 segments for an auto-resolved circle.
const (
	DefaultMinAngle  = 12.0 // degrees per segment (FA)
	DefaultMinLength = 2.0  // units per segment (FS)

	autoFloor     = 5 // minimum segments when FN is unset
	explicitFloor = 3 // minimum segments when FN is set
)

// Smoothness carries the circle-approximation settings for one
// evaluation scope. It is always passed explicitly; there is no global
// smoothness state. The zero value is not valid; use DefaultSmoothness.
type Smoothness struct {
	// FN, when positive, fixes the segment count directly and the
	// other two settings are ignored.
	FN int `json:"fn" toml:"fn"`
	// FA is the minimum angle per segment in degrees.
	FA float64 `json:"fa" toml:"fa"`
	// FS is the minimum arc length per segment.
	FS float64 `json:"fs" toml:"fs"`
}

// DefaultSmoothness returns the standard settings (no explicit count,
// FA=12, FS=2).
func DefaultSmoothness() Smoothness {
	return Smoothness{FA: DefaultMinAngle, FS: DefaultMinLength}
}

// Segments returns the number of polygon segments used to approximate
// a circle of the given radius. The result is deterministic in its
// inputs.
//
// With FN set, the count is max(FN, 3). Otherwise the angle constraint
// (360/FA) and the length constraint (circumference/FS) each imply a
// count; the larger of the two wins, floored at 5 and rounded up.
func (s Smoothness) Segments(radius float64) (int, error) {
	if radius < 0 {
		return 0, fmt.Errorf("segment resolution: radius %v must be non-negative", radius)
	}
	if s.FN > 0 {
		if s.FN < explicitFloor {
			return explicitFloor, nil
		}
		return s.FN, nil
	}
	if s.FA <= 0 {
		return 0, fmt.Errorf("segment resolution: minimum angle %v must be positive", s.FA)
	}
	if s.FS <= 0 {
		return 0, fmt.Errorf("segment resolution: minimum segment length %v must be positive", s.FS)
	}
	byAngle := 360.0 / s.FA
	byLength := radius * 2 * math.Pi / s.FS
	n := math.Ceil(math.Max(math.Max(byAngle, byLength), autoFloor))
	return int(n), nil
}
