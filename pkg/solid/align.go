package solid

import (
	"fmt"
	"strings"
)

// Align selects which face, edge, corner, or center of a solid's
// bounding box coincides with the local origin after placement. Each
// component is -1, 0, or +1: 0 keeps the solid centered on that axis,
// +1 brings the positive face to the origin (the solid extends into
// negative coordinates), -1 the reverse.
type Align [3]int

// Common alignment codes.
var (
	AlignCenter       = Align{0, 0, 0}
	AlignBottom       = Align{0, 0, -1} // bottom face on the origin, body above
	AlignTop          = Align{0, 0, 1}
	AlignMinCorner    = Align{-1, -1, -1} // all-negative corner on origin, body in +octant
	AlignMaxCorner    = Align{1, 1, 1}
	AlignLeft         = Align{-1, 0, 0}
	AlignRight        = Align{1, 0, 0}
	AlignFront        = Align{0, -1, 0}
	AlignBack         = Align{0, 1, 0}
)

// Validate reports a configuration error if any component is outside
// {-1, 0, 1}. Out-of-domain codes are never clamped.
func (a Align) Validate() error {
	for i, c := range a {
		if c < -1 || c > 1 {
			return fmt.Errorf("alignment component %d is %d, must be -1, 0, or 1", i, c)
		}
	}
	return nil
}

// IsCenter reports whether the code is (0,0,0).
func (a Align) IsCenter() bool {
	return a == AlignCenter
}

// faceWords maps one axis of an alignment code to its face name.
// Index 0 is the negative direction, index 1 the positive.
var faceWords = [3][2]string{
	{"left", "right"}, // x
	{"front", "back"}, // y
	{"bottom", "top"}, // z
}

// Name returns the connector-style name of an alignment code:
// "center" for (0,0,0), otherwise the non-zero face words joined by
// hyphens in z, y, x order ("top", "bottom-left", "top-back-right").
func (a Align) Name() string {
	if a.IsCenter() {
		return "center"
	}
	var words []string
	for _, axis := range [3]int{2, 1, 0} {
		switch a[axis] {
		case -1:
			words = append(words, faceWords[axis][0])
		case 1:
			words = append(words, faceWords[axis][1])
		}
	}
	return strings.Join(words, "-")
}

// ParseAlign parses an alignment name as written in the DSL: "center"
// or a hyphen-joined combination of face words, e.g. "bottom",
// "top-left", "bottom-front-right". Each axis may be named at most
// once.
func ParseAlign(name string) (Align, error) {
	if name == "center" {
		return AlignCenter, nil
	}
	var a Align
	seen := [3]bool{}
	for _, w := range strings.Split(name, "-") {
		axis, dir, ok := faceWord(w)
		if !ok {
			return Align{}, fmt.Errorf("invalid alignment %q: unknown face %q", name, w)
		}
		if seen[axis] {
			return Align{}, fmt.Errorf("invalid alignment %q: axis named twice", name)
		}
		seen[axis] = true
		a[axis] = dir
	}
	return a, nil
}

func faceWord(w string) (axis, dir int, ok bool) {
	for axis := range faceWords {
		if w == faceWords[axis][0] {
			return axis, -1, true
		}
		if w == faceWords[axis][1] {
			return axis, 1, true
		}
	}
	return 0, 0, false
}

// ResolveAlign computes the effective alignment for one primitive
// call. The legacy center override wins when present: true forces
// center, false forces the primitive's non-centered fallback. With no
// override, an explicit alignment is used as given, and the fallback
// applies when nothing was supplied. The resolved code is validated so
// the rest of the composer never sees an out-of-domain value.
func ResolveAlign(center *bool, align *Align, fallback Align) (Align, error) {
	var a Align
	switch {
	case center != nil:
		if *center {
			a = AlignCenter
		} else {
			a = fallback
		}
	case align != nil:
		a = *align
	default:
		a = fallback
	}
	if err := a.Validate(); err != nil {
		return Align{}, err
	}
	return a, nil
}
