package prim

import (
	"fmt"
	"math"

	"github.com/chazu/tenon/pkg/kernel"
	"github.com/chazu/tenon/pkg/solid"
)

// Defaults used when the cylinder form omits an argument.
const (
	defaultCylinderHeight = 1.0
	defaultCylinderRadius = 1.0
)

// CylinderSpec is the raw argument set of the cylinder DSL form.
// Height and Length are aliases; Height wins when both are given.
// The radius spec covers r/d/r1/d1/r2/d2; differing ends make a cone.
type CylinderSpec struct {
	Height *float64
	Length *float64
	Radius solid.RadiusSpec
	Smooth solid.Smoothness
	Anchor
}

// ResolvedCylinder is a cylinder spec after resolution: per-end radii,
// height, and tessellation segment count are all concrete.
type ResolvedCylinder struct {
	Height   float64
	Bottom   float64
	Top      float64
	Segments int
}

// Resolve applies the radius and segment resolvers. The segment count
// is computed from the larger radius so the wider end meets the
// smoothness constraints.
func (s CylinderSpec) Resolve() (ResolvedCylinder, error) {
	height := defaultCylinderHeight
	switch {
	case s.Height != nil:
		height = *s.Height
	case s.Length != nil:
		height = *s.Length
	}
	if height < 0 || math.IsNaN(height) || math.IsInf(height, 0) {
		return ResolvedCylinder{}, fmt.Errorf("height is %v, must be a non-negative finite number", height)
	}

	radius := s.Radius
	if radius.Default == 0 {
		radius.Default = defaultCylinderRadius
	}
	bottom, err := radius.ResolveBottom()
	if err != nil {
		return ResolvedCylinder{}, err
	}
	top, err := radius.ResolveTop()
	if err != nil {
		return ResolvedCylinder{}, err
	}

	smooth := s.Smooth
	if smooth == (solid.Smoothness{}) {
		smooth = solid.DefaultSmoothness()
	}
	segments, err := smooth.Segments(math.Max(bottom, top))
	if err != nil {
		return ResolvedCylinder{}, err
	}

	return ResolvedCylinder{
		Height:   height,
		Bottom:   bottom,
		Top:      top,
		Segments: segments,
	}, nil
}

// Cylinder resolves a cylinder spec and builds the solid. The default
// alignment is bottom center: the body rises from the origin along +z.
func Cylinder(k kernel.Kernel, spec CylinderSpec) (*Result, error) {
	rc, err := spec.Resolve()
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return BuildCylinder(k, rc, spec.Anchor)
}

// BuildCylinder builds a cylinder or cone from resolved parameters.
func BuildCylinder(k kernel.Kernel, rc ResolvedCylinder, anchor Anchor) (*Result, error) {
	if rc.Height < 0 || rc.Bottom < 0 || rc.Top < 0 {
		return nil, fmt.Errorf("cylinder: dimensions (%v, %v, %v) must be non-negative", rc.Height, rc.Bottom, rc.Top)
	}

	bounds := solid.Tapered(
		solid.Vec3{X: 2 * rc.Bottom, Y: 2 * rc.Bottom, Z: rc.Height},
		solid.Vec3{X: 2 * rc.Top, Y: 2 * rc.Top, Z: rc.Height},
	)
	placement, err := solid.Compose(bounds, anchor.options(solid.AlignBottom), solid.KindCylinder)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}

	var body kernel.Solid
	if rc.Bottom == rc.Top {
		body = k.Extrude(k.Circle(rc.Bottom, rc.Segments), rc.Height)
	} else {
		body = k.Loft(k.Circle(rc.Bottom, rc.Segments), k.Circle(rc.Top, rc.Segments), rc.Height)
	}
	return &Result{Body: place(k, body, placement), Placement: placement}, nil
}
