package prim

import (
	"fmt"

	"github.com/chazu/tenon/pkg/kernel"
	"github.com/chazu/tenon/pkg/solid"
)

const defaultSphereRadius = 1.0

// seamNotch is the thin margin cut from the revolved half-disc along
// the revolution axis. A profile touching the axis at zero width
// produces a degenerate seam in tessellation-based kernels; SDF
// kernels revolve the notched profile identically.
const seamNotch = 1e-4

// SphereSpec is the raw argument set of the sphere DSL form. Only the
// single-end radius arguments (r/d) are meaningful.
type SphereSpec struct {
	Radius solid.RadiusSpec
	Smooth solid.Smoothness
	Anchor
}

// ResolvedSphere is a sphere spec after resolution.
type ResolvedSphere struct {
	Radius   float64
	Segments int
}

// Resolve applies the radius and segment resolvers.
func (s SphereSpec) Resolve() (ResolvedSphere, error) {
	radius := s.Radius
	if radius.Default == 0 {
		radius.Default = defaultSphereRadius
	}
	r, err := radius.ResolveBottom()
	if err != nil {
		return ResolvedSphere{}, err
	}

	smooth := s.Smooth
	if smooth == (solid.Smoothness{}) {
		smooth = solid.DefaultSmoothness()
	}
	segments, err := smooth.Segments(r)
	if err != nil {
		return ResolvedSphere{}, err
	}

	return ResolvedSphere{Radius: r, Segments: segments}, nil
}

// Sphere resolves a sphere spec and builds the solid. Spheres are
// centered by default.
func Sphere(k kernel.Kernel, spec SphereSpec) (*Result, error) {
	rs, err := spec.Resolve()
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return BuildSphere(k, rs, spec.Anchor)
}

// BuildSphere builds a sphere from resolved parameters. The body is a
// half-disc profile revolved a full turn: a circle with the x < 0
// half-plane cut away.
func BuildSphere(k kernel.Kernel, rs ResolvedSphere, anchor Anchor) (*Result, error) {
	if rs.Radius < 0 {
		return nil, fmt.Errorf("sphere: radius %v must be non-negative", rs.Radius)
	}

	size := solid.Vec3{X: 2 * rs.Radius, Y: 2 * rs.Radius, Z: 2 * rs.Radius}
	placement, err := solid.Compose(solid.Uniform(size), anchor.options(solid.AlignCenter), solid.KindSphere)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}

	body := k.Revolve(halfDisc(k, rs.Radius, rs.Segments))
	return &Result{Body: place(k, body, placement), Placement: placement}, nil
}

// halfDisc builds the revolution profile: a disc of the given radius
// minus a mask covering everything left of the seam notch.
func halfDisc(k kernel.Kernel, radius float64, segments int) kernel.Profile {
	disc := k.Circle(radius, segments)
	maskSize := 2*radius + 2
	mask := k.TranslateProfile(k.Rect(maskSize, maskSize), seamNotch-maskSize/2, 0)
	return k.DifferenceProfile(disc, mask)
}
