package solid

import (
	"fmt"
	"math"
)

// Kind tags the geometry family of a placed solid. It selects which
// connector set the composer publishes; it has no effect on the
// transform itself.
type Kind int

const (
	KindGeneric Kind = iota
	KindCube
	KindCylinder
	KindSphere
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindCube:
		return "cube"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Bounds is the bounding size of a solid's untransformed body. It is
// either uniform (one cross-section) or tapered (different bottom and
// top cross-sections, as in a cone); the alignment arithmetic always
// works on the convex envelope of both.
type Bounds struct {
	bottom  Vec3
	top     Vec3
	tapered bool
}

// Uniform builds the bounds of an untapered solid.
func Uniform(size Vec3) Bounds {
	return Bounds{bottom: size, top: size}
}

// Tapered builds the bounds of a solid whose top cross-section differs
// from its bottom one. Both sizes share the same z extent.
func Tapered(bottom, top Vec3) Bounds {
	return Bounds{bottom: bottom, top: top, tapered: true}
}

// Envelope returns the componentwise maximum of the two
// cross-sections: the axis-aligned box that contains the whole body.
func (b Bounds) Envelope() Vec3 {
	return b.bottom.MaxElem(b.top)
}

func (b Bounds) validate() error {
	if err := CheckSize(b.bottom); err != nil {
		return fmt.Errorf("bottom bounds: %w", err)
	}
	if !b.tapered {
		return nil
	}
	if err := CheckSize(b.top); err != nil {
		return fmt.Errorf("top bounds: %w", err)
	}
	if b.bottom.Z != b.top.Z {
		return fmt.Errorf("tapered bounds must share one z extent, got %v and %v", b.bottom.Z, b.top.Z)
	}
	return nil
}

// Options carries the placement arguments common to every primitive
// call. Align and Center are optional; Center, when present, overrides
// Align entirely (true forces center, false forces Fallback). Fallback
// is the primitive's own non-centered default alignment.
type Options struct {
	Align    *Align
	Center   *bool
	Orient   *Orient // nil means +z, no rotation
	Fallback Align
}

// Placement is the composer's output: the single affine transform
// applied to the body and all attached children, and the named
// connector frames computed in the resulting coordinate frame.
type Placement struct {
	Transform  Affine
	Kind       Kind
	Connectors map[string]Connector

	bounds Bounds
}

// Compose is the shared placement routine every primitive delegates
// to. Given the body's bounds, the placement options, and the geometry
// kind, it resolves the effective alignment, computes the aligning
// translation and orienting rotation, and publishes the kind's
// connector frames mapped through the composed transform.
//
// The transform is rotation after translation: the body is first
// shifted in its own frame so the requested face, edge, or corner of
// the bounding envelope lands on the origin, then rotated so local +z
// points along the requested orientation. Out-of-domain alignment or
// orientation values are configuration errors reported here, before
// any geometry is touched.
func Compose(b Bounds, o Options, kind Kind) (Placement, error) {
	if err := b.validate(); err != nil {
		return Placement{}, err
	}
	align, err := ResolveAlign(o.Center, o.Align, o.Fallback)
	if err != nil {
		return Placement{}, err
	}
	axis, angle := Vec3{0, 0, 1}, 0.0
	if o.Orient != nil {
		axis, angle, err = o.Orient.Rotation()
		if err != nil {
			return Placement{}, err
		}
	}

	// The body is constructed symmetric about its local origin, so a
	// zero alignment component needs no shift on that axis. A nonzero
	// component shifts by half the envelope extent, against the
	// component's sign, so the requested face lands exactly on the
	// origin.
	env := b.Envelope()
	translation := Vec3{
		X: -float64(align[0]) * env.X / 2,
		Y: -float64(align[1]) * env.Y / 2,
		Z: -float64(align[2]) * env.Z / 2,
	}

	p := Placement{
		Transform: Affine{Axis: axis, Angle: angle, Translation: translation},
		Kind:      kind,
		bounds:    b,
	}
	p.Connectors = p.connectorSet()
	return p, nil
}

// connectorSet computes the named connectors for the placement's kind.
// Every connector is an untransformed bounding-box point and outward
// normal mapped through the composed transform.
func (p Placement) connectorSet() map[string]Connector {
	env := p.bounds.Envelope()
	set := make(map[string]Connector)

	switch p.Kind {
	case KindCube:
		// One connector per non-zero alignment code: 6 faces, 12
		// edges, 8 corners, named by their face words.
		for i := -1; i <= 1; i++ {
			for j := -1; j <= 1; j++ {
				for k := -1; k <= 1; k++ {
					a := Align{i, j, k}
					if a.IsCenter() {
						continue
					}
					pos := Vec3{
						X: float64(i) * env.X / 2,
						Y: float64(j) * env.Y / 2,
						Z: float64(k) * env.Z / 2,
					}
					dir := Vec3{float64(i), float64(j), float64(k)}.Normalize()
					set[a.Name()] = p.frame(pos, dir)
				}
			}
		}

	case KindCylinder:
		h := env.Z / 2
		set["top"] = p.frame(Vec3{0, 0, h}, Vec3{0, 0, 1})
		set["bottom"] = p.frame(Vec3{0, 0, -h}, Vec3{0, 0, -1})
		// Four cardinal side frames; arbitrary angles via SideAt.
		for _, deg := range []float64{0, 90, 180, 270} {
			set[fmt.Sprintf("side%d", int(deg))] = p.sideAt(deg)
		}

	case KindSphere:
		r := env.X / 2
		for _, d := range []struct {
			name string
			dir  Vec3
		}{
			{"right", Vec3{1, 0, 0}},
			{"left", Vec3{-1, 0, 0}},
			{"back", Vec3{0, 1, 0}},
			{"front", Vec3{0, -1, 0}},
			{"top", Vec3{0, 0, 1}},
			{"bottom", Vec3{0, 0, -1}},
		} {
			set[d.name] = p.frame(d.dir.Scale(r), d.dir)
		}

	default:
		// Generic solids publish the six envelope face centers.
		for _, axisDir := range []Vec3{
			{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}, {0, 0, 1}, {0, 0, -1},
		} {
			pos := Vec3{
				X: axisDir.X * env.X / 2,
				Y: axisDir.Y * env.Y / 2,
				Z: axisDir.Z * env.Z / 2,
			}
			a := Align{int(axisDir.X), int(axisDir.Y), int(axisDir.Z)}
			set[a.Name()] = p.frame(pos, axisDir)
		}
	}
	return set
}

// frame maps a local attachment point and outward normal through the
// placement transform.
func (p Placement) frame(pos, dir Vec3) Connector {
	return Connector{
		Position:  p.Transform.Apply(pos),
		Direction: p.Transform.ApplyDirection(dir),
	}
}

// SideAt returns the lateral connector of a cylinder or cone at the
// given angle in degrees, measured counterclockwise from +x in the
// body's own frame before orientation. The frame sits at mid-height;
// for a cone its direction tilts with the slope of the lateral
// surface.
func (p Placement) SideAt(angleDeg float64) (Connector, error) {
	if p.Kind != KindCylinder {
		return Connector{}, fmt.Errorf("side connectors are only published by cylinders, not %s", p.Kind)
	}
	return p.sideAt(angleDeg), nil
}

func (p Placement) sideAt(angleDeg float64) Connector {
	r1 := p.bounds.bottom.X / 2
	r2 := p.bounds.top.X / 2
	h := p.bounds.bottom.Z
	rMid := (r1 + r2) / 2

	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	pos := Vec3{rMid * cos, rMid * sin, 0}

	// Outward normal of the lateral surface: horizontal for a
	// cylinder, tilted by the taper slope for a cone.
	dir := Vec3{cos, sin, 0}
	if h > 0 && r1 != r2 {
		dir = Vec3{cos, sin, (r1 - r2) / h}.Normalize()
	}
	return p.frame(pos, dir)
}

// SurfaceAt returns the connector of a sphere in the given radial
// direction (before orientation). The direction must be non-zero.
func (p Placement) SurfaceAt(dir Vec3) (Connector, error) {
	if p.Kind != KindSphere {
		return Connector{}, fmt.Errorf("surface connectors are only published by spheres, not %s", p.Kind)
	}
	if dir.IsZero() || !dir.IsFinite() {
		return Connector{}, fmt.Errorf("surface direction must be a finite non-zero vector")
	}
	r := p.bounds.Envelope().X / 2
	u := dir.Normalize()
	return p.frame(u.Scale(r), u), nil
}
