package solid

import "math"

// Affine is the rigid transform produced by the composer: a
// translation in the solid's local frame followed by a rotation given
// in axis-angle form. The same representation is handed to the kernel
// (Transform applies translation first, then rotation), and used here
// to map connector frames, so body geometry and metadata can never
// disagree.
type Affine struct {
	Axis        Vec3    `json:"axis"`  // unit rotation axis
	Angle       float64 `json:"angle"` // radians
	Translation Vec3    `json:"translation"`
}

// Identity returns the transform that leaves geometry unchanged.
func Identity() Affine {
	return Affine{Axis: Vec3{0, 0, 1}}
}

// IsIdentityRotation reports whether the rotation part is a no-op.
func (t Affine) IsIdentityRotation() bool {
	return t.Angle == 0
}

// Apply maps a point through the transform: translate, then rotate.
func (t Affine) Apply(p Vec3) Vec3 {
	return t.ApplyDirection(p.Add(t.Translation))
}

// ApplyDirection maps a direction through the rotation part only,
// using the Rodrigues formula:
//
//	v' = v cos a + (k × v) sin a + k (k · v)(1 - cos a)
func (t Affine) ApplyDirection(v Vec3) Vec3 {
	if t.Angle == 0 {
		return v
	}
	k := t.Axis
	sin, cos := math.Sincos(t.Angle)
	return v.Scale(cos).
		Add(k.Cross(v).Scale(sin)).
		Add(k.Scale(k.Dot(v) * (1 - cos)))
}
