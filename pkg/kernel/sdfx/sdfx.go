// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/tenon/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// defaultMeshCells controls marching cubes tessellation resolution.
const defaultMeshCells = 200

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// sdfxProfile wraps an sdf.SDF2 to implement kernel.Profile.
type sdfxProfile struct {
	s sdf.SDF2
}

// emptySDF3 is the degenerate solid: its distance field is everywhere
// outside. Degenerate primitives (zero radius, zero height) produce it
// instead of failing, and boolean operations tolerate it as an
// operand.
type emptySDF3 struct{}

func (emptySDF3) Evaluate(p v3.Vec) float64 { return math.Inf(1) }
func (emptySDF3) BoundingBox() sdf.Box3     { return sdf.Box3{} }

// emptySDF2 is the degenerate profile counterpart.
type emptySDF2 struct{}

func (emptySDF2) Evaluate(p v2.Vec) float64 { return math.Inf(1) }
func (emptySDF2) BoundingBox() sdf.Box2     { return sdf.Box2{} }

func isEmpty3(s sdf.SDF3) bool {
	_, ok := s.(emptySDF3)
	return ok
}

func isEmpty2(s sdf.SDF2) bool {
	_, ok := s.(emptySDF2)
	return ok
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	// MeshCells is the marching cubes resolution used by ToMesh.
	MeshCells int
}

// New returns a new SdfxKernel with the default mesh resolution.
func New() *SdfxKernel {
	return &SdfxKernel{MeshCells: defaultMeshCells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func unwrap2(p kernel.Profile) sdf.SDF2 {
	return p.(*sdfxProfile).s
}

func wrap2(s sdf.SDF2) kernel.Profile {
	return &sdfxProfile{s: s}
}

// Rect creates a rectangle profile of x by y, centered on the origin.
func (k *SdfxKernel) Rect(x, y float64) kernel.Profile {
	if x <= 0 || y <= 0 {
		return wrap2(emptySDF2{})
	}
	return wrap2(sdf.Box2D(v2.Vec{X: x, Y: y}, 0))
}

// Circle creates a circle profile centered on the origin. The segments
// parameter is ignored since SDF surfaces are exact; it matters only
// for tessellation-based backends.
func (k *SdfxKernel) Circle(radius float64, segments int) kernel.Profile {
	if radius <= 0 {
		return wrap2(emptySDF2{})
	}
	s, err := sdf.Circle2D(radius)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Circle2D: %v", err))
	}
	return wrap2(s)
}

// DifferenceProfile returns the profile a - b.
func (k *SdfxKernel) DifferenceProfile(a, b kernel.Profile) kernel.Profile {
	sa, sb := unwrap2(a), unwrap2(b)
	if isEmpty2(sa) {
		return a
	}
	if isEmpty2(sb) {
		return a
	}
	return wrap2(sdf.Difference2D(sa, sb))
}

// TranslateProfile moves a profile by (x, y) in its plane.
func (k *SdfxKernel) TranslateProfile(p kernel.Profile, x, y float64) kernel.Profile {
	s := unwrap2(p)
	if isEmpty2(s) {
		return p
	}
	return wrap2(sdf.Transform2D(s, sdf.Translate2d(v2.Vec{X: x, Y: y})))
}

// Extrude extrudes a profile along z, centered: the solid spans
// -height/2 to +height/2.
func (k *SdfxKernel) Extrude(p kernel.Profile, height float64) kernel.Solid {
	s := unwrap2(p)
	if isEmpty2(s) || height <= 0 {
		return wrap(emptySDF3{})
	}
	return wrap(sdf.Extrude3D(s, height))
}

// Loft extrudes from the bottom profile to the top profile over the
// given height, centered along z. Tapered solids (cones) go through
// here.
func (k *SdfxKernel) Loft(bottom, top kernel.Profile, height float64) kernel.Solid {
	sb, st := unwrap2(bottom), unwrap2(top)
	if height <= 0 || (isEmpty2(sb) && isEmpty2(st)) {
		return wrap(emptySDF3{})
	}
	// A degenerate end lofts from/to a point; represent it as a tiny
	// circle so the loft stays well defined.
	if isEmpty2(sb) {
		sb = pointProfile()
	}
	if isEmpty2(st) {
		st = pointProfile()
	}
	s, err := sdf.Loft3D(sb, st, height, 0)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Loft3D: %v", err))
	}
	return wrap(s)
}

// pointProfile approximates a point cross-section for lofting to a
// cone apex.
func pointProfile() sdf.SDF2 {
	s, err := sdf.Circle2D(1e-9)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Circle2D: %v", err))
	}
	return s
}

// Revolve spins a profile a full turn about the z axis.
func (k *SdfxKernel) Revolve(p kernel.Profile) kernel.Solid {
	s := unwrap2(p)
	if isEmpty2(s) {
		return wrap(emptySDF3{})
	}
	r, err := sdf.Revolve3D(s)
	if err != nil {
		panic(fmt.Sprintf("sdfx.Revolve3D: %v", err))
	}
	return wrap(r)
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	if isEmpty3(sa) {
		return b
	}
	if isEmpty3(sb) {
		return a
	}
	return wrap(sdf.Union3D(sa, sb))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	if isEmpty3(sa) || isEmpty3(sb) {
		return a
	}
	return wrap(sdf.Difference3D(sa, sb))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	if isEmpty3(sa) {
		return a
	}
	if isEmpty3(sb) {
		return b
	}
	return wrap(sdf.Intersect3D(sa, sb))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	inner := unwrap(s)
	if isEmpty3(inner) {
		return s
	}
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(inner, m))
}

// Transform applies the composed placement transform: translation in
// the solid's own frame first, then rotation by angle radians about
// the given axis. The matrix R*T applies to points as R(T(p)), which
// is exactly that order.
func (k *SdfxKernel) Transform(s kernel.Solid, axis [3]float64, angle float64, translation [3]float64) kernel.Solid {
	inner := unwrap(s)
	if isEmpty3(inner) {
		return s
	}
	t := sdf.Translate3d(v3.Vec{X: translation[0], Y: translation[1], Z: translation[2]})
	m := t
	if angle != 0 {
		r := sdf.Rotate3d(v3.Vec{X: axis[0], Y: axis[1], Z: axis[2]}, angle)
		m = r.Mul(t)
	}
	return wrap(sdf.Transform3D(inner, m))
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)
	if isEmpty3(sdf3) {
		return &kernel.Mesh{}, nil
	}

	cells := k.MeshCells
	if cells <= 0 {
		cells = defaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		// Compute face normal.
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}
