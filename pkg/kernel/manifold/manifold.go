//go:build manifold

// Package manifold provides a CGo-based geometry kernel binding to the
// Manifold library (https://github.com/elalish/manifold). Manifold provides
// guaranteed-manifold mesh boolean operations.
//
// This package requires the Manifold C library (manifoldc) to be installed.
// Build with: go build -tags=manifold
package manifold

/*
#cgo CFLAGS: -I/usr/local/include
#cgo LDFLAGS: -L/usr/local/lib -lmanifoldc

#include <stdlib.h>
#include <manifold/manifoldc.h>
*/
import "C"

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/chazu/tenon/pkg/kernel"
)

// Compile-time interface checks.
var _ kernel.Kernel = (*ManifoldKernel)(nil)
var _ kernel.Solid = (*manifoldSolid)(nil)
var _ kernel.Profile = (*manifoldProfile)(nil)

const defaultRevolveSegments = 32

// manifoldSolid wraps a C ManifoldManifold pointer and implements kernel.Solid.
type manifoldSolid struct {
	ptr   *C.ManifoldManifold
	empty bool
}

// BoundingBox returns the axis-aligned bounding box of the solid.
func (s *manifoldSolid) BoundingBox() (min, max [3]float64) {
	if s.empty {
		return min, max
	}
	alloc := C.manifold_alloc_box()
	bbox := C.manifold_bounding_box(alloc, s.ptr)
	defer C.manifold_delete_box(bbox)

	min[0] = float64(C.manifold_box_min_x(bbox))
	min[1] = float64(C.manifold_box_min_y(bbox))
	min[2] = float64(C.manifold_box_min_z(bbox))
	max[0] = float64(C.manifold_box_max_x(bbox))
	max[1] = float64(C.manifold_box_max_y(bbox))
	max[2] = float64(C.manifold_box_max_z(bbox))
	return min, max
}

// newSolid wraps a C ManifoldManifold pointer with a Go-side finalizer
// for automatic memory management.
func newSolid(ptr *C.ManifoldManifold) *manifoldSolid {
	s := &manifoldSolid{ptr: ptr}
	runtime.SetFinalizer(s, func(s *manifoldSolid) {
		if s.ptr != nil {
			C.manifold_delete_manifold(s.ptr)
			s.ptr = nil
		}
	})
	return s
}

func emptySolid() *manifoldSolid {
	return &manifoldSolid{empty: true}
}

// manifoldProfile wraps a C ManifoldCrossSection pointer and implements
// kernel.Profile. Circle profiles remember their segment count so
// Revolve can reuse it.
type manifoldProfile struct {
	ptr      *C.ManifoldCrossSection
	segments int
	empty    bool
}

func newProfile(ptr *C.ManifoldCrossSection) *manifoldProfile {
	p := &manifoldProfile{ptr: ptr}
	runtime.SetFinalizer(p, func(p *manifoldProfile) {
		if p.ptr != nil {
			C.manifold_delete_cross_section(p.ptr)
			p.ptr = nil
		}
	})
	return p
}

func emptyProfile() *manifoldProfile {
	return &manifoldProfile{empty: true}
}

// ManifoldKernel implements kernel.Kernel using the Manifold C library.
type ManifoldKernel struct{}

// New creates a new ManifoldKernel. Returns an error if the Manifold
// C library cannot be initialized.
func New() (kernel.Kernel, error) {
	return &ManifoldKernel{}, nil
}

// Rect creates a rectangle cross-section of x by y, centered on the origin.
func (k *ManifoldKernel) Rect(x, y float64) kernel.Profile {
	if x <= 0 || y <= 0 {
		return emptyProfile()
	}
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_square(alloc,
		C.double(x), C.double(y),
		C.int(1), // center=true
	)
	return newProfile(ptr)
}

// Circle creates a circle cross-section approximated by the given
// number of segments, centered on the origin.
func (k *ManifoldKernel) Circle(radius float64, segments int) kernel.Profile {
	if radius <= 0 {
		return emptyProfile()
	}
	if segments < 3 {
		segments = 3
	}
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_circle(alloc,
		C.double(radius),
		C.int(segments),
	)
	p := newProfile(ptr)
	p.segments = segments
	return p
}

// DifferenceProfile returns the cross-section a - b.
func (k *ManifoldKernel) DifferenceProfile(a, b kernel.Profile) kernel.Profile {
	pa := a.(*manifoldProfile)
	pb := b.(*manifoldProfile)
	if pa.empty || pb.empty {
		return a
	}
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_difference(alloc, pa.ptr, pb.ptr)
	out := newProfile(ptr)
	out.segments = pa.segments
	return out
}

// TranslateProfile moves a cross-section by (x, y) in its plane.
func (k *ManifoldKernel) TranslateProfile(p kernel.Profile, x, y float64) kernel.Profile {
	mp := p.(*manifoldProfile)
	if mp.empty {
		return p
	}
	alloc := C.manifold_alloc_cross_section()
	ptr := C.manifold_cross_section_translate(alloc, mp.ptr,
		C.double(x), C.double(y),
	)
	out := newProfile(ptr)
	out.segments = mp.segments
	return out
}

// Extrude extrudes a cross-section along z. Manifold extrudes from
// z=0 upward, so the result is shifted down to center it.
func (k *ManifoldKernel) Extrude(p kernel.Profile, height float64) kernel.Solid {
	mp := p.(*manifoldProfile)
	if mp.empty || height <= 0 {
		return emptySolid()
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_extrude(alloc, mp.ptr,
		C.double(height),
		C.int(0),    // nDivisions
		C.double(0), // twist
		C.double(1), // scale_x
		C.double(1), // scale_y
	)
	return k.Translate(newSolid(ptr), 0, 0, -height/2)
}

// Loft extrudes from the bottom cross-section to the top over the
// given height, centered along z. Manifold only supports scaling the
// top of an extrusion, so the top must be a scaled copy of the bottom;
// the scale factor is derived from the two cross-sections' bounds.
func (k *ManifoldKernel) Loft(bottom, top kernel.Profile, height float64) kernel.Solid {
	pb := bottom.(*manifoldProfile)
	pt := top.(*manifoldProfile)
	if height <= 0 || (pb.empty && pt.empty) {
		return emptySolid()
	}

	// A degenerate end lofts to a point, which manifold expresses as
	// scale 0. When the bottom is the degenerate end, extrude the top
	// downward instead and flip.
	if pb.empty {
		return k.Transform(k.loftScaled(pt, 0, height), [3]float64{1, 0, 0}, math.Pi, [3]float64{0, 0, 0})
	}
	if pt.empty {
		return k.loftScaled(pb, 0, height)
	}

	scale := profileExtent(pt) / profileExtent(pb)
	return k.loftScaled(pb, scale, height)
}

func (k *ManifoldKernel) loftScaled(base *manifoldProfile, scale, height float64) kernel.Solid {
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_extrude(alloc, base.ptr,
		C.double(height),
		C.int(0),
		C.double(0),
		C.double(scale),
		C.double(scale),
	)
	return k.Translate(newSolid(ptr), 0, 0, -height/2)
}

// profileExtent returns the x extent of a cross-section's bounding box.
func profileExtent(p *manifoldProfile) float64 {
	alloc := C.manifold_alloc_rect()
	r := C.manifold_cross_section_bounds(alloc, p.ptr)
	defer C.manifold_delete_rect(r)
	return float64(C.manifold_rect_max_x(r)) - float64(C.manifold_rect_min_x(r))
}

// Revolve spins a cross-section a full turn. Manifold revolves about
// the cross-section's y axis and maps it to the solid's z axis, which
// matches the kernel contract.
func (k *ManifoldKernel) Revolve(p kernel.Profile) kernel.Solid {
	mp := p.(*manifoldProfile)
	if mp.empty {
		return emptySolid()
	}
	segments := mp.segments
	if segments < 3 {
		segments = defaultRevolveSegments
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_revolve(alloc, mp.ptr, C.int(segments))
	return newSolid(ptr)
}

// Union returns the boolean union of two solids.
func (k *ManifoldKernel) Union(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	if sa.empty {
		return b
	}
	if sb.empty {
		return a
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_union(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Difference returns the boolean difference (a minus b).
func (k *ManifoldKernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	if sa.empty || sb.empty {
		return a
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_difference(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Intersection returns the boolean intersection of two solids.
func (k *ManifoldKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa := a.(*manifoldSolid)
	sb := b.(*manifoldSolid)
	if sa.empty {
		return a
	}
	if sb.empty {
		return b
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_intersection(alloc, sa.ptr, sb.ptr)
	return newSolid(ptr)
}

// Translate moves the solid by (x, y, z).
func (k *ManifoldKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	if ms.empty {
		return s
	}
	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_translate(alloc, ms.ptr,
		C.double(x), C.double(y), C.double(z),
	)
	return newSolid(ptr)
}

// Transform applies the composed placement transform: translation in
// the solid's own frame first, then rotation by angle radians about
// the given axis. Manifold takes a single 3x4 affine matrix, so the
// combined map p -> R(p + t) = Rp + Rt is passed as rotation R with
// translation column Rt.
func (k *ManifoldKernel) Transform(s kernel.Solid, axis [3]float64, angle float64, translation [3]float64) kernel.Solid {
	ms := s.(*manifoldSolid)
	if ms.empty {
		return s
	}

	r := rotationMatrix(axis, angle)
	tx := r[0][0]*translation[0] + r[0][1]*translation[1] + r[0][2]*translation[2]
	ty := r[1][0]*translation[0] + r[1][1]*translation[1] + r[1][2]*translation[2]
	tz := r[2][0]*translation[0] + r[2][1]*translation[1] + r[2][2]*translation[2]

	alloc := C.manifold_alloc_manifold()
	ptr := C.manifold_transform(alloc, ms.ptr,
		C.double(r[0][0]), C.double(r[1][0]), C.double(r[2][0]),
		C.double(r[0][1]), C.double(r[1][1]), C.double(r[2][1]),
		C.double(r[0][2]), C.double(r[1][2]), C.double(r[2][2]),
		C.double(tx), C.double(ty), C.double(tz),
	)
	return newSolid(ptr)
}

// rotationMatrix builds the rotation matrix for angle radians about a
// unit axis.
func rotationMatrix(axis [3]float64, angle float64) [3][3]float64 {
	x, y, z := axis[0], axis[1], axis[2]
	c := math.Cos(angle)
	s := math.Sin(angle)
	t := 1 - c
	return [3][3]float64{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// ToMesh extracts a triangle mesh from the solid using Manifold's MeshGL
// format. Vertex positions and normals are interleaved in MeshGL; this
// method separates them into the kernel.Mesh flat-array layout.
func (k *ManifoldKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	ms := s.(*manifoldSolid)
	if ms.empty {
		return &kernel.Mesh{}, nil
	}

	meshAlloc := C.manifold_alloc_meshgl()
	meshGL := C.manifold_get_meshgl(meshAlloc, ms.ptr)
	defer C.manifold_delete_meshgl(meshGL)

	numVert := int(C.manifold_meshgl_num_vert(meshGL))
	numTri := int(C.manifold_meshgl_num_tri(meshGL))

	if numVert == 0 || numTri == 0 {
		return &kernel.Mesh{}, nil
	}

	// MeshGL stores vertex properties in a flat float array with
	// numProp properties per vertex. The first 3 are always position;
	// normals follow at indices 3, 4, 5 when present.
	numProp := int(C.manifold_meshgl_num_prop(meshGL))

	propLen := numVert * numProp
	propData := make([]float32, propLen)
	C.manifold_meshgl_vert_properties(
		(*C.float)(unsafe.Pointer(&propData[0])),
		meshGL,
	)

	triLen := numTri * 3
	indices := make([]uint32, triLen)
	C.manifold_meshgl_tri_verts(
		(*C.uint32_t)(unsafe.Pointer(&indices[0])),
		meshGL,
	)

	vertices := make([]float32, numVert*3)
	var normals []float32
	hasNormals := numProp >= 6
	if hasNormals {
		normals = make([]float32, numVert*3)
	}

	for i := 0; i < numVert; i++ {
		base := i * numProp
		vertices[i*3+0] = propData[base+0]
		vertices[i*3+1] = propData[base+1]
		vertices[i*3+2] = propData[base+2]
		if hasNormals {
			normals[i*3+0] = propData[base+3]
			normals[i*3+1] = propData[base+4]
			normals[i*3+2] = propData[base+5]
		}
	}

	if !hasNormals {
		normals = computeVertexNormals(vertices, indices)
	}

	mesh := &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}

	if mesh.VertexCount() != numVert {
		return nil, fmt.Errorf("manifold: vertex count mismatch: got %d, expected %d",
			mesh.VertexCount(), numVert)
	}

	return mesh, nil
}

// computeVertexNormals generates per-vertex normals by averaging the
// face normals of all triangles incident on each vertex. This is a
// fallback when MeshGL does not include normals in the vertex
// properties.
func computeVertexNormals(vertices []float32, indices []uint32) []float32 {
	numVerts := len(vertices) / 3
	normals := make([]float32, numVerts*3)

	numTris := len(indices) / 3
	for t := 0; t < numTris; t++ {
		i0 := indices[t*3+0]
		i1 := indices[t*3+1]
		i2 := indices[t*3+2]

		ax, ay, az := float64(vertices[i0*3]), float64(vertices[i0*3+1]), float64(vertices[i0*3+2])
		bx, by, bz := float64(vertices[i1*3]), float64(vertices[i1*3+1]), float64(vertices[i1*3+2])
		cx, cy, cz := float64(vertices[i2*3]), float64(vertices[i2*3+1]), float64(vertices[i2*3+2])

		e1x, e1y, e1z := bx-ax, by-ay, bz-az
		e2x, e2y, e2z := cx-ax, cy-ay, cz-az

		// Cross product (unnormalized face normal).
		nx := float32(e1y*e2z - e1z*e2y)
		ny := float32(e1z*e2x - e1x*e2z)
		nz := float32(e1x*e2y - e1y*e2x)

		for _, idx := range []uint32{i0, i1, i2} {
			normals[idx*3+0] += nx
			normals[idx*3+1] += ny
			normals[idx*3+2] += nz
		}
	}

	for i := 0; i < numVerts; i++ {
		nx := float64(normals[i*3+0])
		ny := float64(normals[i*3+1])
		nz := float64(normals[i*3+2])
		length := math.Sqrt(nx*nx + ny*ny + nz*nz)
		if length > 1e-12 {
			normals[i*3+0] = float32(nx / length)
			normals[i*3+1] = float32(ny / length)
			normals[i*3+2] = float32(nz / length)
		}
	}

	return normals
}
