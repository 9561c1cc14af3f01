package sdfx

import (
	"math"
	"testing"

	"github.com/chazu/tenon/pkg/kernel"
)

// testKernel returns a kernel with a reduced mesh resolution so the
// marching cubes passes stay fast under test.
func testKernel() *SdfxKernel {
	k := New()
	k.MeshCells = 64
	return k
}

func box(k *SdfxKernel, x, y, z float64) kernel.Solid {
	return k.Extrude(k.Rect(x, y), z)
}

func TestExtrudeBox(t *testing.T) {
	k := testKernel()
	b := box(k, 100, 50, 25)
	mesh, err := k.ToMesh(b)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if mesh.VertexCount() == 0 {
		t.Fatal("expected non-zero vertex count")
	}
	if mesh.TriangleCount() == 0 {
		t.Fatal("expected non-zero triangle count")
	}
	// Verify vertex and index array sizes are consistent.
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
}

func TestExtrudeBoundingBox(t *testing.T) {
	k := testKernel()
	b := box(k, 100, 50, 25)
	min, max := b.BoundingBox()

	const tol = 0.01
	expectMin := [3]float64{-50, -25, -12.5}
	expectMax := [3]float64{50, 25, 12.5}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], expectMax[i])
		}
	}
}

func TestLoftCone(t *testing.T) {
	k := testKernel()
	cone := k.Loft(k.Circle(20, 0), k.Circle(5, 0), 30)
	min, max := cone.BoundingBox()

	// The cone spans -15..15 in z and is bounded by the larger radius in x/y.
	const tol = 1.0
	if math.Abs(min[2]+15) > tol || math.Abs(max[2]-15) > tol {
		t.Errorf("cone z bounds = [%f, %f], expected ~[-15, 15]", min[2], max[2])
	}
	if max[0] < 19 || max[0] > 21+tol {
		t.Errorf("cone x bound = %f, expected ~20", max[0])
	}

	mesh, err := k.ToMesh(cone)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("cone mesh is empty")
	}
}

func TestRevolveSphere(t *testing.T) {
	k := testKernel()
	const r = 25.0

	// A sphere is a half disc revolved about z: start from a circle and
	// cut away the x < 0 half plane.
	disc := k.Circle(r, 0)
	mask := k.TranslateProfile(k.Rect(2*r, 2*r), -r, 0)
	half := k.DifferenceProfile(disc, mask)
	sphere := k.Revolve(half)

	min, max := sphere.BoundingBox()
	const tol = 1.0
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]+r) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], -r)
		}
		if math.Abs(max[i]-r) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], r)
		}
	}

	mesh, err := k.ToMesh(sphere)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("sphere mesh is empty")
	}
}

func TestDifference(t *testing.T) {
	k := testKernel()

	b := box(k, 100, 100, 100)
	boxMesh, err := k.ToMesh(b)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	cyl := k.Extrude(k.Circle(20, 0), 120)
	diff := k.Difference(b, cyl)
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.IsEmpty() {
		t.Fatal("difference mesh is empty")
	}
	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestUnion(t *testing.T) {
	k := testKernel()
	box1 := box(k, 50, 50, 50)
	box2 := k.Translate(box(k, 50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)
	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("union mesh is empty")
	}
}

func TestIntersection(t *testing.T) {
	k := testKernel()
	box1 := box(k, 100, 100, 100)
	box2 := k.Translate(box(k, 100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
}

func TestTranslate(t *testing.T) {
	k := testKernel()
	b := box(k, 10, 10, 10)
	translated := k.Translate(b, 100, 200, 300)

	min, max := translated.BoundingBox()

	// Translated box(10,10,10) by (100,200,300) should be centered at (100,200,300).
	const tol = 0.5
	expectMin := [3]float64{95, 195, 295}
	expectMax := [3]float64{105, 205, 305}

	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-expectMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], expectMin[i])
		}
		if math.Abs(max[i]-expectMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], expectMax[i])
		}
	}
}

func TestTransformRotates(t *testing.T) {
	k := testKernel()
	b := box(k, 100, 10, 10)

	// A long box along X rotated a quarter turn about Z should extend
	// along Y instead.
	rotated := k.Transform(b, [3]float64{0, 0, 1}, math.Pi/2, [3]float64{0, 0, 0})
	min, max := rotated.BoundingBox()

	xExtent := max[0] - min[0]
	yExtent := max[1] - min[1]

	const tol = 1.0
	if math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}
}

func TestTransformTranslatesBeforeRotating(t *testing.T) {
	k := testKernel()
	b := box(k, 10, 10, 10)

	// Push the box out along its own +X, then rotate a quarter turn
	// about Z. The result should sit on the +Y axis, which only holds
	// if the translation is applied first.
	moved := k.Transform(b, [3]float64{0, 0, 1}, math.Pi/2, [3]float64{100, 0, 0})
	min, max := moved.BoundingBox()

	cx := (min[0] + max[0]) / 2
	cy := (min[1] + max[1]) / 2

	const tol = 0.5
	if math.Abs(cx) > tol {
		t.Errorf("center x = %f, expected ~0", cx)
	}
	if math.Abs(cy-100) > tol {
		t.Errorf("center y = %f, expected ~100", cy)
	}
}

func TestDegenerateSolidsAreEmpty(t *testing.T) {
	k := testKernel()

	cases := []struct {
		name  string
		solid kernel.Solid
	}{
		{"zero radius cylinder", k.Extrude(k.Circle(0, 0), 20)},
		{"zero height cylinder", k.Extrude(k.Circle(10, 0), 0)},
		{"zero size box", k.Extrude(k.Rect(0, 0), 0)},
		{"zero radius sphere", k.Revolve(k.Circle(0, 0))},
	}
	for _, tc := range cases {
		mesh, err := k.ToMesh(tc.solid)
		if err != nil {
			t.Fatalf("%s: ToMesh failed: %v", tc.name, err)
		}
		if !mesh.IsEmpty() {
			t.Errorf("%s: expected empty mesh", tc.name)
		}
	}
}

func TestDegenerateOperandsPassThrough(t *testing.T) {
	k := testKernel()
	b := box(k, 20, 20, 20)
	empty := k.Extrude(k.Circle(0, 0), 0)

	min, max := k.Union(b, empty).BoundingBox()
	if max[0]-min[0] < 19 {
		t.Errorf("union with empty lost the box: extent %f", max[0]-min[0])
	}

	min, max = k.Difference(b, empty).BoundingBox()
	if max[0]-min[0] < 19 {
		t.Errorf("difference with empty lost the box: extent %f", max[0]-min[0])
	}
}
