// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx, manifold) provide profile construction,
// extrusion/revolution, boolean operations, and rigid transforms
// behind this interface. The kernel abstraction allows swapping
// backends without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Profile is an opaque handle to a 2D cross-section in the XY plane,
// used as extrusion/revolution input.
type Profile interface{}

// Kernel is the abstract geometry kernel interface. All solids
// produced by Extrude, Loft, and Revolve are centered on the local
// origin: extrusions span -height/2..+height/2 along z, revolutions
// spin the profile about the z axis.
type Kernel interface {
	// Profiles
	Rect(x, y float64) Profile
	Circle(radius float64, segments int) Profile
	DifferenceProfile(a, b Profile) Profile
	TranslateProfile(p Profile, x, y float64) Profile

	// Solids from profiles
	Extrude(p Profile, height float64) Solid
	Loft(bottom, top Profile, height float64) Solid
	Revolve(p Profile) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	// Transform applies the composed placement transform: the solid is
	// translated in its own frame first, then rotated by angle radians
	// about the given unit axis. A body and its attached children must
	// go through Transform with identical arguments so they move
	// rigidly together.
	Transform(s Solid, axis [3]float64, angle float64, translation [3]float64) Solid

	// Mesh output
	ToMesh(s Solid) (*Mesh, error)
}
