package prim

import (
	"fmt"

	"github.com/chazu/tenon/pkg/kernel"
	"github.com/chazu/tenon/pkg/solid"
)

// defaultBoxSize is the edge length used when no size is supplied.
const defaultBoxSize = 1.0

// BoxSpec is the raw argument set of the cube DSL form. Size follows
// the normalizer rules: one component applies to all axes, two leave z
// at the default, three are taken as given.
type BoxSpec struct {
	Size []float64
	Anchor
}

// Box resolves a box spec and builds the solid. The default alignment
// puts the all-negative corner on the origin, so an unaligned box
// extends into the positive octant.
func Box(k kernel.Kernel, spec BoxSpec) (*Result, error) {
	components := spec.Size
	if len(components) == 0 {
		components = []float64{defaultBoxSize}
	}
	size, err := solid.ExpandSize(components, defaultBoxSize)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return BuildBox(k, size, spec.Anchor)
}

// BuildBox builds a box from an already-normalized size. Zero
// components are legal and produce a degenerate solid.
func BuildBox(k kernel.Kernel, size solid.Vec3, anchor Anchor) (*Result, error) {
	if err := solid.CheckSize(size); err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	placement, err := solid.Compose(solid.Uniform(size), anchor.options(solid.AlignMinCorner), solid.KindCube)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	body := k.Extrude(k.Rect(size.X, size.Y), size.Z)
	return &Result{Body: place(k, body, placement), Placement: placement}, nil
}
