// Package prim builds the three solid primitives: box, cylinder/cone,
// and sphere. Each primitive resolves its arguments, constructs an
// untransformed body through the geometry kernel, and delegates
// placement to the solid composer, so every primitive shares one
// alignment, orientation, and connector pipeline.
package prim

import (
	"github.com/chazu/tenon/pkg/kernel"
	"github.com/chazu/tenon/pkg/solid"
)

// Anchor carries the placement arguments shared by every primitive.
// Nil fields mean "use the primitive's default"; Center, when present,
// supersedes Align.
type Anchor struct {
	Align  *solid.Align
	Center *bool
	Orient *solid.Orient
}

func (a Anchor) options(fallback solid.Align) solid.Options {
	return solid.Options{
		Align:    a.Align,
		Center:   a.Center,
		Orient:   a.Orient,
		Fallback: fallback,
	}
}

// Result is a built primitive: the placed body and the placement that
// produced it. The placement's transform also applies to any attached
// children, and its connectors are already in the final frame.
type Result struct {
	Body      kernel.Solid
	Placement solid.Placement
}

// place applies a placement's composed transform to a body.
func place(k kernel.Kernel, body kernel.Solid, p solid.Placement) kernel.Solid {
	t := p.Transform
	return k.Transform(body, t.Axis.Array(), t.Angle, t.Translation.Array())
}
