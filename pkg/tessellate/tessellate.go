// Package tessellate walks a design graph and produces one mesh per
// primitive part. Transforms accumulate down the tree: a primitive's
// body is built in its own frame by pkg/prim, then carried through
// every place and attach node above it, so a part and anything
// attached to it move rigidly together.
package tessellate

import (
	"fmt"
	"math"

	"github.com/chazu/tenon/pkg/graph"
	"github.com/chazu/tenon/pkg/kernel"
	"github.com/chazu/tenon/pkg/prim"
	"github.com/chazu/tenon/pkg/solid"
)

// Part is one tessellated primitive: its mesh, the kernel solid it
// came from, and its connector frames mapped to world coordinates.
type Part struct {
	Name       string
	NodeID     graph.NodeID
	Mesh       *kernel.Mesh
	Solid      kernel.Solid
	Connectors map[string]solid.Connector
}

// Tessellator builds parts from a design graph through a geometry kernel.
type Tessellator struct {
	k kernel.Kernel
}

// New creates a Tessellator on the given kernel.
func New(k kernel.Kernel) *Tessellator {
	return &Tessellator{k: k}
}

// Tessellate walks the graph from its roots and returns the parts in
// a deterministic order (depth-first, children in declaration order).
// A graph with no roots renders every named primitive standalone, so
// scripts without an assembly still produce geometry.
func (t *Tessellator) Tessellate(g *graph.DesignGraph) ([]Part, error) {
	w := &walker{t: t, g: g, names: make(map[string]int), onPath: make(map[graph.NodeID]bool)}

	roots := g.Roots
	if len(roots) == 0 {
		for _, n := range g.Primitives() {
			if n.Name != "" {
				roots = append(roots, n.ID)
			}
		}
	}

	for _, id := range roots {
		n := g.Get(id)
		if n == nil {
			return nil, fmt.Errorf("tessellate: root %s not found", id.Short())
		}
		if err := w.walk(n, nil); err != nil {
			return nil, err
		}
	}
	return w.parts, nil
}

// walker carries the state of one Tessellate call.
type walker struct {
	t      *Tessellator
	g      *graph.DesignGraph
	parts  []Part
	names  map[string]int
	onPath map[graph.NodeID]bool
}

// walk visits a node with the chain of transforms inherited from its
// ancestors, outermost first.
func (w *walker) walk(n *graph.Node, chain []solid.Affine) error {
	if w.onPath[n.ID] {
		return fmt.Errorf("tessellate: cycle through node %s", n.ID.Short())
	}
	w.onPath[n.ID] = true
	defer delete(w.onPath, n.ID)

	switch n.Kind {
	case graph.NodePrimitive:
		_, err := w.emit(n, chain)
		return err

	case graph.NodeGroup:
		for _, cid := range n.Children {
			c := w.g.Get(cid)
			if c == nil {
				return fmt.Errorf("tessellate: missing child %s of group %q", cid.Short(), n.Name)
			}
			if err := w.walk(c, chain); err != nil {
				return err
			}
		}
		return nil

	case graph.NodeTransform:
		td, ok := n.Data.(graph.TransformData)
		if !ok {
			return fmt.Errorf("tessellate: transform node %s has %T payload", n.ID.Short(), n.Data)
		}
		child := append(chain[:len(chain):len(chain)], placeAffines(td)...)
		for _, cid := range n.Children {
			c := w.g.Get(cid)
			if c == nil {
				return fmt.Errorf("tessellate: missing child %s of transform", cid.Short())
			}
			if err := w.walk(c, child); err != nil {
				return err
			}
		}
		return nil

	case graph.NodeAttach:
		return w.walkAttach(n, chain)
	}
	return fmt.Errorf("tessellate: unknown node kind %s", n.Kind)
}

// walkAttach renders the attach parent, looks up the named connector
// in the parent's placed frame, and mounts every remaining child there
// with its local +z along the connector direction.
func (w *walker) walkAttach(n *graph.Node, chain []solid.Affine) error {
	ad, ok := n.Data.(graph.AttachData)
	if !ok {
		return fmt.Errorf("tessellate: attach node %s has %T payload", n.ID.Short(), n.Data)
	}
	if len(n.Children) < 2 {
		return fmt.Errorf("tessellate: attach node %s needs a parent and a child", n.ID.Short())
	}

	parent := w.g.Get(n.Children[0])
	if parent == nil {
		return fmt.Errorf("tessellate: attach parent %s not found", n.Children[0].Short())
	}
	if parent.Kind != graph.NodePrimitive {
		return fmt.Errorf("tessellate: attach parent %s is a %s, not a primitive", parent.ID.Short(), parent.Kind)
	}

	res, err := w.emit(parent, chain)
	if err != nil {
		return err
	}

	conn, ok := res.Placement.Connectors[ad.Connector]
	if !ok {
		return fmt.Errorf("tessellate: %s primitive %q has no connector %q",
			res.Placement.Kind, partLabel(parent), ad.Connector)
	}

	child := append(chain[:len(chain):len(chain)], attachAffines(conn)...)
	for _, cid := range n.Children[1:] {
		c := w.g.Get(cid)
		if c == nil {
			return fmt.Errorf("tessellate: missing attach child %s", cid.Short())
		}
		if err := w.walk(c, child); err != nil {
			return err
		}
	}
	return nil
}

// emit builds a primitive, applies the inherited chain, and records
// the resulting part.
func (w *walker) emit(n *graph.Node, chain []solid.Affine) (*prim.Result, error) {
	res, err := w.t.buildPrimitive(n)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %q: %w", partLabel(n), err)
	}

	body := res.Body
	for i := len(chain) - 1; i >= 0; i-- {
		a := chain[i]
		body = w.t.k.Transform(body, a.Axis.Array(), a.Angle, a.Translation.Array())
	}

	mesh, err := w.t.k.ToMesh(body)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %q: %w", partLabel(n), err)
	}
	name := w.uniqueName(partLabel(n))
	mesh.PartName = name

	connectors := make(map[string]solid.Connector, len(res.Placement.Connectors))
	for name, c := range res.Placement.Connectors {
		connectors[name] = solid.Connector{
			Position:  applyChain(chain, c.Position),
			Direction: applyChainDirection(chain, c.Direction),
			Roll:      c.Roll,
		}
	}

	w.parts = append(w.parts, Part{
		Name:       name,
		NodeID:     n.ID,
		Mesh:       mesh,
		Solid:      body,
		Connectors: connectors,
	})
	return res, nil
}

// buildPrimitive dispatches a primitive payload to its builder. The
// payloads hold resolved values, so no defaulting happens here.
func (t *Tessellator) buildPrimitive(n *graph.Node) (*prim.Result, error) {
	switch d := n.Data.(type) {
	case graph.CubeData:
		return prim.BuildBox(t.k, d.Size, anchor(d.Placement))
	case graph.CylinderData:
		rc := prim.ResolvedCylinder{
			Height:   d.Height,
			Bottom:   d.BottomRadius,
			Top:      d.TopRadius,
			Segments: d.Segments,
		}
		return prim.BuildCylinder(t.k, rc, anchor(d.Placement))
	case graph.SphereData:
		rs := prim.ResolvedSphere{Radius: d.Radius, Segments: d.Segments}
		return prim.BuildSphere(t.k, rs, anchor(d.Placement))
	}
	return nil, fmt.Errorf("primitive node has unsupported payload %T", n.Data)
}

func anchor(p graph.Placement) prim.Anchor {
	return prim.Anchor{Align: p.Align, Center: p.Center, Orient: p.Orient}
}

func partLabel(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// uniqueName disambiguates repeated references to the same primitive.
func (w *walker) uniqueName(base string) string {
	w.names[base]++
	if w.names[base] == 1 {
		return base
	}
	return fmt.Sprintf("%s_%d", base, w.names[base])
}

// placeAffines expands a place node into chain elements. Rotation is
// Euler degrees about x, then y, then z, before the translation; in
// chain order the outermost element comes first, so the translation
// leads and the x rotation trails.
func placeAffines(td graph.TransformData) []solid.Affine {
	var out []solid.Affine
	if td.Translation != nil && !td.Translation.IsZero() {
		out = append(out, solid.Affine{Axis: solid.Vec3{Z: 1}, Translation: *td.Translation})
	}
	if td.Rotation != nil {
		axes := [3]solid.Vec3{{Z: 1}, {Y: 1}, {X: 1}}
		degs := [3]float64{td.Rotation.Z, td.Rotation.Y, td.Rotation.X}
		for i := range axes {
			if degs[i] != 0 {
				out = append(out, solid.Affine{Axis: axes[i], Angle: degs[i] * math.Pi / 180})
			}
		}
	}
	return out
}

// attachAffines expands a connector frame into chain elements: the
// child is rolled about its local z, rotated so local +z follows the
// connector direction, and carried to the connector position.
func attachAffines(c solid.Connector) []solid.Affine {
	out := []solid.Affine{{Axis: solid.Vec3{Z: 1}, Translation: c.Position}}
	axis, angle, err := solid.Orient{Dir: c.Direction}.Rotation()
	if err == nil && angle != 0 {
		out = append(out, solid.Affine{Axis: axis, Angle: angle})
	}
	if c.Roll != 0 {
		out = append(out, solid.Affine{Axis: solid.Vec3{Z: 1}, Angle: c.Roll})
	}
	return out
}

// applyChain maps a point from a node's frame to world coordinates.
func applyChain(chain []solid.Affine, p solid.Vec3) solid.Vec3 {
	for i := len(chain) - 1; i >= 0; i-- {
		p = chain[i].Apply(p)
	}
	return p
}

// applyChainDirection maps a direction through the chain's rotations.
func applyChainDirection(chain []solid.Affine, v solid.Vec3) solid.Vec3 {
	for i := len(chain) - 1; i >= 0; i-- {
		v = chain[i].ApplyDirection(v)
	}
	return v
}
