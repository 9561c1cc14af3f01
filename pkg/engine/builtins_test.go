package engine

import (
	"strings"
	"testing"

	"github.com/chazu/tenon/pkg/graph"
	"github.com/chazu/tenon/pkg/solid"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(cube "leg" :size 40)`,
			expect: `(cube "leg" "__kw_size" 40)`,
		},
		{
			name:   "multiple keywords",
			input:  `(cylinder :h 450 :r 15)`,
			expect: `(cylinder "__kw_h" 450 "__kw_r" 15)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:top-back-right`,
			expect: `"__kw_top-back-right"`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(leg-height)`,
			expect: `(leg_height)`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// evalOK evaluates source and fails the test on any error.
func evalOK(t *testing.T, source string) *graph.DesignGraph {
	t.Helper()
	eng := NewEngine()
	g, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

// evalErrContaining evaluates source expecting an eval error whose
// message contains want.
func evalErrContaining(t *testing.T, source, want string) {
	t.Helper()
	eng := NewEngine()
	g, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if g != nil {
		t.Fatal("expected nil graph on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected at least one eval error")
	}
	for _, e := range evalErrs {
		if strings.Contains(e.Message, want) {
			return
		}
	}
	t.Errorf("no eval error containing %q, got %v", want, evalErrs)
}

// ---------------------------------------------------------------------------
// Cube form
// ---------------------------------------------------------------------------

func TestCubeForm(t *testing.T) {
	g := evalOK(t, `(cube "leg" :size (list 40 40 700) :align :bottom)`)

	if g.NodeCount() != 1 {
		t.Fatalf("expected 1 node, got %d", g.NodeCount())
	}

	leg := g.Lookup("leg")
	if leg == nil {
		t.Fatal("expected node named 'leg'")
	}
	if leg.Kind != graph.NodePrimitive {
		t.Errorf("expected NodePrimitive, got %s", leg.Kind)
	}

	cd, ok := leg.Data.(graph.CubeData)
	if !ok {
		t.Fatalf("expected CubeData, got %T", leg.Data)
	}
	want := solid.Vec3{X: 40, Y: 40, Z: 700}
	if cd.Size != want {
		t.Errorf("size = %+v, want %+v", cd.Size, want)
	}
	if cd.Placement.Align == nil {
		t.Fatal("expected align to be set")
	}
	if *cd.Placement.Align != solid.AlignBottom {
		t.Errorf("align = %v, want %v", *cd.Placement.Align, solid.AlignBottom)
	}
}

func TestCubeScalarSize(t *testing.T) {
	g := evalOK(t, `(cube "block" :size 10)`)

	cd := g.MustLookup("block").Data.(graph.CubeData)
	want := solid.Vec3{X: 10, Y: 10, Z: 10}
	if cd.Size != want {
		t.Errorf("size = %+v, want %+v", cd.Size, want)
	}
}

func TestCubeTwoComponentSize(t *testing.T) {
	g := evalOK(t, `(cube "slab" :size (list 4 6))`)

	cd := g.MustLookup("slab").Data.(graph.CubeData)
	want := solid.Vec3{X: 4, Y: 6, Z: 1}
	if cd.Size != want {
		t.Errorf("size = %+v, want %+v", cd.Size, want)
	}
}

func TestCubeNegativeSizeError(t *testing.T) {
	evalErrContaining(t, `(cube "bad" :size -5)`, "cube")
}

func TestCubeCenterOverride(t *testing.T) {
	g := evalOK(t, `(cube "c" :size 10 :center true :align :top)`)

	cd := g.MustLookup("c").Data.(graph.CubeData)
	if cd.Placement.Center == nil || !*cd.Placement.Center {
		t.Error("expected center override to be recorded as true")
	}
	// The align is kept too; resolution order is the composer's concern.
	if cd.Placement.Align == nil {
		t.Error("expected align to be recorded alongside center")
	}
}

func TestInvalidAlignName(t *testing.T) {
	evalErrContaining(t, `(cube "bad" :size 10 :align :diagonal)`, "invalid alignment")
}

func TestZeroOrientVectorError(t *testing.T) {
	evalErrContaining(t, `(cube "bad" :size 10 :orient (vec3 0 0 0))`, "non-zero")
}

// ---------------------------------------------------------------------------
// Cylinder form
// ---------------------------------------------------------------------------

func TestCylinderResolvedPayload(t *testing.T) {
	g := evalOK(t, `(cylinder "post" :h 450 :r 15 :align :bottom)`)

	post := g.Lookup("post")
	if post == nil {
		t.Fatal("expected node named 'post'")
	}
	cd, ok := post.Data.(graph.CylinderData)
	if !ok {
		t.Fatalf("expected CylinderData, got %T", post.Data)
	}
	if cd.Height != 450 {
		t.Errorf("height = %v, want 450", cd.Height)
	}
	if cd.BottomRadius != 15 || cd.TopRadius != 15 {
		t.Errorf("radii = (%v, %v), want (15, 15)", cd.BottomRadius, cd.TopRadius)
	}
	// r=15 with defaults: circumference constraint 2*pi*15/2 beats the
	// 360/12 angle constraint, ceil(47.12...) = 48.
	if cd.Segments != 48 {
		t.Errorf("segments = %d, want 48", cd.Segments)
	}
}

func TestCylinderRadiusWinsOverDiameter(t *testing.T) {
	g := evalOK(t, `(cylinder "c" :r 4 :d 100)`)

	cd := g.MustLookup("c").Data.(graph.CylinderData)
	if cd.BottomRadius != 4 || cd.TopRadius != 4 {
		t.Errorf("radii = (%v, %v), want (4, 4)", cd.BottomRadius, cd.TopRadius)
	}
}

func TestConeTaper(t *testing.T) {
	g := evalOK(t, `(cylinder "spike" :l 80 :r1 12 :r2 0)`)

	cd := g.MustLookup("spike").Data.(graph.CylinderData)
	if cd.Height != 80 {
		t.Errorf("height = %v, want 80 (from :l alias)", cd.Height)
	}
	if cd.BottomRadius != 12 {
		t.Errorf("bottom radius = %v, want 12", cd.BottomRadius)
	}
	if cd.TopRadius != 0 {
		t.Errorf("top radius = %v, want 0", cd.TopRadius)
	}
}

func TestCylinderExplicitSegmentsFloor(t *testing.T) {
	g := evalOK(t, `(cylinder "c" :r 10 :fn 2)`)

	cd := g.MustLookup("c").Data.(graph.CylinderData)
	if cd.Segments != 3 {
		t.Errorf("segments = %d, want explicit floor 3", cd.Segments)
	}
}

func TestCylinderNegativeHeightError(t *testing.T) {
	evalErrContaining(t, `(cylinder "bad" :h -10 :r 5)`, "non-negative")
}

// ---------------------------------------------------------------------------
// Sphere form
// ---------------------------------------------------------------------------

func TestSphereDiameter(t *testing.T) {
	g := evalOK(t, `(sphere "knob" :d 50)`)

	sd, ok := g.MustLookup("knob").Data.(graph.SphereData)
	if !ok {
		t.Fatalf("expected SphereData, got %T", g.MustLookup("knob").Data)
	}
	if sd.Radius != 25 {
		t.Errorf("radius = %v, want 25", sd.Radius)
	}
}

func TestSphereExplicitSegments(t *testing.T) {
	g := evalOK(t, `(sphere "s" :r 20 :fn 48)`)

	sd := g.MustLookup("s").Data.(graph.SphereData)
	if sd.Segments != 48 {
		t.Errorf("segments = %d, want 48", sd.Segments)
	}
}

// ---------------------------------------------------------------------------
// Smoothness rebinding
// ---------------------------------------------------------------------------

func TestSmoothnessRebinding(t *testing.T) {
	source := `
(smoothness :fn 16)
(cylinder "a" :r 10)
(cylinder "b" :r 10 :fn 64)
`
	g := evalOK(t, source)

	a := g.MustLookup("a").Data.(graph.CylinderData)
	if a.Segments != 16 {
		t.Errorf("a: segments = %d, want ambient 16", a.Segments)
	}
	b := g.MustLookup("b").Data.(graph.CylinderData)
	if b.Segments != 64 {
		t.Errorf("b: segments = %d, want per-call 64", b.Segments)
	}
	if g.Defaults.Smoothness.FN != 16 {
		t.Errorf("defaults FN = %d, want 16", g.Defaults.Smoothness.FN)
	}
}

func TestSmoothnessAppliesOnlyForward(t *testing.T) {
	source := `
(cylinder "before" :r 10)
(smoothness :fn 16)
(cylinder "after" :r 10)
`
	g := evalOK(t, source)

	// r=10 under default fa=12/fs=2: ceil(max(360/12, 2*pi*10/2)) = 32.
	before := g.MustLookup("before").Data.(graph.CylinderData)
	if before.Segments != 32 {
		t.Errorf("before: segments = %d, want default 32", before.Segments)
	}
	after := g.MustLookup("after").Data.(graph.CylinderData)
	if after.Segments != 16 {
		t.Errorf("after: segments = %d, want rebound 16", after.Segments)
	}
}

func TestSmoothnessRejectsBadSettings(t *testing.T) {
	evalErrContaining(t, `(smoothness :fa 0)`, "must be positive")
	evalErrContaining(t, `(smoothness :fs -1)`, "must be positive")
	evalErrContaining(t, `(smoothness :fn -4)`, "non-negative")
}

func TestPerCallSmoothnessRejectsBadSettings(t *testing.T) {
	evalErrContaining(t, `(cylinder "c" :h 10 :r 10 :fn -4)`, "non-negative")
	evalErrContaining(t, `(cylinder "c" :h 10 :r 10 :fa 0)`, "must be positive")
	evalErrContaining(t, `(sphere "s" :r 10 :fs -1)`, "must be positive")
}

// ---------------------------------------------------------------------------
// Place, attach, assembly
// ---------------------------------------------------------------------------

func TestPlaceForm(t *testing.T) {
	source := `
(cube "leg" :size (list 40 40 700))
(assembly "frame"
  (place (part "leg") :at (vec3 100 0 0) :rotate (vec3 0 0 45)))
`
	g := evalOK(t, source)

	// 1 primitive + 1 transform + 1 group = 3 nodes
	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}

	var transform *graph.Node
	for _, n := range g.Nodes {
		if n.Kind == graph.NodeTransform {
			transform = n
		}
	}
	if transform == nil {
		t.Fatal("no transform node found")
	}
	if len(transform.Children) != 1 {
		t.Fatalf("transform: expected 1 child, got %d", len(transform.Children))
	}
	td := transform.Data.(graph.TransformData)
	if td.Translation == nil || td.Translation.X != 100 {
		t.Errorf("translation = %+v, want X=100", td.Translation)
	}
	if td.Rotation == nil || td.Rotation.Z != 45 {
		t.Errorf("rotation = %+v, want Z=45", td.Rotation)
	}
}

func TestAttachForm(t *testing.T) {
	source := `
(cube "seat" :size (list 300 300 20) :align :bottom)
(cylinder "leg" :h 450 :r 15)
(assembly "stool"
  (attach (part "seat") :at :bottom (part "leg")))
`
	g := evalOK(t, source)

	// seat + leg + attach + assembly = 4 nodes
	if g.NodeCount() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.NodeCount())
	}

	var attach *graph.Node
	for _, n := range g.Nodes {
		if n.Kind == graph.NodeAttach {
			attach = n
		}
	}
	if attach == nil {
		t.Fatal("no attach node found")
	}

	ad := attach.Data.(graph.AttachData)
	if ad.Connector != "bottom" {
		t.Errorf("connector = %q, want %q", ad.Connector, "bottom")
	}
	if len(attach.Children) != 2 {
		t.Fatalf("attach: expected 2 children, got %d", len(attach.Children))
	}
	if attach.Children[0] != g.MustLookup("seat").ID {
		t.Error("attach: first child should be the parent primitive 'seat'")
	}
	if attach.Children[1] != g.MustLookup("leg").ID {
		t.Error("attach: second child should be 'leg'")
	}
}

func TestAttachRequiresConnector(t *testing.T) {
	source := `
(cube "seat" :size 10)
(cube "leg" :size 5)
(attach (part "seat") (part "leg"))
`
	evalErrContaining(t, source, ":at connector")
}

func TestAttachRequiresPrimitiveParent(t *testing.T) {
	source := `
(cube "leg" :size 5)
(attach (place (part "leg") :at (vec3 0 0 0)) :at :top (part "leg"))
`
	evalErrContaining(t, source, "must be a primitive")
}

func TestAssemblyBecomesRoot(t *testing.T) {
	source := `
(cube "a" :size 10)
(assembly "whole" :description "just one block"
  (place (part "a") :at (vec3 0 0 0)))
`
	g := evalOK(t, source)

	whole := g.MustLookup("whole")
	if whole.Kind != graph.NodeGroup {
		t.Errorf("expected NodeGroup, got %s", whole.Kind)
	}
	gd := whole.Data.(graph.GroupData)
	if gd.Description != "just one block" {
		t.Errorf("description = %q", gd.Description)
	}
	if len(g.Roots) != 1 || g.Roots[0] != whole.ID {
		t.Errorf("expected 'whole' to be the single root, got %v", g.Roots)
	}
}

// ---------------------------------------------------------------------------
// Lookup and naming
// ---------------------------------------------------------------------------

func TestPartLookupError(t *testing.T) {
	evalErrContaining(t, `(part "nonexistent")`, "no part named")
}

func TestDuplicateNameError(t *testing.T) {
	source := `
(cube "leg" :size 10)
(cylinder "leg" :h 20 :r 3)
`
	evalErrContaining(t, source, "already exists")
}

func TestAnonymousPrimitivesGetDistinctIDs(t *testing.T) {
	source := `
(assembly "pair"
  (cube :size 5)
  (cube :size 5))
`
	g := evalOK(t, source)

	// Two identical anonymous cubes plus the assembly.
	if g.NodeCount() != 3 {
		t.Fatalf("expected 3 nodes, got %d", g.NodeCount())
	}
	prims := g.Primitives()
	if len(prims) != 2 {
		t.Fatalf("expected 2 primitives, got %d", len(prims))
	}
	if prims[0].ID == prims[1].ID {
		t.Error("identical calls should still produce distinct node IDs")
	}
	if prims[0].ContentHash != prims[1].ContentHash {
		t.Error("identical calls should share a content hash")
	}
}

// ---------------------------------------------------------------------------
// Full example
// ---------------------------------------------------------------------------

func TestFullStoolExample(t *testing.T) {
	source := `
(def seat-side 300)
(def leg-height 450)

(smoothness :fa 6 :fs 1)

(cube "seat" :size (list seat-side seat-side 20) :align :bottom)

(assembly "stool"
  (attach (part "seat") :at :bottom
    (cylinder :h leg-height :r 15)
    (cylinder :h leg-height :r 15)
    (cylinder :h leg-height :r 15)))
`
	g := evalOK(t, source)

	// seat + 3 legs + attach + assembly = 6 nodes
	if g.NodeCount() != 6 {
		t.Fatalf("expected 6 nodes, got %d", g.NodeCount())
	}

	seat := g.MustLookup("seat")
	cd := seat.Data.(graph.CubeData)
	if cd.Size.X != 300 || cd.Size.Z != 20 {
		t.Errorf("seat size = %+v", cd.Size)
	}

	var attach *graph.Node
	for _, n := range g.Nodes {
		if n.Kind == graph.NodeAttach {
			attach = n
		}
	}
	if attach == nil {
		t.Fatal("no attach node found")
	}
	if len(attach.Children) != 4 {
		t.Fatalf("attach: expected parent + 3 legs, got %d children", len(attach.Children))
	}

	// Legs picked up the rebound smoothness: fa 6 gives 60 by angle,
	// fs 1 gives 2*pi*15 ~ 94.2 by length, so 95 segments.
	for _, cid := range attach.Children[1:] {
		leg := g.Get(cid)
		ld, ok := leg.Data.(graph.CylinderData)
		if !ok {
			t.Fatalf("leg: expected CylinderData, got %T", leg.Data)
		}
		if ld.Segments != 95 {
			t.Errorf("leg segments = %d, want 95", ld.Segments)
		}
	}

	if errs := graph.Validate(g); len(errs) > 0 {
		t.Errorf("expected structurally valid graph, got %v", errs)
	}
	res := graph.ValidateAll(g)
	if len(res.Errors) > 0 {
		t.Errorf("expected no validation errors, got %v", res.Errors)
	}
}
