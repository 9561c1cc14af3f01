package engine

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/chazu/tenon/pkg/graph"
	"github.com/chazu/tenon/pkg/prim"
	"github.com/chazu/tenon/pkg/solid"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms Tenon Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: top-left stays inside keywords, but a
//     hyphen between identifier characters in ordinary code becomes an
//     underscore. zygomys does not allow hyphens in identifiers (it
//     interprets them as the subtraction operator).
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a graph.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   graph.NodeID
	name string // human-readable name for error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id.Short())
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpVec3 wraps a solid.Vec3.
type sexpVec3 struct {
	vec solid.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a bool from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected bool, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_top) and plain strings ("top").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toNodeRef extracts a NodeID from a sexpNodeRef.
func toNodeRef(s zygo.Sexp) (graph.NodeID, error) {
	if ref, ok := s.(*sexpNodeRef); ok {
		return ref.id, nil
	}
	return "", fmt.Errorf("expected node reference, got %T (%s)", s, s.SexpString(nil))
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (solid.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return solid.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// toSizeComponents converts a size argument to its component slice.
// A bare number means a uniform size; a list or array gives per-axis
// components for the size normalizer.
func toSizeComponents(s zygo.Sexp) ([]float64, error) {
	if f, err := toFloat64(s); err == nil {
		return []float64{f}, nil
	}
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, fmt.Errorf("expected number or list of numbers: %w", err)
	}
	components := make([]float64, 0, len(items))
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return nil, fmt.Errorf("component %d: %w", i, err)
		}
		components = append(components, f)
	}
	return components, nil
}

// toOrient converts an orientation argument: a named direction keyword
// (:up, :down, :left, ...) or an explicit (vec3 ...) direction.
func toOrient(s zygo.Sexp) (solid.Orient, error) {
	if v, ok := s.(*sexpVec3); ok {
		o := solid.Orient{Dir: v.vec}
		if _, _, err := o.Rotation(); err != nil {
			return solid.Orient{}, err
		}
		return o, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return solid.Orient{}, fmt.Errorf("expected orientation keyword or vec3: %w", err)
	}
	return solid.ParseOrient(name)
}

// parsePlacement extracts the :align / :center / :orient arguments
// shared by every primitive form. All three are validated here so a
// bad code aborts the call with the offending line attached.
func parsePlacement(pa kwArgs) (graph.Placement, error) {
	var p graph.Placement
	if v, ok := pa.kw["align"]; ok {
		name, err := toKeywordString(v)
		if err != nil {
			return p, fmt.Errorf("align: %w", err)
		}
		a, err := solid.ParseAlign(name)
		if err != nil {
			return p, fmt.Errorf("align: %w", err)
		}
		p.Align = &a
	}
	if v, ok := pa.kw["center"]; ok {
		b, err := toBool(v)
		if err != nil {
			return p, fmt.Errorf("center: %w", err)
		}
		p.Center = &b
	}
	if v, ok := pa.kw["orient"]; ok {
		o, err := toOrient(v)
		if err != nil {
			return p, fmt.Errorf("orient: %w", err)
		}
		p.Orient = &o
	}
	return p, nil
}

// optFloat reads an optional numeric keyword argument.
func optFloat(pa kwArgs, key string) (*float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return nil, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &f, nil
}

// optName reads the single optional positional name argument of a
// primitive form.
func optName(pa kwArgs) (string, error) {
	if len(pa.positional) == 0 {
		return "", nil
	}
	if len(pa.positional) > 1 {
		return "", fmt.Errorf("expected at most one positional argument (the name), got %d", len(pa.positional))
	}
	return toString(pa.positional[0])
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// evalState carries the graph under construction plus the ambient
// smoothness settings for one evaluation. Smoothness is rebound by the
// (smoothness ...) form and read, with per-call overrides, by the
// round primitives.
type evalState struct {
	g      *graph.DesignGraph
	smooth solid.Smoothness
	suffix uint64
}

func newEvalState(g *graph.DesignGraph) *evalState {
	return &evalState{g: g, smooth: g.Defaults.Smoothness}
}

// nextSuffix returns a fresh uniquifying suffix so repeated identical
// calls within one evaluation still produce distinct node IDs.
func (st *evalState) nextSuffix() uint64 {
	return atomic.AddUint64(&st.suffix, 1)
}

// addNode hashes the node content, derives its ID, and inserts it.
func (st *evalState) addNode(kind graph.NodeKind, name string, data graph.NodeData, children []graph.NodeID) *graph.Node {
	hash := graph.HashContent(kind, name, data, children)
	n := &graph.Node{
		ID:          graph.NewNodeID(hash, st.nextSuffix()),
		Kind:        kind,
		Name:        name,
		ContentHash: hash,
		Children:    children,
		Data:        data,
	}
	st.g.AddNode(n)
	return n
}

// callSmoothness resolves the smoothness for one primitive call: the
// ambient settings with any :fn / :fa / :fs overrides applied.
func (st *evalState) callSmoothness(pa kwArgs) (solid.Smoothness, error) {
	sm := st.smooth
	if v, ok := pa.kw["fn"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return sm, fmt.Errorf("fn: %w", err)
		}
		if f < 0 {
			return sm, fmt.Errorf("fn is %v, must be non-negative", f)
		}
		sm.FN = int(f)
	}
	if v, ok := pa.kw["fa"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return sm, fmt.Errorf("fa: %w", err)
		}
		if f <= 0 {
			return sm, fmt.Errorf("fa is %v, must be positive", f)
		}
		sm.FA = f
	}
	if v, ok := pa.kw["fs"]; ok {
		f, err := toFloat64(v)
		if err != nil {
			return sm, fmt.Errorf("fs: %w", err)
		}
		if f <= 0 {
			return sm, fmt.Errorf("fs is %v, must be positive", f)
		}
		sm.FS = f
	}
	return sm, nil
}

// checkFreshName rejects a second node with an already-used name.
func (st *evalState) checkFreshName(name string) error {
	if name != "" && st.g.Lookup(name) != nil {
		return fmt.Errorf("a node named %q already exists", name)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all Tenon DSL builtins into a zygomys environment.
// The builtins operate on the evaluation state, populating its DesignGraph
// during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, st *evalState) {

	// -----------------------------------------------------------------------
	// (smoothness :fn 32 :fa 6 :fs 1)
	// Rebinds the ambient circle-approximation settings for the rest of
	// the evaluation. Each field is optional.
	// -----------------------------------------------------------------------
	env.AddFunction("smoothness", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sm := st.smooth

		if v, ok := pa.kw["fn"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("smoothness: fn: %w", err)
			}
			if f < 0 {
				return zygo.SexpNull, fmt.Errorf("smoothness: fn is %v, must be non-negative", f)
			}
			sm.FN = int(f)
		}
		if v, ok := pa.kw["fa"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("smoothness: fa: %w", err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("smoothness: fa is %v, must be positive", f)
			}
			sm.FA = f
		}
		if v, ok := pa.kw["fs"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("smoothness: fs: %w", err)
			}
			if f <= 0 {
				return zygo.SexpNull, fmt.Errorf("smoothness: fs is %v, must be positive", f)
			}
			sm.FS = f
		}

		st.smooth = sm
		st.g.Defaults.Smoothness = sm
		return zygo.SexpNull, nil
	})

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}

		x, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		y, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		z, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}

		return &sexpVec3{vec: solid.Vec3{X: x, Y: y, Z: z}}, nil
	})

	// -----------------------------------------------------------------------
	// (cube "leg" :size (list 40 40 700) :align :bottom :orient :up)
	// Size follows the normalizer rules: a bare number is uniform, two
	// components leave z at the default.
	// -----------------------------------------------------------------------
	env.AddFunction("cube", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		nodeName, err := optName(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}
		if err := st.checkFreshName(nodeName); err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}

		components := []float64{1}
		if v, ok := pa.kw["size"]; ok {
			components, err = toSizeComponents(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
			}
		}
		size, err := solid.ExpandSize(components, 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: size: %w", err)
		}

		placement, err := parsePlacement(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cube: %w", err)
		}

		data := graph.CubeData{
			PrimKind:  graph.PrimCube,
			Size:      size,
			Placement: placement,
		}
		node := st.addNode(graph.NodePrimitive, nodeName, data, nil)
		return &sexpNodeRef{id: node.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder "post" :h 450 :r 15 :fn 60 :align :bottom)
	// (cylinder "spike" :l 80 :r1 12 :r2 0)   ; cone, :l aliases :h
	// Radius precedence per end: r1/r2 over r over d1/d2 over d.
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		nodeName, err := optName(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if err := st.checkFreshName(nodeName); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		spec := prim.CylinderSpec{}
		for _, key := range []string{"h", "height"} {
			if spec.Height == nil {
				if spec.Height, err = optFloat(pa, key); err != nil {
					return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
				}
			}
		}
		for _, key := range []string{"l", "length"} {
			if spec.Length == nil {
				if spec.Length, err = optFloat(pa, key); err != nil {
					return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
				}
			}
		}
		if spec.Radius.R, err = optFloat(pa, "r"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if spec.Radius.D, err = optFloat(pa, "d"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if spec.Radius.R1, err = optFloat(pa, "r1"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if spec.Radius.D1, err = optFloat(pa, "d1"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if spec.Radius.R2, err = optFloat(pa, "r2"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if spec.Radius.D2, err = optFloat(pa, "d2"); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if spec.Smooth, err = st.callSmoothness(pa); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		// Resolve eagerly so configuration errors carry this call's line.
		rc, err := spec.Resolve()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		placement, err := parsePlacement(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}

		data := graph.CylinderData{
			PrimKind:     graph.PrimCylinder,
			Height:       rc.Height,
			BottomRadius: rc.Bottom,
			TopRadius:    rc.Top,
			Segments:     rc.Segments,
			Placement:    placement,
		}
		node := st.addNode(graph.NodePrimitive, nodeName, data, nil)
		return &sexpNodeRef{id: node.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (sphere "knob" :r 20 :fn 48)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		nodeName, err := optName(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if err := st.checkFreshName(nodeName); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		spec := prim.SphereSpec{}
		if spec.Radius.R, err = optFloat(pa, "r"); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if spec.Radius.D, err = optFloat(pa, "d"); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		if spec.Smooth, err = st.callSmoothness(pa); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		rs, err := spec.Resolve()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		placement, err := parsePlacement(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}

		data := graph.SphereData{
			PrimKind:  graph.PrimSphere,
			Radius:    rs.Radius,
			Segments:  rs.Segments,
			Placement: placement,
		}
		node := st.addNode(graph.NodePrimitive, nodeName, data, nil)
		return &sexpNodeRef{id: node.ID, name: nodeName}, nil
	})

	// -----------------------------------------------------------------------
	// (part "leg")
	// -----------------------------------------------------------------------
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}

		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}

		n := st.g.Lookup(partName)
		if n == nil {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}

		return &sexpNodeRef{id: n.ID, name: partName}, nil
	})

	// -----------------------------------------------------------------------
	// (place (part "leg") :at (vec3 0 0 20) :rotate (vec3 0 0 45))
	// Rotation is Euler degrees applied X then Y then Z, before the
	// translation.
	// -----------------------------------------------------------------------
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a part reference as first argument")
		}

		childID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("place: part: %w", err)
		}

		td := graph.TransformData{}
		if v, ok := pa.kw["at"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			td.Translation = &vec
		}
		if v, ok := pa.kw["rotate"]; ok {
			vec, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			td.Rotation = &vec
		}

		node := st.addNode(graph.NodeTransform, "", td, []graph.NodeID{childID})
		return &sexpNodeRef{id: node.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (attach (part "seat") :at :bottom (part "leg") ...)
	// The first positional argument is the parent primitive; remaining
	// positional arguments mount on its named connector with their
	// local +z along the connector direction.
	// -----------------------------------------------------------------------
	env.AddFunction("attach", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("attach requires a parent and at least one child")
		}

		parentID, err := toNodeRef(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("attach: parent: %w", err)
		}
		parent := st.g.Get(parentID)
		if parent == nil {
			return zygo.SexpNull, fmt.Errorf("attach: parent node not found")
		}
		if parent.Kind != graph.NodePrimitive {
			return zygo.SexpNull, fmt.Errorf("attach: parent must be a primitive, got %s", parent.Kind)
		}

		v, ok := pa.kw["at"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("attach requires an :at connector name")
		}
		connector, err := toKeywordString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("attach: at: %w", err)
		}
		if connector == "" {
			return zygo.SexpNull, fmt.Errorf("attach: connector name must not be empty")
		}

		children := []graph.NodeID{parentID}
		for i, child := range pa.positional[1:] {
			id, err := toNodeRef(child)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("attach: child %d: %w", i, err)
			}
			children = append(children, id)
		}

		node := st.addNode(graph.NodeAttach, "", graph.AttachData{Connector: connector}, children)
		return &sexpNodeRef{id: node.ID}, nil
	})

	// -----------------------------------------------------------------------
	// (assembly "stool" :description "three legs" (attach ...) (place ...))
	// -----------------------------------------------------------------------
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name argument")
		}

		asmName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		if err := st.checkFreshName(asmName); err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: %w", err)
		}

		gd := graph.GroupData{}
		if v, ok := pa.kw["description"]; ok {
			gd.Description, err = toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("assembly: description: %w", err)
			}
		}

		var children []graph.NodeID
		for i, arg := range pa.positional[1:] {
			ref, ok := arg.(*sexpNodeRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("assembly: child %d: expected node reference, got %T (%s)",
					i, arg, arg.SexpString(nil))
			}
			children = append(children, ref.id)
		}

		node := st.addNode(graph.NodeGroup, asmName, gd, children)
		st.g.AddRoot(node.ID)
		return &sexpNodeRef{id: node.ID, name: asmName}, nil
	})
}
