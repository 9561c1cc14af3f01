package main

import (
	"context"
	"log"
	"sync"

	"github.com/chazu/tenon/pkg/engine"
	"github.com/chazu/tenon/pkg/graph"
	"github.com/chazu/tenon/pkg/kernel"
	"github.com/chazu/tenon/pkg/kernel/sdfx"
	"github.com/chazu/tenon/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to parts.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	kernel kernel.Kernel
	tess   *tessellate.Tessellator

	mu    sync.Mutex
	parts []tessellate.Part // from the most recent successful Evaluate
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// ConnectorData is a JSON-serializable connector frame for the frontend.
type ConnectorData struct {
	Name      string     `json:"name"`
	Position  [3]float64 `json:"position"`
	Direction [3]float64 `json:"direction"`
	Roll      float64    `json:"roll"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with an engine and the sdfx kernel,
// configured from tenon.toml when present.
func NewApp() *App {
	settings, err := LoadSettings(settingsFile)
	if err != nil {
		log.Printf("settings: %v (using defaults)", err)
	}

	k := &sdfx.SdfxKernel{MeshCells: settings.MeshCells}
	eng := engine.NewEngine()
	eng.Smoothness = settings.Smoothness

	return &App{
		engine: eng,
		kernel: k,
		tess:   tessellate.New(k),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Evaluate takes Lisp source and returns mesh data + errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into a design graph.
	g, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: err.Error(),
		})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Validate the graph. Errors block tessellation;
	// warnings (degenerate geometry, orphan nodes) are passed along.
	validation := graph.ValidateAll(g)
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if len(validation.Errors) > 0 {
		for _, e := range validation.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Message: e.Message})
		}
		return result
	}

	// Step 4: Tessellate the design graph into triangle meshes.
	parts, err := a.tess.Tessellate(g)
	if err != nil {
		log.Printf("Tessellate error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    0,
			Col:     0,
			Message: "tessellation failed: " + err.Error(),
		})
		return result
	}

	a.mu.Lock()
	a.parts = parts
	a.mu.Unlock()

	// Step 5: Convert kernel meshes to the frontend MeshData format.
	for i, p := range parts {
		color := colorPalette[i%len(colorPalette)]
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: p.Mesh.Vertices,
			Normals:  p.Mesh.Normals,
			Indices:  p.Mesh.Indices,
			PartName: p.Name,
			Color:    color,
		})
	}

	return result
}

// Connectors returns the world-space connector frames of one part from
// the most recent evaluation, for the frontend's attachment overlay.
func (a *App) Connectors(partName string) []ConnectorData {
	a.mu.Lock()
	parts := a.parts
	a.mu.Unlock()

	out := []ConnectorData{}
	for _, p := range parts {
		if p.Name != partName {
			continue
		}
		for name, c := range p.Connectors {
			out = append(out, ConnectorData{
				Name:      name,
				Position:  c.Position.Array(),
				Direction: c.Direction.Array(),
				Roll:      c.Roll,
			})
		}
	}
	return out
}
