package graph

import "github.com/chazu/tenon/pkg/solid"

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimCube     PrimitiveKind = iota // rectangular solid
	PrimCylinder                      // cylinder or cone
	PrimSphere                        // sphere
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimCube:
		return "cube"
	case PrimCylinder:
		return "cylinder"
	case PrimSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Placement carries the alignment and orientation arguments shared by
// every primitive payload. Nil fields mean "use the primitive's
// default"; Center, when present, supersedes Align.
type Placement struct {
	Align  *solid.Align  `json:"align,omitempty"`
	Center *bool         `json:"center,omitempty"`
	Orient *solid.Orient `json:"orient,omitempty"`
}

// CubeData represents a rectangular solid. Size components are
// already normalized; zero components are permitted and produce a
// degenerate solid.
type CubeData struct {
	PrimKind  PrimitiveKind `json:"prim_kind"`
	Size      solid.Vec3    `json:"size"`
	Placement Placement     `json:"placement"`
}

func (CubeData) nodeData() {}

// CylinderData represents a cylinder or cone along its own z axis.
// Radii are already resolved per end; equal radii mean a straight
// cylinder. Segments is the resolved tessellation count.
type CylinderData struct {
	PrimKind     PrimitiveKind `json:"prim_kind"`
	Height       float64       `json:"height"`
	BottomRadius float64       `json:"bottom_radius"`
	TopRadius    float64       `json:"top_radius"`
	Segments     int           `json:"segments"`
	Placement    Placement     `json:"placement"`
}

func (CylinderData) nodeData() {}

// SphereData represents a sphere.
type SphereData struct {
	PrimKind  PrimitiveKind `json:"prim_kind"`
	Radius    float64       `json:"radius"`
	Segments  int           `json:"segments"`
	Placement Placement     `json:"placement"`
}

func (SphereData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to the
// node's children. Created by the (place ...) Lisp form. Rotation is
// Euler angles in degrees, applied X then Y then Z, before the
// translation.
type TransformData struct {
	Translation *solid.Vec3 `json:"translation,omitempty"`
	Rotation    *solid.Vec3 `json:"rotation,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Attach
// ---------------------------------------------------------------------------

// AttachData mounts child nodes onto a named connector of a parent
// primitive. Created by the (attach ...) Lisp form. The first child
// is the parent; remaining children are placed at the connector with
// their local +z aligned to the connector direction.
type AttachData struct {
	Connector string `json:"connector"`
}

func (AttachData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a logical grouping (assembly, subassembly).
// Created by the (assembly ...) Lisp form.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
