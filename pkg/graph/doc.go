// Package graph defines the design graph types for Tenon.
// The design graph is an immutable DAG of primitives, transforms,
// attachments, and groups that represents a parametric solid design.
package graph
