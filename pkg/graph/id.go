package graph

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NodeID is a content-addressed identifier for graph nodes.
type NodeID string

func (id NodeID) String() string { return string(id) }

// IsZero reports whether the ID is unset.
func (id NodeID) IsZero() bool { return id == "" }

// Short returns the leading 8 hex characters for display.
func (id NodeID) Short() string {
	if len(id) <= 8 {
		return string(id)
	}
	return string(id[:8])
}

// ContentHash is the full hash of a node's semantic content. Nodes
// with identical content hash identically across evaluations.
type ContentHash string

// SourceRef records where in the Lisp source a node was created.
type SourceRef struct {
	Line    int    `json:"line,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// HashContent computes the content hash over a node's kind, name,
// payload, and child IDs.
func HashContent(kind NodeKind, name string, data NodeData, children []NodeID) ContentHash {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%#v", kind, name, data)
	for _, c := range children {
		fmt.Fprintf(h, "|%s", c)
	}
	return ContentHash(hex.EncodeToString(h.Sum(nil)))
}

// NewNodeID derives a node ID from a content hash plus a uniquifying
// suffix, so repeated identical calls within one evaluation still
// produce distinct nodes.
func NewNodeID(hash ContentHash, suffix uint64) NodeID {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", hash, suffix)))
	return NodeID(hex.EncodeToString(sum[:]))
}
