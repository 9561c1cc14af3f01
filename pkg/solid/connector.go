package solid

// Connector is a named attachment frame published by a placed solid:
// a position, an outward direction, and a roll angle about that
// direction, all expressed in the solid's final (post-transform)
// frame. Downstream tooling uses connectors to attach further geometry
// precisely; this package only produces them.
type Connector struct {
	Position  Vec3    `json:"position"`
	Direction Vec3    `json:"direction"`
	Roll      float64 `json:"roll"` // radians about Direction
}
