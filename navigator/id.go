package navigator

import "fmt"

// CompositeID addresses one tree node across every index a navigator has
// loaded. The node identifier occupies the high 32 bits and the top-level
// identifier the low 32 bits, so an identifier from one session never
// collides with another as long as top-level identifiers are not reused.
type CompositeID uint64

// NewCompositeID combines a top-level identifier and a node identifier.
func NewCompositeID(topLevelID, nodeID uint32) CompositeID {
	return CompositeID(uint64(nodeID)<<32 | uint64(topLevelID))
}

// TopLevelID returns the identifier of the owning index.
func (id CompositeID) TopLevelID() uint32 {
	return uint32(id)
}

// NodeID returns the node identifier within the owning index.
func (id CompositeID) NodeID() uint32 {
	return uint32(id >> 32)
}

// String returns the "<topLevel>.<node>" form.
func (id CompositeID) String() string {
	return fmt.Sprintf("%d.%d", id.TopLevelID(), id.NodeID())
}
