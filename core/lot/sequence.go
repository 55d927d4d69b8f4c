package lot

import (
	"fmt"
	"sync/atomic"
)

// Sequence hands out monotonically increasing prefixed identifiers. Ids
// are never reused or recycled. Safe for concurrent use; independent of
// any table lock so lots can mint ids while collections are contended.
type Sequence struct {
	prefix string
	n      atomic.Uint64
}

// NewSequence creates a Sequence producing "<prefix><n>" identifiers
// starting at zero.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// Next returns the next identifier in the sequence.
func (s *Sequence) Next() string {
	return fmt.Sprintf("%s%d", s.prefix, s.n.Add(1)-1)
}
