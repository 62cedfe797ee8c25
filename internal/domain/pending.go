package domain

import "time"

// PendingItem is a unit of outbound content awaiting publication. Rows are
// produced by an upstream generator; this service only selects, publishes
// and marks them. Once Posted is true the item is never touched again.
type PendingItem struct {
	ID        int64
	Parts     []string // Ordered thread parts, first part opens the thread
	Posted    bool
	CreatedAt time.Time
}
