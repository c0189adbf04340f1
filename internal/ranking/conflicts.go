package ranking

import "github.com/eventkit/eventkit/internal/types"

// slotKey is the composite (start, end) identity used for conflict grouping.
// Slots are compared as opaque strings; overlapping-but-different ranges do
// not conflict.
type slotKey struct {
	start string
	end   string
}

// CountConflicts returns the number of (start, end) slots shared by more
// than one session. A slot with three colliding sessions counts once.
func CountConflicts(sessions []types.Session) int {
	slots := make(map[slotKey]int)
	for _, s := range sessions {
		slots[slotKey{start: s.Start, end: s.End}]++
	}

	conflicts := 0
	for _, n := range slots {
		if n > 1 {
			conflicts++
		}
	}
	return conflicts
}
