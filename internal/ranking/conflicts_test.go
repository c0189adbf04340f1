package ranking

import (
	"testing"

	"github.com/eventkit/eventkit/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCountConflicts_GroupOfThreeCountsOnce(t *testing.T) {
	sessions := []types.Session{
		{Title: "A", Start: "10:00", End: "11:00"},
		{Title: "B", Start: "10:00", End: "11:00"},
		{Title: "C", Start: "10:00", End: "11:00"},
	}

	assert.Equal(t, 1, CountConflicts(sessions))
}

func TestCountConflicts_OverlappingRangesDoNotConflict(t *testing.T) {
	// Slot identity is the exact (start, end) pair, not a time range.
	sessions := []types.Session{
		{Title: "A", Start: "10:00", End: "11:00"},
		{Title: "B", Start: "10:30", End: "11:30"},
	}

	assert.Equal(t, 0, CountConflicts(sessions))
}

func TestCountConflicts_MultipleGroups(t *testing.T) {
	sessions := []types.Session{
		{Title: "A", Start: "9:00", End: "10:00"},
		{Title: "B", Start: "9:00", End: "10:00"},
		{Title: "C", Start: "11:00", End: "12:00"},
		{Title: "D", Start: "11:00", End: "12:00"},
		{Title: "E", Start: "13:00", End: "14:00"},
	}

	assert.Equal(t, 2, CountConflicts(sessions))
}

func TestCountConflicts_Empty(t *testing.T) {
	assert.Equal(t, 0, CountConflicts(nil))
}
