package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIDSet_AddAndContains(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	set := NewIDSet(a)
	set.Add(b)
	set.Add(a) // duplicate

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains(a))
	assert.True(t, set.Contains(b))
	assert.False(t, set.Contains(uuid.New()))
	assert.Equal(t, []uuid.UUID{a, b}, set.Values())
}

func TestIDSet_Empty(t *testing.T) {
	set := NewIDSet()
	assert.True(t, set.IsEmpty())
	assert.Equal(t, 0, set.Len())
	assert.False(t, set.Contains(uuid.New()))
}

func TestIDSet_Union(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	left := NewIDSet(a, b)
	right := NewIDSet(b, c)
	union := left.Union(right)

	assert.Equal(t, []uuid.UUID{a, b, c}, union.Values())
	// inputs untouched
	assert.Equal(t, 2, left.Len())
	assert.Equal(t, 2, right.Len())
}

func TestIDSet_Intersect(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	left := NewIDSet(a, b, c)
	right := NewIDSet(c, a)

	// order follows the receiver, not the argument
	assert.Equal(t, []uuid.UUID{a, c}, left.Intersect(right).Values())
	assert.True(t, left.Intersect(NewIDSet()).IsEmpty())
}
