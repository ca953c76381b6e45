package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUndoRedo_Empty(t *testing.T) {
	s := New[int](3)

	v, ok := s.Undo(7)
	assert.False(t, ok)
	assert.Zero(t, v)

	v, ok = s.Redo(7)
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, 0, s.UndoLen())
	assert.Equal(t, 0, s.RedoLen())
}

func TestUndoRedo_RoundTrip(t *testing.T) {
	s := New[string](10)
	current := "a"

	s.Record(current)
	current = "b"

	prev, ok := s.Undo(current)
	require.True(t, ok)
	assert.Equal(t, "a", prev)
	assert.True(t, s.CanRedo())
	assert.False(t, s.CanUndo())
	current = prev

	next, ok := s.Redo(current)
	require.True(t, ok)
	assert.Equal(t, "b", next)
	assert.True(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}

func TestRecord_ClearsRedo(t *testing.T) {
	s := New[int](10)
	s.Record(1)
	s.Record(2)

	_, ok := s.Undo(3)
	require.True(t, ok)
	require.Equal(t, 1, s.RedoLen())

	s.Record(2)

	assert.Equal(t, 0, s.RedoLen())
	_, ok = s.Redo(9)
	assert.False(t, ok)
}

func TestRecord_EvictsOldest(t *testing.T) {
	s := New[int](3)
	for i := 1; i <= 5; i++ {
		s.Record(i)
	}

	require.Equal(t, 3, s.UndoLen())

	var got []int
	current := 6
	for s.CanUndo() {
		prev, _ := s.Undo(current)
		got = append(got, prev)
		current = prev
	}
	assert.Equal(t, []int{5, 4, 3}, got)
}

func TestUndoRedo_NeverTrim(t *testing.T) {
	s := New[int](2)
	s.Record(1)
	s.Record(2)

	// Undo everything, then redo everything: the undo side grows back to
	// capacity through Redo without evicting anything.
	c, _ := s.Undo(3)
	c, _ = s.Undo(c)
	assert.Equal(t, 2, s.RedoLen())

	c, _ = s.Redo(c)
	c, _ = s.Redo(c)
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, s.UndoLen())
	assert.Equal(t, 0, s.RedoLen())
}

func TestNew_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, New[int](0).Cap())
	assert.Equal(t, 7, New[int](7).Cap())
}

func TestClear(t *testing.T) {
	s := New[int](5)
	s.Record(1)
	s.Undo(2)
	s.Clear()

	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
}
