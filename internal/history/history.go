// Package history provides a bounded undo/redo stack of snapshots.
package history

// DefaultCapacity is the undo depth used when New is given a non-positive
// capacity.
const DefaultCapacity = 50

// Stack keeps undo and redo snapshots. The undo side is bounded: recording
// beyond capacity evicts the oldest snapshot. The redo side is cleared by
// every Record and is never trimmed.
//
// Snapshots are stored as given; callers must not mutate a value after
// handing it to the stack.
type Stack[T any] struct {
	undo     []T
	redo     []T
	capacity int
}

// New creates an empty stack that keeps at most capacity undo snapshots.
func New[T any](capacity int) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[T]{capacity: capacity}
}

// Record pushes the pre-mutation value onto the undo side and invalidates
// any redo history. Call it before applying a new edit.
func (s *Stack[T]) Record(current T) {
	s.undo = append(s.undo, current)
	if len(s.undo) > s.capacity {
		// Shift rather than reslice so the evicted snapshot is released.
		var zero T
		copy(s.undo, s.undo[1:])
		s.undo[len(s.undo)-1] = zero
		s.undo = s.undo[:len(s.undo)-1]
	}
	s.clearRedo()
}

// Undo pops the most recent snapshot and moves current onto the redo side.
// It reports false and leaves the stack untouched when there is nothing to
// undo.
func (s *Stack[T]) Undo(current T) (T, bool) {
	prev, ok := pop(&s.undo)
	if !ok {
		return prev, false
	}
	s.redo = append(s.redo, current)
	return prev, true
}

// Redo pops the most recently undone snapshot and moves current back onto
// the undo side. Redo never evicts.
func (s *Stack[T]) Redo(current T) (T, bool) {
	next, ok := pop(&s.redo)
	if !ok {
		return next, false
	}
	s.undo = append(s.undo, current)
	return next, true
}

// CanUndo reports whether Undo would change anything.
func (s *Stack[T]) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would change anything.
func (s *Stack[T]) CanRedo() bool { return len(s.redo) > 0 }

// UndoLen returns the number of undo snapshots held.
func (s *Stack[T]) UndoLen() int { return len(s.undo) }

// RedoLen returns the number of redo snapshots held.
func (s *Stack[T]) RedoLen() int { return len(s.redo) }

// Cap returns the undo capacity.
func (s *Stack[T]) Cap() int { return s.capacity }

// Clear drops all snapshots.
func (s *Stack[T]) Clear() {
	s.undo = nil
	s.redo = nil
}

func (s *Stack[T]) clearRedo() {
	clear(s.redo)
	s.redo = s.redo[:0]
}

func pop[T any](items *[]T) (T, bool) {
	var zero T
	n := len(*items)
	if n == 0 {
		return zero, false
	}
	v := (*items)[n-1]
	(*items)[n-1] = zero
	*items = (*items)[:n-1]
	return v, true
}
