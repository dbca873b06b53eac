package utils

import (
	"iter"

	"github.com/oomph-ac/grasp/oerror"
)

// Ring is a fixed-capacity FIFO that overwrites its oldest element once full.
type Ring[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

// NewRing returns a Ring able to hold capacity elements.
func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends an item, dropping the oldest one if the ring is full. An error is returned if the ring
// has zero capacity.
func (r *Ring[T]) Push(item T) error {
	if len(r.items) == 0 {
		return oerror.New("ring: push on zero-capacity ring")
	}
	r.items[r.tail] = item
	if r.size == len(r.items) {
		r.head = (r.head + 1) % len(r.items)
	} else {
		r.size++
	}
	r.tail = (r.tail + 1) % len(r.items)
	return nil
}

// At returns the element at logical position index (0 = oldest).
func (r *Ring[T]) At(index int) (T, bool) {
	var zero T
	if index < 0 || index >= r.size {
		return zero, false
	}
	return r.items[(r.head+index)%len(r.items)], true
}

// Newest returns the most recently pushed element.
func (r *Ring[T]) Newest() (T, bool) {
	return r.At(r.size - 1)
}

// All iterates over the elements from oldest to newest.
func (r *Ring[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range r.size {
			if !yield(r.items[(r.head+index)%len(r.items)]) {
				return
			}
		}
	}
}

// Len returns the number of elements currently held.
func (r *Ring[T]) Len() int {
	return r.size
}

// Clear drops all elements.
func (r *Ring[T]) Clear() {
	r.head, r.tail, r.size = 0, 0, 0
}
