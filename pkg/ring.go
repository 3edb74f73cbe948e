package trigger

// ring is a fixed-capacity circular buffer. Pushing into a full ring
// overwrites the oldest element.
type ring[T any] struct {
	data   []T
	cursor int
	size   int
}

func newRing[T any](capacity int) *ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &ring[T]{data: make([]T, capacity)}
}

func (r *ring[T]) Push(value T) {
	r.data[r.cursor] = value
	r.cursor = (r.cursor + 1) % len(r.data)
	if r.size < len(r.data) {
		r.size++
	}
}

func (r *ring[T]) Len() int {
	return r.size
}

func (r *ring[T]) Cap() int {
	return len(r.data)
}

// Each visits the stored elements from the most recent to the oldest.
// Iteration stops when f returns false.
func (r *ring[T]) Each(f func(value *T) bool) {
	for i := 1; i <= r.size; i++ {
		index := (r.cursor - i + len(r.data)) % len(r.data)
		if !f(&r.data[index]) {
			return
		}
	}
}

// Filter keeps only the elements for which keep returns true, preserving
// their order.
func (r *ring[T]) Filter(keep func(value T) bool) {
	kept := make([]T, 0, r.size)
	for i := r.size; i >= 1; i-- {
		index := (r.cursor - i + len(r.data)) % len(r.data)
		if keep(r.data[index]) {
			kept = append(kept, r.data[index])
		}
	}
	r.Reset()
	for _, value := range kept {
		r.Push(value)
	}
}

func (r *ring[T]) Reset() {
	var zero T
	for i := range r.data {
		r.data[i] = zero
	}
	r.cursor = 0
	r.size = 0
}
