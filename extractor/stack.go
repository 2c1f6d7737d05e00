package extractor

// stack is the open-element stack discipline both element families share:
// O(1) push/pop/peek and top-down search for the nearest enclosing frame of
// a kind, which several finalizers need.
type stack[T any] struct {
	items []T
}

func (s *stack[T]) push(v T) {
	s.items = append(s.items, v)
}

func (s *stack[T]) pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	v := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return v, true
}

func (s *stack[T]) peek() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// find scans from the top and returns the first frame the predicate accepts.
func (s *stack[T]) find(pred func(T) bool) (T, bool) {
	for i := len(s.items) - 1; i >= 0; i-- {
		if pred(s.items[i]) {
			return s.items[i], true
		}
	}
	var zero T
	return zero, false
}

// all returns the frames bottom-up. Callers must not retain the slice across
// pushes.
func (s *stack[T]) all() []T { return s.items }

func (s *stack[T]) len() int { return len(s.items) }
