package stack

type Stack[T any] struct {
	a []T
	l int
}

// NewStack creates a new stack instance
func NewStack[T any](elm ...T) *Stack[T] {
	stack := Stack[T]{
		a: make([]T, 0, len(elm)),
		l: 0,
	}

	for _, e := range elm {
		stack.l++
		stack.a = append(stack.a, e)
	}

	return &stack
}

// Push adds elements to the top of the stack, last one on top
func (s *Stack[T]) Push(elm ...T) {
	s.l += len(elm)
	s.a = append(s.a, elm...)
}

// Pop removes and returns the top element of the stack.
// ok is false when the stack is empty.
func (s *Stack[T]) Pop() (elm T, ok bool) {
	if s.l < 1 {
		return elm, false
	}

	s.l--
	elm = s.a[s.l]
	var zero T
	s.a[s.l] = zero
	s.a = s.a[:s.l]

	return elm, true
}

// PopN removes the top n elements and returns them bottom-first, so the
// former top of stack is the last element. Nothing is removed when fewer
// than n elements are present.
func (s *Stack[T]) PopN(n int) ([]T, bool) {
	if n < 0 || s.l < n {
		return nil, false
	}

	out := make([]T, n)
	copy(out, s.a[s.l-n:s.l])
	clear(s.a[s.l-n : s.l])
	s.l -= n
	s.a = s.a[:s.l]

	return out, true
}

// Peek returns the top element of the stack without removing it
func (s *Stack[T]) Peek() (elm T, ok bool) {
	if s.l < 1 {
		return elm, false
	}

	return s.a[s.l-1], true
}

// Get the size of the stack
func (s *Stack[T]) Size() int {
	return s.l
}

// Array returns the underlying array of the stack, bottom first
func (s Stack[T]) Array() []T {
	return s.a
}
