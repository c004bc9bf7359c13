package stack_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"pyvm/pkg/stack"
)

func TestPushPop(t *testing.T) {
	s := stack.NewStack(1, 2)
	s.Push(3, 4)

	if s.Size() != 4 {
		t.Fatalf("expected size 4, got %d", s.Size())
	}
	if top, _ := s.Peek(); top != 4 {
		t.Errorf("expected 4 on top, got %d", top)
	}

	for _, expected := range []int{4, 3, 2, 1} {
		got, ok := s.Pop()
		if !ok || got != expected {
			t.Errorf("expected %d, got %d (ok=%v)", expected, got, ok)
		}
	}

	if _, ok := s.Pop(); ok {
		t.Errorf("expected pop on empty stack to fail")
	}
	if _, ok := s.Peek(); ok {
		t.Errorf("expected peek on empty stack to fail")
	}
}

func TestPopN(t *testing.T) {
	s := stack.NewStack("a", "b", "c", "d")

	got, ok := s.PopN(3)
	if !ok {
		t.Fatal("expected PopN(3) to succeed")
	}
	if diff := cmp.Diff([]string{"b", "c", "d"}, got); diff != "" {
		t.Errorf("PopN mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a"}, s.Array()); diff != "" {
		t.Errorf("remaining mismatch (-want +got):\n%s", diff)
	}

	if _, ok := s.PopN(2); ok {
		t.Errorf("expected PopN past the bottom to fail")
	}
	if s.Size() != 1 {
		t.Errorf("failed PopN must leave the stack untouched, size %d", s.Size())
	}

	if got, ok := s.PopN(0); !ok || len(got) != 0 {
		t.Errorf("expected PopN(0) to return nothing, got %v", got)
	}
}
