package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStack(t *testing.T) {
	var log []string
	a, b, c := newRec("a", &log), newRec("b", &log), newRec("c", &log)

	var s StateStack
	assert.True(t, s.Empty())
	_, ok := s.Pop()
	assert.False(t, ok)
	_, ok = s.ReplaceTop(a)
	assert.False(t, ok)

	s.Push(a)
	s.Push(b)
	top, _ := s.Top()
	assert.Same(t, b, top)
	assert.Equal(t, 2, s.Len())

	old, ok := s.ReplaceTop(c)
	assert.True(t, ok)
	assert.Same(t, b, old)
	assert.Equal(t, []string{"a", "c"}, names(s.Snapshot()))

	popped, _ := s.Pop()
	assert.Same(t, c, popped)
	assert.Equal(t, []string{"a"}, names(s.Snapshot()))
}

func TestStateStackEachSkipsPushedDuringWalk(t *testing.T) {
	var log []string
	var s StateStack
	s.Push(newRec("a", &log))
	s.Push(newRec("b", &log))

	var seen []string
	s.Each(func(g GameState) {
		seen = append(seen, g.(*recState).name)
		if len(seen) == 1 {
			s.Push(newRec("c", &log))
		}
	})
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, 3, s.Len())
}
