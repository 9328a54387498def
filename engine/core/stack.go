package core

// StateStack is the LIFO of active states; the last entry is the top.
type StateStack struct{ list []GameState }

func (s *StateStack) Len() int         { return len(s.list) }
func (s *StateStack) Empty() bool      { return len(s.list) == 0 }
func (s *StateStack) Push(g GameState) { s.list = append(s.list, g) }

func (s *StateStack) Pop() (GameState, bool) {
	if len(s.list) == 0 {
		return nil, false
	}
	i := len(s.list) - 1
	g := s.list[i]
	s.list[i] = nil
	s.list = s.list[:i]
	return g, true
}

func (s *StateStack) Top() (GameState, bool) {
	if len(s.list) == 0 {
		return nil, false
	}
	return s.list[len(s.list)-1], true
}

// ReplaceTop swaps the top entry in place and returns the old one.
func (s *StateStack) ReplaceTop(g GameState) (GameState, bool) {
	if len(s.list) == 0 {
		return nil, false
	}
	i := len(s.list) - 1
	old := s.list[i]
	s.list[i] = g
	return old, true
}

// Each visits entries bottom to top. Entries pushed during the walk are
// not visited.
func (s *StateStack) Each(f func(GameState)) {
	n := len(s.list)
	for i := 0; i < n && i < len(s.list); i++ {
		f(s.list[i])
	}
}

// Snapshot returns a copy of the entries, bottom to top.
func (s *StateStack) Snapshot() []GameState {
	out := make([]GameState, len(s.list))
	copy(out, s.list)
	return out
}
