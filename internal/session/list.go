package session

import (
	"burrow/internal/errors"
)

// Operations over the currently browsed definition list: cursor movement
// with modulo wrap-around and reordering with cyclic reinsertion. All of
// them keep the cached viewport containing the cursor by the minimum
// shift, never by recentering.

// CurrentSymbol returns the symbol that produced the current list, "" for
// the session-start root.
func (s *Session) CurrentSymbol() (string, error) {
	l, err := s.currentList()
	if err != nil {
		return "", err
	}
	return l.symbol, nil
}

// CurrentTag returns the location of the current entry.
func (s *Session) CurrentTag() (Tag, error) {
	l, err := s.currentList()
	if err != nil {
		return Tag{}, err
	}
	return s.arena.entry(l.entries[l.index]).tag, nil
}

// IndexForward moves the cursor n entries forward (negative n moves
// backward), wrapping modulo the list length.
func (s *Session) IndexForward(n int) error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	total := len(l.entries)
	l.index = ((l.index+n)%total + total) % total
	l.vp.contain(l.index, total)
	return nil
}

// MoveCurrentUp swaps the current entry one position earlier, wrapping
// from the first position to the end. The cursor follows the entry.
func (s *Session) MoveCurrentUp() error {
	return s.reinsertCurrent(func(idx, total int) int {
		if idx == 0 {
			return total - 1
		}
		return idx - 1
	})
}

// MoveCurrentDown swaps the current entry one position later, wrapping
// from the last position to the front.
func (s *Session) MoveCurrentDown() error {
	return s.reinsertCurrent(func(idx, total int) int {
		if idx == total-1 {
			return 0
		}
		return idx + 1
	})
}

// MakeCurrentFirst moves the current entry to the front of the list.
func (s *Session) MakeCurrentFirst() error {
	return s.reinsertCurrent(func(int, int) int { return 0 })
}

func (s *Session) reinsertCurrent(target func(idx, total int) int) error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	total := len(l.entries)
	id := l.entries[l.index]

	rest := append(append([]EntryID{}, l.entries[:l.index]...), l.entries[l.index+1:]...)
	to := target(l.index, total)
	l.entries = append(rest[:to], append([]EntryID{id}, rest[to:]...)...)
	l.index = to
	l.vp.contain(l.index, total)
	return nil
}

// VisibleEntries returns the window of entries the renderer should show,
// selection and branch markers included.
func (s *Session) VisibleEntries() ([]EntryView, error) {
	l, err := s.currentList()
	if err != nil {
		return nil, err
	}
	start, end := l.vp.bounds(len(l.entries))
	views := make([]EntryView, 0, end-start+1)
	for i := start; i <= end; i++ {
		en := s.arena.entry(l.entries[i])
		views = append(views, EntryView{
			ID:          l.entries[i],
			Tag:         en.tag,
			Selected:    i == l.index,
			HasBranches: len(en.branches) > 0,
			Branches:    len(en.branches),
		})
	}
	return views, nil
}

// ListLength returns the size of the current list.
func (s *Session) ListLength() (int, error) {
	l, err := s.currentList()
	if err != nil {
		return 0, err
	}
	return len(l.entries), nil
}

// CurrentIndex returns the cursor position inside the current list.
func (s *Session) CurrentIndex() (int, error) {
	l, err := s.currentList()
	if err != nil {
		return 0, err
	}
	return l.index, nil
}

// ViewportBounds exposes the current window range for tests and renderers
// that show scroll indicators.
func (s *Session) ViewportBounds() (int, int, error) {
	l, err := s.currentList()
	if err != nil {
		return 0, 0, err
	}
	start, end := l.vp.bounds(len(l.entries))
	return start, end, nil
}

func (s *Session) currentList() (*listNode, error) {
	id, err := s.currentListID()
	if err != nil {
		return nil, err
	}
	return s.arena.list(id), nil
}

func (s *Session) currentListID() (ListID, error) {
	id := s.root
	for i := 0; i < s.depth; i++ {
		l := s.arena.list(id)
		en := s.arena.entry(l.entries[l.index])
		if len(en.branches) == 0 {
			// Depth gating makes this unreachable; reaching it means a
			// branch was removed under our feet.
			return 0, errors.New(errors.CodeInternal, "branch missing at browsed depth")
		}
		id = en.branches[0]
	}
	return id, nil
}
