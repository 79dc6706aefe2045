package session

import (
	"burrow/internal/errors"
)

// Tree navigation: depth changes, branch rotation and branch deletion.
// Depth only ever moves along branch-0 hops, and every move is gated so
// the walk in currentListID cannot fall off the tree.

// ChainForward browses one hop deeper, into the current entry's active
// branch. It is a caller-visible error when the entry has no branches.
func (s *Session) ChainForward() error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	en := s.arena.entry(l.entries[l.index])
	if len(en.branches) == 0 {
		return errors.New(errors.CodeValidation, "current entry has no branch to follow")
	}
	s.depth++
	// Recompute the revealed list's viewport around its cursor.
	revealed := s.arena.list(en.branches[0])
	revealed.vp.contain(revealed.index, len(revealed.entries))
	return nil
}

// ChainBackward browses one hop back towards the root.
func (s *Session) ChainBackward() error {
	if s.depth == 0 {
		return errors.New(errors.CodeValidation, "already at the session root")
	}
	s.depth--
	l, err := s.currentList()
	if err != nil {
		return err
	}
	l.vp.contain(l.index, len(l.entries))
	return nil
}

// NextBranch rotates the current entry's branches so the next child list
// becomes the active one. Depth does not change; this only redirects what
// subsequent ChainForward calls reveal.
func (s *Session) NextBranch() error {
	return s.rotateBranches(func(b []ListID) []ListID {
		return append(b[1:], b[0])
	})
}

// PrevBranch rotates the last branch back to the front.
func (s *Session) PrevBranch() error {
	return s.rotateBranches(func(b []ListID) []ListID {
		return append([]ListID{b[len(b)-1]}, b[:len(b)-1]...)
	})
}

func (s *Session) rotateBranches(rotate func([]ListID) []ListID) error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	en := s.arena.entry(l.entries[l.index])
	if len(en.branches) == 0 {
		return errors.New(errors.CodeValidation, "current entry has no branches")
	}
	if len(en.branches) > 1 {
		en.branches = rotate(en.branches)
	}
	return nil
}

// DeleteFirstBranch drops the current entry's active branch. Confirmation
// is the caller's concern; this performs unconditionally.
func (s *Session) DeleteFirstBranch() error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	en := s.arena.entry(l.entries[l.index])
	if len(en.branches) == 0 {
		return errors.New(errors.CodeValidation, "current entry has no branches")
	}
	en.branches = en.branches[1:]
	s.clampDepth()
	return nil
}

// DeleteAllBranches drops every branch under the current entry.
func (s *Session) DeleteAllBranches() error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	en := s.arena.entry(l.entries[l.index])
	en.branches = nil
	s.clampDepth()
	return nil
}

// clampDepth walks from the root and caps depth at the deepest hop for
// which a branch-0 still exists. Deletions happen below the browsed
// entry, so this normally leaves depth unchanged; it exists so a removed
// branch can never strand the session.
func (s *Session) clampDepth() {
	id := s.root
	reachable := 0
	for reachable < s.depth {
		l := s.arena.list(id)
		en := s.arena.entry(l.entries[l.index])
		if len(en.branches) == 0 {
			break
		}
		id = en.branches[0]
		reachable++
	}
	s.depth = reachable
}

// HasBranches reports whether the current entry can be chained into.
func (s *Session) HasBranches() (bool, error) {
	l, err := s.currentList()
	if err != nil {
		return false, err
	}
	return len(s.arena.entry(l.entries[l.index]).branches) > 0, nil
}

// Chain returns the symbol chain from the root down to the current depth,
// for the renderer's breadcrumb line.
func (s *Session) Chain() ([]ChainLink, error) {
	links := make([]ChainLink, 0, s.depth+1)
	id := s.root
	for level := 0; ; level++ {
		l := s.arena.list(id)
		en := s.arena.entry(l.entries[l.index])
		links = append(links, ChainLink{
			Symbol:    l.symbol,
			Active:    level == s.depth,
			Branching: len(en.branches) > 1,
		})
		if level == s.depth {
			return links, nil
		}
		if len(en.branches) == 0 {
			return nil, errors.New(errors.CodeInternal, "branch missing at browsed depth")
		}
		id = en.branches[0]
	}
}
