// Package ace assigns shortest unambiguous key sequences to on-screen
// candidates and resolves keystrokes incrementally to a single pick. The
// selector is a pure state machine; the caller owns the input loop and
// the overlay rendering.
package ace

import (
	"burrow/internal/errors"
	"burrow/internal/observability"
)

// Outcome of one keystroke step.
type Outcome int

const (
	// Pending means more keystrokes are needed.
	Pending Outcome = iota
	// Selected means exactly one candidate was picked.
	Selected
	// Cancelled means a cancel key aborted the selection.
	Cancelled
	// Invalid means the keystroke matched nothing and state is unchanged.
	Invalid
)

// SequenceLength returns how many keystrokes each of n candidates needs
// with an alphabet of k keys: the smallest L with k^L >= n, with the two
// degenerate cases pinned to 0 and 1.
func SequenceLength(n, k int) int {
	switch {
	case n <= 0:
		return 0
	case n == 1:
		return 1
	}
	length := 0
	for span := 1; span < n; span *= k {
		length++
	}
	return length
}

// Assign builds n distinct sequences of equal length over the alphabet,
// as a balanced k-ary counting scheme in candidate order: sequence i's
// digit at position p is alphabet[(i / k^(L-1-p)) mod k]. Every typed
// prefix therefore partitions the remaining candidates evenly.
func Assign(n int, alphabet []rune) ([][]rune, error) {
	if n < 0 {
		return nil, errors.New(errors.CodeValidation, "negative candidate count")
	}
	if n == 0 {
		return nil, nil
	}
	if err := checkAlphabet(alphabet); err != nil {
		return nil, err
	}
	k := len(alphabet)
	if n > 1 && k < 2 {
		return nil, errors.New(errors.CodeValidation, "ace alphabet needs at least two keys")
	}

	length := SequenceLength(n, k)
	seqs := make([][]rune, n)
	for i := 0; i < n; i++ {
		seq := make([]rune, length)
		div := 1
		for p := length - 1; p >= 0; p-- {
			seq[p] = alphabet[(i/div)%k]
			div *= k
		}
		seqs[i] = seq
	}
	return seqs, nil
}

func checkAlphabet(alphabet []rune) error {
	if len(alphabet) == 0 {
		return errors.New(errors.CodeValidation, "empty ace alphabet")
	}
	seen := make(map[rune]bool, len(alphabet))
	for _, r := range alphabet {
		if seen[r] {
			return errors.Newf(errors.CodeValidation, "duplicate ace key %q", r)
		}
		seen[r] = true
	}
	return nil
}

// Selector resolves keystrokes against assigned sequences. Eliminated
// candidates hold a nil remaining sequence.
type Selector struct {
	alphabet  map[rune]bool
	cancel    map[rune]bool
	remaining [][]rune
	done      bool
}

func NewSelector(n int, alphabet, cancelKeys []rune) (*Selector, error) {
	seqs, err := Assign(n, alphabet)
	if err != nil {
		return nil, err
	}
	s := &Selector{
		alphabet:  make(map[rune]bool, len(alphabet)),
		cancel:    make(map[rune]bool, len(cancelKeys)),
		remaining: seqs,
	}
	for _, r := range alphabet {
		s.alphabet[r] = true
	}
	for _, r := range cancelKeys {
		s.cancel[r] = true
	}
	return s, nil
}

// Step consumes one keystroke. On Selected the second return value is the
// picked candidate's index; otherwise it is -1. After Selected or
// Cancelled the selector is finished and further steps are Invalid.
func (s *Selector) Step(key rune) (Outcome, int) {
	if s.done {
		return Invalid, -1
	}
	if s.cancel[key] {
		s.done = true
		observability.AceSelections.WithLabelValues("cancelled").Inc()
		return Cancelled, -1
	}
	if !s.alphabet[key] {
		return Invalid, -1
	}

	// A key that would eliminate every live candidate matched nothing:
	// treat it as invalid input rather than stranding the selection.
	survivors := 0
	for _, seq := range s.remaining {
		if len(seq) > 0 && seq[0] == key {
			survivors++
		}
	}
	if survivors == 0 {
		return Invalid, -1
	}

	alive, last := 0, -1
	for i, seq := range s.remaining {
		if seq == nil {
			continue
		}
		if seq[0] != key {
			s.remaining[i] = nil
			continue
		}
		s.remaining[i] = seq[1:]
		alive++
		last = i
	}

	if alive == 1 && len(s.remaining[last]) == 0 {
		s.done = true
		observability.AceSelections.WithLabelValues("selected").Inc()
		return Selected, last
	}
	return Pending, -1
}

// Remaining returns candidate i's still-untyped sequence, nil when the
// candidate has been eliminated. Renderers tag candidates with this.
func (s *Selector) Remaining(i int) []rune {
	if i < 0 || i >= len(s.remaining) {
		return nil
	}
	return s.remaining[i]
}

// Alive reports whether candidate i is still selectable.
func (s *Selector) Alive(i int) bool {
	return i >= 0 && i < len(s.remaining) && s.remaining[i] != nil
}

// Done reports whether the selection has terminated.
func (s *Selector) Done() bool { return s.done }

// Candidates returns the candidate count the selector was built over.
func (s *Selector) Candidates() int { return len(s.remaining) }
