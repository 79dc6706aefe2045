package session

import (
	"burrow/internal/document"
	"burrow/internal/errors"
	"burrow/internal/observability"
)

// Engine binds the model to its collaborators: the document pool anchors
// resolve through and the configured viewport sizes. Every operation that
// constructs lists or touches document content goes through an Engine; the
// model itself holds no global state.
type Engine struct {
	pool       *document.Pool
	viewHeight int
	listHeight int
}

func NewEngine(pool *document.Pool, viewHeight, listHeight int) *Engine {
	if viewHeight < 1 {
		viewHeight = 1
	}
	if listHeight < 1 {
		listHeight = 1
	}
	return &Engine{pool: pool, viewHeight: viewHeight, listHeight: listHeight}
}

func (e *Engine) Pool() *document.Pool { return e.pool }

// ViewHeight is the number of content lines captured per entry.
func (e *Engine) ViewHeight() int { return e.viewHeight }

// NewSession starts a browsing context anchored at the position the user
// peeked from. The root list carries no symbol; its sole entry marks the
// start of the session.
func (e *Engine) NewSession(origin Tag) *Session {
	a := &arena{}
	entry := a.addEntry(&entryNode{tag: origin})
	root := a.addList(&listNode{
		entries: []EntryID{entry},
		vp:      newViewport(e.listHeight),
	})
	return &Session{arena: a, root: root}
}

// NewLookupSession starts a session whose root is a resolver result
// directly, for peeks that begin at a definition list rather than a
// position. Fails on an empty candidate set.
func (e *Engine) NewLookupSession(symbol string, tags []Tag) (*Session, error) {
	a := &arena{}
	s := &Session{arena: a}
	id, err := e.buildList(a, symbol, tags)
	if err != nil {
		return nil, err
	}
	s.root = id
	return s, nil
}

// PushBranch constructs a definition list from resolver output and
// prepends it to the current entry's branches, then browses into it.
// An empty candidate set fails without mutating anything.
func (e *Engine) PushBranch(s *Session, symbol string, tags []Tag) error {
	cur, err := s.currentList()
	if err != nil {
		return err
	}
	entry := s.arena.entry(cur.entries[cur.index])

	id, err := e.buildList(s.arena, symbol, tags)
	if err != nil {
		return err
	}

	entry.branches = append([]ListID{id}, entry.branches...)
	s.depth++
	observability.BranchesPushed.Inc()
	return nil
}

func (e *Engine) buildList(a *arena, symbol string, tags []Tag) (ListID, error) {
	if len(tags) == 0 {
		return 0, errors.New(errors.CodeValidation, "cannot build a definition list from no candidates")
	}
	entries := make([]EntryID, 0, len(tags))
	for _, tag := range tags {
		entries = append(entries, a.addEntry(&entryNode{tag: tag}))
	}
	return a.addList(&listNode{
		entries: entries,
		symbol:  symbol,
		vp:      newViewport(e.listHeight),
	}), nil
}
