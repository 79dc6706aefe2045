// Package session implements the browsing model: definition lists holding
// candidate definitions, entries holding branch history, and sessions
// addressing a tree of both through a root list and a depth counter.
//
// Lists and entries live in an arena owned by their session and are
// addressed by stable IDs, never by structural pointers; the currently
// browsed list is recomputed by index-chasing on every operation.
package session

import (
	"github.com/google/uuid"

	"burrow/internal/document"
)

// Tag is an immutable location descriptor: where a definition lives and
// how to re-locate it after the document has been edited.
type Tag struct {
	// Path is the absolute document path.
	Path string
	// Line is 1-based.
	Line int
	// Pattern is the stored source line used to re-locate the definition
	// when line numbers have drifted; may be empty.
	Pattern string

	// Display fields, opaque to the model.
	Name      string
	Signature string
	Kind      string
}

// ListID and EntryID address arena slots. They are stable for the life of
// the session; deleted branches leave their slots in place.
type ListID int

type EntryID int

type anchorKind int

const (
	anchorUnresolved anchorKind = iota
	anchorResolved
)

// anchorState caches the resolved position of an entry. It is valid only
// while the marker's document is the live pool entry under the same
// generation; otherwise the next resolve recomputes it. Unavailability is
// never cached, so a document that appears later starts resolving.
type anchorState struct {
	kind   anchorKind
	marker *document.Marker
	gen    uuid.UUID
}

type entryNode struct {
	tag        Tag
	anchor     anchorState
	lineOffset int
	// branches is most-recently-created/viewed first; element 0 is what
	// renders as the active branch.
	branches []ListID
}

type listNode struct {
	entries []EntryID
	index   int
	symbol  string
	vp      viewport
}

type arena struct {
	lists   []*listNode
	entries []*entryNode
}

func (a *arena) list(id ListID) *listNode    { return a.lists[id] }
func (a *arena) entry(id EntryID) *entryNode { return a.entries[id] }

func (a *arena) addList(l *listNode) ListID {
	a.lists = append(a.lists, l)
	return ListID(len(a.lists) - 1)
}

func (a *arena) addEntry(e *entryNode) EntryID {
	a.entries = append(a.entries, e)
	return EntryID(len(a.entries) - 1)
}

// Session is one browsing context: a root definition list plus how many
// first-branch hops deep the user currently is. A session may be promoted
// into the registry under a name, exactly once.
type Session struct {
	arena *arena
	root  ListID
	depth int
	name  string
}

// Name returns the saved name, or "" for an unsaved session.
func (s *Session) Name() string { return s.name }

// Depth returns how many branch hops below the root are being browsed.
func (s *Session) Depth() int { return s.depth }

// ChainLink is one level of the root-to-current symbol chain handed to the
// renderer.
type ChainLink struct {
	Symbol string
	// Active marks the link at the currently browsed depth.
	Active bool
	// Branching reports whether the entry at this level forks into more
	// than one branch, as opposed to continuing linearly.
	Branching bool
}

// EntryView is the renderer's picture of one visible entry.
type EntryView struct {
	ID          EntryID
	Tag         Tag
	Selected    bool
	HasBranches bool
	Branches    int
}
