package session

import (
	"burrow/internal/document"
	"burrow/internal/observability"
)

// UnavailablePlaceholder is returned as content when an entry's backing
// document cannot be opened; the session keeps working around it.
const UnavailablePlaceholder = "── file unavailable ──"

// Resolve returns the live document and position of the current entry,
// computing and caching the anchor if needed. The boolean is false when
// the backing document is unavailable.
func (e *Engine) Resolve(s *Session) (*document.Document, *document.Marker, bool) {
	l, err := s.currentList()
	if err != nil {
		return nil, nil, false
	}
	return e.resolveEntry(s.arena.entry(l.entries[l.index]))
}

func (e *Engine) resolveEntry(en *entryNode) (*document.Document, *document.Marker, bool) {
	if en.anchor.kind == anchorResolved {
		m := en.anchor.marker
		if m.Valid() && m.Document().Generation() == en.anchor.gen {
			observability.AnchorResolutions.WithLabelValues("cached").Inc()
			return m.Document(), m, true
		}
		// The document behind the cached anchor was invalidated.
		en.anchor = anchorState{}
	}

	doc, err := e.pool.Open(en.tag.Path)
	if err != nil {
		observability.AnchorResolutions.WithLabelValues("unavailable").Inc()
		return nil, nil, false
	}

	m := doc.Locate(en.tag.Line, en.tag.Pattern)
	en.anchor = anchorState{kind: anchorResolved, marker: m, gen: doc.Generation()}
	observability.AnchorResolutions.WithLabelValues("resolved").Inc()
	return doc, m, true
}

// Content captures the renderer's content window for the current entry:
// the anchor position shifted by the entry's line offset, then the
// configured number of lines. The offset is clamped lazily here, and the
// clamp amount is written back into the entry so scrolling cannot run
// away past document bounds. An unavailable document yields a fixed
// placeholder instead of failing the operation.
func (e *Engine) Content(s *Session) []string {
	l, err := s.currentList()
	if err != nil {
		return []string{UnavailablePlaceholder}
	}
	return e.contentEntry(s.arena.entry(l.entries[l.index]))
}

func (e *Engine) contentEntry(en *entryNode) []string {
	observability.ContentFetches.Inc()

	doc, m, ok := e.resolveEntry(en)
	if !ok {
		return []string{UnavailablePlaceholder}
	}

	start := m.Line() + en.lineOffset
	if start < 0 {
		en.lineOffset -= start
		start = 0
		observability.OffsetClamps.Inc()
	}
	if max := doc.LineCount() - 1; start > max {
		en.lineOffset -= start - max
		start = max
		observability.OffsetClamps.Inc()
	}

	return doc.Window(start, e.viewHeight)
}

// Scroll shifts the current entry's line offset. Clamping is deferred to
// the next Content call, so rapid scrolls may hold an out-of-range offset
// until then.
func (e *Engine) Scroll(s *Session, delta int) error {
	l, err := s.currentList()
	if err != nil {
		return err
	}
	s.arena.entry(l.entries[l.index]).lineOffset += delta
	return nil
}

// LineOffset reports the current entry's raw (possibly unclamped) offset.
func (s *Session) LineOffset() (int, error) {
	l, err := s.currentList()
	if err != nil {
		return 0, err
	}
	return s.arena.entry(l.entries[l.index]).lineOffset, nil
}
