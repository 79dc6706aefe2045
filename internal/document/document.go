// Package document provides the in-memory editable documents that anchors
// resolve into: a process-wide pool keyed by path, line-based buffers, and
// markers that keep tracking the same logical line across edits.
//
// Documents are not internally locked; the single active-viewer model means
// one goroutine edits them. The pool itself is locked because the file
// watcher invalidates entries from its own goroutine.
package document

import (
	"strings"

	"github.com/google/uuid"
)

// Document is one editable line buffer. Markers created on it are adjusted
// on every edit so that they keep pointing at the same logical line.
type Document struct {
	path    string
	gen     uuid.UUID
	lines   []string
	markers []*Marker
	closed  bool
}

func newDocument(path string, content []byte) *Document {
	return &Document{
		path:  path,
		gen:   uuid.New(),
		lines: splitLines(content),
	}
}

func splitLines(content []byte) []string {
	if len(content) == 0 {
		return []string{""}
	}
	lines := strings.Split(string(content), "\n")
	// A trailing newline yields a phantom empty last element.
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (d *Document) Path() string { return d.path }

// Generation identifies this load of the document. The pool renews it when
// the backing file changes on disk, which is how cached anchors detect that
// their document was destroyed.
func (d *Document) Generation() uuid.UUID { return d.gen }

func (d *Document) Closed() bool { return d.closed }

func (d *Document) LineCount() int { return len(d.lines) }

// Line returns the 0-based line i, or "" when i is out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.lines) {
		return ""
	}
	return d.lines[i]
}

// Window captures up to height lines starting at the 0-based line start,
// clamped to the document.
func (d *Document) Window(start, height int) []string {
	if height <= 0 || len(d.lines) == 0 {
		return nil
	}
	if start < 0 {
		start = 0
	}
	if start >= len(d.lines) {
		start = len(d.lines) - 1
	}
	end := start + height
	if end > len(d.lines) {
		end = len(d.lines)
	}
	out := make([]string, end-start)
	copy(out, d.lines[start:end])
	return out
}

// InsertLines inserts lines before the 0-based line at. Markers at or after
// the insertion point shift forward.
func (d *Document) InsertLines(at int, lines ...string) {
	if len(lines) == 0 {
		return
	}
	if at < 0 {
		at = 0
	}
	if at > len(d.lines) {
		at = len(d.lines)
	}
	d.lines = append(d.lines[:at], append(append([]string{}, lines...), d.lines[at:]...)...)
	for _, m := range d.markers {
		if m.line >= at {
			m.line += len(lines)
		}
	}
}

// DeleteLines removes n lines starting at the 0-based line at. Markers
// inside the deleted span collapse onto the deletion point; markers after
// it shift back.
func (d *Document) DeleteLines(at, n int) {
	if n <= 0 || at >= len(d.lines) {
		return
	}
	if at < 0 {
		at = 0
	}
	if at+n > len(d.lines) {
		n = len(d.lines) - at
	}
	d.lines = append(d.lines[:at], d.lines[at+n:]...)
	if len(d.lines) == 0 {
		d.lines = []string{""}
	}
	for _, m := range d.markers {
		switch {
		case m.line >= at+n:
			m.line -= n
		case m.line >= at:
			m.line = at
		}
		if m.line >= len(d.lines) {
			m.line = len(d.lines) - 1
		}
	}
}

func (d *Document) SetLine(i int, text string) {
	if i >= 0 && i < len(d.lines) {
		d.lines[i] = text
	}
}

// NewMarker creates a marker at the 0-based line, clamped into range.
func (d *Document) NewMarker(line int) *Marker {
	if line < 0 {
		line = 0
	}
	if line >= len(d.lines) {
		line = len(d.lines) - 1
	}
	m := &Marker{doc: d, line: line}
	d.markers = append(d.markers, m)
	return m
}

// Locate finds the line for a stored locator: a 1-based hint line plus an
// optional textual pattern. A matching pattern wins over the raw line
// number; among several matches the one nearest the hint is chosen.
func (d *Document) Locate(hintLine int, pattern string) *Marker {
	hint := hintLine - 1
	if hint < 0 {
		hint = 0
	}
	if pattern != "" {
		if best, ok := d.findPattern(hint, pattern); ok {
			return d.NewMarker(best)
		}
	}
	return d.NewMarker(hint)
}

func (d *Document) findPattern(hint int, pattern string) (int, bool) {
	best, bestDist := -1, 0
	want := strings.TrimSpace(pattern)
	for i, line := range d.lines {
		if strings.TrimSpace(line) != want && !strings.Contains(line, pattern) {
			continue
		}
		dist := i - hint
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best, best >= 0
}

// Marker is a position that survives edits to its document, the way an
// editor mark does: text inserted before it pushes it forward, deletions
// around it collapse it onto the edit point.
type Marker struct {
	doc  *Document
	line int
}

// Line returns the marker's current 0-based line.
func (m *Marker) Line() int { return m.line }

func (m *Marker) Document() *Document { return m.doc }

// Valid reports whether the marker's document is still the live pool entry.
func (m *Marker) Valid() bool { return !m.doc.closed }
