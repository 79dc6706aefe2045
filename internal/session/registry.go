package session

import (
	"sort"

	"burrow/internal/errors"
	"burrow/internal/observability"
)

// Registry maps saved names to sessions. It also carries the single
// most-recent-session slot, the only way to reach an unsaved session
// after it has been superseded.
type Registry struct {
	sessions map[string]*Session
	recent   *Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Save stores the session under name and stamps the session's own name
// field. A session already saved is a no-op (saved=false, nil error) so
// the caller can notify instead of failing; a colliding name returns a
// conflict error the caller re-prompts on.
func (r *Registry) Save(s *Session, name string) (saved bool, err error) {
	if s.name != "" {
		return false, nil
	}
	if name == "" {
		return false, errors.New(errors.CodeValidation, "session name must not be empty")
	}
	if _, exists := r.sessions[name]; exists {
		return false, errors.Newf(errors.CodeConflict, "session name %q already taken", name)
	}
	s.name = name
	r.sessions[name] = s
	observability.SessionsSaved.Inc()
	return true, nil
}

// Load returns the saved session unchanged: same depth, cursors and
// viewport state it had when saved.
func (r *Registry) Load(name string) (*Session, error) {
	s, ok := r.sessions[name]
	if !ok {
		return nil, errors.Newf(errors.CodeNotFound, "no saved session named %q", name)
	}
	return s, nil
}

// Names lists saved session names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetRecent replaces the most-recent-session slot.
func (r *Registry) SetRecent(s *Session) { r.recent = s }

// Recent returns the most recent session, saved or not, or nil.
func (r *Registry) Recent() *Session { return r.recent }
