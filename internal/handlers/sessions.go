package handlers

import (
	"log"
	"sync"
	"time"

	"github.com/arnold/goalplan-api/internal/goals"
	"github.com/arnold/goalplan-api/internal/wizard"
	"github.com/google/uuid"
)

// sessionIdleTTL is how long an untouched wizard session is kept.
const sessionIdleTTL = 24 * time.Hour

// session is one open wizard. mu serializes the events applied to it.
type session struct {
	mu       sync.Mutex
	id       uuid.UUID
	owner    uuid.UUID
	lang     string
	wiz      *wizard.Wizard
	lastUsed time.Time
}

// run applies fn under the session lock.
func (s *session) run(fn func(w *wizard.Wizard) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn(s.wiz)
}

// SessionRegistry holds the open wizard sessions of all users.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// Global registry instance
var Sessions = NewSessionRegistry()

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[uuid.UUID]*session)}
}

func (r *SessionRegistry) add(owner uuid.UUID, lang string, wiz *wizard.Wizard) *session {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(time.Now())

	s := &session{
		id:       uuid.New(),
		owner:    owner,
		lang:     lang,
		wiz:      wiz,
		lastUsed: time.Now(),
	}
	r.sessions[s.id] = s
	return s
}

// get returns the session only if owner opened it.
func (r *SessionRegistry) get(id, owner uuid.UUID) (*session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok || s.owner != owner {
		return nil, false
	}
	return s, true
}

func (r *SessionRegistry) remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// dropIfClosed removes s once its wizard has closed; a closed wizard cannot
// be reopened through its session.
func (r *SessionRegistry) dropIfClosed(s *session, state wizard.State) {
	if state == wizard.StateClosed {
		r.remove(s.id)
	}
}

func (r *SessionRegistry) forUser(owner uuid.UUID) []*session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*session
	for _, s := range r.sessions {
		if s.owner == owner {
			out = append(out, s)
		}
	}
	return out
}

// Refresh re-hydrates every edit session of owner that is editing g, except
// skip. Callers must not hold any session lock.
func (r *SessionRegistry) Refresh(owner uuid.UUID, g goals.Goal, skip uuid.UUID) int {
	refreshed := 0
	for _, s := range r.forUser(owner) {
		if s.id == skip {
			continue
		}
		s.run(func(w *wizard.Wizard) error {
			if w.Refresh(g) {
				refreshed++
			}
			return nil
		})
	}
	if refreshed > 0 {
		log.Printf("WIZARD: refreshed %d edit session(s) for goal %s", refreshed, g.ID)
	}
	return refreshed
}

func (r *SessionRegistry) setLanguage(owner uuid.UUID, lang string) {
	table := bundle.Strings(lang)
	for _, s := range r.forUser(owner) {
		s.run(func(w *wizard.Wizard) error {
			s.lang = lang
			w.SetStrings(table)
			return nil
		})
	}
}

func (r *SessionRegistry) pruneLocked(now time.Time) {
	for id, s := range r.sessions {
		if s.mu.TryLock() {
			idle := now.Sub(s.lastUsed) > sessionIdleTTL
			s.mu.Unlock()
			if idle {
				delete(r.sessions, id)
			}
		}
	}
}

// Len reports the number of open sessions.
func (r *SessionRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
