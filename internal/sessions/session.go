// Package sessions holds the per-connection state a running engine keeps on
// top of the catalog: which database is active, when the session started,
// and its command history (spec.md §4.7).
package sessions

import (
	"sync"
	"time"

	"github.com/ferrumdb/ferrum/internal/ferrors"
	"github.com/ferrumdb/ferrum/internal/persistence"
)

// HistoryEntry is one recorded command, in the order it was issued.
type HistoryEntry struct {
	Text string
	At   time.Time
}

// Session holds the active database handle, a reference to the registry,
// and command-history metadata (spec.md §3, §4.7).
type Session struct {
	mu        sync.RWMutex
	registry  *persistence.DatabaseRegistry
	startedAt time.Time
	active    *persistence.Database
	history   []HistoryEntry
}

// New returns a Session bound to registry, with no active database.
func New(registry *persistence.DatabaseRegistry) *Session {
	return &Session{registry: registry, startedAt: time.Now()}
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.startedAt
}

// UseDatabase resolves name from the registry and makes it active.
func (s *Session) UseDatabase(name string) error {
	db, err := s.registry.GetDatabase(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = db
	return nil
}

// GetActiveDatabase returns the currently active database, or an error if
// no USE has been issued yet this session.
func (s *Session) GetActiveDatabase() (*persistence.Database, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil, ferrors.NewCatalog("no active database; issue USE <name> first")
	}
	return s.active, nil
}

// CreateDatabase delegates to the registry.
func (s *Session) CreateDatabase(name string, ifNotExists bool) (*persistence.Database, error) {
	return s.registry.CreateDatabase(name, ifNotExists)
}

// DropDatabase delegates to the registry, forcibly removing name. If the
// dropped database was active, the session's active handle is cleared.
// Reports whether a database was actually removed; dropping an unknown name
// is not an error (spec.md §4.6).
func (s *Session) DropDatabase(name string) bool {
	removed := s.registry.DropDatabase(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.Name() == name {
		s.active = nil
	}
	return removed
}

// GetAvailableDatabases delegates to the registry.
func (s *Session) GetAvailableDatabases() []string {
	return s.registry.GetDatabaseNames()
}

// AddToCommandHistory records text with the current time.
func (s *Session) AddToCommandHistory(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, HistoryEntry{Text: text, At: time.Now()})
}

// ShowCommandHistory returns history entries most-recent-first, capped at
// limit entries if limit is non-nil.
func (s *Session) ShowCommandHistory(limit *int) []HistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]HistoryEntry, len(s.history))
	for i, entry := range s.history {
		out[len(s.history)-1-i] = entry
	}
	if limit != nil && *limit >= 0 && *limit < len(out) {
		out = out[:*limit]
	}
	return out
}

// GetLastCommand returns the n-th-most-recent command (0 is the most
// recent), or false if there are fewer than n+1 entries.
func (s *Session) GetLastCommand(n int) (HistoryEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n < 0 || n >= len(s.history) {
		return HistoryEntry{}, false
	}
	return s.history[len(s.history)-1-n], true
}
