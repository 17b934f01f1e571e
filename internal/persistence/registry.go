package persistence

import (
	"sync"

	"github.com/ferrumdb/ferrum/internal/ferrors"
)

// DatabaseRegistry holds every database known to a running engine, keyed by
// name, in creation order (spec.md §4.6).
type DatabaseRegistry struct {
	mu    sync.RWMutex
	dbs   map[string]*Database
	order []string
}

// NewDatabaseRegistry returns an empty registry.
func NewDatabaseRegistry() *DatabaseRegistry {
	return &DatabaseRegistry{dbs: make(map[string]*Database)}
}

// Exists reports whether name is a registered database.
func (r *DatabaseRegistry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.dbs[name]
	return ok
}

// CreateDatabase registers a new, empty database. If ifNotExists is true and
// the database already exists, this is a no-op rather than a CatalogError.
func (r *DatabaseRegistry) CreateDatabase(name string, ifNotExists bool) (*Database, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.dbs[name]; ok {
		if ifNotExists {
			return existing, nil
		}
		return nil, ferrors.NewCatalog("database %q already exists", name)
	}

	db := NewDatabase(name)
	r.dbs[name] = db
	r.order = append(r.order, name)
	return db, nil
}

// GetDatabase returns the named database, or a CatalogError if it does not
// exist.
func (r *DatabaseRegistry) GetDatabase(name string) (*Database, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	db, ok := r.dbs[name]
	if !ok {
		return nil, ferrors.NewCatalog("database %q does not exist", name)
	}
	return db, nil
}

// GetDatabaseNames returns every registered database name in creation order.
func (r *DatabaseRegistry) GetDatabaseNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// DropDatabase forcibly removes the named database, regardless of any
// foreign-key references into it. Reports whether a database was actually
// removed; dropping a name that was never registered is not an error
// (spec.md §4.6: "forced removal; returns the removed handle or absence
// indicator", grounded on original_source/src/persistence/database.rs's
// drop_database, which returns Option and never errors).
func (r *DatabaseRegistry) DropDatabase(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.dbs[name]; !ok {
		return false
	}
	delete(r.dbs, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
