package datastore

import (
	"sync/atomic"

	"github.com/go-logr/logr"
)

// Store holds the process-wide current snapshot. Replace swaps the pointer
// atomically; readers that already hold a snapshot keep a consistent view for
// the lifetime of their scenario run.
type Store struct {
	current atomic.Pointer[Snapshot]
	log     logr.Logger
}

// NewStore creates an empty store.
func NewStore(log logr.Logger) *Store {
	return &Store{log: log.WithName("datastore")}
}

// Replace installs a new snapshot as the current one.
func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
	s.log.Info("snapshot replaced",
		"id", snap.ID,
		"orders", snap.Stats.TableRows[TableOrders],
		"routing", snap.Stats.TableRows[TableRouting],
		"centers", snap.Stats.TableRows[TableCapacity],
	)
}

// Current returns the current snapshot, or false when nothing is loaded.
func (s *Store) Current() (*Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// IsLoaded reports whether a snapshot has been installed.
func (s *Store) IsLoaded() bool {
	return s.current.Load() != nil
}

// Stats returns the load stats of the current snapshot, or a zero value when
// nothing is loaded.
func (s *Store) Stats() Stats {
	if snap := s.current.Load(); snap != nil {
		return snap.Stats
	}
	return Stats{}
}
