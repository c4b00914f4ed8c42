package session

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/numinary/internal/problemgen"
	"github.com/abhisek/numinary/internal/store"
)

// Snapshot is the persisted part of a session.
type Snapshot struct {
	History  []HistoryEntry `json:"history"`
	Progress Progress       `json:"progress"`

	// Lessons is the lesson shelf. nil means no shelf was ever stored and
	// a fresh one should be seeded; an empty slice is a stored, empty shelf.
	Lessons []*problemgen.Problem `json:"lessons"`
}

// Persister loads and saves session snapshots.
type Persister interface {
	// Load returns the stored snapshot. Missing data yields zero values.
	Load(ctx context.Context) (Snapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap Snapshot) error
}

// Storage keys. A StorePersister prefixes each with its namespace.
const (
	KeyHistory  = "calcHistory"
	KeyProgress = "lessons"
	KeyLessons  = "availableLessons"
)

// StorePersister keeps a snapshot in a store.KVRepo as three JSON values.
type StorePersister struct {
	kv     store.KVRepo
	prefix string
}

// NewStorePersister returns a persister writing under prefix + key. Use an
// empty prefix for the local user and "chat:<id>:" style prefixes to keep
// several sessions in one store.
func NewStorePersister(kv store.KVRepo, prefix string) *StorePersister {
	return &StorePersister{kv: kv, prefix: prefix}
}

// NamespacePrefix returns the key prefix for a namespace.
func NamespacePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + ":"
}

func (p *StorePersister) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	var errs []error

	if _, err := store.GetJSON(ctx, p.kv, p.prefix+KeyHistory, &snap.History); err != nil {
		errs = append(errs, err)
	}
	if _, err := store.GetJSON(ctx, p.kv, p.prefix+KeyProgress, &snap.Progress); err != nil {
		errs = append(errs, err)
	}
	ok, err := store.GetJSON(ctx, p.kv, p.prefix+KeyLessons, &snap.Lessons)
	if err != nil {
		errs = append(errs, err)
	} else if ok && snap.Lessons == nil {
		// A stored "null" still counts as a stored shelf.
		snap.Lessons = []*problemgen.Problem{}
	}
	return snap, errors.Join(errs...)
}

func (p *StorePersister) Save(ctx context.Context, snap Snapshot) error {
	history := snap.History
	if history == nil {
		history = []HistoryEntry{}
	}
	lessons := snap.Lessons
	if lessons == nil {
		lessons = []*problemgen.Problem{}
	}
	return errors.Join(
		store.SetJSON(ctx, p.kv, p.prefix+KeyHistory, history),
		store.SetJSON(ctx, p.kv, p.prefix+KeyProgress, snap.Progress),
		store.SetJSON(ctx, p.kv, p.prefix+KeyLessons, lessons),
	)
}

// MemoryPersister keeps the snapshot in memory. Used for one-shot
// commands and tests.
type MemoryPersister struct {
	mu    sync.Mutex
	snap  Snapshot
	saves int
}

// NewMemoryPersister returns a persister preloaded with snap.
func NewMemoryPersister(snap Snapshot) *MemoryPersister {
	return &MemoryPersister{snap: snap}
}

func (p *MemoryPersister) Load(context.Context) (Snapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneSnapshot(p.snap), nil
}

func (p *MemoryPersister) Save(_ context.Context, snap Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = cloneSnapshot(snap)
	p.saves++
	return nil
}

// Saved returns the last saved snapshot and the number of saves.
func (p *MemoryPersister) Saved() (Snapshot, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneSnapshot(p.snap), p.saves
}

func cloneSnapshot(s Snapshot) Snapshot {
	out := Snapshot{Progress: s.Progress}
	if s.History != nil {
		out.History = append([]HistoryEntry{}, s.History...)
	}
	if s.Lessons != nil {
		out.Lessons = append([]*problemgen.Problem{}, s.Lessons...)
	}
	return out
}
