package main

import (
	"context"
	"fmt"
	"sync"
)

// FragmentStore persists fragments. Fragments are append only.
type FragmentStore interface {
	SaveFragment(f DrawingFragment) error
	GetAllFragments() ([]DrawingFragment, error)
	Close() error
}

// NewFragmentStore opens the backend selected by cfg.Type.
func NewFragmentStore(cfg StorageConfig) (FragmentStore, error) {
	switch cfg.Type {
	case "memory":
		return newMemoryStore(), nil
	case "sqlite", "postgres":
		return newGormStore(cfg)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

type memoryStore struct {
	mu        sync.Mutex
	fragments []DrawingFragment
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func (s *memoryStore) SaveFragment(f DrawingFragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fragments = append(s.fragments, f)
	return nil
}

func (s *memoryStore) GetAllFragments() ([]DrawingFragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DrawingFragment, len(s.fragments))
	copy(out, s.fragments)
	return out, nil
}

func (s *memoryStore) Close() error {
	return nil
}

// FragmentBook is the player's handle on persistence. Storage failures stop
// here: a failed save is logged and the fragment dropped, a failed load reads
// as no fragments. Saves are serialized so concurrent writers cannot lose
// each other's fragments.
type FragmentBook struct {
	mu    sync.Mutex
	store FragmentStore
}

func NewFragmentBook(store FragmentStore) *FragmentBook {
	return &FragmentBook{store: store}
}

// Save validates and stores f. It reports whether the fragment was kept.
func (b *FragmentBook) Save(f DrawingFragment) bool {
	ctx := context.Background()
	if err := f.Validate(); err != nil {
		Log.Warn().Err(err).Str("id", f.ID).Msg("Rejected fragment")
		metrics.fragmentsDropped.Add(ctx, 1)
		return false
	}

	b.mu.Lock()
	err := b.store.SaveFragment(f)
	b.mu.Unlock()
	if err != nil {
		Log.Error().Err(err).Str("id", f.ID).Int("frame", f.FrameNumber).Msg("Failed to save fragment")
		metrics.fragmentsDropped.Add(ctx, 1)
		return false
	}

	Log.Info().Str("id", f.ID).Int("frame", f.FrameNumber).Str("author", f.Author).Msg("Saved fragment")
	metrics.fragmentsSaved.Add(ctx, 1)
	return true
}

// All returns every stored fragment, or none when the store cannot be read.
func (b *FragmentBook) All() []DrawingFragment {
	b.mu.Lock()
	fragments, err := b.store.GetAllFragments()
	b.mu.Unlock()
	if err != nil {
		Log.Error().Err(err).Msg("Failed to load fragments")
		return nil
	}
	return fragments
}

// ByFrame groups every stored fragment by frame number.
func (b *FragmentBook) ByFrame() map[int][]DrawingFragment {
	return GroupByFrame(b.All())
}

// ForFrame returns the fragments attached to frame.
func (b *FragmentBook) ForFrame(frame int) []DrawingFragment {
	return b.ByFrame()[frame]
}

func (b *FragmentBook) Close() error {
	return b.store.Close()
}
