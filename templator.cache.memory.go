package templator

import (
	"context"
	"sync"
	"time"
)

// MemoryArtifactStore keeps compiled artifacts in process memory.
// It is primarily intended for testing and for templators that render
// a fixed set of templates. All artifacts are lost when the process exits.
type MemoryArtifactStore struct {
	mu        sync.RWMutex
	artifacts map[string]memoryArtifact
	closed    bool
}

type memoryArtifact struct {
	art  Artifact
	body string
}

// NewMemoryArtifactStore creates an empty in-memory store.
func NewMemoryArtifactStore() *MemoryArtifactStore {
	return &MemoryArtifactStore{artifacts: make(map[string]memoryArtifact)}
}

// Stat implements ArtifactStore.
func (s *MemoryArtifactStore) Stat(ctx context.Context, key string) (Artifact, bool, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Artifact{}, false, NewArtifactError(ErrMsgStoreClosed, key, nil)
	}

	entry, ok := s.artifacts[key]
	return entry.art, ok, nil
}

// Load implements ArtifactStore.
func (s *MemoryArtifactStore) Load(ctx context.Context, art Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", NewArtifactError(ErrMsgStoreClosed, art.Key, nil)
	}

	entry, ok := s.artifacts[art.Key]
	if !ok {
		return "", NewArtifactError(ErrMsgUnknownArtifact, art.Key, nil)
	}
	return entry.body, nil
}

// Save implements ArtifactStore. The artifact time is the save time.
func (s *MemoryArtifactStore) Save(ctx context.Context, key, name, body string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Artifact{}, NewArtifactError(ErrMsgStoreClosed, key, nil)
	}

	art := Artifact{
		Key:      key,
		Name:     name,
		Location: StoreNameMemory + ":" + key,
		ModTime:  time.Now(),
	}
	s.artifacts[key] = memoryArtifact{art: art, body: body}
	return art, nil
}

// Len returns the number of stored artifacts.
func (s *MemoryArtifactStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.artifacts)
}

// Close implements ArtifactStore and drops every artifact.
func (s *MemoryArtifactStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.artifacts = nil
	return nil
}
