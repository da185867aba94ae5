package templator

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Artifact describes a compiled template held by an ArtifactStore.
type Artifact struct {
	Key      string
	Name     string // suffixed logical name the artifact was compiled from
	Location string // store-specific address, e.g. a file path
	ModTime  time.Time
}

// ArtifactStore persists compiled host code keyed by ArtifactKey. Saves
// replace any previous artifact under the same key; concurrent saves of the
// same key must leave one complete artifact (last writer wins).
type ArtifactStore interface {
	// Stat reports the artifact under key. found is false when none exists.
	Stat(ctx context.Context, key string) (art Artifact, found bool, err error)
	// Load returns the compiled body of art.
	Load(ctx context.Context, art Artifact) (string, error)
	// Save stores body under key and returns the new artifact.
	Save(ctx context.Context, key, name, body string) (Artifact, error)
	// Close releases resources held by the store.
	Close() error
}

// ArtifactKey derives the store key for a suffixed logical name.
func ArtifactKey(name string) string {
	sum := md5.Sum([]byte(name))
	return hex.EncodeToString(sum[:])
}

// IsFresh reports whether art may be used for a source modified at srcMod.
// Equal timestamps count as fresh.
func IsFresh(art Artifact, srcMod time.Time) bool {
	return !art.ModTime.Before(srcMod)
}
