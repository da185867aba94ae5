package templator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactKey(t *testing.T) {
	// md5 of the suffixed logical name
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", ArtifactKey(""))
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", ArtifactKey("hello"))
	assert.NotEqual(t, ArtifactKey("a.html"), ArtifactKey("a"))

	tpl, _, _ := newTestTemplator(t, nil, WithSuffix(".html"))
	assert.Equal(t, ArtifactKey("a.html"), tpl.ArtifactKey("a"))
}

func TestIsFresh(t *testing.T) {
	now := time.Now()

	assert.True(t, IsFresh(Artifact{ModTime: now}, now))
	assert.True(t, IsFresh(Artifact{ModTime: now.Add(time.Second)}, now))
	assert.False(t, IsFresh(Artifact{ModTime: now}, now.Add(time.Nanosecond)))
}

func TestFilesystemArtifactStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "cache")

	store, err := NewFilesystemArtifactStore(dir, nil)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, dir, store.Dir())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	t.Run("stat missing", func(t *testing.T) {
		_, found, err := store.Stat(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("save then load", func(t *testing.T) {
		art, err := store.Save(ctx, "k1", "page.html", "body one")
		require.NoError(t, err)
		assert.Equal(t, "k1", art.Key)
		assert.Equal(t, "page.html", art.Name)
		assert.Equal(t, filepath.Join(dir, "k1"+ArtifactExt), art.Location)

		stat, found, err := store.Stat(ctx, "k1")
		require.NoError(t, err)
		require.True(t, found)
		assert.True(t, stat.ModTime.Equal(art.ModTime))

		body, err := store.Load(ctx, stat)
		require.NoError(t, err)
		assert.Equal(t, "body one", body)

		body, err = store.Load(ctx, Artifact{Key: "k1"})
		require.NoError(t, err)
		assert.Equal(t, "body one", body)
	})

	t.Run("save replaces", func(t *testing.T) {
		_, err := store.Save(ctx, "k2", "n", "first")
		require.NoError(t, err)
		art, err := store.Save(ctx, "k2", "n", "second")
		require.NoError(t, err)

		body, err := store.Load(ctx, art)
		require.NoError(t, err)
		assert.Equal(t, "second", body)
	})

	t.Run("load missing", func(t *testing.T) {
		_, err := store.Load(ctx, Artifact{Key: "nope"})
		require.Error(t, err)
		assert.True(t, IsArtifactError(err))
	})

	t.Run("concurrent saves leave one complete artifact", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.Save(ctx, "race", "n", fmt.Sprintf("writer-%02d", i))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		body, err := store.Load(ctx, Artifact{Key: "race"})
		require.NoError(t, err)
		assert.Regexp(t, `^writer-\d\d$`, body)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.Equal(t, ArtifactExt, filepath.Ext(e.Name()), "temporary file %s survived a save", e.Name())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, _, err := store.Stat(cctx, "k1")
		assert.ErrorIs(t, err, context.Canceled)
		_, err = store.Save(cctx, "k1", "n", "x")
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFilesystemArtifactStore_UnwritableDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewFilesystemArtifactStore(filepath.Join(file, "cache"), nil)
	require.Error(t, err)
	assert.True(t, IsArtifactError(err))
}

// countingStore records store traffic.
type countingStore struct {
	*MemoryArtifactStore
	mu    sync.Mutex
	saves int
	loads int
}

func (c *countingStore) Load(ctx context.Context, art Artifact) (string, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return c.MemoryArtifactStore.Load(ctx, art)
}

func (c *countingStore) Save(ctx context.Context, key, name, body string) (Artifact, error) {
	c.mu.Lock()
	c.saves++
	c.mu.Unlock()
	return c.MemoryArtifactStore.Save(ctx, key, name, body)
}

func TestMemoryArtifactStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryArtifactStore()

	_, found, err := store.Stat(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	_, err = store.Load(ctx, Artifact{Key: "k"})
	assert.True(t, IsArtifactError(err))

	saved, err := store.Save(ctx, "k", "page", "body")
	require.NoError(t, err)
	assert.Equal(t, "memory:k", saved.Location)
	assert.Equal(t, 1, store.Len())

	art, found, err := store.Stat(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, saved, art)

	body, err := store.Load(ctx, art)
	require.NoError(t, err)
	assert.Equal(t, "body", body)

	require.NoError(t, store.Close())
	_, _, err = store.Stat(ctx, "k")
	assert.True(t, IsArtifactError(err))
	_, err = store.Save(ctx, "k", "page", "body")
	assert.True(t, IsArtifactError(err))
}

func TestTemplator_WithArtifactStore(t *testing.T) {
	store := &countingStore{MemoryArtifactStore: NewMemoryArtifactStore()}
	tpl, _, cache := newTestTemplator(t, map[string]string{"p": `{{ n * 2 }}`}, WithArtifactStore(store))
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		out, err := tpl.Render(ctx, "p", map[string]any{"n": i})
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprint(i*2), out)
	}

	assert.Equal(t, 1, store.saves, "fresh artifacts are not recompiled")
	assert.Equal(t, 1, store.loads, "parsed artifacts are reused until they change")

	_, err := os.Stat(cache)
	assert.True(t, os.IsNotExist(err), "the cache dir is unused with a custom store")

	_, err = tpl.RenderUncached(ctx, "p", map[string]any{"n": 0})
	require.NoError(t, err)
	assert.Equal(t, 2, store.saves)
	assert.Equal(t, 2, store.loads)
}

func TestPostgresArtifactStore_EmptyConnectionString(t *testing.T) {
	_, err := NewPostgresArtifactStore(PostgresConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)
}

func TestPostgresArtifactStore_InvalidConnectionString(t *testing.T) {
	_, err := NewPostgresArtifactStore(PostgresConfig{
		ConnectionString: "invalid://not-a-valid-connection-string",
		QueryTimeout:     time.Second,
	})
	require.Error(t, err)
	assert.True(t, IsArtifactError(err))
}

func TestPostgresConfig_Defaults(t *testing.T) {
	cfg := PostgresConfig{ConnectionString: "postgres://x"}.withDefaults()

	assert.Equal(t, PostgresDefaultMaxOpenConns, cfg.MaxOpenConns)
	assert.Equal(t, PostgresDefaultMaxIdleConns, cfg.MaxIdleConns)
	assert.Equal(t, PostgresDefaultConnMaxLifetime, cfg.ConnMaxLifetime)
	assert.Equal(t, PostgresDefaultConnMaxIdleTime, cfg.ConnMaxIdleTime)
	assert.Equal(t, PostgresTablePrefix, cfg.TablePrefix)
	assert.Equal(t, PostgresDefaultQueryTimeout, cfg.QueryTimeout)
	assert.NotNil(t, cfg.Logger)

	custom := PostgresConfig{TablePrefix: "app_", MaxOpenConns: 3}.withDefaults()
	assert.Equal(t, "app_", custom.TablePrefix)
	assert.Equal(t, 3, custom.MaxOpenConns)
}
