package templator

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// FilesystemArtifactStore keeps one file per artifact in a cache directory.
type FilesystemArtifactStore struct {
	dir    string
	logger *zap.Logger
}

// NewFilesystemArtifactStore creates dir if needed and returns a store on it.
func NewFilesystemArtifactStore(dir string, logger *zap.Logger) (*FilesystemArtifactStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, DefaultDirPerm); err != nil {
		return nil, NewArtifactError(ErrMsgCacheDirCreate, dir, err)
	}

	logger.Debug(LogMsgStoreOpened,
		zap.String(LogFieldStore, StoreNameFilesystem),
		zap.String(LogFieldLocation, dir))

	return &FilesystemArtifactStore{dir: dir, logger: logger}, nil
}

// Dir returns the cache directory.
func (s *FilesystemArtifactStore) Dir() string {
	return s.dir
}

func (s *FilesystemArtifactStore) path(key string) string {
	return filepath.Join(s.dir, key+ArtifactExt)
}

// Stat implements ArtifactStore.
func (s *FilesystemArtifactStore) Stat(ctx context.Context, key string) (Artifact, bool, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, false, err
	}

	path := s.path(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Artifact{}, false, nil
	}
	if err != nil {
		return Artifact{}, false, NewArtifactError(ErrMsgArtifactStat, key, err)
	}

	return Artifact{Key: key, Location: path, ModTime: info.ModTime()}, true, nil
}

// Load implements ArtifactStore.
func (s *FilesystemArtifactStore) Load(ctx context.Context, art Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	location := art.Location
	if location == "" {
		location = s.path(art.Key)
	}
	b, err := os.ReadFile(location)
	if err != nil {
		return "", NewArtifactError(ErrMsgArtifactRead, art.Key, err)
	}
	return string(b), nil
}

// Save writes body to a temporary file in the cache directory and renames it
// over the artifact path, so readers never observe a partial artifact.
func (s *FilesystemArtifactStore) Save(ctx context.Context, key, name, body string) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return Artifact{}, NewArtifactError(ErrMsgArtifactWrite, key, err)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(body)
	closeErr := tmp.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr == nil {
		writeErr = os.Chmod(tmpName, DefaultFilePerm)
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return Artifact{}, NewArtifactError(ErrMsgArtifactWrite, key, writeErr)
	}

	path := s.path(key)
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return Artifact{}, NewArtifactError(ErrMsgArtifactWrite, key, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, NewArtifactError(ErrMsgArtifactStat, key, err)
	}

	return Artifact{Key: key, Name: name, Location: path, ModTime: info.ModTime()}, nil
}

// Close implements ArtifactStore. The filesystem store holds no resources.
func (s *FilesystemArtifactStore) Close() error {
	return nil
}
