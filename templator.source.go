package templator

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source is a resolved template file.
type Source struct {
	Name    string // logical name with suffix applied
	Path    string
	ModTime time.Time
}

// sourceResolver maps logical names onto files under a template root.
type sourceResolver struct {
	root   string
	suffix string
}

// resolve applies the suffix, joins the name onto the root and stats it.
// Names that escape the root or point at a directory are not found.
func (r sourceResolver) resolve(name string) (Source, error) {
	full := name + r.suffix
	path := filepath.Join(r.root, filepath.FromSlash(full))

	rel, err := filepath.Rel(r.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Source{}, NewTemplateNotFoundError(path)
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Source{}, NewTemplateNotFoundError(path)
	}

	return Source{Name: full, Path: path, ModTime: info.ModTime()}, nil
}

// read returns the source text.
func (r sourceResolver) read(src Source) (string, error) {
	b, err := os.ReadFile(src.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewTemplateNotFoundError(src.Path)
		}
		return "", NewSourceError(src.Path, err)
	}
	return string(b), nil
}

// load resolves and reads name in one step.
func (r sourceResolver) load(name string) (Source, string, error) {
	src, err := r.resolve(name)
	if err != nil {
		return Source{}, "", err
	}
	text, err := r.read(src)
	if err != nil {
		return Source{}, "", err
	}
	return src, text, nil
}
