package templator

import (
	"context"
	"strings"
	"sync"
	"text/template"
	"time"

	"go.uber.org/zap"

	"github.com/itsatony/go-templator/internal"
)

// Executor runs compiled artifacts against a variable binding.
type Executor struct {
	store  ArtifactStore
	funcs  *internal.FuncRegistry
	exprs  *internal.ExprCache
	logger *zap.Logger

	mu     sync.RWMutex
	parsed map[string]parsedArtifact
}

type parsedArtifact struct {
	modTime time.Time
	tmpl    *template.Template
}

// NewExecutor creates an executor reading artifacts from store.
func NewExecutor(store ArtifactStore, funcs *internal.FuncRegistry, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if funcs == nil {
		funcs = internal.NewBuiltinFuncRegistry()
	}
	return &Executor{
		store:  store,
		funcs:  funcs,
		exprs:  &internal.ExprCache{},
		logger: logger,
		parsed: make(map[string]parsedArtifact),
	}
}

// Execute renders art with data. The caller's map is never modified.
func (e *Executor) Execute(ctx context.Context, art Artifact, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := e.template(ctx, art)
	if err != nil {
		return "", err
	}
	return e.run(tmpl, data)
}

// ExecuteText parses and renders compiled host code that lives in no store.
func (e *Executor) ExecuteText(ctx context.Context, name, body string, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	tmpl, err := parseHost(name, body)
	if err != nil {
		return "", err
	}
	return e.run(tmpl, data)
}

// run executes tmpl inside a fresh capture. On failure every capture opened
// during the render is discarded and the error is returned as raised.
func (e *Executor) run(tmpl *template.Template, data map[string]any) (string, error) {
	sb := newSandbox(data, e.funcs, e.exprs)

	level := sb.level()
	sb.begin()
	sb.floor = sb.level()

	if err := tmpl.Execute(sb, sb); err != nil {
		sb.unwind(level)
		e.logger.Debug(LogMsgRenderFailed,
			zap.String(LogFieldName, tmpl.Name()),
			zap.Error(err))
		return "", err
	}

	out := sb.end()
	sb.unwind(level)
	return strings.TrimLeft(out, leadingSpaceCutset), nil
}

// template returns the parsed artifact, reparsing only when the artifact
// changed since it was last parsed.
func (e *Executor) template(ctx context.Context, art Artifact) (*template.Template, error) {
	e.mu.RLock()
	p, ok := e.parsed[art.Key]
	e.mu.RUnlock()
	if ok && p.modTime.Equal(art.ModTime) {
		return p.tmpl, nil
	}

	body, err := e.store.Load(ctx, art)
	if err != nil {
		return nil, err
	}
	tmpl, err := parseHost(art.Key, body)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.parsed[art.Key] = parsedArtifact{modTime: art.ModTime, tmpl: tmpl}
	e.mu.Unlock()

	return tmpl, nil
}

// forget drops the parsed form of key so the next Execute reloads it.
func (e *Executor) forget(key string) {
	e.mu.Lock()
	delete(e.parsed, key)
	e.mu.Unlock()
}

// parseHost parses compiled host code.
func parseHost(name, body string) (*template.Template, error) {
	tmpl, err := template.New(name).Delims(HostOpen, HostClose).Parse(body)
	if err != nil {
		return nil, NewHostParseError(name, err)
	}
	return tmpl, nil
}
