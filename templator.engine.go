package templator

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/itsatony/go-templator/internal"
)

// Option names reported in configuration errors
const (
	optionTemplateDir = "template_dir"
	optionCacheDir    = "cache_dir"
	optionMaxDepth    = "max_depth"
)

// compiler runs the pass pipeline. It is shared by every pipeline it builds,
// so include passes can compile nested templates one level deeper.
type compiler struct {
	sources  sourceResolver
	maxDepth int
	logger   *zap.Logger
}

// pipeline returns the fixed pass order for text compiled at depth.
func (c *compiler) pipeline(depth int) *Pipeline {
	return NewPipeline(c.logger,
		setPass{},
		sectionPass{sources: c.sources, logger: c.logger},
		includePass{compiler: c, depth: depth},
		codePass{},
		namePass{},
		ifPass{},
		eachPass{},
		commentPass{},
		newContinuePass(),
		newBreakPass(),
	)
}

func (c *compiler) compile(text string, depth int) (string, error) {
	return c.pipeline(depth).Apply(text)
}

// Templator compiles directive templates under a template root, caches the
// compiled artifacts and renders them.
type Templator struct {
	sources  sourceResolver
	compiler *compiler
	store    ArtifactStore
	executor *Executor
	logger   *zap.Logger
}

// New creates a Templator reading templates from templateDir. Unless
// WithArtifactStore is given, compiled artifacts go to cacheDir, which is
// created if missing.
func New(templateDir, cacheDir string, opts ...Option) (*Templator, error) {
	cfg := defaultTemplatorConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if templateDir == "" {
		return nil, NewConfigError(ErrMsgInvalidTemplateDir, optionTemplateDir)
	}
	if cfg.maxDepth < 0 {
		return nil, NewConfigError(ErrMsgInvalidMaxDepth, optionMaxDepth)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	funcs := internal.NewBuiltinFuncRegistry()
	for _, f := range cfg.funcs {
		if err := funcs.Register(f); err != nil {
			return nil, err
		}
	}

	store := cfg.store
	if store == nil {
		if cacheDir == "" {
			return nil, NewConfigError(ErrMsgNilStore, optionCacheDir)
		}
		fs, err := NewFilesystemArtifactStore(cacheDir, cfg.logger)
		if err != nil {
			return nil, err
		}
		store = fs
	}

	sources := sourceResolver{root: templateDir, suffix: cfg.suffix}
	t := &Templator{
		sources: sources,
		compiler: &compiler{
			sources:  sources,
			maxDepth: cfg.maxDepth,
			logger:   cfg.logger,
		},
		store:    store,
		executor: NewExecutor(store, funcs, cfg.logger),
		logger:   cfg.logger,
	}

	cfg.logger.Debug(LogMsgTemplatorCreated,
		zap.String(LogFieldTemplates, templateDir),
		zap.String(LogFieldCache, cacheDir),
		zap.Int(LogFieldMaxDepth, cfg.maxDepth))

	return t, nil
}

// MustNew is New that panics on error.
func MustNew(templateDir, cacheDir string, opts ...Option) *Templator {
	t, err := New(templateDir, cacheDir, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// Compile compiles the named template, stores the artifact and returns the
// compiled host code. The artifact is written even when a fresh one exists.
func (t *Templator) Compile(ctx context.Context, name string) (string, error) {
	src, err := t.sources.resolve(name)
	if err != nil {
		return "", err
	}
	compiled, _, err := t.compileSource(ctx, src)
	return compiled, err
}

func (t *Templator) compileSource(ctx context.Context, src Source) (string, Artifact, error) {
	start := time.Now()
	t.logger.Debug(LogMsgCompileStart,
		zap.String(LogFieldName, src.Name),
		zap.String(LogFieldPath, src.Path))

	text, err := t.sources.read(src)
	if err != nil {
		return "", Artifact{}, err
	}
	compiled, err := t.compiler.compile(text, 0)
	if err != nil {
		return "", Artifact{}, err
	}

	art, err := t.store.Save(ctx, ArtifactKey(src.Name), src.Name, compiled)
	if err != nil {
		return "", Artifact{}, err
	}
	t.executor.forget(art.Key)

	t.logger.Debug(LogMsgArtifactSaved,
		zap.String(LogFieldKey, art.Key),
		zap.String(LogFieldLocation, art.Location))
	t.logger.Debug(LogMsgCompileEnd,
		zap.String(LogFieldName, src.Name),
		zap.Int(LogFieldBytes, len(compiled)),
		zap.Duration(LogFieldDuration, time.Since(start)))

	return compiled, art, nil
}

// Render renders the named template, reusing the cached artifact when it is
// at least as new as the source.
func (t *Templator) Render(ctx context.Context, name string, data map[string]any) (string, error) {
	return t.render(ctx, name, data, true)
}

// RenderUncached recompiles the named template before rendering it.
func (t *Templator) RenderUncached(ctx context.Context, name string, data map[string]any) (string, error) {
	return t.render(ctx, name, data, false)
}

func (t *Templator) render(ctx context.Context, name string, data map[string]any, useCache bool) (string, error) {
	src, err := t.sources.resolve(name)
	if err != nil {
		return "", err
	}

	t.logger.Debug(LogMsgRenderStart,
		zap.String(LogFieldName, src.Name),
		zap.Bool(LogFieldUseCache, useCache))

	art, err := t.artifact(ctx, src, useCache)
	if err != nil {
		return "", err
	}

	out, err := t.executor.Execute(ctx, art, data)
	if err != nil {
		return "", err
	}

	t.logger.Debug(LogMsgRenderEnd,
		zap.String(LogFieldName, src.Name),
		zap.Int(LogFieldBytes, len(out)))
	return out, nil
}

// artifact returns a fresh artifact for src, compiling when needed.
func (t *Templator) artifact(ctx context.Context, src Source, useCache bool) (Artifact, error) {
	key := ArtifactKey(src.Name)

	if useCache {
		art, found, err := t.store.Stat(ctx, key)
		if err != nil {
			return Artifact{}, err
		}
		if found && IsFresh(art, src.ModTime) {
			t.logger.Debug(LogMsgCacheHit, zap.String(LogFieldKey, key))
			return art, nil
		}
		t.logger.Debug(LogMsgCacheMiss, zap.String(LogFieldKey, key))
	}

	_, art, err := t.compileSource(ctx, src)
	return art, err
}

// CompileString runs the pipeline over text without touching the artifact
// store. Includes and layouts still resolve against the template root.
func (t *Templator) CompileString(text string) (string, error) {
	return t.compiler.compile(text, 0)
}

// RenderString compiles and renders text without touching the artifact store.
func (t *Templator) RenderString(ctx context.Context, text string, data map[string]any) (string, error) {
	compiled, err := t.CompileString(text)
	if err != nil {
		return "", err
	}
	return t.executor.ExecuteText(ctx, ArtifactKey(text), compiled, data)
}

// ArtifactKey returns the store key the named template compiles to.
func (t *Templator) ArtifactKey(name string) string {
	return ArtifactKey(name + t.sources.suffix)
}

// Passes lists the compilation passes in the order they run.
func (t *Templator) Passes() []string {
	return t.compiler.pipeline(0).Names()
}

// Close releases the artifact store.
func (t *Templator) Close() error {
	return t.store.Close()
}

// IsUndefinedVariable reports whether a render failed on an unbound name.
func IsUndefinedVariable(err error) bool {
	return internal.IsUndefined(err)
}
