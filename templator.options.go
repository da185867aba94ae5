package templator

import (
	"go.uber.org/zap"

	"github.com/itsatony/go-templator/internal"
)

// Option is a functional option for configuring a Templator.
type Option func(*templatorConfig)

type templatorConfig struct {
	suffix   string
	maxDepth int
	logger   *zap.Logger
	store    ArtifactStore
	funcs    []*internal.Func
}

func defaultTemplatorConfig() *templatorConfig {
	return &templatorConfig{
		suffix:   DefaultSuffix,
		maxDepth: DefaultMaxDepth,
	}
}

// WithSuffix sets the suffix appended to every logical name, e.g. ".html".
// Default: "" (names are used as given)
func WithSuffix(suffix string) Option {
	return func(c *templatorConfig) {
		c.suffix = suffix
	}
}

// WithMaxDepth sets the include nesting ceiling. 0 forbids includes entirely.
// Default: 5
func WithMaxDepth(depth int) Option {
	return func(c *templatorConfig) {
		c.maxDepth = depth
	}
}

// WithLogger sets the logger.
// Default: no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(c *templatorConfig) {
		c.logger = logger
	}
}

// WithArtifactStore replaces the default filesystem artifact store. The
// templator takes ownership and closes it on Close.
func WithArtifactStore(store ArtifactStore) Option {
	return func(c *templatorConfig) {
		c.store = store
	}
}

// Func is a function callable from directive expressions.
type Func = internal.Func

// WithFuncs registers extra expression functions alongside the builtins.
func WithFuncs(funcs ...*Func) Option {
	return func(c *templatorConfig) {
		c.funcs = append(c.funcs, funcs...)
	}
}
