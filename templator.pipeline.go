package templator

import (
	"go.uber.org/zap"
)

// Pass is one syntax-directed rewrite of the compilation pipeline. Each pass
// owns a disjoint directive grammar and leaves everything else untouched.
// The set of passes is closed.
type Pass interface {
	// Name identifies the pass in logs.
	Name() string
	// Parse rewrites every occurrence of the pass's directives in text.
	Parse(text string) (string, error)

	pass()
}

// Pipeline folds text through an ordered list of passes.
type Pipeline struct {
	passes []Pass
	logger *zap.Logger
}

// NewPipeline creates a pipeline running passes in the given order.
func NewPipeline(logger *zap.Logger, passes ...Pass) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{passes: passes, logger: logger}
}

// Apply runs every pass over the output of the previous one. The first
// failing pass aborts the fold.
func (p *Pipeline) Apply(text string) (string, error) {
	for _, ps := range p.passes {
		out, err := ps.Parse(text)
		if err != nil {
			return "", err
		}
		if out != text {
			p.logger.Debug(LogMsgPassApplied,
				zap.String(LogFieldPass, ps.Name()),
				zap.Int(LogFieldBytes, len(out)))
		}
		text = out
	}
	return text, nil
}

// Names lists the pass names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, ps := range p.passes {
		names[i] = ps.Name()
	}
	return names
}
