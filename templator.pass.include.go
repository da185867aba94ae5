package templator

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var includePattern = regexp.MustCompile(`{%\s*include\s*\(?\s*['"]([^'"]+)['"]\s*\)?\s*%}`)

// includePass replaces `{% include "name" %}` with the fully compiled text of
// the named template. depth is the nesting level of the text being compiled;
// the included template compiles one level deeper.
type includePass struct {
	compiler *compiler
	depth    int
}

func (includePass) Name() string { return PassNameInclude }
func (includePass) pass()        {}

func (p includePass) Parse(text string) (string, error) {
	matches := includePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])

		compiled, err := p.include(text[m[2]:m[3]])
		if err != nil {
			return "", err
		}
		sb.WriteString(compiled)
		last = m[1]
	}
	sb.WriteString(text[last:])
	return sb.String(), nil
}

func (p includePass) include(name string) (string, error) {
	src, body, err := p.compiler.sources.load(name)
	if err != nil {
		return "", err
	}

	next := p.depth + 1
	if next > p.compiler.maxDepth {
		return "", NewIncludeDepthExceededError(src.Path, next, p.compiler.maxDepth)
	}

	p.compiler.logger.Debug(LogMsgIncludeDescend,
		zap.String(LogFieldName, src.Name),
		zap.Int(LogFieldDepth, next),
		zap.Int(LogFieldMaxDepth, p.compiler.maxDepth))

	return p.compiler.compile(body, next)
}
