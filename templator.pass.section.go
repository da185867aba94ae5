package templator

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

var (
	extendPattern        = regexp.MustCompile(`{%\s*extend\s*\(?\s*['"]([^'"]+)['"]\s*\)?\s*%}`)
	sectionBlockPattern  = regexp.MustCompile(`(?s){%\s*section\s*\(?\s*['"]([^'"]+)['"]\s*\)?\s*%}(.*?){%\s*endsection\s*%}`)
	sectionInlinePattern = regexp.MustCompile(`{%\s*section\s*\(?\s*['"]([^'"]+)['"]\s*,\s*['"]((?:[^'"\\]|\\.)*)['"]\s*\)?\s*%}`)
	yieldPattern         = regexp.MustCompile(`{%\s*yield\s*\(?\s*['"]([^'"]+)['"]\s*(?:,\s*['"]((?:[^'"\\]|\\.)*)['"]\s*)?\)?\s*%}`)
)

// sectionPass assembles a child template into its layout. A template that
// declares `{% extend "layout" %}` is replaced by the layout text, with every
// `{% yield "name" %}` filled from the child's sections. Text of the child
// outside its sections is dropped. Templates without an extend directive pass
// through unchanged.
type sectionPass struct {
	sources sourceResolver
	logger  *zap.Logger
}

func (sectionPass) Name() string { return PassNameSection }
func (sectionPass) pass()        {}

func (p sectionPass) Parse(text string) (string, error) {
	ext := extendPattern.FindStringSubmatch(text)
	if ext == nil {
		return text, nil
	}

	src, layout, err := p.sources.load(ext[1])
	if err != nil {
		return "", err
	}
	p.logger.Debug(LogMsgLayoutResolved,
		zap.String(LogFieldLayout, ext[1]),
		zap.String(LogFieldPath, src.Path))

	// the layout joins the pipeline here, so it gets the passes that already ran
	layout, err = setPass{}.Parse(layout)
	if err != nil {
		return "", err
	}

	sections := collectSections(text)

	return yieldPattern.ReplaceAllStringFunc(layout, func(m string) string {
		g := yieldPattern.FindStringSubmatch(m)
		if body, ok := sections[g[1]]; ok {
			return body
		}
		return g[2]
	}), nil
}

// collectSections returns section bodies by name; a later section of the
// same name replaces an earlier one.
func collectSections(text string) map[string]string {
	sections := make(map[string]string)
	for _, g := range sectionBlockPattern.FindAllStringSubmatch(text, -1) {
		sections[g[1]] = strings.TrimSpace(g[2])
	}
	for _, g := range sectionInlinePattern.FindAllStringSubmatch(text, -1) {
		sections[g[1]] = g[2]
	}
	return sections
}
