package templator

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`(?s){%\s*code\s*%}(.*?){%\s*endcode\s*%}`)

// codePass passes `{% code %} ACTION {% endcode %}` through as a host action
// verbatim. It runs before interpolation so directive-like text inside the
// block is never rewritten.
type codePass struct{}

func (codePass) Name() string { return PassNameCode }
func (codePass) pass()        {}

func (codePass) Parse(text string) (string, error) {
	return codePattern.ReplaceAllStringFunc(text, func(m string) string {
		g := codePattern.FindStringSubmatch(m)
		return hostSpan(strings.TrimSpace(g[1]))
	}), nil
}
