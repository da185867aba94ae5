package templator

import "regexp"

var (
	rawEchoPattern = regexp.MustCompile(`{!!\s*(.+?)\s*!!}`)
	echoPattern    = regexp.MustCompile(`{{\s*(.+?)\s*}}`)
)

// namePass rewrites interpolation: `{{ EXPR }}` prints HTML-escaped,
// `{!! EXPR !!}` prints as is.
type namePass struct{}

func (namePass) Name() string { return PassNameName }
func (namePass) pass()        {}

func (namePass) Parse(text string) (string, error) {
	text = mapLiteral(text, func(lit string) string {
		return rewrite(rawEchoPattern, lit, func(g []string) string {
			return hostCall(hostRaw, g[1])
		})
	})
	return mapLiteral(text, func(lit string) string {
		return rewrite(echoPattern, lit, func(g []string) string {
			return hostCall(hostEcho, g[1])
		})
	}), nil
}

// rewrite replaces every match of re with emit(submatches).
func rewrite(re *regexp.Regexp, text string, emit func(g []string) string) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		return emit(re.FindStringSubmatch(m))
	})
}
