package templator

import "regexp"

var (
	ifPattern     = regexp.MustCompile(`{%\s*if\s+(.+?)\s*%}`)
	elseIfPattern = regexp.MustCompile(`{%\s*else\s*if\s+(.+?)\s*%}`)
	elsePattern   = regexp.MustCompile(`{%\s*else\s*%}`)
	endIfPattern  = regexp.MustCompile(`{%\s*endif\s*%}`)
)

// ifPass rewrites conditionals. `{% elseif %}` and `{% else if %}` are the same.
type ifPass struct{}

func (ifPass) Name() string { return PassNameIf }
func (ifPass) pass()        {}

func (ifPass) Parse(text string) (string, error) {
	return mapLiteral(text, func(lit string) string {
		lit = rewrite(elseIfPattern, lit, func(g []string) string {
			return hostSpan(hostElseIf + " $." + hostTruth + " " + quoteExpr(g[1]))
		})
		lit = rewrite(ifPattern, lit, func(g []string) string {
			return hostSpan(hostIf + " $." + hostTruth + " " + quoteExpr(g[1]))
		})
		lit = elsePattern.ReplaceAllLiteralString(lit, hostSpan(hostElse))
		return endIfPattern.ReplaceAllLiteralString(lit, hostSpan(hostEnd))
	}), nil
}
