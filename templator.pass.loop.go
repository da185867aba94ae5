package templator

import "regexp"

var (
	continuePattern   = regexp.MustCompile(`{%\s*continue\s*%}`)
	continueIfPattern = regexp.MustCompile(`{%\s*continueIf\s+(.+?)\s*%}`)
	breakPattern      = regexp.MustCompile(`{%\s*break\s*%}`)
	breakIfPattern    = regexp.MustCompile(`{%\s*breakIf\s+(.+?)\s*%}`)
)

// loopControlPass rewrites `{% KEYWORD %}` and `{% KEYWORDIf EXPR %}` into a
// host loop statement, optionally guarded by a condition.
type loopControlPass struct {
	name        string
	keyword     string
	plain       *regexp.Regexp
	conditional *regexp.Regexp
}

func (p loopControlPass) Name() string { return p.name }
func (loopControlPass) pass()          {}

func (p loopControlPass) Parse(text string) (string, error) {
	return mapLiteral(text, func(lit string) string {
		lit = rewrite(p.conditional, lit, func(g []string) string {
			return hostSpan(hostIf+" $."+hostTruth+" "+quoteExpr(g[1])) +
				hostSpan(p.keyword) +
				hostSpan(hostEnd)
		})
		return p.plain.ReplaceAllLiteralString(lit, hostSpan(p.keyword))
	}), nil
}

func newContinuePass() loopControlPass {
	return loopControlPass{
		name:        PassNameContinue,
		keyword:     hostContinue,
		plain:       continuePattern,
		conditional: continueIfPattern,
	}
}

func newBreakPass() loopControlPass {
	return loopControlPass{
		name:        PassNameBreak,
		keyword:     hostBreak,
		plain:       breakPattern,
		conditional: breakIfPattern,
	}
}
