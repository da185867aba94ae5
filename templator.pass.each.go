package templator

import "regexp"

var (
	eachPattern    = regexp.MustCompile(`{%\s*each\s+(.+?)\s+as\s+(\w+)(?:\s*=>\s*(\w+))?\s*%}`)
	endEachPattern = regexp.MustCompile(`{%\s*endeach\s*%}`)
)

// eachPass rewrites loops. `{% each items as item %}` binds each element;
// `{% each items as key => value %}` binds index or map key and element.
type eachPass struct{}

func (eachPass) Name() string { return PassNameEach }
func (eachPass) pass()        {}

func (eachPass) Parse(text string) (string, error) {
	return mapLiteral(text, func(lit string) string {
		lit = rewrite(eachPattern, lit, emitEach)
		return endEachPattern.ReplaceAllLiteralString(lit, hostSpan(hostEnd))
	}), nil
}

func emitEach(g []string) string {
	items := "$." + hostItems + " " + quoteExpr(g[1])

	if g[3] == "" {
		return hostSpan(hostRange+" "+items) +
			hostSpan("$."+hostBind+" "+quoteExpr(g[2])+" .")
	}

	return hostSpan(hostRange+" "+hostKeyVar+", "+hostValueVar+" := "+items) +
		hostSpan("$."+hostBind+" "+quoteExpr(g[2])+" "+hostKeyVar) +
		hostSpan("$."+hostBind+" "+quoteExpr(g[3])+" "+hostValueVar)
}
