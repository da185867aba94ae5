package templator

import "regexp"

var setPattern = regexp.MustCompile(`{%\s*set\s+(\w+)\s*=\s*(.*?)\s*%}`)

// setPass turns `{% set NAME = EXPR %}` into a scope binding that prints nothing.
type setPass struct{}

func (setPass) Name() string { return PassNameSet }
func (setPass) pass()        {}

func (setPass) Parse(text string) (string, error) {
	return setPattern.ReplaceAllStringFunc(text, func(m string) string {
		g := setPattern.FindStringSubmatch(m)
		return hostCall(hostSet, g[1], g[2])
	}), nil
}
