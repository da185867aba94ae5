package templator

import "strings"

const (
	commentOpen  = "{#"
	commentClose = "#}"
)

// commentPass removes `{# ... #}`, which may span lines. An opener inside a
// host span is not a comment; an opener without a closer is left alone.
type commentPass struct{}

func (commentPass) Name() string { return PassNameComment }
func (commentPass) pass()        {}

func (commentPass) Parse(text string) (string, error) {
	if !strings.Contains(text, commentOpen) {
		return text, nil
	}

	spans := literalSpans(text)
	var sb strings.Builder
	pos := 0
	for {
		i := strings.Index(text[pos:], commentOpen)
		if i < 0 {
			break
		}
		start := pos + i
		if !inLiteral(spans, start) {
			sb.WriteString(text[pos : start+len(commentOpen)])
			pos = start + len(commentOpen)
			continue
		}

		j := strings.Index(text[start+len(commentOpen):], commentClose)
		if j < 0 {
			break
		}
		sb.WriteString(text[pos:start])
		pos = start + len(commentOpen) + j + len(commentClose)
	}
	sb.WriteString(text[pos:])
	return sb.String(), nil
}
