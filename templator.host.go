package templator

import (
	"strconv"
	"strings"
)

// Sandbox method names reachable from host code as $.Method
const (
	hostEcho       = "Echo"
	hostRaw        = "Raw"
	hostSet        = "Set"
	hostTruth      = "Truth"
	hostItems      = "Items"
	hostBind       = "Bind"
	hostKeyVar     = "$__key"
	hostValueVar   = "$__value"
	hostIf         = "if"
	hostElseIf     = "else if"
	hostElse       = "else"
	hostEnd        = "end"
	hostRange      = "range"
	hostContinue   = "continue"
	hostBreak      = "break"
	hostCloseGuard = "?\\x3e"
)

// hostSpan wraps an action in host delimiters.
func hostSpan(action string) string {
	return HostOpen + " " + action + " " + HostClose
}

// hostCall renders `<?go $.Method "arg" ... ?>`; every argument is quoted.
func hostCall(method string, args ...string) string {
	var sb strings.Builder
	sb.WriteString("$.")
	sb.WriteString(method)
	for _, arg := range args {
		sb.WriteByte(' ')
		sb.WriteString(quoteExpr(arg))
	}
	return hostSpan(sb.String())
}

// quoteExpr embeds directive text as a host string literal. The closing
// delimiter is escaped so span scanning never ends inside the literal.
func quoteExpr(expr string) string {
	return strings.ReplaceAll(strconv.Quote(expr), HostClose, hostCloseGuard)
}

// mapLiteral applies fn to every stretch of text outside host spans and
// leaves the spans themselves untouched. An unterminated span runs to the
// end of the text.
func mapLiteral(text string, fn func(string) string) string {
	if !strings.Contains(text, HostOpen) {
		return fn(text)
	}

	var sb strings.Builder
	sb.Grow(len(text))
	rest := text
	for {
		open := strings.Index(rest, HostOpen)
		if open < 0 {
			sb.WriteString(fn(rest))
			return sb.String()
		}
		sb.WriteString(fn(rest[:open]))
		rest = rest[open:]

		end := strings.Index(rest[len(HostOpen):], HostClose)
		if end < 0 {
			sb.WriteString(rest)
			return sb.String()
		}
		end += len(HostOpen) + len(HostClose)
		sb.WriteString(rest[:end])
		rest = rest[end:]
	}
}

// literalSpans returns the [start, end) ranges of text that lie outside host spans.
func literalSpans(text string) [][2]int {
	var spans [][2]int
	pos := 0
	for pos <= len(text) {
		open := strings.Index(text[pos:], HostOpen)
		if open < 0 {
			spans = append(spans, [2]int{pos, len(text)})
			return spans
		}
		spans = append(spans, [2]int{pos, pos + open})
		closeAt := strings.Index(text[pos+open+len(HostOpen):], HostClose)
		if closeAt < 0 {
			return spans
		}
		pos = pos + open + len(HostOpen) + closeAt + len(HostClose)
	}
	return spans
}

// inLiteral reports whether offset falls inside one of spans.
func inLiteral(spans [][2]int, offset int) bool {
	for _, s := range spans {
		if offset >= s[0] && offset < s[1] {
			return true
		}
	}
	return false
}
