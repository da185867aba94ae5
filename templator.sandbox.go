package templator

import (
	"bytes"
	"errors"
	"reflect"

	"github.com/itsatony/go-templator/internal"
)

// Sandbox error messages
const (
	ErrMsgNotIterable      = "value is not iterable"
	ErrMsgNoOpenCapture    = "no capture is open"
	ErrMsgSandboxNoCapture = "write outside of any capture"
)

// Sandbox is the root value of every render. Compiled host code reaches the
// render scope only through its methods ($.Echo, $.Set, ...), and all output
// is written into its capture stack. A Sandbox serves a single render.
type Sandbox struct {
	scope    *internal.Scope
	funcs    *internal.FuncRegistry
	exprs    *internal.ExprCache
	captures []*bytes.Buffer
	floor    int // captures at or below this level belong to the executor
}

func newSandbox(data map[string]any, funcs *internal.FuncRegistry, exprs *internal.ExprCache) *Sandbox {
	if exprs == nil {
		exprs = &internal.ExprCache{}
	}
	return &Sandbox{
		scope: internal.NewScope(data),
		funcs: funcs,
		exprs: exprs,
	}
}

// Write appends to the innermost open capture.
func (s *Sandbox) Write(p []byte) (int, error) {
	if len(s.captures) == 0 {
		return 0, errors.New(ErrMsgSandboxNoCapture)
	}
	return s.captures[len(s.captures)-1].Write(p)
}

// level returns the number of open captures.
func (s *Sandbox) level() int {
	return len(s.captures)
}

// begin opens a capture.
func (s *Sandbox) begin() {
	s.captures = append(s.captures, &bytes.Buffer{})
}

// end closes the innermost capture and returns its text.
func (s *Sandbox) end() string {
	n := len(s.captures)
	if n == 0 {
		return ""
	}
	top := s.captures[n-1]
	s.captures = s.captures[:n-1]
	return top.String()
}

// unwind discards every capture opened above level.
func (s *Sandbox) unwind(level int) {
	for len(s.captures) > level {
		s.end()
	}
}

func (s *Sandbox) eval(expr string) (any, error) {
	node, err := s.exprs.Parse(expr)
	if err != nil {
		return nil, err
	}
	return internal.NewExprEvaluator(s.funcs, s.scope).Evaluate(node)
}

// Echo evaluates expr and returns its printed form, HTML-escaped.
func (s *Sandbox) Echo(expr string) (string, error) {
	v, err := s.eval(expr)
	if err != nil {
		return "", err
	}
	return internal.EscapeHTML(v), nil
}

// Raw evaluates expr and returns its printed form unescaped.
func (s *Sandbox) Raw(expr string) (string, error) {
	v, err := s.eval(expr)
	if err != nil {
		return "", err
	}
	return internal.Stringify(v), nil
}

// Set evaluates expr and binds the result to name. It prints nothing.
func (s *Sandbox) Set(name, expr string) (string, error) {
	v, err := s.eval(expr)
	if err != nil {
		return "", err
	}
	s.scope.Set(name, v)
	return "", nil
}

// Truth evaluates expr as a condition.
func (s *Sandbox) Truth(expr string) (bool, error) {
	v, err := s.eval(expr)
	if err != nil {
		return false, err
	}
	return internal.IsTruthy(v), nil
}

// Items evaluates expr to something range can iterate. nil iterates as empty.
func (s *Sandbox) Items(expr string) (any, error) {
	v, err := s.eval(expr)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return []any{}, nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return v, nil
	default:
		return nil, internal.NewExprEvalError(ErrMsgNotIterable, expr)
	}
}

// Bind sets name to value in the scope. It prints nothing.
func (s *Sandbox) Bind(name string, value any) string {
	s.scope.Set(name, value)
	return ""
}

// Eval evaluates expr and returns the value itself.
func (s *Sandbox) Eval(expr string) (any, error) {
	return s.eval(expr)
}

// Call invokes a registered expression function.
func (s *Sandbox) Call(name string, args ...any) (any, error) {
	return s.funcs.Call(name, args)
}

// Capture opens a nested output capture. It prints nothing.
func (s *Sandbox) Capture() string {
	s.begin()
	return ""
}

// EndCapture closes the capture opened by the matching Capture and binds
// the captured text to name.
func (s *Sandbox) EndCapture(name string) (string, error) {
	if len(s.captures) <= s.floor {
		return "", errors.New(ErrMsgNoOpenCapture)
	}
	s.scope.Set(name, s.end())
	return "", nil
}
