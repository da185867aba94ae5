package internal

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicyOnce    sync.Once
	ugcPolicy        *bluemonday.Policy
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// UGCPolicy returns the shared policy used by sanitize. Policies are safe for
// concurrent use once built.
func UGCPolicy() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}

// StrictPolicy returns the shared policy used by stripTags.
func StrictPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// EscapeHTML escapes the printed form of v for inclusion in HTML text or
// double- and single-quoted attributes.
func EscapeHTML(v any) string {
	return html.EscapeString(Stringify(v))
}

func registerHTMLFuncs(r *FuncRegistry) {
	r.MustRegister(&Func{
		Name:    FuncNameEscape,
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return EscapeHTML(args[ArgIndexFirst]), nil },
	})

	// sanitize keeps user-content markup and drops scripts, handlers and the like
	r.MustRegister(&Func{
		Name:    FuncNameSanitize,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			return UGCPolicy().Sanitize(Stringify(args[ArgIndexFirst])), nil
		},
	})

	r.MustRegister(&Func{
		Name:    FuncNameStripTags,
		MinArgs: 1,
		MaxArgs: 1,
		Fn: func(args []any) (any, error) {
			return StrictPolicy().Sanitize(Stringify(args[ArgIndexFirst])), nil
		},
	})
}
