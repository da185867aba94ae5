// Package templator compiles HTML-embedded directive templates into Go
// text/template host code, caches the compiled artifacts and renders them
// against a variable binding.
//
// # Directives
//
//	{{ expr }}                      print, HTML-escaped
//	{!! expr !!}                    print as is
//	{% set name = expr %}           bind a variable
//	{% if c %} {% elseif c %} {% else %} {% endif %}
//	{% each items as item %} ... {% endeach %}
//	{% each items as key => value %} ... {% endeach %}
//	{% continue %} {% continueIf c %} {% break %} {% breakIf c %}
//	{% include "partials/nav" %}    inline another template, compiled
//	{% extend "layout" %} {% section "body" %}...{% endsection %}
//	{% yield "body" %}              layout slot, optional default: {% yield "title", "Home" %}
//	{# comment #}                   removed
//	{% code %} action {% endcode %} raw host action
//
// Expressions support literals, dotted paths (user.name, items.0), indexing,
// arithmetic, comparison, && || !, the ternary ?:, nil-coalescing ?? and
// builtin functions such as upper, len, join, escape and sanitize.
//
// # Usage
//
//	t, err := templator.New("views", "storage/cache", templator.WithSuffix(".html"))
//	if err != nil {
//	    return err
//	}
//	defer t.Close()
//
//	out, err := t.Render(ctx, "home", map[string]any{"name": "taylor"})
//
// A template is recompiled when its file is newer than the cached artifact.
// Compiled artifacts live in a cache directory by default; use
// WithArtifactStore and NewPostgresArtifactStore to share them between
// processes.
package templator
