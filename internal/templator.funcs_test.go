package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Registry ====================

func TestFuncRegistry_Register(t *testing.T) {
	r := NewFuncRegistry()
	fn := &Func{
		Name:    "echo",
		MinArgs: 1,
		MaxArgs: 1,
		Fn:      func(args []any) (any, error) { return args[0], nil },
	}

	require.NoError(t, r.Register(fn))
	assert.True(t, r.Has("echo"))
	assert.Equal(t, 1, r.Count())

	err := r.Register(fn)
	var regErr *FuncRegistryError
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, ErrMsgFuncAlreadyExists, regErr.Message)
}

func TestFuncRegistry_Register_Invalid(t *testing.T) {
	r := NewFuncRegistry()

	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(&Func{Fn: func([]any) (any, error) { return nil, nil }}))
	assert.Error(t, r.Register(&Func{Name: "noimpl"}))
}

func TestFuncRegistry_Call_Arity(t *testing.T) {
	r := newTestFuncs()

	_, err := r.Call(FuncNameUpper, nil)
	var argErr *FuncArgError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, ErrMsgFuncTooFewArgs, argErr.Message)

	_, err = r.Call(FuncNameUpper, []any{"a", "b"})
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, ErrMsgFuncTooManyArgs, argErr.Message)

	result, err := r.Call(FuncNameCoalesce, []any{nil, "", "x", "y"})
	require.NoError(t, err)
	assert.Equal(t, "x", result)
}

func TestFuncRegistry_Call_ExecError(t *testing.T) {
	r := newTestFuncs()

	_, err := r.Call(FuncNameUpper, []any{42})
	var execErr *FuncExecError
	require.True(t, errors.As(err, &execErr))

	var typeErr *FuncTypeError
	require.True(t, errors.As(err, &typeErr))
	assert.Equal(t, ArgIndexFirst, typeErr.ArgIndex)
}

func TestFuncRegistry_Names_Sorted(t *testing.T) {
	names := newTestFuncs().Names()
	require.NotEmpty(t, names)
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, FuncNameSanitize)
}

// ==================== Builtins ====================

func TestBuiltinFuncs(t *testing.T) {
	r := newTestFuncs()

	tests := []struct {
		name     string
		fn       string
		args     []any
		expected any
	}{
		{"upper", FuncNameUpper, []any{"abc"}, "ABC"},
		{"lower", FuncNameLower, []any{"ABC"}, "abc"},
		{"trim", FuncNameTrim, []any{"  x "}, "x"},
		{"trimPrefix", FuncNameTrimPrefix, []any{"prefix-x", "prefix-"}, "x"},
		{"hasSuffix", FuncNameHasSuffix, []any{"file.tmpl", ".tmpl"}, true},
		{"replace", FuncNameReplace, []any{"a-b-c", "-", "+"}, "a+b+c"},
		{"split", FuncNameSplit, []any{"a,b", ","}, []any{"a", "b"}},
		{"join", FuncNameJoin, []any{[]any{1, "b", true}, "|"}, "1|b|1"},
		{"contains string", FuncNameContains, []any{"taylor", "ylo"}, true},
		{"contains list", FuncNameContains, []any{[]int{1, 2, 3}, 2}, true},
		{"contains map", FuncNameContains, []any{map[string]any{"k": 1}, "z"}, false},
		{"len", FuncNameLen, []any{[]string{"a", "b"}}, 2},
		{"first", FuncNameFirst, []any{[]any{"x", "y"}}, "x"},
		{"last empty", FuncNameLast, []any{[]any{}}, nil},
		{"keys", FuncNameKeys, []any{map[string]any{"b": 1, "a": 2}}, []any{"a", "b"}},
		{"values", FuncNameValues, []any{map[string]any{"b": 1, "a": 2}}, []any{2, 1}},
		{"range", FuncNameRange, []any{3}, []any{0, 1, 2}},
		{"range step", FuncNameRange, []any{1, 6, 2}, []any{1, 3, 5}},
		{"toString bool", FuncNameToString, []any{true}, "1"},
		{"toString float", FuncNameToString, []any{2.50}, "2.5"},
		{"toInt", FuncNameToInt, []any{"12"}, 12},
		{"toFloat", FuncNameToFloat, []any{"1.5"}, 1.5},
		{"toBool zero string", FuncNameToBool, []any{"0"}, false},
		{"typeOf", FuncNameTypeOf, []any{[]string{}}, TypeNameList},
		{"isNil", FuncNameIsNil, []any{nil}, true},
		{"isEmpty", FuncNameIsEmpty, []any{map[string]any{}}, true},
		{"default", FuncNameDefault, []any{"", "d"}, "d"},
		{"escape", FuncNameEscape, []any{`<a href="x">`}, "&lt;a href=&#34;x&#34;&gt;"},
		{"stripTags", FuncNameStripTags, []any{"<b>bold</b> text"}, "bold text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := r.Call(tt.fn, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestBuiltinFuncs_Sanitize(t *testing.T) {
	result, err := newTestFuncs().Call(FuncNameSanitize, []any{`<p onclick="x()">hi<script>alert(1)</script></p>`})
	require.NoError(t, err)

	out := result.(string)
	assert.Contains(t, out, "<p>hi")
	assert.NotContains(t, out, "script")
	assert.NotContains(t, out, "onclick")
}

func TestBuiltinFuncs_RangeRejectsBadStep(t *testing.T) {
	_, err := newTestFuncs().Call(FuncNameRange, []any{0, 3, 0})
	assert.Error(t, err)
}

// ==================== Coercions ====================

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		in       any
		expected string
	}{
		{"nil", nil, ""},
		{"true", true, "1"},
		{"false", false, ""},
		{"int", 7, "7"},
		{"int64", int64(9), "9"},
		{"float", 1.25, "1.25"},
		{"whole float", 3.0, "3"},
		{"string", "s", "s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stringify(tt.in))
		})
	}
}

func TestIsTruthy(t *testing.T) {
	falsy := []any{nil, false, 0, 0.0, "", "0", []any{}, map[string]any{},
		int8(0), int32(0), int64(0), uint(0), uint8(0), uint64(0), float32(0)}
	for _, v := range falsy {
		assert.False(t, IsTruthy(v), "%#v", v)
	}

	truthy := []any{true, 1, -1.5, "a", "false", []int{1}, struct{}{}, uint(3), int16(-2), float32(0.25)}
	for _, v := range truthy {
		assert.True(t, IsTruthy(v), "%#v", v)
	}
}
