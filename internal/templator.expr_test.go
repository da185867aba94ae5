package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFuncs() *FuncRegistry {
	return NewBuiltinFuncRegistry()
}

// ==================== Tokenizer ====================

func TestExprTokenizer_Tokenize(t *testing.T) {
	tests := []struct {
		input    string
		expected []ExprTokenType
	}{
		{"a && b", []ExprTokenType{ExprTokenTypeIdentifier, ExprTokenTypeAnd, ExprTokenTypeIdentifier, ExprTokenTypeEOF}},
		{"x ?? 'y'", []ExprTokenType{ExprTokenTypeIdentifier, ExprTokenTypeCoalesce, ExprTokenTypeString, ExprTokenTypeEOF}},
		{"a ? 1 : 2.5", []ExprTokenType{
			ExprTokenTypeIdentifier, ExprTokenTypeQuestion, ExprTokenTypeNumber,
			ExprTokenTypeColon, ExprTokenTypeNumber, ExprTokenTypeEOF,
		}},
		{"items[0]", []ExprTokenType{
			ExprTokenTypeIdentifier, ExprTokenTypeLBracket, ExprTokenTypeNumber, ExprTokenTypeRBracket, ExprTokenTypeEOF,
		}},
		{"!null", []ExprTokenType{ExprTokenTypeNot, ExprTokenTypeNil, ExprTokenTypeEOF}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewExprTokenizer(tt.input).Tokenize()
			require.NoError(t, err)

			types := make([]ExprTokenType, len(tokens))
			for i, tok := range tokens {
				types[i] = tok.Type
			}
			assert.Equal(t, tt.expected, types)
		})
	}
}

func TestExprTokenizer_NumberLiterals(t *testing.T) {
	tokens, err := NewExprTokenizer("42 3.5").Tokenize()
	require.NoError(t, err)

	assert.Equal(t, 42, tokens[0].Literal)
	assert.Equal(t, 3.5, tokens[1].Literal)
}

func TestExprTokenizer_Errors(t *testing.T) {
	_, err := NewExprTokenizer("'open").Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgExprUnterminatedStr)

	_, err = NewExprTokenizer("a # b").Tokenize()
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgExprUnexpectedChar)
}

// ==================== Parser ====================

func TestExprParser_Precedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 PLUS (2 STAR 3))"},
		{"a || b && c", "(a OR (b AND c))"},
		{"a ?? b ? 'x' : 'y'", `((a COALESCE b) ? "x" : "y")`},
		{"!a == b", "((NOT a) EQ b)"},
		{"upper(name)[0]", "upper(name)[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := ParseExpression(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, node.String())
		})
	}
}

func TestExprParser_Errors(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"", ErrMsgExprEmptyExpression},
		{"(a", ErrMsgExprExpectedRParen},
		{"a ? b", ErrMsgExprExpectedColon},
		{"a b", ErrMsgExprUnexpectedToken},
		{"a +", ErrMsgExprUnexpectedEOF},
		{"a[1", ErrMsgExprExpectedRBracket},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseExpression(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

// ==================== Evaluator ====================

func TestExprEvaluator_Values(t *testing.T) {
	scope := NewScope(map[string]any{
		"name":  "taylor",
		"age":   30,
		"price": 2.5,
		"items": []any{"a", "b", "c"},
		"user":  map[string]any{"name": "ada", "tags": []string{"x", "y"}},
		"empty": "",
	})

	tests := []struct {
		input    string
		expected any
	}{
		{"name", "taylor"},
		{"user.name", "ada"},
		{"user.tags.1", "y"},
		{"items[2]", "c"},
		{"user['name']", "ada"},
		{"age + 1", 31},
		{"age / 3", 10},
		{"age / 4", 7.5},
		{"age % 7", 2},
		{"price * 2", 5.0},
		{"-age", -30},
		{"'hi ' + name", "hi taylor"},
		{"age >= 18 ? 'adult' : 'minor'", "adult"},
		{"missing ?? 'fallback'", "fallback"},
		{"user.missing ?? 'none'", "none"},
		{"name ?? 'fallback'", "taylor"},
		{"empty || age", true},
		{"!empty", true},
		{"len(items)", 3},
		{"upper(user.name)", "ADA"},
		{"age == '30'", false},
		{"age == 30.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := EvaluateExpression(tt.input, newTestFuncs(), scope)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExprEvaluator_KeywordShadowing(t *testing.T) {
	scope := NewScope(map[string]any{"true": false})

	result, err := EvaluateExpression("true", nil, scope)
	require.NoError(t, err)
	assert.Equal(t, false, result)

	result, err = EvaluateExpression("false", nil, scope)
	require.NoError(t, err)
	assert.Equal(t, false, result)

	result, err = EvaluateExpression("true", nil, NewScope(nil))
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

type celsius float32

func TestExprEvaluator_NumericKinds(t *testing.T) {
	scope := NewScope(map[string]any{
		"u":     uint(41),
		"u0":    uint(0),
		"i8":    int8(5),
		"i32z":  int32(0),
		"u64":   uint64(7),
		"f32":   float32(1.5),
		"f32z":  float32(0),
		"temp":  celsius(0),
		"bytes": uint8(255),
	})

	tests := []struct {
		input    string
		expected any
	}{
		{"u + 1", 42},
		{"u * 2", 82},
		{"u64 % 4", 3},
		{"i8 - 6", -1},
		{"-u", -41},
		{"f32 * 2", 3.0},
		{"bytes + 1", 256},
		{"u == 41", true},
		{"u > 40.5", true},
		{"u64 == 7.0", true},
		{"u0 ? 'yes' : 'no'", "no"},
		{"i32z ? 'yes' : 'no'", "no"},
		{"f32z ? 'yes' : 'no'", "no"},
		{"temp ? 'yes' : 'no'", "no"},
		{"u ? 'yes' : 'no'", "yes"},
		{"!u0", true},
		{"toInt(u)", 41},
		{"toFloat(f32)", 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := EvaluateExpression(tt.input, newTestFuncs(), scope)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestExprEvaluator_Errors(t *testing.T) {
	scope := NewScope(map[string]any{"n": 1, "s": "x"})

	t.Run("undefined variable", func(t *testing.T) {
		_, err := EvaluateExpression("nope", nil, scope)
		require.Error(t, err)
		assert.True(t, IsUndefined(err))
		assert.Contains(t, err.Error(), "nope")
	})

	t.Run("division by zero", func(t *testing.T) {
		_, err := EvaluateExpression("n / 0", nil, scope)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgExprDivisionByZero)
	})

	t.Run("type mismatch", func(t *testing.T) {
		_, err := EvaluateExpression("s < n", nil, scope)
		require.Error(t, err)
		assert.False(t, IsUndefined(err))
	})

	t.Run("unknown function", func(t *testing.T) {
		_, err := EvaluateExpression("nofunc(n)", newTestFuncs(), scope)
		var funcErr *FuncError
		require.True(t, errors.As(err, &funcErr))
		assert.Equal(t, "nofunc", funcErr.FuncName)
	})

	t.Run("coalesce keeps other errors", func(t *testing.T) {
		_, err := EvaluateExpression("(n / 0) ?? 1", nil, scope)
		require.Error(t, err)
	})
}

func TestExprCache_Parse(t *testing.T) {
	var cache ExprCache

	first, err := cache.Parse("a + 1")
	require.NoError(t, err)
	second, err := cache.Parse("a + 1")
	require.NoError(t, err)
	assert.Same(t, first, second)

	_, err = cache.Parse("a +")
	assert.Error(t, err)
}

// ==================== Scope ====================

type scopeUser struct {
	Name    string
	private string
}

func TestScope_Get(t *testing.T) {
	scope := NewScope(map[string]any{
		"user":     scopeUser{Name: "grace", private: "x"},
		"ptr":      &scopeUser{Name: "linus"},
		"labels":   map[string]string{"a": "A"},
		"dot.name": "verbatim",
	})

	tests := []struct {
		path     string
		expected any
		found    bool
	}{
		{"user.Name", "grace", true},
		{"user.name", "grace", true},
		{"user.private", nil, false},
		{"ptr.name", "linus", true},
		{"labels.a", "A", true},
		{"labels.b", nil, false},
		{"dot.name", "verbatim", true},
		{"none.x", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := scope.Get(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestScope_CopiesInput(t *testing.T) {
	data := map[string]any{"a": 1}
	scope := NewScope(data)
	scope.Set("b", 2)

	_, leaked := data["b"]
	assert.False(t, leaked)
	assert.True(t, scope.Has("b"))
}
