package internal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ExprTokenType names a lexical class; its value doubles as the operator
// label in error details and AST dumps.
type ExprTokenType string

const (
	ExprTokenTypeIdentifier ExprTokenType = "IDENT"
	ExprTokenTypeString     ExprTokenType = "STRING"
	ExprTokenTypeNumber     ExprTokenType = "NUMBER"
	ExprTokenTypeBool       ExprTokenType = "BOOL"
	ExprTokenTypeNil        ExprTokenType = "NIL"
	ExprTokenTypeLParen     ExprTokenType = "LPAREN"
	ExprTokenTypeRParen     ExprTokenType = "RPAREN"
	ExprTokenTypeLBracket   ExprTokenType = "LBRACKET"
	ExprTokenTypeRBracket   ExprTokenType = "RBRACKET"
	ExprTokenTypeComma      ExprTokenType = "COMMA"
	ExprTokenTypeQuestion   ExprTokenType = "QUESTION"
	ExprTokenTypeColon      ExprTokenType = "COLON"

	// Operators
	ExprTokenTypeAnd      ExprTokenType = "AND"
	ExprTokenTypeOr       ExprTokenType = "OR"
	ExprTokenTypeNot      ExprTokenType = "NOT"
	ExprTokenTypeEq       ExprTokenType = "EQ"
	ExprTokenTypeNeq      ExprTokenType = "NEQ"
	ExprTokenTypeLt       ExprTokenType = "LT"
	ExprTokenTypeGt       ExprTokenType = "GT"
	ExprTokenTypeLte      ExprTokenType = "LTE"
	ExprTokenTypeGte      ExprTokenType = "GTE"
	ExprTokenTypePlus     ExprTokenType = "PLUS"
	ExprTokenTypeMinus    ExprTokenType = "MINUS"
	ExprTokenTypeStar     ExprTokenType = "STAR"
	ExprTokenTypeSlash    ExprTokenType = "SLASH"
	ExprTokenTypePercent  ExprTokenType = "PERCENT"
	ExprTokenTypeCoalesce ExprTokenType = "COALESCE"

	ExprTokenTypeEOF ExprTokenType = "EOF"
)

// Operator spellings as they appear in directive expressions
const (
	ExprOpAnd      = "&&"
	ExprOpOr       = "||"
	ExprOpNot      = "!"
	ExprOpEq       = "=="
	ExprOpNeq      = "!="
	ExprOpLt       = "<"
	ExprOpGt       = ">"
	ExprOpLte      = "<="
	ExprOpGte      = ">="
	ExprOpCoalesce = "??"
)

// Keywords that read as literals unless the scope binds the same name
const (
	ExprKeywordTrue  = "true"
	ExprKeywordFalse = "false"
	ExprKeywordNil   = "nil"
	ExprKeywordNull  = "null"
)

// twoCharOps maps two-character operators to their token types.
var twoCharOps = map[string]ExprTokenType{
	ExprOpAnd:      ExprTokenTypeAnd,
	ExprOpOr:       ExprTokenTypeOr,
	ExprOpEq:       ExprTokenTypeEq,
	ExprOpNeq:      ExprTokenTypeNeq,
	ExprOpLte:      ExprTokenTypeLte,
	ExprOpGte:      ExprTokenTypeGte,
	ExprOpCoalesce: ExprTokenTypeCoalesce,
}

// oneCharOps maps single-character tokens to their token types.
var oneCharOps = map[byte]ExprTokenType{
	'(': ExprTokenTypeLParen,
	')': ExprTokenTypeRParen,
	'[': ExprTokenTypeLBracket,
	']': ExprTokenTypeRBracket,
	',': ExprTokenTypeComma,
	'?': ExprTokenTypeQuestion,
	':': ExprTokenTypeColon,
	'!': ExprTokenTypeNot,
	'<': ExprTokenTypeLt,
	'>': ExprTokenTypeGt,
	'+': ExprTokenTypePlus,
	'-': ExprTokenTypeMinus,
	'*': ExprTokenTypeStar,
	'/': ExprTokenTypeSlash,
	'%': ExprTokenTypePercent,
}

// ExprToken is one lexeme. Pos is the byte offset into the expression.
type ExprToken struct {
	Type    ExprTokenType
	Value   string
	Pos     int
	Literal any // Parsed value for literals (string, int, float64, bool, nil)
}

func (t ExprToken) String() string {
	if t.Value != "" {
		return fmt.Sprintf("%s(%s)", t.Type, t.Value)
	}
	return string(t.Type)
}

// ExprTokenizer splits a directive expression into tokens.
type ExprTokenizer struct {
	input string
	pos   int
	len   int
}

func NewExprTokenizer(input string) *ExprTokenizer {
	return &ExprTokenizer{
		input: input,
		len:   len(input),
	}
}

// Tokenize returns every token of the input, terminated by an EOF token.
func (t *ExprTokenizer) Tokenize() ([]ExprToken, error) {
	var tokens []ExprToken

	for {
		t.skipWhitespace()

		if t.pos >= t.len {
			tokens = append(tokens, ExprToken{Type: ExprTokenTypeEOF, Pos: t.pos})
			break
		}

		token, err := t.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}

	return tokens, nil
}

func (t *ExprTokenizer) nextToken() (ExprToken, error) {
	startPos := t.pos
	ch := t.peek()

	if ch == '"' || ch == '\'' {
		return t.readString()
	}

	if isDigit(ch) || (ch == '.' && t.pos+1 < t.len && isDigit(t.input[t.pos+1])) {
		return t.readNumber()
	}

	if unicode.IsLetter(rune(ch)) || ch == '_' {
		return t.readIdentifier()
	}

	if t.pos+1 < t.len {
		op := t.input[t.pos : t.pos+2]
		if typ, ok := twoCharOps[op]; ok {
			t.pos += 2
			return ExprToken{Type: typ, Value: op, Pos: startPos}, nil
		}
	}

	if typ, ok := oneCharOps[ch]; ok {
		t.pos++
		return ExprToken{Type: typ, Value: string(ch), Pos: startPos}, nil
	}

	return ExprToken{}, NewExprTokenError(ErrMsgExprUnexpectedChar, startPos, string(ch))
}

func (t *ExprTokenizer) readString() (ExprToken, error) {
	startPos := t.pos
	quote := t.input[t.pos]
	t.pos++

	var sb strings.Builder
	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch == quote {
			t.pos++
			value := sb.String()
			return ExprToken{Type: ExprTokenTypeString, Value: value, Pos: startPos, Literal: value}, nil
		}
		if ch == '\\' && t.pos+1 < t.len {
			t.pos++
			switch escaped := t.input[t.pos]; escaped {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(escaped)
			}
			t.pos++
			continue
		}
		sb.WriteByte(ch)
		t.pos++
	}

	return ExprToken{}, NewExprTokenError(ErrMsgExprUnterminatedStr, startPos, "")
}

// readNumber reads an integer or decimal literal. Integers stay integral so
// that arithmetic over them does not drift into floats.
func (t *ExprTokenizer) readNumber() (ExprToken, error) {
	startPos := t.pos
	hasDecimal := false

	for t.pos < t.len {
		ch := t.input[t.pos]
		if ch == '.' {
			if hasDecimal || t.pos+1 >= t.len || !isDigit(t.input[t.pos+1]) {
				break
			}
			hasDecimal = true
			t.pos++
			continue
		}
		if !isDigit(ch) {
			break
		}
		t.pos++
	}

	value := t.input[startPos:t.pos]

	if !hasDecimal {
		n, err := strconv.Atoi(value)
		if err != nil {
			return ExprToken{}, NewExprTokenError(ErrMsgExprInvalidNumber, startPos, value)
		}
		return ExprToken{Type: ExprTokenTypeNumber, Value: value, Pos: startPos, Literal: n}, nil
	}

	f, err := strconv.ParseFloat(value, FloatBitSize64)
	if err != nil {
		return ExprToken{}, NewExprTokenError(ErrMsgExprInvalidNumber, startPos, value)
	}
	return ExprToken{Type: ExprTokenTypeNumber, Value: value, Pos: startPos, Literal: f}, nil
}

// readIdentifier consumes a name such as user.name.0, or a keyword.
func (t *ExprTokenizer) readIdentifier() (ExprToken, error) {
	startPos := t.pos

	for t.pos < t.len {
		ch := rune(t.input[t.pos])
		if !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' && ch != '.' {
			break
		}
		t.pos++
	}

	value := t.input[startPos:t.pos]

	switch value {
	case ExprKeywordTrue:
		return ExprToken{Type: ExprTokenTypeBool, Value: value, Pos: startPos, Literal: true}, nil
	case ExprKeywordFalse:
		return ExprToken{Type: ExprTokenTypeBool, Value: value, Pos: startPos, Literal: false}, nil
	case ExprKeywordNil, ExprKeywordNull:
		return ExprToken{Type: ExprTokenTypeNil, Value: value, Pos: startPos, Literal: nil}, nil
	}

	return ExprToken{Type: ExprTokenTypeIdentifier, Value: value, Pos: startPos}, nil
}

func (t *ExprTokenizer) peek() byte {
	if t.pos >= t.len {
		return 0
	}
	return t.input[t.pos]
}

func (t *ExprTokenizer) skipWhitespace() {
	for t.pos < t.len && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// ExprTokenError is a lexing failure at a byte offset.
type ExprTokenError struct {
	Message string
	Pos     int
	Detail  string
}

func NewExprTokenError(message string, pos int, detail string) *ExprTokenError {
	return &ExprTokenError{
		Message: message,
		Pos:     pos,
		Detail:  detail,
	}
}

func (e *ExprTokenError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at position %d: %s", e.Message, e.Pos, e.Detail)
	}
	return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
}

// Lexing failures
const (
	ErrMsgExprUnexpectedChar  = "unexpected character"
	ErrMsgExprUnterminatedStr = "unterminated string literal"
	ErrMsgExprInvalidNumber   = "invalid number format"
)
