package internal

import "fmt"

// ExprParser parses expression tokens into an AST.
//
// Precedence, lowest first:
//
//	?:  ??  ||  &&  == !=  < > <= >=  + -  * / %  unary ! -  postfix [] ()
type ExprParser struct {
	tokens []ExprToken
	pos    int
}

func NewExprParser(tokens []ExprToken) *ExprParser {
	return &ExprParser{tokens: tokens}
}

// Parse builds the AST. Tokens left over after a complete expression are an
// error.
func (p *ExprParser) Parse() (ExprNode, error) {
	if len(p.tokens) == 0 || (len(p.tokens) == 1 && p.tokens[0].Type == ExprTokenTypeEOF) {
		return nil, NewExprParseError(ErrMsgExprEmptyExpression, 0, "")
	}

	node, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	if !p.isAtEnd() {
		return nil, NewExprParseError(ErrMsgExprUnexpectedToken, p.peek().Pos, p.peek().Value)
	}

	return node, nil
}

func (p *ExprParser) parseTernary() (ExprNode, error) {
	cond, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}

	if !p.match(ExprTokenTypeQuestion) {
		return cond, nil
	}

	then, err := p.parseTernary()
	if err != nil {
		return nil, err
	}
	if !p.match(ExprTokenTypeColon) {
		return nil, NewExprParseError(ErrMsgExprExpectedColon, p.currentPos(), "")
	}
	otherwise, err := p.parseTernary()
	if err != nil {
		return nil, err
	}

	return &TernaryNode{Cond: cond, Then: then, Else: otherwise}, nil
}

// binaryLevel parses a left-associative chain of operators at one precedence level.
func (p *ExprParser) binaryLevel(next func() (ExprNode, error), ops ...ExprTokenType) (ExprNode, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}

	for p.matchAny(ops...) {
		op := p.previous().Type
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Left: left, Op: op, Right: right}
	}

	return left, nil
}

func (p *ExprParser) parseCoalesce() (ExprNode, error) {
	return p.binaryLevel(p.parseOr, ExprTokenTypeCoalesce)
}

func (p *ExprParser) parseOr() (ExprNode, error) {
	return p.binaryLevel(p.parseAnd, ExprTokenTypeOr)
}

func (p *ExprParser) parseAnd() (ExprNode, error) {
	return p.binaryLevel(p.parseEquality, ExprTokenTypeAnd)
}

func (p *ExprParser) parseEquality() (ExprNode, error) {
	return p.binaryLevel(p.parseComparison, ExprTokenTypeEq, ExprTokenTypeNeq)
}

func (p *ExprParser) parseComparison() (ExprNode, error) {
	return p.binaryLevel(p.parseAdditive,
		ExprTokenTypeLt, ExprTokenTypeGt, ExprTokenTypeLte, ExprTokenTypeGte)
}

func (p *ExprParser) parseAdditive() (ExprNode, error) {
	return p.binaryLevel(p.parseMultiplicative, ExprTokenTypePlus, ExprTokenTypeMinus)
}

func (p *ExprParser) parseMultiplicative() (ExprNode, error) {
	return p.binaryLevel(p.parseUnary, ExprTokenTypeStar, ExprTokenTypeSlash, ExprTokenTypePercent)
}

func (p *ExprParser) parseUnary() (ExprNode, error) {
	if p.matchAny(ExprTokenTypeNot, ExprTokenTypeMinus) {
		op := p.previous().Type
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &UnaryNode{Op: op, Right: right}, nil
	}

	return p.parsePostfix()
}

// parsePostfix parses calls on identifiers and any number of [index] suffixes
func (p *ExprParser) parsePostfix() (ExprNode, error) {
	node, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	if ident, ok := node.(*IdentifierNode); ok && p.match(ExprTokenTypeLParen) {
		node, err = p.finishCall(ident.Name)
		if err != nil {
			return nil, err
		}
	}

	for p.match(ExprTokenTypeLBracket) {
		index, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if !p.match(ExprTokenTypeRBracket) {
			return nil, NewExprParseError(ErrMsgExprExpectedRBracket, p.currentPos(), "")
		}
		node = &IndexNode{Target: node, Index: index}
	}

	return node, nil
}

func (p *ExprParser) finishCall(name string) (ExprNode, error) {
	var args []ExprNode

	if !p.check(ExprTokenTypeRParen) {
		for {
			arg, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)

			if !p.match(ExprTokenTypeComma) {
				break
			}
		}
	}

	if !p.match(ExprTokenTypeRParen) {
		return nil, NewExprParseError(ErrMsgExprExpectedRParen, p.currentPos(), "")
	}

	return &CallNode{Name: name, Args: args}, nil
}

func (p *ExprParser) parsePrimary() (ExprNode, error) {
	switch {
	case p.match(ExprTokenTypeString), p.match(ExprTokenTypeNumber):
		return &LiteralNode{Value: p.previous().Literal}, nil
	case p.match(ExprTokenTypeBool), p.match(ExprTokenTypeNil):
		tok := p.previous()
		return &LiteralNode{Value: tok.Literal, Keyword: tok.Value}, nil
	case p.match(ExprTokenTypeIdentifier):
		return &IdentifierNode{Name: p.previous().Value}, nil
	case p.match(ExprTokenTypeLParen):
		expr, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if !p.match(ExprTokenTypeRParen) {
			return nil, NewExprParseError(ErrMsgExprExpectedRParen, p.currentPos(), "")
		}
		return expr, nil
	}

	if p.isAtEnd() {
		return nil, NewExprParseError(ErrMsgExprUnexpectedEOF, p.currentPos(), "")
	}

	return nil, NewExprParseError(ErrMsgExprUnexpectedToken, p.peek().Pos, p.peek().Value)
}

func (p *ExprParser) match(tokenType ExprTokenType) bool {
	if p.check(tokenType) {
		p.pos++
		return true
	}
	return false
}

func (p *ExprParser) matchAny(types ...ExprTokenType) bool {
	for _, t := range types {
		if p.match(t) {
			return true
		}
	}
	return false
}

func (p *ExprParser) check(tokenType ExprTokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == tokenType
}

func (p *ExprParser) peek() ExprToken {
	if p.pos >= len(p.tokens) {
		return ExprToken{Type: ExprTokenTypeEOF, Pos: p.currentPos()}
	}
	return p.tokens[p.pos]
}

func (p *ExprParser) previous() ExprToken {
	if p.pos == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.pos-1]
}

func (p *ExprParser) isAtEnd() bool {
	return p.pos >= len(p.tokens) || p.tokens[p.pos].Type == ExprTokenTypeEOF
}

func (p *ExprParser) currentPos() int {
	if p.pos >= len(p.tokens) {
		if len(p.tokens) > 0 {
			return p.tokens[len(p.tokens)-1].Pos
		}
		return 0
	}
	return p.tokens[p.pos].Pos
}

// ExprParseError is a grammar failure at a byte offset.
type ExprParseError struct {
	Message string
	Pos     int
	Detail  string
}

func NewExprParseError(message string, pos int, detail string) *ExprParseError {
	return &ExprParseError{
		Message: message,
		Pos:     pos,
		Detail:  detail,
	}
}

func (e *ExprParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at position %d: %s", e.Message, e.Pos, e.Detail)
	}
	return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
}

// Grammar failures
const (
	ErrMsgExprEmptyExpression  = "empty expression"
	ErrMsgExprUnexpectedToken  = "unexpected token"
	ErrMsgExprExpectedRParen   = "expected closing parenthesis"
	ErrMsgExprExpectedRBracket = "expected closing bracket"
	ErrMsgExprExpectedColon    = "expected ':' in conditional expression"
	ErrMsgExprUnexpectedEOF    = "unexpected end of expression"
)

// ParseExpression lexes and parses expr in one call.
func ParseExpression(expr string) (ExprNode, error) {
	tokens, err := NewExprTokenizer(expr).Tokenize()
	if err != nil {
		return nil, err
	}
	return NewExprParser(tokens).Parse()
}
