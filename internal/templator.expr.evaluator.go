package internal

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
)

// ExprEvaluator evaluates expression ASTs against a scope.
type ExprEvaluator struct {
	funcs *FuncRegistry
	scope *Scope
}

// NewExprEvaluator creates an evaluator. funcs may be nil, in which case any
// call fails.
func NewExprEvaluator(funcs *FuncRegistry, scope *Scope) *ExprEvaluator {
	return &ExprEvaluator{funcs: funcs, scope: scope}
}

// Evaluate returns the value of node.
func (e *ExprEvaluator) Evaluate(node ExprNode) (any, error) {
	switch n := node.(type) {
	case nil:
		return nil, NewExprEvalError(ErrMsgExprNilNode, "")
	case *LiteralNode:
		return e.evaluateLiteral(n), nil
	case *IdentifierNode:
		return e.evaluateIdentifier(n)
	case *UnaryNode:
		return e.evaluateUnary(n)
	case *BinaryNode:
		return e.evaluateBinary(n)
	case *CallNode:
		return e.evaluateCall(n)
	case *TernaryNode:
		return e.evaluateTernary(n)
	case *IndexNode:
		return e.evaluateIndex(n)
	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownNodeType, fmt.Sprintf("%T", node))
	}
}

// EvaluateBool evaluates node and coerces the result with IsTruthy.
func (e *ExprEvaluator) EvaluateBool(node ExprNode) (bool, error) {
	v, err := e.Evaluate(node)
	if err != nil {
		return false, err
	}
	return IsTruthy(v), nil
}

// evaluateLiteral lets a scope binding named like a keyword shadow the keyword.
func (e *ExprEvaluator) evaluateLiteral(n *LiteralNode) any {
	if n.Keyword != "" && e.scope != nil {
		if v, ok := e.scope.Get(n.Keyword); ok {
			return v
		}
	}
	return n.Value
}

func (e *ExprEvaluator) evaluateIdentifier(n *IdentifierNode) (any, error) {
	if e.scope == nil {
		return nil, NewExprEvalError(ErrMsgExprUndefinedVariable, n.Name)
	}
	v, ok := e.scope.Get(n.Name)
	if !ok {
		return nil, NewExprEvalError(ErrMsgExprUndefinedVariable, n.Name)
	}
	return v, nil
}

func (e *ExprEvaluator) evaluateUnary(n *UnaryNode) (any, error) {
	right, err := e.Evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ExprTokenTypeNot:
		return !IsTruthy(right), nil
	case ExprTokenTypeMinus:
		i, f, isInt, ok := toNumber(right)
		if !ok {
			return nil, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot negate %T", right))
		}
		if isInt {
			return -i, nil
		}
		return -f, nil
	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownOperator, string(n.Op))
	}
}

func (e *ExprEvaluator) evaluateBinary(n *BinaryNode) (any, error) {
	switch n.Op {
	case ExprTokenTypeAnd, ExprTokenTypeOr:
		left, err := e.EvaluateBool(n.Left)
		if err != nil {
			return nil, err
		}
		if n.Op == ExprTokenTypeAnd && !left {
			return false, nil
		}
		if n.Op == ExprTokenTypeOr && left {
			return true, nil
		}
		return e.EvaluateBool(n.Right)

	case ExprTokenTypeCoalesce:
		left, err := e.Evaluate(n.Left)
		if err != nil && !IsUndefined(err) {
			return nil, err
		}
		if err == nil && left != nil {
			return left, nil
		}
		return e.Evaluate(n.Right)
	}

	left, err := e.Evaluate(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.Evaluate(n.Right)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case ExprTokenTypeEq:
		return looseEqual(left, right), nil
	case ExprTokenTypeNeq:
		return !looseEqual(left, right), nil
	case ExprTokenTypeLt, ExprTokenTypeGt, ExprTokenTypeLte, ExprTokenTypeGte:
		return compareOrdered(n.Op, left, right)
	case ExprTokenTypePlus:
		if isString(left) || isString(right) {
			return Stringify(left) + Stringify(right), nil
		}
		return arithmetic(n.Op, left, right)
	case ExprTokenTypeMinus, ExprTokenTypeStar, ExprTokenTypeSlash, ExprTokenTypePercent:
		return arithmetic(n.Op, left, right)
	default:
		return nil, NewExprEvalError(ErrMsgExprUnknownOperator, string(n.Op))
	}
}

func (e *ExprEvaluator) evaluateCall(n *CallNode) (any, error) {
	if e.funcs == nil {
		return nil, NewExprEvalError(ErrMsgExprNoFuncRegistry, n.Name)
	}

	args := make([]any, len(n.Args))
	for i, arg := range n.Args {
		v, err := e.Evaluate(arg)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return e.funcs.Call(n.Name, args)
}

func (e *ExprEvaluator) evaluateTernary(n *TernaryNode) (any, error) {
	cond, err := e.EvaluateBool(n.Cond)
	if err != nil {
		return nil, err
	}
	if cond {
		return e.Evaluate(n.Then)
	}
	return e.Evaluate(n.Else)
}

func (e *ExprEvaluator) evaluateIndex(n *IndexNode) (any, error) {
	target, err := e.Evaluate(n.Target)
	if err != nil {
		return nil, err
	}
	index, err := e.Evaluate(n.Index)
	if err != nil {
		return nil, err
	}

	key := Stringify(index)
	v, ok := lookupMember(target, key)
	if !ok {
		return nil, NewExprEvalError(ErrMsgExprUndefinedIndex, fmt.Sprintf("%s[%s]", n.Target.String(), key))
	}
	return v, nil
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

// toNumber reports the numeric value of v, keeping integers integral. Every
// Go integer and float kind counts, including named types over them.
func toNumber(v any) (i int, f float64, isInt bool, ok bool) {
	switch val := v.(type) {
	case int:
		return val, float64(val), true, true
	case float64:
		return 0, val, false, true
	case nil, bool, string:
		return 0, 0, false, false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n := rv.Int()
		return int(n), float64(n), true, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n := rv.Uint()
		return int(n), float64(n), true, true
	case reflect.Float32, reflect.Float64:
		return 0, rv.Float(), false, true
	default:
		return 0, 0, false, false
	}
}

func arithmetic(op ExprTokenType, left, right any) (any, error) {
	li, lf, lInt, lok := toNumber(left)
	ri, rf, rInt, rok := toNumber(right)
	if !lok || !rok {
		return nil, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("%T %s %T", left, op, right))
	}

	if (op == ExprTokenTypeSlash || op == ExprTokenTypePercent) && rf == 0 {
		return nil, NewExprEvalError(ErrMsgExprDivisionByZero, "")
	}

	if lInt && rInt {
		switch op {
		case ExprTokenTypePlus:
			return li + ri, nil
		case ExprTokenTypeMinus:
			return li - ri, nil
		case ExprTokenTypeStar:
			return li * ri, nil
		case ExprTokenTypePercent:
			return li % ri, nil
		case ExprTokenTypeSlash:
			if li%ri == 0 {
				return li / ri, nil
			}
			return lf / rf, nil
		}
	}

	switch op {
	case ExprTokenTypePlus:
		return lf + rf, nil
	case ExprTokenTypeMinus:
		return lf - rf, nil
	case ExprTokenTypeStar:
		return lf * rf, nil
	case ExprTokenTypeSlash:
		return lf / rf, nil
	case ExprTokenTypePercent:
		return math.Mod(lf, rf), nil
	}
	return nil, NewExprEvalError(ErrMsgExprUnknownOperator, string(op))
}

// looseEqual compares numbers by value, strings by content, and a boolean
// against anything by truthiness.
func looseEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	_, af, _, aNum := toNumber(a)
	_, bf, _, bNum := toNumber(b)
	if aNum && bNum {
		return af == bf
	}

	if ab, ok := a.(bool); ok {
		return ab == IsTruthy(b)
	}
	if bb, ok := b.(bool); ok {
		return bb == IsTruthy(a)
	}

	as, aStr := toString(a)
	bs, bStr := toString(b)
	if aStr && bStr {
		return as == bs
	}

	return reflect.DeepEqual(a, b)
}

func compareOrdered(op ExprTokenType, a, b any) (bool, error) {
	var cmp int

	_, af, _, aNum := toNumber(a)
	_, bf, _, bNum := toNumber(b)
	as, aStr := a.(string)
	bs, bStr := b.(string)

	switch {
	case aNum && bNum:
		cmp = compareValues(af, bf)
	case aStr && bStr:
		cmp = compareValues(as, bs)
	default:
		return false, NewExprEvalError(ErrMsgExprTypeMismatch, fmt.Sprintf("cannot compare %T and %T", a, b))
	}

	switch op {
	case ExprTokenTypeLt:
		return cmp < 0, nil
	case ExprTokenTypeGt:
		return cmp > 0, nil
	case ExprTokenTypeLte:
		return cmp <= 0, nil
	default:
		return cmp >= 0, nil
	}
}

func compareValues[T float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ExprEvalError is an expression evaluation failure.
type ExprEvalError struct {
	Message string
	Detail  string
}

// NewExprEvalError creates an evaluation error.
func NewExprEvalError(message, detail string) *ExprEvalError {
	return &ExprEvalError{Message: message, Detail: detail}
}

func (e *ExprEvalError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

// IsUndefined reports whether err is an unbound variable or missing index.
func IsUndefined(err error) bool {
	var evalErr *ExprEvalError
	if !errors.As(err, &evalErr) {
		return false
	}
	return evalErr.Message == ErrMsgExprUndefinedVariable || evalErr.Message == ErrMsgExprUndefinedIndex
}

// Expression evaluator error messages
const (
	ErrMsgExprNilNode           = "nil expression node"
	ErrMsgExprUnknownNodeType   = "unknown expression node type"
	ErrMsgExprUndefinedVariable = "undefined variable"
	ErrMsgExprUndefinedIndex    = "undefined index"
	ErrMsgExprUnknownOperator   = "unknown operator"
	ErrMsgExprNoFuncRegistry    = "no function registry available"
	ErrMsgExprTypeMismatch      = "type mismatch"
	ErrMsgExprDivisionByZero    = "division by zero"
)

// ExprCache memoises parsed expressions by source text. It is safe for
// concurrent use.
type ExprCache struct {
	nodes sync.Map
}

// Parse returns the cached AST for expr, parsing it on first use.
func (c *ExprCache) Parse(expr string) (ExprNode, error) {
	if node, ok := c.nodes.Load(expr); ok {
		return node.(ExprNode), nil
	}
	node, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	c.nodes.Store(expr, node)
	return node, nil
}

// EvaluateExpression parses and evaluates expr in one step.
func EvaluateExpression(expr string, funcs *FuncRegistry, scope *Scope) (any, error) {
	node, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}
	return NewExprEvaluator(funcs, scope).Evaluate(node)
}
