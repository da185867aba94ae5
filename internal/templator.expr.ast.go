package internal

import (
	"fmt"
	"strings"
)

// ExprNodeType tags each AST node kind.
type ExprNodeType int

const (
	ExprNodeTypeLiteral ExprNodeType = iota
	ExprNodeTypeIdentifier
	ExprNodeTypeUnary
	ExprNodeTypeBinary
	ExprNodeTypeCall
	ExprNodeTypeTernary
	ExprNodeTypeIndex
)

var exprNodeTypeNames = map[ExprNodeType]string{
	ExprNodeTypeLiteral:    "LITERAL",
	ExprNodeTypeIdentifier: "IDENTIFIER",
	ExprNodeTypeUnary:      "UNARY",
	ExprNodeTypeBinary:     "BINARY",
	ExprNodeTypeCall:       "CALL",
	ExprNodeTypeTernary:    "TERNARY",
	ExprNodeTypeIndex:      "INDEX",
}

func (t ExprNodeType) String() string {
	if name, ok := exprNodeTypeNames[t]; ok {
		return name
	}
	return exprNodeTypeNames[ExprNodeTypeLiteral]
}

// ExprNode is implemented only by the node types in this file. String renders
// a fully parenthesised form for tests and error details.
type ExprNode interface {
	Type() ExprNodeType
	String() string
	exprNode()
}

// LiteralNode represents a literal value. Keyword is set for literals spelled
// as a keyword (true, false, nil, null); a scope binding of the same name wins
// over the literal value.
type LiteralNode struct {
	Value   any
	Keyword string
}

func (n *LiteralNode) Type() ExprNodeType { return ExprNodeTypeLiteral }
func (n *LiteralNode) exprNode()          {}

func (n *LiteralNode) String() string {
	if n.Keyword != "" {
		return n.Keyword
	}
	if s, ok := n.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", n.Value)
}

// IdentifierNode is a scope lookup; Name may be a dotted path.
type IdentifierNode struct {
	Name string
}

func (n *IdentifierNode) Type() ExprNodeType { return ExprNodeTypeIdentifier }
func (n *IdentifierNode) exprNode()          {}
func (n *IdentifierNode) String() string     { return n.Name }

// UnaryNode is !x or -x.
type UnaryNode struct {
	Op    ExprTokenType
	Right ExprNode
}

func (n *UnaryNode) Type() ExprNodeType { return ExprNodeTypeUnary }
func (n *UnaryNode) exprNode()          {}

func (n *UnaryNode) String() string {
	return fmt.Sprintf("(%s %s)", n.Op, n.Right.String())
}

type BinaryNode struct {
	Left  ExprNode
	Op    ExprTokenType
	Right ExprNode
}

func (n *BinaryNode) Type() ExprNodeType { return ExprNodeTypeBinary }
func (n *BinaryNode) exprNode()          {}

func (n *BinaryNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Op, n.Right.String())
}

// CallNode calls a registry function by name.
type CallNode struct {
	Name string
	Args []ExprNode
}

func (n *CallNode) Type() ExprNodeType { return ExprNodeTypeCall }
func (n *CallNode) exprNode()          {}

func (n *CallNode) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}
	return fmt.Sprintf("%s(%s)", n.Name, strings.Join(args, ", "))
}

// TernaryNode is cond ? then : else; only the chosen branch is evaluated.
type TernaryNode struct {
	Cond ExprNode
	Then ExprNode
	Else ExprNode
}

func (n *TernaryNode) Type() ExprNodeType { return ExprNodeTypeTernary }
func (n *TernaryNode) exprNode()          {}

func (n *TernaryNode) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Cond.String(), n.Then.String(), n.Else.String())
}

// IndexNode is target[index] over maps, slices, arrays and struct fields.
type IndexNode struct {
	Target ExprNode
	Index  ExprNode
}

func (n *IndexNode) Type() ExprNodeType { return ExprNodeTypeIndex }
func (n *IndexNode) exprNode()          {}

func (n *IndexNode) String() string {
	return fmt.Sprintf("%s[%s]", n.Target.String(), n.Index.String())
}
