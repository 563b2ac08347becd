package domain

// Expr is a node of a define's logical/threshold expression tree.
type Expr interface {
	exprNode()
}

// BinaryOp enumerates binary expression operators.
type BinaryOp int

const (
	// OpAnd is logical conjunction.
	OpAnd BinaryOp = iota
	// OpOr is logical disjunction.
	OpOr
	// OpGT is numeric greater-than.
	OpGT
	// OpLT is numeric less-than.
	OpLT
	// OpGE is numeric greater-or-equal.
	OpGE
	// OpLE is numeric less-or-equal.
	OpLE
	// OpEQ is equality.
	OpEQ
	// OpNE is inequality.
	OpNE
)

// String returns the operator as it appears in script text.
func (op BinaryOp) String() string {
	switch op {
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	case OpGE:
		return ">="
	case OpLE:
		return "<="
	case OpEQ:
		return "=="
	default:
		return "!="
	}
}

// IsLogical reports whether the operator combines boolean operands.
func (op BinaryOp) IsLogical() bool { return op == OpAnd || op == OpOr }

// IsOrdering reports whether the operator requires numeric operands.
func (op BinaryOp) IsOrdering() bool {
	return op == OpGT || op == OpLT || op == OpGE || op == OpLE
}

// BinaryExpr applies a binary operator to two operands.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

// NotExpr negates its operand.
type NotExpr struct {
	Operand Expr
}

// RefExpr references a prior define's result, optionally a member of it
// (for example GleasonScore.value).
type RefExpr struct {
	Define string
	Member string
	Line   int
	Column int
}

// LiteralExpr is an inline literal.
type LiteralExpr struct {
	Value Value
}

func (*BinaryExpr) exprNode()  {}
func (*NotExpr) exprNode()     {}
func (*RefExpr) exprNode()     {}
func (*LiteralExpr) exprNode() {}
