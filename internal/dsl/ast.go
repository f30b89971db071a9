package dsl

import "strings"

// The AST is a closed set of immutable node kinds. Every operand of a
// Logical, Comparison, Cross or Binary node is itself an Expr; the tree is
// strict (no cycles).

// Expr is an expression node
type Expr interface {
	exprNode()
}

// Strategy is the root node: one optional expression per section. A strategy
// with both sections absent evaluates to an always-false signal pair.
type Strategy struct {
	Entry Expr
	Exit  Expr
}

// LogicalOp is a boolean connective
type LogicalOp string

const (
	LogicalAnd LogicalOp = "AND"
	LogicalOr  LogicalOp = "OR"
)

// Logical combines two boolean sub-expressions. AND/OR chains are left-folded
// into nested binary nodes by the parser.
type Logical struct {
	Op    LogicalOp
	Left  Expr
	Right Expr
}

// CompareOp is an element-wise comparison operator
type CompareOp string

const (
	CompareGT  CompareOp = ">"
	CompareLT  CompareOp = "<"
	CompareGTE CompareOp = ">="
	CompareLTE CompareOp = "<="
	CompareEQ  CompareOp = "=="
)

// Comparison applies a comparator element-wise to two numeric terms
type Comparison struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

// CrossOp is a cross-event direction
type CrossOp string

const (
	CrossAbove CrossOp = "crosses above"
	CrossBelow CrossOp = "crosses below"
)

// Cross detects the bar where a relational condition between two terms newly
// becomes true
type Cross struct {
	Op    CrossOp
	Left  Expr
	Right Expr
}

// ArithOp is an arithmetic operator
type ArithOp string

const (
	ArithAdd ArithOp = "+"
	ArithSub ArithOp = "-"
	ArithMul ArithOp = "*"
	ArithDiv ArithOp = "/"
)

// Binary combines two numeric terms element-wise
type Binary struct {
	Op    ArithOp
	Left  Expr
	Right Expr
}

// FunctionCall is an indicator invocation. The parser guarantees exactly two
// arguments: a field Identifier and an integer-valued Number. Name is stored
// lowercased.
type FunctionCall struct {
	Name string
	Args []Expr
}

// Identifier is a field name, optionally suffixed with a lookback transform
// (_yesterday shifts by 1 bar, _last_week by 5)
type Identifier struct {
	Name string
}

// Number is a literal; K/M scaling was already applied by the lexer
type Number struct {
	Value float64
}

func (*Logical) exprNode()      {}
func (*Comparison) exprNode()   {}
func (*Cross) exprNode()        {}
func (*Binary) exprNode()       {}
func (*FunctionCall) exprNode() {}
func (*Identifier) exprNode()   {}
func (*Number) exprNode()       {}

// lookback suffixes, in bars
const (
	shiftYesterday = 1
	shiftLastWeek  = 5
)

var baseFields = map[string]bool{
	"open":   true,
	"high":   true,
	"low":    true,
	"close":  true,
	"volume": true,
}

// BaseField splits an identifier name into its base field and lookback shift.
// ok is false when the base (after suffix stripping) is not one of the five
// OHLCV fields.
func BaseField(name string) (base string, shift int, ok bool) {
	base = strings.ToLower(name)
	switch {
	case strings.HasSuffix(base, "_yesterday"):
		base = strings.TrimSuffix(base, "_yesterday")
		shift = shiftYesterday
	case strings.HasSuffix(base, "_last_week"):
		base = strings.TrimSuffix(base, "_last_week")
		shift = shiftLastWeek
	}
	return base, shift, baseFields[base]
}
