// Package signal evaluates a strategy AST against an OHLCV series, producing
// boolean entry/exit series aligned one-to-one with the input index.
package signal

import (
	"fmt"
	"math"
	"strings"

	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/dsl"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/indicator"
	"github.com/Carnage203/nl-to-dsl-strategy-compiler/internal/models"
)

// Signals holds the per-bar entry/exit decisions, index-aligned with the
// price series they were evaluated against. They are produced fresh per
// evaluation and never mutated after return.
type Signals struct {
	Entry []bool `json:"entry"`
	Exit  []bool `json:"exit"`
}

// EvaluationError reports a malformed or out-of-domain AST node encountered
// during evaluation
type EvaluationError struct {
	Node   string
	Reason string
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error in %s: %s", e.Node, e.Reason)
}

func newEvalError(node, format string, args ...interface{}) *EvaluationError {
	return &EvaluationError{Node: node, Reason: fmt.Sprintf(format, args...)}
}

// Evaluate walks the strategy AST against the series. An absent section
// yields an all-false series. The input series is validated up front and
// never mutated, so evaluation is reentrant and safe to run concurrently
// over shared immutable inputs.
func Evaluate(series *models.Series, strat *dsl.Strategy) (*Signals, error) {
	if strat == nil {
		return nil, newEvalError("strategy", "strategy is nil")
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	ev := &evaluator{series: series}

	entry, err := ev.signalOrFalse(strat.Entry)
	if err != nil {
		return nil, err
	}
	exit, err := ev.signalOrFalse(strat.Exit)
	if err != nil {
		return nil, err
	}
	return &Signals{Entry: entry, Exit: exit}, nil
}

type evaluator struct {
	series *models.Series
}

func (ev *evaluator) signalOrFalse(expr dsl.Expr) ([]bool, error) {
	if expr == nil {
		return make([]bool, ev.series.Len()), nil
	}
	return ev.evalSignal(expr)
}

// evalSignal evaluates a boolean-producing node
func (ev *evaluator) evalSignal(expr dsl.Expr) ([]bool, error) {
	switch node := expr.(type) {
	case *dsl.Logical:
		return ev.evalLogical(node)
	case *dsl.Comparison:
		return ev.evalComparison(node)
	case *dsl.Cross:
		return ev.evalCross(node)
	default:
		return nil, newEvalError(nodeName(expr), "expression does not produce a boolean signal")
	}
}

func (ev *evaluator) evalLogical(node *dsl.Logical) ([]bool, error) {
	left, err := ev.evalSignal(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalSignal(node.Right)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(left))
	switch node.Op {
	case dsl.LogicalAnd:
		for i := range out {
			out[i] = left[i] && right[i]
		}
	case dsl.LogicalOr:
		for i := range out {
			out[i] = left[i] || right[i]
		}
	default:
		return nil, newEvalError("logical", "unknown operator %q", node.Op)
	}
	return out, nil
}

// evalComparison compares two numeric sub-series element-wise. A position
// where either side is NaN (insufficient history) never satisfies the
// comparison.
func (ev *evaluator) evalComparison(node *dsl.Comparison) ([]bool, error) {
	left, err := ev.evalSeries(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalSeries(node.Right)
	if err != nil {
		return nil, err
	}

	out := make([]bool, len(left))
	for i := range out {
		l, r := left[i], right[i]
		if math.IsNaN(l) || math.IsNaN(r) {
			continue
		}
		switch node.Op {
		case dsl.CompareGT:
			out[i] = l > r
		case dsl.CompareLT:
			out[i] = l < r
		case dsl.CompareGTE:
			out[i] = l >= r
		case dsl.CompareLTE:
			out[i] = l <= r
		case dsl.CompareEQ:
			out[i] = l == r
		default:
			return nil, newEvalError("comparison", "unknown operator %q", node.Op)
		}
	}
	return out, nil
}

// evalCross detects the bar where the relational condition newly becomes
// true. The condition at bar i is checked against the same condition at bar
// i-1, never against future bars; position 0 has no prior bar and is always
// false.
func (ev *evaluator) evalCross(node *dsl.Cross) ([]bool, error) {
	left, err := ev.evalSeries(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalSeries(node.Right)
	if err != nil {
		return nil, err
	}

	holds := func(i int) bool {
		l, r := left[i], right[i]
		if math.IsNaN(l) || math.IsNaN(r) {
			return false
		}
		if node.Op == dsl.CrossAbove {
			return l > r
		}
		return l < r
	}

	out := make([]bool, len(left))
	for i := 1; i < len(out); i++ {
		out[i] = holds(i) && !holds(i-1)
	}
	return out, nil
}

// evalSeries evaluates a numeric-producing node into a series aligned with
// the input index
func (ev *evaluator) evalSeries(expr dsl.Expr) ([]float64, error) {
	switch node := expr.(type) {
	case *dsl.Number:
		out := make([]float64, ev.series.Len())
		for i := range out {
			out[i] = node.Value
		}
		return out, nil
	case *dsl.Identifier:
		return ev.evalIdentifier(node)
	case *dsl.FunctionCall:
		return ev.evalFunctionCall(node)
	case *dsl.Binary:
		return ev.evalBinary(node)
	default:
		return nil, newEvalError(nodeName(expr), "expression does not produce a numeric series")
	}
}

func (ev *evaluator) evalIdentifier(node *dsl.Identifier) ([]float64, error) {
	base, shift, ok := dsl.BaseField(node.Name)
	if !ok {
		return nil, newEvalError("identifier", "unknown field %q", node.Name)
	}
	col, err := ev.series.Field(base)
	if err != nil {
		return nil, err
	}
	if shift > 0 {
		return indicator.Shift(col, shift), nil
	}
	// copy so indicator transforms never alias the input series
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

func (ev *evaluator) evalFunctionCall(node *dsl.FunctionCall) ([]float64, error) {
	if len(node.Args) != 2 {
		return nil, newEvalError(node.Name, "expected 2 arguments, got %d", len(node.Args))
	}
	field, ok := node.Args[0].(*dsl.Identifier)
	if !ok {
		return nil, newEvalError(node.Name, "first argument must be a field reference")
	}
	num, ok := node.Args[1].(*dsl.Number)
	if !ok {
		return nil, newEvalError(node.Name, "second argument must be an integer window length")
	}
	window := int(num.Value)
	if float64(window) != num.Value || window < 1 {
		return nil, newEvalError(node.Name, "window length must be a positive integer, got %v", num.Value)
	}

	values, err := ev.evalIdentifier(field)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(node.Name) {
	case "sma":
		return indicator.SMA(values, window), nil
	case "rsi":
		return indicator.RSI(values, window), nil
	default:
		return nil, newEvalError(node.Name, "unknown function")
	}
}

// evalBinary combines two numeric sub-series element-wise. Division by a
// position-wise zero is a computation fault, not a silent infinity.
func (ev *evaluator) evalBinary(node *dsl.Binary) ([]float64, error) {
	left, err := ev.evalSeries(node.Left)
	if err != nil {
		return nil, err
	}
	right, err := ev.evalSeries(node.Right)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(left))
	for i := range out {
		switch node.Op {
		case dsl.ArithAdd:
			out[i] = left[i] + right[i]
		case dsl.ArithSub:
			out[i] = left[i] - right[i]
		case dsl.ArithMul:
			out[i] = left[i] * right[i]
		case dsl.ArithDiv:
			if right[i] == 0 {
				return nil, newEvalError("division", "division by zero at bar %d", i)
			}
			out[i] = left[i] / right[i]
		default:
			return nil, newEvalError("binary", "unknown operator %q", node.Op)
		}
	}
	return out, nil
}

func nodeName(expr dsl.Expr) string {
	switch expr.(type) {
	case *dsl.Logical:
		return "logical"
	case *dsl.Comparison:
		return "comparison"
	case *dsl.Cross:
		return "cross"
	case *dsl.Binary:
		return "binary"
	case *dsl.FunctionCall:
		return "function call"
	case *dsl.Identifier:
		return "identifier"
	case *dsl.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
