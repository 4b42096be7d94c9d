// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package scalar contains the side-effect-free scalar expressions that
// physical operators reference: column variables, constants, function calls
// (including window functions), comparisons and boolean connectives.
//
// Scalar expressions are immutable once built. Every expression can report
// the set of columns it reads, compare structurally with another expression,
// and hash consistently with that comparison.
package scalar

import (
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/util"
)

// Expr is a scalar expression tree.
type Expr interface {
	// Op returns the scalar operator of the expression.
	Op() opt.Operator

	// ColumnsRead returns a new set containing every column the expression
	// reads. The caller owns the returned set.
	ColumnsRead() opt.ColSet

	// Equals returns true if other is structurally identical to the
	// expression.
	Equals(other Expr) bool

	// Hash returns a hash consistent with Equals.
	Hash() uint64

	// String returns the expression with columns printed as @id.
	String() string

	format(buf *strings.Builder, label Labeler)
}

// Labeler returns the text used to display a column reference.
type Labeler func(col opt.ColumnID) string

// Format returns the expression with each column labeled by the given
// labeler.
func Format(e Expr, label Labeler) string {
	var buf strings.Builder
	e.format(&buf, label)
	return buf.String()
}

// FormatWithMetadata returns the expression with columns labeled by md, for
// example "sum(amount:3)".
func FormatWithMetadata(e Expr, md *opt.Metadata) string {
	return Format(e, md.ColumnLabel)
}

func defaultLabel(col opt.ColumnID) string {
	return (*opt.Metadata)(nil).ColumnLabel(col)
}

func exprString(e Expr) string {
	return Format(e, defaultLabel)
}

// Equal returns true if the two expressions are both nil or structurally
// equal.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equals(b)
}

// HashExpr returns the hash of e, or a fixed value when e is nil.
func HashExpr(e Expr) uint64 {
	if e == nil {
		return util.FNV64Init()
	}
	return e.Hash()
}

// ListEqual returns true if the two lists have equal expressions at every
// position.
func ListEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// HashList mixes every expression of the list into h, in order.
func HashList(h uint64, list []Expr) uint64 {
	h = util.FNV64AddToHash(h, int32(len(list)))
	for _, e := range list {
		h = util.FNV64AddUint64(h, HashExpr(e))
	}
	return h
}

func hashString(h uint64, s string) uint64 {
	return util.FNV64AddUint64(h, xxhash.Sum64String(s))
}

func hashOp(op opt.Operator) uint64 {
	return util.FNV64AddToHash(util.FNV64Init(), int32(op))
}

// Variable is a reference to a column.
type Variable struct {
	Col opt.ColumnID
}

var _ Expr = (*Variable)(nil)

// NewVariable returns a reference to the given column.
func NewVariable(col opt.ColumnID) *Variable {
	return &Variable{Col: col}
}

// Op is part of the Expr interface.
func (v *Variable) Op() opt.Operator { return opt.VariableOp }

// ColumnsRead is part of the Expr interface.
func (v *Variable) ColumnsRead() opt.ColSet { return opt.MakeColSet(v.Col) }

// Equals is part of the Expr interface.
func (v *Variable) Equals(other Expr) bool {
	o, ok := other.(*Variable)
	return ok && o.Col == v.Col
}

// Hash is part of the Expr interface.
func (v *Variable) Hash() uint64 {
	return util.FNV64AddToHash(hashOp(opt.VariableOp), int32(v.Col))
}

func (v *Variable) String() string { return exprString(v) }

func (v *Variable) format(buf *strings.Builder, label Labeler) {
	buf.WriteString(label(v.Col))
}

// Call is a function invocation. Window functions such as rank() and
// aggregates used as window functions such as sum(x) are Calls.
type Call struct {
	Name     string
	Args     []Expr
	Distinct bool
}

var _ Expr = (*Call)(nil)

// NewCall returns a call to the named function. The argument slice is copied.
func NewCall(name string, args ...Expr) *Call {
	c := &Call{Name: name}
	if len(args) > 0 {
		c.Args = append([]Expr(nil), args...)
	}
	return c
}

// Op is part of the Expr interface.
func (c *Call) Op() opt.Operator { return opt.FunctionOp }

// ColumnsRead is part of the Expr interface.
func (c *Call) ColumnsRead() opt.ColSet {
	var cols opt.ColSet
	for _, a := range c.Args {
		cols.UnionWith(a.ColumnsRead())
	}
	return cols
}

// Equals is part of the Expr interface.
func (c *Call) Equals(other Expr) bool {
	o, ok := other.(*Call)
	return ok && c.Name == o.Name && c.Distinct == o.Distinct && ListEqual(c.Args, o.Args)
}

// Hash is part of the Expr interface.
func (c *Call) Hash() uint64 {
	h := hashString(hashOp(opt.FunctionOp), c.Name)
	h = util.FNV64AddBool(h, c.Distinct)
	return HashList(h, c.Args)
}

func (c *Call) String() string { return exprString(c) }

func (c *Call) format(buf *strings.Builder, label Labeler) {
	buf.WriteString(c.Name)
	buf.WriteByte('(')
	if c.Distinct {
		buf.WriteString("DISTINCT ")
	}
	for i, a := range c.Args {
		if i > 0 {
			buf.WriteString(", ")
		}
		a.format(buf, label)
	}
	buf.WriteByte(')')
}

var comparisonSymbols = map[opt.Operator]string{
	opt.EqOp: "=",
	opt.NeOp: "!=",
	opt.LtOp: "<",
	opt.LeOp: "<=",
	opt.GtOp: ">",
	opt.GeOp: ">=",
}

// Comparison is a binary comparison between two expressions.
type Comparison struct {
	Operator    opt.Operator
	Left, Right Expr
}

var _ Expr = (*Comparison)(nil)

// NewComparison returns a comparison of the given kind. It panics with an
// assertion failure if op is not a comparison operator.
func NewComparison(op opt.Operator, left, right Expr) *Comparison {
	if !op.IsComparison() {
		panic(errors.AssertionFailedf("%s is not a comparison operator", op))
	}
	return &Comparison{Operator: op, Left: left, Right: right}
}

// ComparisonOpFromSymbol returns the comparison operator written as sym.
func ComparisonOpFromSymbol(sym string) (opt.Operator, bool) {
	if sym == "<>" {
		return opt.NeOp, true
	}
	for op, s := range comparisonSymbols {
		if s == sym {
			return op, true
		}
	}
	return opt.UnknownOp, false
}

// Op is part of the Expr interface.
func (c *Comparison) Op() opt.Operator { return c.Operator }

// ColumnsRead is part of the Expr interface.
func (c *Comparison) ColumnsRead() opt.ColSet {
	cols := c.Left.ColumnsRead()
	cols.UnionWith(c.Right.ColumnsRead())
	return cols
}

// Equals is part of the Expr interface.
func (c *Comparison) Equals(other Expr) bool {
	o, ok := other.(*Comparison)
	return ok && c.Operator == o.Operator && c.Left.Equals(o.Left) && c.Right.Equals(o.Right)
}

// Hash is part of the Expr interface.
func (c *Comparison) Hash() uint64 {
	h := util.FNV64AddUint64(hashOp(c.Operator), c.Left.Hash())
	return util.FNV64AddUint64(h, c.Right.Hash())
}

func (c *Comparison) String() string { return exprString(c) }

func (c *Comparison) format(buf *strings.Builder, label Labeler) {
	formatOperand(buf, c.Left, label)
	buf.WriteByte(' ')
	buf.WriteString(comparisonSymbols[c.Operator])
	buf.WriteByte(' ')
	formatOperand(buf, c.Right, label)
}

// Boolean is a conjunction or disjunction of two or more expressions.
type Boolean struct {
	Operator opt.Operator
	Operands []Expr
}

var _ Expr = (*Boolean)(nil)

// NewAnd returns the conjunction of the given expressions. A single operand
// is returned as is, and no operands yield nil.
func NewAnd(operands ...Expr) Expr {
	return newBoolean(opt.AndOp, operands)
}

// NewOr returns the disjunction of the given expressions. A single operand
// is returned as is, and no operands yield nil.
func NewOr(operands ...Expr) Expr {
	return newBoolean(opt.OrOp, operands)
}

func newBoolean(op opt.Operator, operands []Expr) Expr {
	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	}
	return &Boolean{Operator: op, Operands: append([]Expr(nil), operands...)}
}

// Op is part of the Expr interface.
func (b *Boolean) Op() opt.Operator { return b.Operator }

// ColumnsRead is part of the Expr interface.
func (b *Boolean) ColumnsRead() opt.ColSet {
	var cols opt.ColSet
	for _, e := range b.Operands {
		cols.UnionWith(e.ColumnsRead())
	}
	return cols
}

// Equals is part of the Expr interface.
func (b *Boolean) Equals(other Expr) bool {
	o, ok := other.(*Boolean)
	return ok && b.Operator == o.Operator && ListEqual(b.Operands, o.Operands)
}

// Hash is part of the Expr interface.
func (b *Boolean) Hash() uint64 {
	return HashList(hashOp(b.Operator), b.Operands)
}

func (b *Boolean) String() string { return exprString(b) }

func (b *Boolean) format(buf *strings.Builder, label Labeler) {
	sep := " AND "
	if b.Operator == opt.OrOp {
		sep = " OR "
	}
	for i, e := range b.Operands {
		if i > 0 {
			buf.WriteString(sep)
		}
		formatOperand(buf, e, label)
	}
}

// Unary is a NOT or IS NULL test over a single expression.
type Unary struct {
	Operator opt.Operator
	Input    Expr
}

var _ Expr = (*Unary)(nil)

// NewNot returns the negation of e.
func NewNot(e Expr) *Unary {
	return &Unary{Operator: opt.NotOp, Input: e}
}

// NewIsNull returns an IS NULL test of e.
func NewIsNull(e Expr) *Unary {
	return &Unary{Operator: opt.IsNullOp, Input: e}
}

// Op is part of the Expr interface.
func (u *Unary) Op() opt.Operator { return u.Operator }

// ColumnsRead is part of the Expr interface.
func (u *Unary) ColumnsRead() opt.ColSet { return u.Input.ColumnsRead() }

// Equals is part of the Expr interface.
func (u *Unary) Equals(other Expr) bool {
	o, ok := other.(*Unary)
	return ok && u.Operator == o.Operator && u.Input.Equals(o.Input)
}

// Hash is part of the Expr interface.
func (u *Unary) Hash() uint64 {
	return util.FNV64AddUint64(hashOp(u.Operator), u.Input.Hash())
}

func (u *Unary) String() string { return exprString(u) }

func (u *Unary) format(buf *strings.Builder, label Labeler) {
	if u.Operator == opt.NotOp {
		buf.WriteString("NOT ")
		formatOperand(buf, u.Input, label)
		return
	}
	formatOperand(buf, u.Input, label)
	buf.WriteString(" IS NULL")
}

// formatOperand parenthesizes operands that are themselves built from
// operators, so that the printed form is unambiguous.
func formatOperand(buf *strings.Builder, e Expr, label Labeler) {
	switch e.(type) {
	case *Boolean, *Comparison, *Unary:
		buf.WriteByte('(')
		e.format(buf, label)
		buf.WriteByte(')')
	default:
		e.format(buf, label)
	}
}

// Conjuncts splits e into its top-level AND operands. A nil expression has
// no conjuncts.
func Conjuncts(e Expr) []Expr {
	if e == nil {
		return nil
	}
	if b, ok := e.(*Boolean); ok && b.Operator == opt.AndOp {
		var res []Expr
		for _, op := range b.Operands {
			res = append(res, Conjuncts(op)...)
		}
		return res
	}
	return []Expr{e}
}

// HasCall returns true if e invokes a function anywhere in its tree.
func HasCall(e Expr) bool {
	switch t := e.(type) {
	case *Call:
		return true
	case *Comparison:
		return HasCall(t.Left) || HasCall(t.Right)
	case *Boolean:
		for _, op := range t.Operands {
			if HasCall(op) {
				return true
			}
		}
	case *Unary:
		return HasCall(t.Input)
	}
	return false
}
