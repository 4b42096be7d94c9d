// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package scalar

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/util"
)

// ConstKind is the type of a constant.
type ConstKind uint8

const (
	// NullConst is the SQL NULL.
	NullConst ConstKind = iota
	// BoolConst is a boolean.
	BoolConst
	// IntConst is a 64-bit integer.
	IntConst
	// DecimalConst is an arbitrary-precision decimal.
	DecimalConst
	// StringConst is a string.
	StringConst
)

// Const is a leaf expression that has a constant value.
type Const struct {
	Kind ConstKind
	// Only the field matching Kind is set. dec is never mutated after
	// construction.
	b   bool
	i   int64
	dec *apd.Decimal
	s   string
}

var _ Expr = (*Const)(nil)

// NewNull returns the NULL constant.
func NewNull() *Const { return &Const{Kind: NullConst} }

// NewBool returns a boolean constant.
func NewBool(b bool) *Const { return &Const{Kind: BoolConst, b: b} }

// NewInt returns an integer constant.
func NewInt(i int64) *Const { return &Const{Kind: IntConst, i: i} }

// NewString returns a string constant.
func NewString(s string) *Const { return &Const{Kind: StringConst, s: s} }

// NewDecimal parses a decimal constant such as "1.5".
func NewDecimal(s string) (*Const, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %q as decimal", s)
	}
	return &Const{Kind: DecimalConst, dec: d}, nil
}

// Bool returns the value of a boolean constant.
func (c *Const) Bool() bool { return c.b }

// Int returns the value of an integer constant.
func (c *Const) Int() int64 { return c.i }

// Str returns the value of a string constant.
func (c *Const) Str() string { return c.s }

// Numeric returns the value of an integer or decimal constant as a new
// decimal. ok is false for other kinds.
func (c *Const) Numeric() (_ *apd.Decimal, ok bool) {
	switch c.Kind {
	case IntConst:
		return apd.New(c.i, 0), true
	case DecimalConst:
		var d apd.Decimal
		d.Set(c.dec)
		return &d, true
	}
	return nil, false
}

// Op is part of the Expr interface.
func (c *Const) Op() opt.Operator { return opt.ConstOp }

// ColumnsRead is part of the Expr interface.
func (c *Const) ColumnsRead() opt.ColSet { return opt.ColSet{} }

// Equals is part of the Expr interface. Decimals that differ only in
// trailing zeros (1.5 and 1.50) are equal.
func (c *Const) Equals(other Expr) bool {
	o, ok := other.(*Const)
	if !ok || c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case NullConst:
		return true
	case BoolConst:
		return c.b == o.b
	case IntConst:
		return c.i == o.i
	case DecimalConst:
		return c.dec.Cmp(o.dec) == 0
	case StringConst:
		return c.s == o.s
	}
	return false
}

// Hash is part of the Expr interface.
func (c *Const) Hash() uint64 {
	h := util.FNV64AddToHash(hashOp(opt.ConstOp), int32(c.Kind))
	switch c.Kind {
	case BoolConst:
		h = util.FNV64AddBool(h, c.b)
	case IntConst:
		h = util.FNV64AddUint64(h, uint64(c.i))
	case DecimalConst:
		h = hashString(h, canonicalDecimal(c.dec))
	case StringConst:
		h = hashString(h, c.s)
	}
	return h
}

// canonicalDecimal returns a representation of d that is identical for all
// decimals that compare equal.
func canonicalDecimal(d *apd.Decimal) string {
	if d.IsZero() {
		return "0"
	}
	var r apd.Decimal
	r.Reduce(d)
	return r.String()
}

func (c *Const) String() string { return exprString(c) }

func (c *Const) format(buf *strings.Builder, _ Labeler) {
	switch c.Kind {
	case NullConst:
		buf.WriteString("NULL")
	case BoolConst:
		buf.WriteString(strconv.FormatBool(c.b))
	case IntConst:
		buf.WriteString(strconv.FormatInt(c.i, 10))
	case DecimalConst:
		buf.WriteString(c.dec.String())
	case StringConst:
		buf.WriteString(strconv.Quote(c.s))
	}
}
