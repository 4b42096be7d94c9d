// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plandef

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
)

func (b *builder) buildScalar(def *ScalarDef, path string) (scalar.Expr, error) {
	n := 0
	for _, set := range []bool{
		def.Col != "", def.Int != nil, def.Str != nil, def.Bool != nil, def.Decimal != "",
		def.Null, def.Fn != "", def.Cmp != "", def.And != nil, def.Or != nil,
		def.Not != nil, def.IsNull != nil,
	} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, errors.Newf("%s: expected exactly one kind of scalar expression, found %d",
			errors.Safe(path), n)
	}

	switch {
	case def.Col != "":
		col, err := b.resolveColumn(def.Col, path)
		if err != nil {
			return nil, err
		}
		return scalar.NewVariable(col), nil

	case def.Int != nil:
		return scalar.NewInt(*def.Int), nil

	case def.Str != nil:
		return scalar.NewString(*def.Str), nil

	case def.Bool != nil:
		return scalar.NewBool(*def.Bool), nil

	case def.Decimal != "":
		d, err := scalar.NewDecimal(def.Decimal)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", errors.Safe(path))
		}
		return d, nil

	case def.Null:
		return scalar.NewNull(), nil

	case def.Fn != "":
		args, err := b.buildScalars(def.Args, path+".args")
		if err != nil {
			return nil, err
		}
		c := scalar.NewCall(def.Fn, args...)
		c.Distinct = def.Distinct
		return c, nil

	case def.Cmp != "":
		op, ok := scalar.ComparisonOpFromSymbol(def.Cmp)
		if !ok {
			return nil, errors.WithHint(
				errors.Newf("%s: invalid comparison %q", errors.Safe(path), def.Cmp),
				"use one of =, !=, <>, <, <=, > or >=",
			)
		}
		if def.Left == nil || def.Right == nil {
			return nil, errors.Newf("%s: comparison requires left and right", errors.Safe(path))
		}
		left, err := b.buildScalar(def.Left, path+".left")
		if err != nil {
			return nil, err
		}
		right, err := b.buildScalar(def.Right, path+".right")
		if err != nil {
			return nil, err
		}
		return scalar.NewComparison(op, left, right), nil

	case def.And != nil, def.Or != nil:
		operands, kind := def.And, "and"
		if def.Or != nil {
			operands, kind = def.Or, "or"
		}
		if len(operands) == 0 {
			return nil, errors.Newf("%s: empty %s", errors.Safe(path), errors.Safe(kind))
		}
		list, err := b.buildScalars(operands, path+"."+kind)
		if err != nil {
			return nil, err
		}
		if kind == "and" {
			return scalar.NewAnd(list...), nil
		}
		return scalar.NewOr(list...), nil

	case def.Not != nil:
		e, err := b.buildScalar(def.Not, path+".not")
		if err != nil {
			return nil, err
		}
		return scalar.NewNot(e), nil

	default:
		e, err := b.buildScalar(def.IsNull, path+".is_null")
		if err != nil {
			return nil, err
		}
		return scalar.NewIsNull(e), nil
	}
}

func (b *builder) buildScalars(defs []ScalarDef, path string) ([]scalar.Expr, error) {
	res := make([]scalar.Expr, len(defs))
	for i := range defs {
		var err error
		if res[i], err = b.buildScalar(&defs[i], path); err != nil {
			return nil, err
		}
	}
	return res, nil
}
