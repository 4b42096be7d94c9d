// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import "fmt"

// Operator identifies the kind of a scalar expression or physical plan
// operator.
type Operator uint16

const (
	// UnknownOp is the zero value; no expression has this operator.
	UnknownOp Operator = iota

	// -- Scalar operators --

	// VariableOp is a leaf expression that represents a non-constant value,
	// like a column in a table.
	VariableOp

	// ConstOp is a leaf expression that has a constant value.
	ConstOp

	// FunctionOp invokes a named function over a list of arguments. Window
	// and aggregate functions are FunctionOps.
	FunctionOp

	EqOp
	NeOp
	LtOp
	LeOp
	GtOp
	GeOp

	AndOp
	OrOp
	NotOp
	IsNullOp

	// -- Physical operators --

	// ScanOp reads columns from a table.
	ScanOp

	// FilterOp discards input rows that do not satisfy its predicate.
	FilterOp

	// ProjectOp computes a new set of output columns from its input.
	ProjectOp

	// SortOp enforces an ordering on its input.
	SortOp

	// WindowOp computes window (analytic) functions over its input.
	WindowOp

	// This should be last.
	NumOperators
)

type operatorClass uint8

const (
	scalarClass operatorClass = iota + 1
	physicalClass
)

// operatorInfo stores static information about an operator.
type operatorInfo struct {
	// name of the operator, used when printing expressions.
	name  string
	class operatorClass
}

// operatorTab stores static information about all operators.
var operatorTab = [NumOperators]operatorInfo{
	UnknownOp:  {name: "unknown"},
	VariableOp: {name: "variable", class: scalarClass},
	ConstOp:    {name: "const", class: scalarClass},
	FunctionOp: {name: "function", class: scalarClass},
	EqOp:       {name: "eq", class: scalarClass},
	NeOp:       {name: "ne", class: scalarClass},
	LtOp:       {name: "lt", class: scalarClass},
	LeOp:       {name: "le", class: scalarClass},
	GtOp:       {name: "gt", class: scalarClass},
	GeOp:       {name: "ge", class: scalarClass},
	AndOp:      {name: "and", class: scalarClass},
	OrOp:       {name: "or", class: scalarClass},
	NotOp:      {name: "not", class: scalarClass},
	IsNullOp:   {name: "is-null", class: scalarClass},
	ScanOp:     {name: "scan", class: physicalClass},
	FilterOp:   {name: "filter", class: physicalClass},
	ProjectOp:  {name: "project", class: physicalClass},
	SortOp:     {name: "sort", class: physicalClass},
	WindowOp:   {name: "window", class: physicalClass},
}

func (op Operator) String() string {
	if op >= NumOperators {
		return fmt.Sprintf("operator(%d)", op)
	}
	return operatorTab[op].name
}

// SafeValue implements redact.SafeValue.
func (Operator) SafeValue() {}

// IsScalar returns true if the operator is a scalar expression operator.
func (op Operator) IsScalar() bool {
	return op < NumOperators && operatorTab[op].class == scalarClass
}

// IsPhysical returns true if the operator is a physical plan operator.
func (op Operator) IsPhysical() bool {
	return op < NumOperators && operatorTab[op].class == physicalClass
}

// IsComparison returns true for the binary comparison operators.
func (op Operator) IsComparison() bool {
	return op >= EqOp && op <= GeOp
}
