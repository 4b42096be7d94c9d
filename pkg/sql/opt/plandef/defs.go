// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package plandef

// PlanDef is the YAML form of a physical plan:
//
//	columns: [region, date, amount]
//	plan:
//	  window:
//	    calls:
//	      - {col: total, fn: sum, args: [{col: amount}]}
//	    partition_by: [{col: region}]
//	    order_by: [+date]
//	    input:
//	      scan: {table: sales, columns: [region, date, amount], rows: 1000}
type PlanDef struct {
	// Columns are registered, in order, before the plan is built.
	Columns []string `yaml:"columns"`
	Plan    NodeDef  `yaml:"plan"`
}

// NodeDef is a plan node. Exactly one of its fields must be set.
type NodeDef struct {
	Scan    *ScanDef    `yaml:"scan"`
	Filter  *FilterDef  `yaml:"filter"`
	Project *ProjectDef `yaml:"project"`
	Sort    *SortDef    `yaml:"sort"`
	Window  *WindowDef  `yaml:"window"`
}

// PropsDef holds the properties that every operator can carry.
type PropsDef struct {
	Limit      *int64          `yaml:"limit"`
	Predicate  *ScalarDef      `yaml:"predicate"`
	Projection []ProjectionDef `yaml:"projection"`
}

// ProjectionDef is one projected column. Without an expression, the column is
// passed through from the input; with one, a new column is defined.
type ProjectionDef struct {
	Col  string     `yaml:"col"`
	Expr *ScalarDef `yaml:"expr"`
}

// ScanDef defines a table scan. Its columns are defined by the scan.
type ScanDef struct {
	Table    string   `yaml:"table"`
	Columns  []string `yaml:"columns"`
	Rows     float64  `yaml:"rows"`
	Ordering []string `yaml:"ordering"`
	PropsDef `yaml:",inline"`
}

// FilterDef defines a filter; its condition is the predicate.
type FilterDef struct {
	Input    NodeDef `yaml:"input"`
	PropsDef `yaml:",inline"`
}

// ProjectDef defines a projection of its input.
type ProjectDef struct {
	Items    []ProjectionDef `yaml:"items"`
	Input    NodeDef         `yaml:"input"`
	PropsDef `yaml:",inline"`
}

// SortDef defines a sort of its input.
type SortDef struct {
	Ordering []string `yaml:"ordering"`
	Input    NodeDef  `yaml:"input"`
	PropsDef `yaml:",inline"`
}

// WindowDef defines a window operator. The result column of every call is
// defined by the window.
type WindowDef struct {
	Calls          []CallDef   `yaml:"calls"`
	PartitionBy    []ScalarDef `yaml:"partition_by"`
	OrderBy        []string    `yaml:"order_by"`
	Frame          *FrameDef   `yaml:"frame"`
	EnforceOrderBy []string    `yaml:"enforce_order_by"`
	Input          NodeDef     `yaml:"input"`
	PropsDef       `yaml:",inline"`
}

// CallDef is a window function and the column holding its result.
type CallDef struct {
	Col      string      `yaml:"col"`
	Fn       string      `yaml:"fn"`
	Args     []ScalarDef `yaml:"args"`
	Distinct bool        `yaml:"distinct"`
}

// FrameDef is a window frame.
type FrameDef struct {
	// Type is "rows" or "range".
	Type  string      `yaml:"type"`
	Start BoundaryDef `yaml:"start"`
	End   BoundaryDef `yaml:"end"`
}

// BoundaryDef is a frame boundary. Type is one of "unbounded_preceding",
// "preceding", "current_row", "following" or "unbounded_following"; the
// offset is required for "preceding" and "following".
type BoundaryDef struct {
	Type   string     `yaml:"type"`
	Offset *ScalarDef `yaml:"offset"`
}

// ScalarDef is a scalar expression. Exactly one kind must be set; Args,
// Distinct, Left and Right complete the Fn and Cmp kinds.
type ScalarDef struct {
	Col      string      `yaml:"col"`
	Int      *int64      `yaml:"int"`
	Str      *string     `yaml:"str"`
	Bool     *bool       `yaml:"bool"`
	Decimal  string      `yaml:"decimal"`
	Null     bool        `yaml:"null"`
	Fn       string      `yaml:"fn"`
	Args     []ScalarDef `yaml:"args"`
	Distinct bool        `yaml:"distinct"`
	Cmp      string      `yaml:"cmp"`
	Left     *ScalarDef  `yaml:"left"`
	Right    *ScalarDef  `yaml:"right"`
	And      []ScalarDef `yaml:"and"`
	Or       []ScalarDef `yaml:"or"`
	Not      *ScalarDef  `yaml:"not"`
	IsNull   *ScalarDef  `yaml:"is_null"`
}
