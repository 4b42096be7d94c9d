// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package plandef loads physical plans from YAML definitions. It resolves
// column names through an opt.Metadata, builds scalar expressions and
// operators, and checks the window frames it builds, which the physical
// operators themselves never do.
package plandef

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"gopkg.in/yaml.v2"
)

// Plan is a loaded plan: the tree and the registry of the columns it uses.
type Plan struct {
	Metadata *opt.Metadata
	Root     *physical.Expr
}

// LoadFile reads and builds the plan definition at path.
func LoadFile(path string) (*Plan, error) {
	return LoadFileWithMetadata(path, &opt.Metadata{})
}

// LoadFileWithMetadata is like LoadFile, but allocates the columns of the
// plan in md. Plans loaded into the same Metadata have distinct ColumnIDs,
// except for the table columns their scans read, so they can be memoized
// together. md may be shared by concurrent loads.
func LoadFileWithMetadata(path string, md *opt.Metadata) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading plan definition")
	}
	p, err := ParseWithMetadata(data, md)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return p, nil
}

// Parse builds the plan defined by the given YAML document. Unknown fields
// are an error.
func Parse(data []byte) (*Plan, error) {
	return ParseWithMetadata(data, &opt.Metadata{})
}

// ParseWithMetadata is like Parse, but allocates the columns of the plan in
// md.
func ParseWithMetadata(data []byte, md *opt.Metadata) (*Plan, error) {
	var def PlanDef
	if err := yaml.UnmarshalStrict(data, &def); err != nil {
		return nil, errors.Wrap(err, "parsing plan definition")
	}
	return BuildWithMetadata(&def, md)
}

// Build builds the plan of a decoded definition. Columns are defined where
// the definition introduces them (the top-level column list, scans, window
// calls and computed projection items) and must be defined below the point
// where they are referenced.
func Build(def *PlanDef) (*Plan, error) {
	return BuildWithMetadata(def, &opt.Metadata{})
}

// BuildWithMetadata is like Build, but allocates the columns of the plan in
// md. Column names are resolved among the columns the definition itself
// defines, never among other plans built over md.
func BuildWithMetadata(def *PlanDef, md *opt.Metadata) (*Plan, error) {
	b := builder{md: md, scope: make(map[string]opt.ColumnID)}
	for _, name := range def.Columns {
		b.define(name, md.AddColumn(name))
	}
	root, err := b.buildNode(&def.Plan, "plan")
	if err != nil {
		return nil, err
	}
	return &Plan{Metadata: md, Root: root}, nil
}

type builder struct {
	md *opt.Metadata
	// scope maps a column name to the most recent column defined with it.
	scope map[string]opt.ColumnID
}

func (b *builder) define(name string, col opt.ColumnID) opt.ColumnID {
	b.scope[name] = col
	return col
}

func (b *builder) buildNode(def *NodeDef, path string) (*physical.Expr, error) {
	n := 0
	for _, set := range []bool{
		def.Scan != nil, def.Filter != nil, def.Project != nil, def.Sort != nil, def.Window != nil,
	} {
		if set {
			n++
		}
	}
	if n != 1 {
		return nil, errors.WithHint(
			errors.Newf("%s: expected exactly one operator, found %d", errors.Safe(path), n),
			"use one of scan, filter, project, sort or window",
		)
	}
	switch {
	case def.Scan != nil:
		return b.buildScan(def.Scan, path+".scan")
	case def.Filter != nil:
		return b.buildFilter(def.Filter, path+".filter")
	case def.Project != nil:
		return b.buildProject(def.Project, path+".project")
	case def.Sort != nil:
		return b.buildSort(def.Sort, path+".sort")
	default:
		return b.buildWindow(def.Window, path+".window")
	}
}

func (b *builder) buildScan(def *ScanDef, path string) (*physical.Expr, error) {
	if def.Table == "" {
		return nil, errors.Newf("%s: missing table", errors.Safe(path))
	}
	if len(def.Columns) == 0 {
		return nil, errors.Newf("%s: scan of %s has no columns", errors.Safe(path), def.Table)
	}
	if def.Rows < 0 {
		return nil, errors.Newf("%s: negative row count %g", errors.Safe(path), def.Rows)
	}
	var cols opt.ColSet
	for _, name := range def.Columns {
		cols.Add(b.define(name, b.md.AddTableColumn(def.Table, name)))
	}
	ordering, err := b.buildOrdering(def.Ordering, path+".ordering")
	if err != nil {
		return nil, err
	}
	if !ordering.ColSet().SubsetOf(cols) {
		return nil, errors.Newf("%s: ordering %s is not over the scanned columns",
			errors.Safe(path), ordering.Format(b.md))
	}
	props, err := b.buildProps(&def.PropsDef, path)
	if err != nil {
		return nil, err
	}
	return physical.NewExpr(physical.NewScan(def.Table, cols, def.Rows, ordering, props)), nil
}

func (b *builder) buildFilter(def *FilterDef, path string) (*physical.Expr, error) {
	input, err := b.buildNode(&def.Input, path+".input")
	if err != nil {
		return nil, err
	}
	if def.Predicate == nil {
		return nil, errors.Newf("%s: filter without a predicate", errors.Safe(path))
	}
	props, err := b.buildProps(&def.PropsDef, path)
	if err != nil {
		return nil, err
	}
	return physical.NewExpr(physical.NewFilter(props), input), nil
}

func (b *builder) buildProject(def *ProjectDef, path string) (*physical.Expr, error) {
	input, err := b.buildNode(&def.Input, path+".input")
	if err != nil {
		return nil, err
	}
	if len(def.Items) == 0 {
		return nil, errors.Newf("%s: project without items", errors.Safe(path))
	}
	items, err := b.buildProjection(def.Items, path+".items")
	if err != nil {
		return nil, err
	}
	props, err := b.buildProps(&def.PropsDef, path)
	if err != nil {
		return nil, err
	}
	return physical.NewExpr(physical.NewProject(items, props), input), nil
}

func (b *builder) buildSort(def *SortDef, path string) (*physical.Expr, error) {
	input, err := b.buildNode(&def.Input, path+".input")
	if err != nil {
		return nil, err
	}
	ordering, err := b.buildOrdering(def.Ordering, path+".ordering")
	if err != nil {
		return nil, err
	}
	if ordering.Empty() {
		return nil, errors.Newf("%s: sort without an ordering", errors.Safe(path))
	}
	props, err := b.buildProps(&def.PropsDef, path)
	if err != nil {
		return nil, err
	}
	return physical.NewExpr(physical.NewSort(ordering, props), input), nil
}

func (b *builder) buildWindow(def *WindowDef, path string) (*physical.Expr, error) {
	input, err := b.buildNode(&def.Input, path+".input")
	if err != nil {
		return nil, err
	}
	partition := make([]scalar.Expr, len(def.PartitionBy))
	for i := range def.PartitionBy {
		if partition[i], err = b.buildScalar(&def.PartitionBy[i], path+".partition_by"); err != nil {
			return nil, err
		}
	}
	orderBy, err := b.buildOrdering(def.OrderBy, path+".order_by")
	if err != nil {
		return nil, err
	}
	enforce, err := b.buildOrdering(def.EnforceOrderBy, path+".enforce_order_by")
	if err != nil {
		return nil, err
	}
	var frame *physical.AnalyticWindow
	if def.Frame != nil {
		if frame, err = b.buildFrame(def.Frame, path+".frame"); err != nil {
			return nil, err
		}
		if err := frame.Validate(orderBy); err != nil {
			return nil, errors.Wrapf(err, "%s.frame", errors.Safe(path))
		}
	}

	// Resolve every argument before defining any result column, so that a
	// call cannot read the result of another.
	calls := make([]*scalar.Call, len(def.Calls))
	for i := range def.Calls {
		c := &def.Calls[i]
		if c.Col == "" || c.Fn == "" {
			return nil, errors.Newf("%s.calls[%d]: both col and fn are required", errors.Safe(path), i)
		}
		args := make([]scalar.Expr, len(c.Args))
		for j := range c.Args {
			if args[j], err = b.buildScalar(&c.Args[j], path+".calls.args"); err != nil {
				return nil, err
			}
		}
		calls[i] = scalar.NewCall(c.Fn, args...)
		calls[i].Distinct = c.Distinct
	}
	analyticCall := make(map[opt.ColumnID]*scalar.Call, len(calls))
	for i, c := range calls {
		name := def.Calls[i].Col
		analyticCall[b.define(name, b.md.AddColumn(name))] = c
	}

	props, err := b.buildProps(&def.PropsDef, path)
	if err != nil {
		return nil, err
	}
	w := physical.NewWindow(analyticCall, partition, orderBy, frame, enforce, props)
	return physical.NewExpr(w, input), nil
}

func (b *builder) buildProps(def *PropsDef, path string) (physical.Props, error) {
	limit := physical.NoLimit
	if def.Limit != nil {
		if *def.Limit < 0 {
			return physical.Props{}, errors.Newf("%s.limit: negative limit %d", errors.Safe(path), *def.Limit)
		}
		limit = *def.Limit
	}
	var pred scalar.Expr
	if def.Predicate != nil {
		var err error
		if pred, err = b.buildScalar(def.Predicate, path+".predicate"); err != nil {
			return physical.Props{}, err
		}
	}
	var proj *physical.Projection
	if len(def.Projection) > 0 {
		var err error
		if proj, err = b.buildProjection(def.Projection, path+".projection"); err != nil {
			return physical.Props{}, err
		}
	}
	return physical.MakeProps(limit, pred, proj), nil
}

func (b *builder) buildProjection(defs []ProjectionDef, path string) (*physical.Projection, error) {
	items := make([]physical.ProjectionItem, len(defs))
	for i := range defs {
		d := &defs[i]
		if d.Col == "" {
			return nil, errors.Newf("%s[%d]: missing col", errors.Safe(path), i)
		}
		if d.Expr == nil {
			col, err := b.resolveColumn(d.Col, path)
			if err != nil {
				return nil, err
			}
			items[i] = physical.ProjectionItem{Col: col, Expr: scalar.NewVariable(col)}
			continue
		}
		e, err := b.buildScalar(d.Expr, path)
		if err != nil {
			return nil, err
		}
		items[i].Expr = e
	}
	// Computed columns are defined once every expression has been resolved.
	for i := range defs {
		if defs[i].Expr != nil {
			items[i].Col = b.define(defs[i].Col, b.md.AddColumn(defs[i].Col))
		}
	}
	return physical.NewProjection(items...), nil
}

// buildOrdering parses ordering columns of the form "+col", "-col" or "col",
// optionally followed by " nulls-first" or " nulls-last".
func (b *builder) buildOrdering(defs []string, path string) (opt.Ordering, error) {
	var ordering opt.Ordering
	for _, d := range defs {
		fields := strings.Fields(d)
		if len(fields) == 0 || len(fields) > 2 {
			return nil, errors.Newf("%s: invalid ordering column %q", errors.Safe(path), d)
		}
		name, desc := fields[0], false
		switch name[0] {
		case '-':
			name, desc = name[1:], true
		case '+':
			name = name[1:]
		}
		col, err := b.resolveColumn(name, path)
		if err != nil {
			return nil, err
		}
		c := opt.MakeOrderingColumn(col, desc)
		if len(fields) == 2 {
			switch fields[1] {
			case "nulls-first":
				c.NullsFirst = true
			case "nulls-last":
				c.NullsFirst = false
			default:
				return nil, errors.Newf("%s: invalid null ordering %q", errors.Safe(path), fields[1])
			}
		}
		ordering = append(ordering, c)
	}
	return ordering, nil
}

func (b *builder) buildFrame(def *FrameDef, path string) (*physical.AnalyticWindow, error) {
	var frame physical.AnalyticWindow
	switch strings.ToLower(def.Type) {
	case "rows":
		frame.Type = physical.RowsFrame
	case "range":
		frame.Type = physical.RangeFrame
	default:
		return nil, errors.WithHint(
			errors.Newf("%s: invalid frame type %q", errors.Safe(path), def.Type),
			"use rows or range",
		)
	}
	var err error
	if frame.Left, err = b.buildBoundary(&def.Start, path+".start"); err != nil {
		return nil, err
	}
	if frame.Right, err = b.buildBoundary(&def.End, path+".end"); err != nil {
		return nil, err
	}
	return &frame, nil
}

var boundTypes = map[string]physical.BoundType{
	"unbounded_preceding": physical.UnboundedPreceding,
	"preceding":           physical.OffsetPreceding,
	"current_row":         physical.CurrentRow,
	"following":           physical.OffsetFollowing,
	"unbounded_following": physical.UnboundedFollowing,
}

func (b *builder) buildBoundary(def *BoundaryDef, path string) (physical.Boundary, error) {
	typ, ok := boundTypes[strings.ToLower(def.Type)]
	if !ok {
		return physical.Boundary{}, errors.WithHint(
			errors.Newf("%s: invalid boundary type %q", errors.Safe(path), def.Type),
			"use unbounded_preceding, preceding, current_row, following or unbounded_following",
		)
	}
	hasOffset := typ == physical.OffsetPreceding || typ == physical.OffsetFollowing
	if hasOffset != (def.Offset != nil) {
		if hasOffset {
			return physical.Boundary{}, errors.Newf("%s: %s requires an offset", errors.Safe(path), def.Type)
		}
		return physical.Boundary{}, errors.Newf("%s: %s does not take an offset", errors.Safe(path), def.Type)
	}
	bound := physical.Boundary{Type: typ}
	if hasOffset {
		var err error
		if bound.Offset, err = b.buildScalar(def.Offset, path+".offset"); err != nil {
			return physical.Boundary{}, err
		}
	}
	return bound, nil
}

func (b *builder) resolveColumn(name, path string) (opt.ColumnID, error) {
	col, ok := b.scope[name]
	if !ok {
		return 0, errors.WithHint(
			errors.Newf("%s: unknown column %q", errors.Safe(path), name),
			"columns are defined by scans, window calls and computed projections, "+
				"and can only be referenced above their definition",
		)
	}
	return col, nil
}
