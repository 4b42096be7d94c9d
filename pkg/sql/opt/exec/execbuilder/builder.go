// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package execbuilder lowers physical plans into trees of execution stages.
// Stages refer to columns by ordinal: every stage knows which column each
// position of its output row holds, and expressions are rendered against the
// row produced by the stage's core.
package execbuilder

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
)

// Builder constructs a tree of stages from a physical plan.
type Builder struct {
	md *opt.Metadata
}

var _ physical.ExprVisitor[*Stage, struct{}] = (*Builder)(nil)

// New creates a Builder. md is used to name table columns and to label
// columns in error messages; it may be nil.
func New(md *opt.Metadata) *Builder {
	return &Builder{md: md}
}

// builderError is used to unwind the recursion on a build error.
type builderError struct {
	error
}

// Build lowers the plan rooted at e. Windows are lowered as-is: their input
// must already provide the ordering they require (see
// ordering.EnforceInputOrderings).
func (b *Builder) Build(e *physical.Expr) (_ *Stage, err error) {
	defer func() {
		if r := recover(); r != nil {
			bldErr, ok := r.(builderError)
			if !ok {
				panic(r)
			}
			err = bldErr.error
		}
	}()
	return b.build(e), nil
}

func (b *Builder) build(e *physical.Expr) *Stage {
	return physical.AcceptExpr[*Stage, struct{}](e, b, struct{}{})
}

// VisitScan is part of the physical.ExprVisitor interface.
func (b *Builder) VisitScan(e *physical.Expr, _ struct{}) *Stage {
	scan := e.Operator().(*physical.Scan)
	cols := scan.Cols().Ordered()
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = b.columnName(col)
	}
	st := &Stage{
		Core: ProcessorCoreUnion{TableReader: &TableReaderSpec{
			Table:    scan.Table(),
			Columns:  names,
			Ordering: b.ordering(providedPrefix(scan.Ordering(), scan.Cols()), makeColOrdMap(cols)),
		}},
		ResultCols: cols,
	}
	return b.addPost(st, scan.PhysicalProps())
}

// VisitFilter is part of the physical.ExprVisitor interface.
func (b *Builder) VisitFilter(e *physical.Expr, _ struct{}) *Stage {
	input := b.build(e.Input())
	st := &Stage{
		Core:       ProcessorCoreUnion{Noop: &NoopCoreSpec{}},
		Input:      input,
		ResultCols: input.ResultCols,
	}
	return b.addPost(st, e.Operator().PhysicalProps())
}

// VisitProject is part of the physical.ExprVisitor interface.
func (b *Builder) VisitProject(e *physical.Expr, _ struct{}) *Stage {
	project := e.Operator().(*physical.Project)
	input := b.build(e.Input())
	st := &Stage{
		Core:  ProcessorCoreUnion{Noop: &NoopCoreSpec{}},
		Input: input,
	}
	st.Post.RenderExprs, st.ResultCols = b.renderProjection(project.Items().Items(), input.ResultCols)
	return b.addPost(st, project.PhysicalProps())
}

// VisitSort is part of the physical.ExprVisitor interface.
func (b *Builder) VisitSort(e *physical.Expr, _ struct{}) *Stage {
	sort := e.Operator().(*physical.Sort)
	input := b.build(e.Input())
	st := &Stage{
		Core: ProcessorCoreUnion{Sorter: &SorterSpec{
			OutputOrdering: b.ordering(sort.Ordering(), makeColOrdMap(input.ResultCols)),
		}},
		Input:      input,
		ResultCols: input.ResultCols,
	}
	return b.addPost(st, sort.PhysicalProps())
}

// VisitAnalytic is part of the physical.ExprVisitor interface.
//
// Window function arguments and partition expressions that are not plain
// column references are computed by a render added on top of the input; the
// windower then refers to them by ordinal, and they are dropped from the
// windower's output.
func (b *Builder) VisitAnalytic(e *physical.Expr, _ struct{}) *Stage {
	w := e.Operator().(*physical.Window)
	input := b.build(e.Input())
	inputCols := makeColOrdMap(input.ResultCols)

	var extra []scalar.Expr
	ordinalOf := func(expr scalar.Expr) uint32 {
		if v, ok := expr.(*scalar.Variable); ok {
			return uint32(b.ordinal(inputCols, v.Col))
		}
		b.checkResolved(expr, inputCols)
		for i := range extra {
			if extra[i].Equals(expr) {
				return uint32(len(input.ResultCols) + i)
			}
		}
		extra = append(extra, expr)
		return uint32(len(input.ResultCols) + len(extra) - 1)
	}

	spec := &WindowerSpec{}
	for _, p := range w.PartitionExprs() {
		spec.PartitionBy = append(spec.PartitionBy, ordinalOf(p))
	}
	fnOrdering := b.ordering(w.OrderBy(), inputCols)
	frame := b.frame(w.Frame(), inputCols)
	calls := w.AnalyticCalls()
	spec.WindowFns = make([]WindowFn, len(calls))
	for i, c := range calls {
		fn := WindowFn{
			Func:     c.Call.Name,
			Distinct: c.Call.Distinct,
			Ordering: fnOrdering,
			Frame:    frame,
		}
		for _, arg := range c.Call.Args {
			fn.ArgsIdxs = append(fn.ArgsIdxs, ordinalOf(arg))
		}
		spec.WindowFns[i] = fn
	}

	if len(extra) > 0 {
		input = b.renderExtra(input, extra)
	}
	resultCols := make(opt.ColList, len(input.ResultCols), len(input.ResultCols)+len(calls))
	copy(resultCols, input.ResultCols)
	for i, c := range calls {
		spec.WindowFns[i].OutputColIdx = uint32(len(resultCols))
		resultCols = append(resultCols, c.Col)
	}
	st := &Stage{
		Core:       ProcessorCoreUnion{Windower: spec},
		Input:      input,
		ResultCols: resultCols,
	}
	return b.addPost(st, w.PhysicalProps())
}

// addPost applies the limit, predicate and projection of an operator to the
// output of st. If st already has post-processing, a noop stage is added to
// host them. Computed columns that do not correspond to a plan column are
// dropped from the output.
func (b *Builder) addPost(st *Stage, props physical.Props) *Stage {
	if props.IsEmpty() && !hasComputed(st.ResultCols) {
		return st
	}
	if !st.Post.Empty() {
		st = &Stage{
			Core:       ProcessorCoreUnion{Noop: &NoopCoreSpec{}},
			Input:      st,
			ResultCols: st.ResultCols,
		}
	}
	cols := makeColOrdMap(st.ResultCols)
	if pred := props.Predicate(); pred != nil {
		st.Post.Filter = b.render(pred, cols)
	}
	if limit := props.Limit(); limit != physical.NoLimit {
		st.Post.HasLimit, st.Post.Limit = true, uint64(limit)
	}
	if p := props.Projection(); p != nil {
		st.Post.RenderExprs, st.ResultCols = b.renderProjection(p.Items(), st.ResultCols)
	} else if hasComputed(st.ResultCols) {
		var out opt.ColList
		for i, col := range st.ResultCols {
			if col != 0 {
				st.Post.OutputColumns = append(st.Post.OutputColumns, uint32(i))
				out = append(out, col)
			}
		}
		st.ResultCols = out
	}
	return st
}

// renderExtra returns a stage that outputs the row of input followed by the
// given expressions. The computed columns are recorded as column 0.
func (b *Builder) renderExtra(input *Stage, extra []scalar.Expr) *Stage {
	if !input.Post.Empty() {
		input = &Stage{
			Core:       ProcessorCoreUnion{Noop: &NoopCoreSpec{}},
			Input:      input,
			ResultCols: input.ResultCols,
		}
	}
	cols := makeColOrdMap(input.ResultCols)
	renders := make([]Expression, 0, len(input.ResultCols)+len(extra))
	resultCols := make(opt.ColList, 0, len(input.ResultCols)+len(extra))
	for i, col := range input.ResultCols {
		renders = append(renders, Expression{Expr: fmt.Sprintf("@%d", i+1)})
		resultCols = append(resultCols, col)
	}
	for _, expr := range extra {
		renders = append(renders, b.render(expr, cols))
		resultCols = append(resultCols, 0)
	}
	input.Post.RenderExprs = renders
	input.ResultCols = resultCols
	return input
}

func (b *Builder) renderProjection(
	items []physical.ProjectionItem, inputCols opt.ColList,
) ([]Expression, opt.ColList) {
	cols := makeColOrdMap(inputCols)
	renders := make([]Expression, len(items))
	resultCols := make(opt.ColList, len(items))
	for i, item := range items {
		renders[i] = b.render(item.Expr, cols)
		resultCols[i] = item.Col
	}
	return renders, resultCols
}

// render returns the expression with columns replaced by their 1-based
// ordinal in cols.
func (b *Builder) render(expr scalar.Expr, cols colOrdMap) Expression {
	b.checkResolved(expr, cols)
	return Expression{Expr: scalar.Format(expr, func(col opt.ColumnID) string {
		return fmt.Sprintf("@%d", cols[col]+1)
	})}
}

func (b *Builder) ordering(o opt.Ordering, cols colOrdMap) Ordering {
	if len(o) == 0 {
		return Ordering{}
	}
	res := Ordering{Columns: make([]OrderingColumn, len(o))}
	for i, c := range o {
		res.Columns[i] = OrderingColumn{
			ColIdx:     uint32(b.ordinal(cols, c.ID)),
			Direction:  Ascending,
			NullsFirst: c.NullsFirst,
		}
		if c.Descending {
			res.Columns[i].Direction = Descending
		}
	}
	return res
}

func (b *Builder) frame(f *physical.AnalyticWindow, cols colOrdMap) *WindowFrame {
	if f == nil {
		return nil
	}
	bound := func(bd physical.Boundary) FrameBound {
		fb := FrameBound{BoundType: bd.Type}
		if bd.Offset != nil {
			fb.Offset = b.render(bd.Offset, cols).Expr
		}
		return fb
	}
	return &WindowFrame{Mode: f.Type, Start: bound(f.Left), End: bound(f.Right)}
}

// ordinal returns the position of col in cols, or raises an unresolved
// column error.
func (b *Builder) ordinal(cols colOrdMap, col opt.ColumnID) int {
	ord, ok := cols[col]
	if !ok {
		panic(b.unresolved(col))
	}
	return ord
}

func (b *Builder) checkResolved(expr scalar.Expr, cols colOrdMap) {
	expr.ColumnsRead().ForEach(func(col opt.ColumnID) {
		if _, ok := cols[col]; !ok {
			panic(b.unresolved(col))
		}
	})
}

func (b *Builder) unresolved(col opt.ColumnID) builderError {
	return builderError{errors.WithHint(
		errors.Newf("unresolved column %s", errors.Safe(b.md.ColumnLabel(col))),
		"the column is not produced by the operator's input",
	)}
}

func (b *Builder) columnName(col opt.ColumnID) string {
	if b.md != nil {
		if name := b.md.ColumnName(col); name != "" {
			return name
		}
	}
	return fmt.Sprintf("@%d", col)
}

// colOrdMap maps a column to its 0-based ordinal in a row.
type colOrdMap map[opt.ColumnID]int

func makeColOrdMap(cols opt.ColList) colOrdMap {
	m := make(colOrdMap, len(cols))
	for i, col := range cols {
		if col != 0 {
			m[col] = i
		}
	}
	return m
}

// providedPrefix returns the longest prefix of o whose columns are in cols.
func providedPrefix(o opt.Ordering, cols opt.ColSet) opt.Ordering {
	for i := range o {
		if !cols.Contains(o[i].ID) {
			return o[:i]
		}
	}
	return o
}

func hasComputed(cols opt.ColList) bool {
	for _, col := range cols {
		if col == 0 {
			return true
		}
	}
	return false
}
