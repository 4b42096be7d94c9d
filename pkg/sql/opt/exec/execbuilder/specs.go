// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execbuilder

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/util/treeprinter"
)

// Expression is a scalar expression in which columns are referenced by
// 1-based ordinal in the row produced by the processor core, as in @1.
type Expression struct {
	Expr string
}

// Empty returns true if no expression is set.
func (e Expression) Empty() bool {
	return e.Expr == ""
}

// Direction is the sort direction of an ordering column.
type Direction uint8

const (
	// Ascending sorts from the smallest value to the largest.
	Ascending Direction = iota
	// Descending sorts from the largest value to the smallest.
	Descending
)

// OrderingColumn is one key of an Ordering, referenced by 0-based ordinal.
type OrderingColumn struct {
	ColIdx     uint32
	Direction  Direction
	NullsFirst bool
}

// Ordering is a sort order over the columns of a row.
type Ordering struct {
	Columns []OrderingColumn
}

func (o Ordering) String() string {
	var buf strings.Builder
	for i, c := range o.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		if c.Direction == Descending {
			buf.WriteByte('-')
		} else {
			buf.WriteByte('+')
		}
		fmt.Fprintf(&buf, "@%d", c.ColIdx+1)
		// Only non-default NULL placement is printed.
		if c.NullsFirst != (c.Direction == Ascending) {
			if c.NullsFirst {
				buf.WriteString(" nulls-first")
			} else {
				buf.WriteString(" nulls-last")
			}
		}
	}
	return buf.String()
}

// TableReaderSpec is the core of a stage that reads rows from a table. The
// stage outputs Columns in the given order.
type TableReaderSpec struct {
	Table   string
	Columns []string
	// Ordering is the order in which the table produces rows, if any.
	Ordering Ordering
}

// NoopCoreSpec is the core of a stage that passes its input through. It
// exists to host post-processing.
type NoopCoreSpec struct{}

// SorterSpec is the core of a stage that sorts its input.
type SorterSpec struct {
	OutputOrdering Ordering
}

// WindowerSpec is the core of a stage that computes window functions. The
// input must be ordered by the partition columns followed by the function
// ordering. The output is the input row followed by one column per function.
type WindowerSpec struct {
	// PartitionBy contains the input ordinals of the partitioning columns.
	PartitionBy []uint32
	WindowFns   []WindowFn
}

// WindowFn is a single window function computed by a windower.
type WindowFn struct {
	Func     string
	Distinct bool
	// ArgsIdxs contains the input ordinals of the arguments.
	ArgsIdxs []uint32
	// Ordering sequences the rows within a partition.
	Ordering Ordering
	// Frame is nil for functions computed without a frame.
	Frame *WindowFrame
	// OutputColIdx is the ordinal of the function's result in the
	// windower's output.
	OutputColIdx uint32
}

// WindowFrame is the frame of a window function.
type WindowFrame struct {
	Mode  physical.FrameType
	Start FrameBound
	End   FrameBound
}

// FrameBound is one end of a WindowFrame. Offset is set only for offset
// bounds and holds the decimal representation of the offset.
type FrameBound struct {
	BoundType physical.BoundType
	Offset    string
}

func (b FrameBound) String() string {
	if b.Offset != "" {
		return b.Offset + " " + b.BoundType.String()
	}
	return b.BoundType.String()
}

func (f *WindowFrame) String() string {
	return fmt.Sprintf("%s BETWEEN %s AND %s", f.Mode, f.Start, f.End)
}

// PostProcessSpec describes the processing applied to the rows produced by a
// stage's core, in order: Filter, then Limit, then either RenderExprs or
// OutputColumns.
type PostProcessSpec struct {
	Filter Expression
	// Limit is 0 for no limit; HasLimit distinguishes LIMIT 0.
	HasLimit bool
	Limit    uint64
	// OutputColumns, if set, projects the core's row onto these ordinals.
	OutputColumns []uint32
	// RenderExprs, if set, computes the output row from the core's row.
	RenderExprs []Expression
}

// Empty returns true if the post-processing passes every row through.
func (p *PostProcessSpec) Empty() bool {
	return p.Filter.Empty() && !p.HasLimit && p.OutputColumns == nil && p.RenderExprs == nil
}

// ProcessorCoreUnion holds the core of a stage. Exactly one field is set.
type ProcessorCoreUnion struct {
	TableReader *TableReaderSpec
	Noop        *NoopCoreSpec
	Sorter      *SorterSpec
	Windower    *WindowerSpec
}

// Stage is a processor of a lowered plan: a core that reads the output of
// the input stage, followed by post-processing.
type Stage struct {
	Core  ProcessorCoreUnion
	Post  PostProcessSpec
	Input *Stage
	// ResultCols maps each ordinal of the stage's output row to the column it
	// holds.
	ResultCols opt.ColList
}

// String returns the stage tree in an indented format.
func (s *Stage) String() string {
	tp := treeprinter.New()
	s.format(tp)
	return tp.String()
}

func (s *Stage) format(tp treeprinter.Node) {
	var n treeprinter.Node
	switch c := s.Core; {
	case c.TableReader != nil:
		n = tp.Childf("table reader %s", c.TableReader.Table)
		n.Childf("columns: %s", strings.Join(c.TableReader.Columns, ", "))
		if len(c.TableReader.Ordering.Columns) > 0 {
			n.Childf("ordering: %s", c.TableReader.Ordering)
		}
	case c.Sorter != nil:
		n = tp.Child("sorter")
		n.Childf("ordering: %s", c.Sorter.OutputOrdering)
	case c.Windower != nil:
		n = tp.Child("windower")
		if len(c.Windower.PartitionBy) > 0 {
			n.Childf("partition by: %s", formatOrdinals(c.Windower.PartitionBy))
		}
		for _, fn := range c.Windower.WindowFns {
			fnNode := n.Childf("@%d = %s", fn.OutputColIdx+1, formatCall(fn))
			if len(fn.Ordering.Columns) > 0 {
				fnNode.Childf("ordering: %s", fn.Ordering)
			}
			if fn.Frame != nil {
				fnNode.Childf("frame: %s", fn.Frame)
			}
		}
	default:
		n = tp.Child("noop")
	}
	if !s.Post.Empty() {
		post := n.Child("post")
		if !s.Post.Filter.Empty() {
			post.Childf("filter: %s", s.Post.Filter.Expr)
		}
		if s.Post.HasLimit {
			post.Childf("limit: %d", s.Post.Limit)
		}
		if s.Post.OutputColumns != nil {
			post.Childf("output columns: %s", formatOrdinals(s.Post.OutputColumns))
		}
		if s.Post.RenderExprs != nil {
			renders := make([]string, len(s.Post.RenderExprs))
			for i, r := range s.Post.RenderExprs {
				renders[i] = r.Expr
			}
			post.Childf("render: %s", strings.Join(renders, ", "))
		}
	}
	if s.Input != nil {
		s.Input.format(n)
	}
}

func formatCall(fn WindowFn) string {
	var buf strings.Builder
	buf.WriteString(fn.Func)
	buf.WriteByte('(')
	if fn.Distinct {
		buf.WriteString("DISTINCT ")
	}
	buf.WriteString(formatOrdinals(fn.ArgsIdxs))
	buf.WriteByte(')')
	return buf.String()
}

func formatOrdinals(ords []uint32) string {
	var buf strings.Builder
	for i, ord := range ords {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "@%d", ord+1)
	}
	return buf.String()
}
