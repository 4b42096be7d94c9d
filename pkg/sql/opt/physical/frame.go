// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package physical

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/scalar"
	"github.com/cockroachdb/physplan/pkg/util"
)

// FrameType determines how frame boundary offsets are interpreted.
type FrameType uint8

const (
	// RangeFrame delimits the frame by the value of the ORDER BY key: an
	// offset of N admits peer rows whose key is within N of the current row's.
	RangeFrame FrameType = iota
	// RowsFrame delimits the frame by physical row offsets, regardless of ties
	// in the ORDER BY key.
	RowsFrame
)

func (t FrameType) String() string {
	if t == RowsFrame {
		return "ROWS"
	}
	return "RANGE"
}

// BoundType is the kind of a frame boundary. The constants are declared in
// frame order, so comparing two BoundTypes compares their position relative to
// the current row.
type BoundType uint8

const (
	// UnboundedPreceding is the first row of the partition.
	UnboundedPreceding BoundType = iota
	// OffsetPreceding is <offset> PRECEDING.
	OffsetPreceding
	// CurrentRow is the current row (or, for RANGE, its first/last peer).
	CurrentRow
	// OffsetFollowing is <offset> FOLLOWING.
	OffsetFollowing
	// UnboundedFollowing is the last row of the partition.
	UnboundedFollowing
)

func (t BoundType) String() string {
	switch t {
	case UnboundedPreceding:
		return "UNBOUNDED PRECEDING"
	case OffsetPreceding:
		return "PRECEDING"
	case CurrentRow:
		return "CURRENT ROW"
	case OffsetFollowing:
		return "FOLLOWING"
	case UnboundedFollowing:
		return "UNBOUNDED FOLLOWING"
	}
	return "UNKNOWN"
}

// Boundary is one end of a window frame. Offset is set only for
// OffsetPreceding and OffsetFollowing.
type Boundary struct {
	Type   BoundType
	Offset scalar.Expr
}

// Preceding returns an "<offset> PRECEDING" boundary.
func Preceding(offset scalar.Expr) Boundary {
	return Boundary{Type: OffsetPreceding, Offset: offset}
}

// Following returns an "<offset> FOLLOWING" boundary.
func Following(offset scalar.Expr) Boundary {
	return Boundary{Type: OffsetFollowing, Offset: offset}
}

// Equals returns true if the boundaries have the same type and offset.
func (b Boundary) Equals(other Boundary) bool {
	return b.Type == other.Type && scalar.Equal(b.Offset, other.Offset)
}

func (b Boundary) format(buf *strings.Builder, md *opt.Metadata) {
	if b.Type == OffsetPreceding || b.Type == OffsetFollowing {
		if b.Offset != nil {
			buf.WriteString(scalar.FormatWithMetadata(b.Offset, md))
		} else {
			buf.WriteString("?")
		}
		buf.WriteByte(' ')
	}
	buf.WriteString(b.Type.String())
}

// CompareBoundaries orders two boundaries in frame order:
//
//	UNBOUNDED PRECEDING < N PRECEDING < CURRENT ROW < N FOLLOWING < UNBOUNDED FOLLOWING
//
// Two offset boundaries of the same type compare by their numeric offsets
// (5 PRECEDING is before 2 PRECEDING). Offsets that are not numeric
// constants compare as equal.
func CompareBoundaries(a, b Boundary) int {
	if a.Type != b.Type {
		if a.Type < b.Type {
			return -1
		}
		return 1
	}
	if a.Type != OffsetPreceding && a.Type != OffsetFollowing {
		return 0
	}
	aOff, aOK := numericOffset(a.Offset)
	bOff, bOK := numericOffset(b.Offset)
	if !aOK || !bOK {
		return 0
	}
	cmp := aOff.Cmp(bOff)
	if a.Type == OffsetPreceding {
		return -cmp
	}
	return cmp
}

// AnalyticWindow is the frame clause of a window function:
//
//	{ROWS | RANGE} BETWEEN <left> AND <right>
//
// AnalyticWindow is a value; its offsets are immutable scalar expressions.
type AnalyticWindow struct {
	Type  FrameType
	Left  Boundary
	Right Boundary
}

// DefaultFrame returns the frame used when a window function has an ORDER BY
// but no explicit frame: RANGE BETWEEN UNBOUNDED PRECEDING AND CURRENT ROW.
func DefaultFrame() *AnalyticWindow {
	return &AnalyticWindow{
		Type:  RangeFrame,
		Left:  Boundary{Type: UnboundedPreceding},
		Right: Boundary{Type: CurrentRow},
	}
}

// IsDefault returns true if w is the default frame.
func (w *AnalyticWindow) IsDefault() bool {
	return w.Equals(DefaultFrame())
}

// Copy returns a copy of the frame, or nil if w is nil.
func (w *AnalyticWindow) Copy() *AnalyticWindow {
	if w == nil {
		return nil
	}
	c := *w
	return &c
}

// Equals returns true if both frames are nil, or both have the same type and
// boundaries.
func (w *AnalyticWindow) Equals(other *AnalyticWindow) bool {
	if w == nil || other == nil {
		return w == nil && other == nil
	}
	return w.Type == other.Type && w.Left.Equals(other.Left) && w.Right.Equals(other.Right)
}

// Hash mixes the frame into h.
func (w *AnalyticWindow) Hash(h uint64) uint64 {
	if w == nil {
		return util.FNV64AddToHash(h, -1)
	}
	h = util.FNV64AddToHash(h, int32(w.Type))
	for _, b := range [2]Boundary{w.Left, w.Right} {
		h = util.FNV64AddToHash(h, int32(b.Type))
		h = util.FNV64AddUint64(h, scalar.HashExpr(b.Offset))
	}
	return h
}

// String returns the frame as SQL, with columns (if any) printed as @id.
func (w *AnalyticWindow) String() string {
	return w.Format(nil)
}

// Format returns the frame as SQL, for example
// "ROWS BETWEEN 2 PRECEDING AND CURRENT ROW".
func (w *AnalyticWindow) Format(md *opt.Metadata) string {
	if w == nil {
		return "<none>"
	}
	var buf strings.Builder
	buf.WriteString(w.Type.String())
	buf.WriteString(" BETWEEN ")
	w.Left.format(&buf, md)
	buf.WriteString(" AND ")
	w.Right.format(&buf, md)
	return buf.String()
}

// Validate checks that the frame is well formed for a window ordered by
// orderBy. Window operators never call Validate; it is the responsibility of
// whoever builds them.
func (w *AnalyticWindow) Validate(orderBy opt.Ordering) error {
	if w.Left.Type == UnboundedFollowing {
		return errors.New("frame start cannot be UNBOUNDED FOLLOWING")
	}
	if w.Right.Type == UnboundedPreceding {
		return errors.New("frame end cannot be UNBOUNDED PRECEDING")
	}
	hasOffset := false
	for _, b := range [2]Boundary{w.Left, w.Right} {
		if b.Type != OffsetPreceding && b.Type != OffsetFollowing {
			continue
		}
		hasOffset = true
		if err := w.validateOffset(b); err != nil {
			return err
		}
	}
	if CompareBoundaries(w.Left, w.Right) > 0 {
		return errors.Newf("frame starting from %s cannot end with %s",
			boundaryName(w.Left), boundaryName(w.Right))
	}
	if hasOffset && w.Type == RangeFrame && len(orderBy) != 1 {
		return errors.WithHint(
			errors.Newf("RANGE with offset PRECEDING/FOLLOWING requires exactly one ORDER BY column, found %d", len(orderBy)),
			"use ROWS framing, or order the window by a single column",
		)
	}
	return nil
}

func (w *AnalyticWindow) validateOffset(b Boundary) error {
	c, ok := b.Offset.(*scalar.Const)
	if !ok {
		return errors.Newf("frame offset must be a constant, found %v", b.Offset)
	}
	d, ok := c.Numeric()
	if !ok {
		return errors.Newf("frame offset must be numeric, found %s", c)
	}
	if d.Negative && !d.IsZero() {
		return errors.Newf("frame offset must not be negative, found %s", c)
	}
	if w.Type == RowsFrame && c.Kind != scalar.IntConst {
		return errors.Newf("ROWS frame offset must be an integer, found %s", c)
	}
	return nil
}

func boundaryName(b Boundary) string {
	var buf strings.Builder
	b.format(&buf, nil)
	return strings.ToLower(buf.String())
}

func numericOffset(e scalar.Expr) (*apd.Decimal, bool) {
	c, ok := e.(*scalar.Const)
	if !ok {
		return nil, false
	}
	return c.Numeric()
}
