// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"github.com/bits-and-blooms/bitset"
	"github.com/cockroachdb/redact"
)

// ColumnID uniquely identifies the usage of a column within the scope of a
// query. ColumnID 0 is reserved to mean "unknown column". See the comment for
// Metadata for more details.
type ColumnID int32

// SafeValue implements redact.SafeValue.
func (ColumnID) SafeValue() {}

// ColList is a list of column ids.
type ColList = []ColumnID

// ColSet efficiently stores an unordered set of column ids.
//
// The zero value is an empty set ready to use. Like util.FastIntSet, a ColSet
// that has been copied by assignment shares storage with the original; use
// Copy to get an independent set.
type ColSet struct {
	set *bitset.BitSet
}

// MakeColSet returns a set initialized with the given columns.
func MakeColSet(cols ...ColumnID) ColSet {
	var s ColSet
	for _, c := range cols {
		s.Add(c)
	}
	return s
}

// Add adds a column to the set. No-op if the column is already in the set.
func (s *ColSet) Add(col ColumnID) {
	if col < 0 {
		panic(redact.Safe("negative column id"))
	}
	if s.set == nil {
		s.set = bitset.New(uint(col) + 1)
	}
	s.set.Set(uint(col))
}

// Remove removes a column from the set. No-op if the column is not in the set.
func (s *ColSet) Remove(col ColumnID) {
	if s.set != nil && col >= 0 {
		s.set.Clear(uint(col))
	}
}

// Contains returns true if the set contains the column.
func (s ColSet) Contains(col ColumnID) bool {
	if s.set == nil || col < 0 || uint(col) >= s.set.Len() {
		return false
	}
	return s.set.Test(uint(col))
}

// Len returns the number of columns in the set.
func (s ColSet) Len() int {
	if s.set == nil {
		return 0
	}
	return int(s.set.Count())
}

// Empty returns true if the set is empty.
func (s ColSet) Empty() bool {
	return s.Len() == 0
}

// UnionWith adds all the columns from rhs to this set. It is idempotent and
// a no-op when rhs is empty.
func (s *ColSet) UnionWith(rhs ColSet) {
	if rhs.Empty() {
		return
	}
	if s.set == nil {
		s.set = rhs.set.Clone()
		return
	}
	s.set.InPlaceUnion(rhs.set)
}

// Union returns the union of s and rhs as a new set.
func (s ColSet) Union(rhs ColSet) ColSet {
	r := s.Copy()
	r.UnionWith(rhs)
	return r
}

// IntersectionWith removes any columns not in rhs from this set.
func (s *ColSet) IntersectionWith(rhs ColSet) {
	if s.set == nil {
		return
	}
	if rhs.set == nil {
		s.set = nil
		return
	}
	s.set.InPlaceIntersection(rhs.set)
}

// Intersection returns the intersection of s and rhs as a new set.
func (s ColSet) Intersection(rhs ColSet) ColSet {
	r := s.Copy()
	r.IntersectionWith(rhs)
	return r
}

// DifferenceWith removes any columns in rhs from this set.
func (s *ColSet) DifferenceWith(rhs ColSet) {
	if s.set == nil || rhs.set == nil {
		return
	}
	s.set.InPlaceDifference(rhs.set)
}

// Difference returns the columns in s that are not in rhs as a new set.
func (s ColSet) Difference(rhs ColSet) ColSet {
	r := s.Copy()
	r.DifferenceWith(rhs)
	return r
}

// SubsetOf returns true if rhs contains all the columns in s.
func (s ColSet) SubsetOf(rhs ColSet) bool {
	if s.Empty() {
		return true
	}
	if rhs.set == nil {
		return false
	}
	return rhs.set.IsSuperSet(s.set)
}

// Intersects returns true if s has any columns in common with rhs.
func (s ColSet) Intersects(rhs ColSet) bool {
	if s.set == nil || rhs.set == nil {
		return false
	}
	return s.set.IntersectionCardinality(rhs.set) > 0
}

// Equals returns true if the two sets contain the same columns.
func (s ColSet) Equals(rhs ColSet) bool {
	return s.Len() == rhs.Len() && s.SubsetOf(rhs)
}

// Copy returns an independent copy of the set.
func (s ColSet) Copy() ColSet {
	if s.set == nil {
		return ColSet{}
	}
	return ColSet{set: s.set.Clone()}
}

// ForEach calls f for each column in the set, in increasing order.
func (s ColSet) ForEach(f func(col ColumnID)) {
	if s.set == nil {
		return
	}
	for i, ok := s.set.NextSet(0); ok; i, ok = s.set.NextSet(i + 1) {
		f(ColumnID(i))
	}
}

// Ordered returns the columns in the set, in increasing order.
func (s ColSet) Ordered() ColList {
	if s.Empty() {
		return nil
	}
	res := make(ColList, 0, s.Len())
	s.ForEach(func(col ColumnID) {
		res = append(res, col)
	})
	return res
}

// SafeFormat implements redact.SafeFormatter. The set is printed as a
// parenthesized list, collapsing runs into ranges: (1-3,5).
func (s ColSet) SafeFormat(w redact.SafePrinter, _ rune) {
	w.SafeRune('(')
	cols := s.Ordered()
	for i := 0; i < len(cols); {
		j := i
		for j+1 < len(cols) && cols[j+1] == cols[j]+1 {
			j++
		}
		if i > 0 {
			w.SafeRune(',')
		}
		if j-i >= 2 {
			w.Printf("%d-%d", cols[i], cols[j])
		} else if j > i {
			w.Printf("%d,%d", cols[i], cols[j])
		} else {
			w.Print(cols[i])
		}
		i = j + 1
	}
	w.SafeRune(')')
}

// String implements fmt.Stringer.
func (s ColSet) String() string {
	return redact.StringWithoutMarkers(s)
}

// ColListToSet converts a column id list to a column id set.
func ColListToSet(colList ColList) ColSet {
	var r ColSet
	for _, col := range colList {
		r.Add(col)
	}
	return r
}
