// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColSet(t *testing.T) {
	for _, mVal := range []int{1, 8, 30, 64, 65, 200} {
		m := mVal
		t.Run(fmt.Sprintf("%d", m), func(t *testing.T) {
			rng := rand.New(rand.NewSource(int64(m)))
			in := make([]bool, m)

			var s ColSet
			for i := 0; i < 1000; i++ {
				v := ColumnID(rng.Intn(m))
				if rng.Intn(2) == 0 {
					in[v] = true
					s.Add(v)
				} else {
					in[v] = false
					s.Remove(v)
				}
				count := 0
				for j := 0; j < m; j++ {
					if in[j] {
						count++
					}
					if in[j] != s.Contains(ColumnID(j)) {
						t.Fatalf("incorrect result for Contains(%d), expected %t", j, in[j])
					}
				}
				if count != s.Len() {
					t.Fatalf("incorrect result for Len(), expected %d, got %d", count, s.Len())
				}
				var vals ColList
				s.ForEach(func(col ColumnID) {
					vals = append(vals, col)
				})
				if o := s.Ordered(); !reflect.DeepEqual(vals, o) {
					t.Fatalf("ForEach doesn't match Ordered: %v vs %v", vals, o)
				}
				c := s.Copy()
				if !c.Equals(s) || !s.Equals(c) {
					t.Fatalf("expected equality: %v, %v", s, c)
				}
				c.Add(ColumnID(m + 1))
				if c.Equals(s) || s.Contains(ColumnID(m+1)) {
					t.Fatalf("copy is not independent: %v, %v", s, c)
				}
			}
		})
	}
}

func TestColSetUnion(t *testing.T) {
	var s ColSet
	s.UnionWith(ColSet{})
	require.True(t, s.Empty())

	s.UnionWith(MakeColSet(1, 2))
	require.Equal(t, "(1,2)", s.String())

	// Idempotent.
	s.UnionWith(MakeColSet(1, 2))
	require.Equal(t, 2, s.Len())

	other := MakeColSet(2, 3, 100)
	s.UnionWith(other)
	require.Equal(t, "(1-3,100)", s.String())
	require.Equal(t, "(2,3,100)", other.String(), "argument must not be mutated")

	u := MakeColSet(5).Union(MakeColSet(6))
	require.Equal(t, ColList{5, 6}, u.Ordered())

	// A union into an empty set must not alias the argument.
	var e ColSet
	e.UnionWith(other)
	e.Add(7)
	require.False(t, other.Contains(7))
}

func TestColSetRelations(t *testing.T) {
	a := MakeColSet(1, 2, 3)
	b := MakeColSet(2, 3)
	c := MakeColSet(4)

	require.True(t, b.SubsetOf(a))
	require.False(t, a.SubsetOf(b))
	require.True(t, ColSet{}.SubsetOf(c))
	require.False(t, c.SubsetOf(ColSet{}))

	require.True(t, a.Intersects(b))
	require.False(t, a.Intersects(c))
	require.False(t, ColSet{}.Intersects(a))

	require.Equal(t, "(2,3)", a.Intersection(b).String())
	require.Equal(t, "(1)", a.Difference(b).String())
	require.Equal(t, "(1-3)", a.String(), "receiver must not be mutated")

	// Sets that were built with different capacities are still equal.
	big := MakeColSet(1, 500)
	big.Remove(500)
	require.True(t, big.Equals(MakeColSet(1)))
	require.True(t, MakeColSet(1).Equals(big))

	require.Equal(t, "()", ColSet{}.String())
	require.Equal(t, "(1,3)", MakeColSet(1, 3).String())
}

func TestColListToSet(t *testing.T) {
	s := ColListToSet(ColList{3, 1, 3})
	require.Equal(t, ColList{1, 3}, s.Ordered())
}
