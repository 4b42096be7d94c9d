// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package memo stores physical plans compactly by sharing equivalent
// subplans.
//
// A Memo is a forest of groups. A group is a set of equivalent physical
// expressions, its members, each an operator over zero or more input groups.
// Memoizing an operator looks for an existing member with an equal operator
// over the same input groups; operators are bucketed by their hash and then
// compared with Equals. Equality of operators is structural and therefore
// deliberately coarse for some kinds: two windows that compute the same
// functions over the same partitioning, ordering and frame are the same
// member, even if they enforce a different input ordering or carry different
// limits, predicates or projections. The member that was memoized first is
// kept and represents them all.
//
// For every required ordering, a group also remembers the lowest cost plan
// found so far that satisfies it (see SetBest).
//
// A Memo is safe for concurrent use.
package memo

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/physplan/pkg/sql/opt"
	"github.com/cockroachdb/physplan/pkg/sql/opt/physical"
	"github.com/cockroachdb/physplan/pkg/util"
	"github.com/cockroachdb/physplan/pkg/util/log"
	"github.com/cockroachdb/physplan/pkg/util/syncutil"
)

// GroupID identifies a memo group. GroupIDs are allocated sequentially
// starting at 1; 0 is never a valid group.
type GroupID int32

// SafeValue implements redact.SafeValue.
func (GroupID) SafeValue() {}

// Member is one expression in a group: an operator over input groups.
type Member struct {
	Op     physical.Operator
	Inputs []GroupID
}

// BestExpr is the lowest cost plan found for a group under a required
// ordering.
type BestExpr struct {
	Expr *physical.Expr
	Cost Cost
}

// Stats counts memoization activity.
type Stats struct {
	Groups int
	// Members counts the distinct expressions across all groups.
	Members int
	// Deduplicated counts the expressions that were found to already exist.
	Deduplicated int
}

type group struct {
	id      GroupID
	members []Member
	// best maps a required ordering (in its string form) to the best plan.
	best map[string]BestExpr
}

type memberRef struct {
	group  GroupID
	member int
}

// Memo is a forest of groups of equivalent physical expressions.
type Memo struct {
	mu struct {
		syncutil.RWMutex
		groups []*group
		// index buckets every member by its hash.
		index map[uint64][]memberRef
		stats Stats
	}
}

// New returns an empty memo.
func New() *Memo {
	m := &Memo{}
	m.mu.index = make(map[uint64][]memberRef)
	return m
}

// Memoize adds op over the given input groups to the memo in a new group,
// unless an equal operator over the same inputs has already been memoized,
// in which case the existing group is returned. added is true if a new group
// was created.
func (m *Memo) Memoize(
	ctx context.Context, op physical.Operator, inputs ...GroupID,
) (_ GroupID, added bool) {
	return m.add(ctx, 0, op, inputs)
}

// AddAlternative adds op over the given input groups as an equivalent
// alternative to the members of group id. The inputs must not include id. If
// an equal member already exists, its group is returned, which may differ
// from id. added is true if the
// member was added.
func (m *Memo) AddAlternative(
	ctx context.Context, id GroupID, op physical.Operator, inputs ...GroupID,
) (_ GroupID, added bool) {
	if id <= 0 {
		panic(errors.AssertionFailedf("invalid group %d", id))
	}
	return m.add(ctx, id, op, inputs)
}

func (m *Memo) add(
	ctx context.Context, target GroupID, op physical.Operator, inputs []GroupID,
) (GroupID, bool) {
	h := memberHash(op, inputs)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkInputsLocked(target, op, inputs)
	if target > GroupID(len(m.mu.groups)) {
		panic(errors.AssertionFailedf("invalid group %d", target))
	}
	for _, ref := range m.mu.index[h] {
		existing := m.mu.groups[ref.group-1].members[ref.member]
		if sameInputs(existing.Inputs, inputs) && existing.Op.Equals(op) {
			m.mu.stats.Deduplicated++
			log.VEventf(ctx, 2, "%s deduplicated into group %d", op.Op(), ref.group)
			return ref.group, false
		}
	}

	var g *group
	if target == 0 {
		g = &group{id: GroupID(len(m.mu.groups) + 1)}
		m.mu.groups = append(m.mu.groups, g)
		m.mu.stats.Groups++
	} else {
		g = m.mu.groups[target-1]
	}
	g.members = append(g.members, Member{Op: op, Inputs: append([]GroupID(nil), inputs...)})
	m.mu.index[h] = append(m.mu.index[h], memberRef{group: g.id, member: len(g.members) - 1})
	m.mu.stats.Members++
	log.VEventf(ctx, 3, "%s memoized in group %d", op.Op(), g.id)
	return g.id, true
}

func (m *Memo) checkInputsLocked(target GroupID, op physical.Operator, inputs []GroupID) {
	want := 1
	if op.Op() == opt.ScanOp {
		want = 0
	}
	if len(inputs) != want {
		panic(errors.AssertionFailedf("%s expects %d input(s), got %d", op.Op(), want, len(inputs)))
	}
	for _, in := range inputs {
		if in <= 0 || int(in) > len(m.mu.groups) {
			panic(errors.AssertionFailedf("invalid input group %d", in))
		}
		if in == target {
			panic(errors.AssertionFailedf("%s in group %d cannot be its own input", op.Op(), in))
		}
	}
}

// MemoizeExpr memoizes every node of the tree rooted at e, inputs first, and
// returns the group of the root.
func (m *Memo) MemoizeExpr(ctx context.Context, e *physical.Expr) GroupID {
	inputs := make([]GroupID, e.ChildCount())
	for i := range inputs {
		inputs[i] = m.MemoizeExpr(ctx, e.Child(i))
	}
	id, _ := m.Memoize(ctx, e.Operator(), inputs...)
	return id
}

// NumGroups returns the number of groups in the memo.
func (m *Memo) NumGroups() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mu.groups)
}

// Members returns a copy of the members of group id, in the order they were
// added. The first member is the one the group was created with.
func (m *Memo) Members(id GroupID) []Member {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g := m.groupLocked(id)
	res := make([]Member, len(g.members))
	for i, mem := range g.members {
		res[i] = Member{Op: mem.Op, Inputs: append([]GroupID(nil), mem.Inputs...)}
	}
	return res
}

// Expr returns the plan rooted at group id, built from the first member of
// every group.
func (m *Memo) Expr(id GroupID) *physical.Expr {
	first := m.Members(id)[0]
	inputs := make([]*physical.Expr, len(first.Inputs))
	for i, in := range first.Inputs {
		inputs[i] = m.Expr(in)
	}
	return physical.NewExpr(first.Op, inputs...)
}

// SetBest records e as the plan for group id under the required ordering if
// it is cheaper than the best one recorded so far. It returns true if e
// became the best plan.
func (m *Memo) SetBest(id GroupID, required opt.Ordering, e *physical.Expr, cost Cost) bool {
	key := required.String()
	m.mu.Lock()
	defer m.mu.Unlock()
	g := m.groupLocked(id)
	if cur, ok := g.best[key]; ok && !cost.Less(cur.Cost) {
		return false
	}
	if g.best == nil {
		g.best = make(map[string]BestExpr)
	}
	g.best[key] = BestExpr{Expr: e, Cost: cost}
	return true
}

// Best returns the best plan recorded for group id under the required
// ordering.
func (m *Memo) Best(id GroupID, required opt.Ordering) (BestExpr, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	best, ok := m.groupLocked(id).best[required.String()]
	return best, ok
}

// Stats returns the memoization counters.
func (m *Memo) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mu.stats
}

func (m *Memo) groupLocked(id GroupID) *group {
	m.mu.AssertRHeld()
	if id <= 0 || int(id) > len(m.mu.groups) {
		panic(errors.AssertionFailedf("invalid group %d", id))
	}
	return m.mu.groups[id-1]
}

func memberHash(op physical.Operator, inputs []GroupID) uint64 {
	h := util.FNV64AddUint64(util.FNV64Init(), op.Hash())
	for _, in := range inputs {
		h = util.FNV64AddToHash(h, int32(in))
	}
	return h
}

func sameInputs(a, b []GroupID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
