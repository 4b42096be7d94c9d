// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package opt

import (
	"fmt"

	"github.com/cockroachdb/physplan/pkg/util/syncutil"
)

// Metadata is the query-wide column registry. Every column-producing slot in
// a query, whether a base table column or the result of a window function, is
// allocated a ColumnID here. ColumnIDs are allocated sequentially starting at
// 1 and are never reused, so they are stable, unique and comparable by value.
//
// Table columns are the exception: a column of a given table is allocated
// once, and every scan of the table that reads it shares its ColumnID. Plans
// built over the same Metadata can therefore share their scans, while the
// columns they derive stay distinct.
//
// Metadata is safe for concurrent use: optimizer branches exploring
// alternatives in parallel may label columns while another allocates one.
type Metadata struct {
	mu struct {
		syncutil.RWMutex
		names     []string
		tableCols map[tableColumn]ColumnID
	}
}

type tableColumn struct {
	table, name string
}

// AddColumn allocates a new column with the given name.
func (md *Metadata) AddColumn(name string) ColumnID {
	md.mu.Lock()
	defer md.mu.Unlock()
	md.mu.names = append(md.mu.names, name)
	return ColumnID(len(md.mu.names))
}

// AddTableColumn returns the column with the given name of the given table,
// allocating it on first use. The column is named after name alone.
func (md *Metadata) AddTableColumn(table, name string) ColumnID {
	key := tableColumn{table: table, name: name}
	md.mu.Lock()
	defer md.mu.Unlock()
	if id, ok := md.mu.tableCols[key]; ok {
		return id
	}
	if md.mu.tableCols == nil {
		md.mu.tableCols = make(map[tableColumn]ColumnID)
	}
	md.mu.names = append(md.mu.names, name)
	id := ColumnID(len(md.mu.names))
	md.mu.tableCols[key] = id
	return id
}

// NumColumns returns the number of allocated columns.
func (md *Metadata) NumColumns() int {
	md.mu.RLock()
	defer md.mu.RUnlock()
	return len(md.mu.names)
}

// ColumnName returns the name given to the column when it was allocated. It
// returns the empty string for an unknown column.
func (md *Metadata) ColumnName(id ColumnID) string {
	md.mu.RLock()
	defer md.mu.RUnlock()
	if id <= 0 || int(id) > len(md.mu.names) {
		return ""
	}
	return md.mu.names[id-1]
}

// ColumnLabel returns the label used to display a column, e.g. "region:1".
// Unknown columns (or a nil Metadata) are labeled "@id".
func (md *Metadata) ColumnLabel(id ColumnID) string {
	if md == nil {
		return fmt.Sprintf("@%d", id)
	}
	if name := md.ColumnName(id); name != "" {
		return fmt.Sprintf("%s:%d", name, id)
	}
	return fmt.Sprintf("@%d", id)
}

// ColumnByName returns the most recently allocated column with the given
// name.
func (md *Metadata) ColumnByName(name string) (ColumnID, bool) {
	md.mu.RLock()
	defer md.mu.RUnlock()
	for i := len(md.mu.names) - 1; i >= 0; i-- {
		if md.mu.names[i] == name {
			return ColumnID(i + 1), true
		}
	}
	return 0, false
}

// FormatColSet returns the columns of the set labeled with their names, in
// increasing id order, separated by spaces.
func (md *Metadata) FormatColSet(cols ColSet) string {
	var buf []byte
	cols.ForEach(func(col ColumnID) {
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, md.ColumnLabel(col)...)
	})
	return string(buf)
}
