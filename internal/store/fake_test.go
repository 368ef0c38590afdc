package store

import (
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

/* ---------- 假實作 ---------- */

// valueRow 依序把 vals 寫入 Scan 的目標指標
type valueRow struct {
	vals []any
	err  error
}

func (r valueRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i >= len(r.vals) {
			break
		}
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(r.vals[i]))
	}
	return nil
}

// valueRows 實作 pgx.Rows，每一列是一個 valueRow
type valueRows struct {
	data    [][]any
	idx     int
	scanErr error
	err     error
}

func (r *valueRows) Close()                                       {}
func (r *valueRows) Err() error                                   { return r.err }
func (r *valueRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *valueRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *valueRows) Next() bool {
	if r.idx < len(r.data) {
		r.idx++
		return true
	}
	return false
}
func (r *valueRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	return valueRow{vals: r.data[r.idx-1]}.Scan(dest...)
}
func (r *valueRows) Values() ([]any, error) { return nil, nil }
func (r *valueRows) RawValues() [][]byte    { return nil }
func (r *valueRows) Conn() *pgx.Conn        { return nil }
