// Package sqltest provides in-memory stand-ins for infra.SQLExecutor and
// the pgx row types, for tests that must not reach a database.
package sqltest

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"vfxprompt/internal/infra"
)

// Row scans one fixed set of values. A nil Values slice behaves as no rows.
type Row struct {
	Values []any
	Err    error
}

func (r Row) Scan(dest ...any) error {
	if r.Err != nil {
		return r.Err
	}
	if r.Values == nil {
		return pgx.ErrNoRows
	}
	return assign(r.Values, dest)
}

// Rows iterates over fixed records.
type Rows struct {
	Records [][]any
	idx     int
	closed  bool
}

func NewRows(records ...[]any) *Rows { return &Rows{Records: records} }

func (r *Rows) Close()                                       { r.closed = true }
func (r *Rows) Err() error                                   { return nil }
func (r *Rows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *Rows) RawValues() [][]byte                          { return nil }
func (r *Rows) Conn() *pgx.Conn                              { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.idx >= len(r.Records) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.Records) {
		return fmt.Errorf("sqltest: scan called without a current row")
	}
	return assign(r.Records[r.idx-1], dest)
}

func (r *Rows) Values() ([]any, error) {
	if r.idx == 0 || r.idx > len(r.Records) {
		return nil, fmt.Errorf("sqltest: no current row")
	}
	return r.Records[r.idx-1], nil
}

// Closed reports whether Close was called.
func (r *Rows) Closed() bool { return r.closed }

// assign copies values into pointer destinations. Nil values leave the
// destination at its zero value.
func assign(values []any, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("sqltest: %d values for %d destinations", len(values), len(dest))
	}
	for i, v := range values {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("sqltest: destination %d is not a pointer", i)
		}
		target := dv.Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		sv := reflect.ValueOf(v)
		switch {
		case sv.Type().AssignableTo(target.Type()):
			target.Set(sv)
		case sv.Type().ConvertibleTo(target.Type()):
			target.Set(sv.Convert(target.Type()))
		default:
			return fmt.Errorf("sqltest: cannot scan %T into %s", v, target.Type())
		}
	}
	return nil
}

// Call records one executor call.
type Call struct {
	Marker string
	Query  string
	Args   []any
}

// Executor answers queries by marker. Every query is checked for a valid
// marker the way infra.SQLRunner does.
type Executor struct {
	mu sync.Mutex

	Rows     map[string][]Row
	Results  map[string]*Rows
	ExecTags map[string]pgconn.CommandTag
	ExecErr  map[string]error
	Calls    []Call
}

func NewExecutor() *Executor {
	return &Executor{
		Rows:     map[string][]Row{},
		Results:  map[string]*Rows{},
		ExecTags: map[string]pgconn.CommandTag{},
		ExecErr:  map[string]error{},
	}
}

// OnQueryRow queues rows returned, in order, for query.
func (e *Executor) OnQueryRow(query string, rows ...Row) {
	key := markerOf(query)
	e.Rows[key] = append(e.Rows[key], rows...)
}

// OnQuery sets the result set for query.
func (e *Executor) OnQuery(query string, rows *Rows) { e.Results[markerOf(query)] = rows }

// OnExec sets the rows-affected count for query.
func (e *Executor) OnExec(query string, affected int64) {
	e.ExecTags[markerOf(query)] = pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", affected))
}

func (e *Executor) record(query string, args []any) (string, error) {
	marker, _, err := infra.ExtractMarker(query)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, Call{Marker: marker, Query: query, Args: args})
	return marker, err
}

func (e *Executor) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	marker, err := e.record(query, args)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	if err := e.ExecErr[marker]; err != nil {
		return pgconn.CommandTag{}, err
	}
	if tag, ok := e.ExecTags[marker]; ok {
		return tag, nil
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (e *Executor) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	marker, err := e.record(query, args)
	if err != nil {
		return Row{Err: err}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	queued := e.Rows[marker]
	if len(queued) == 0 {
		return Row{}
	}
	e.Rows[marker] = queued[1:]
	return queued[0]
}

func (e *Executor) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	marker, err := e.record(query, args)
	if err != nil {
		return nil, err
	}
	if rows, ok := e.Results[marker]; ok {
		return rows, nil
	}
	return NewRows(), nil
}

// Last returns the most recent call.
func (e *Executor) Last() Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Calls) == 0 {
		return Call{}
	}
	return e.Calls[len(e.Calls)-1]
}

func markerOf(query string) string {
	marker, _, err := infra.ExtractMarker(query)
	if err != nil {
		return strings.TrimSpace(query)
	}
	return marker
}

var _ infra.SQLExecutor = (*Executor)(nil)
