// Package storeexec runs a built query against a local Postgres
// connection and packages the result as a dbproto.DatabaseResponse.
// Grounded on the teacher's daos/base.go Database/Executor pair and
// api/database/types.go's Executor interface (ExecContext/
// QueryRowContext/QueryContext implemented identically by *sql.DB and
// *sql.Tx); the driver is github.com/lib/pq in place of the teacher's
// mattn/go-sqlite3 + tursodatabase/libsql-client-go pair, since the
// emitted dialect (positional $1, $2, … placeholders, no identifier
// quoting) is Postgres-shaped, matching original_source's sqlx::PgPool.
package storeexec

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/brinedb/queryengine/dbproto"
	"github.com/brinedb/queryengine/query"
	"github.com/brinedb/queryengine/registry"

	_ "github.com/lib/pq"
)

// Executor is the subset of *sql.DB / *sql.Tx that query execution needs.
// Kept as an interface, as the teacher does, so callers can pass either a
// bare connection or an in-flight transaction.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Store wraps a live Postgres connection and runs DatabaseRequests
// against it.
type Store struct {
	DB *sql.DB
}

// Open connects to Postgres using the lib/pq driver.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("storeexec: open: %w", err)
	}
	return &Store{DB: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// Run builds SQL from req via query.NewBuilder and executes it against
// exec, returning the row-object response envelope (component G's mirror
// image: this package produces the envelope G later parses).
func (s *Store) Run(ctx context.Context, exec Executor, req dbproto.DatabaseRequest, columns query.TableColumns) (dbproto.DatabaseResponse[dbproto.OrderedMap], error) {
	builder, err := query.NewBuilder(req, columns)
	if err != nil {
		return dbproto.ErrorResponse[dbproto.OrderedMap](err.Error()), nil
	}

	sqlText, bindings, err := builder.Build()
	if err != nil {
		return dbproto.ErrorResponse[dbproto.OrderedMap](err.Error()), nil
	}

	if req.Action.Kind == dbproto.ActionRetrieve {
		rows, err := exec.QueryContext(ctx, sqlText, bindings...)
		if err != nil {
			return dbproto.ErrorResponse[dbproto.OrderedMap](err.Error()), nil
		}
		defer rows.Close()

		data, err := scanRows(rows)
		if err != nil {
			return dbproto.ErrorResponse[dbproto.OrderedMap](err.Error()), nil
		}
		return dbproto.DataResponse(data), nil
	}

	result, err := exec.ExecContext(ctx, sqlText, bindings...)
	if err != nil {
		return dbproto.ErrorResponse[dbproto.OrderedMap](err.Error()), nil
	}
	affected, _ := result.RowsAffected()
	return dbproto.StatusResponse[dbproto.OrderedMap](fmt.Sprintf("ok: %d row(s) affected", affected)), nil
}

// RunInto is Run followed by registry rehydration of every returned row
// into its registered TableModel, for callers that want typed entities
// rather than raw column maps.
func (s *Store) RunInto(ctx context.Context, exec Executor, req dbproto.DatabaseRequest, columns query.TableColumns, reg *registry.Registry) ([]registry.TableModel, dbproto.DatabaseResponse[dbproto.OrderedMap], error) {
	resp, err := s.Run(ctx, exec, req, columns)
	if err != nil {
		return nil, resp, err
	}
	rows, ok := resp.IntoData()
	if !ok {
		return nil, resp, nil
	}

	models := make([]registry.TableModel, 0, len(rows))
	for _, row := range rows {
		rd, err := toRowData(row)
		if err != nil {
			return nil, resp, err
		}
		model, err := reg.Rehydrate(req.Table, rd)
		if err != nil {
			return nil, resp, err
		}
		models = append(models, model)
	}
	return models, resp, nil
}

// scanRows reads every row of a *sql.Rows into an OrderedMap, preserving
// the driver-reported column order.
func scanRows(rows *sql.Rows) ([]dbproto.OrderedMap, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []dbproto.OrderedMap
	for rows.Next() {
		scanTargets := make([]any, len(cols))
		scanPtrs := make([]any, len(cols))
		for i := range scanTargets {
			scanPtrs[i] = &scanTargets[i]
		}
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, err
		}

		om := make(dbproto.OrderedMap, 0, len(cols))
		for i, col := range cols {
			raw, err := json.Marshal(normalizeDriverValue(scanTargets[i]))
			if err != nil {
				return nil, err
			}
			om = append(om, dbproto.KV{Column: col, Value: raw})
		}
		out = append(out, om)
	}
	return out, rows.Err()
}

// normalizeDriverValue converts lib/pq's raw scan results ([]byte for
// text-ish types) into values that encoding/json renders as JSON scalars
// rather than base64 strings.
func normalizeDriverValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// toRowData flattens an OrderedMap into the map[string]any shape the
// registry factories expect.
func toRowData(om dbproto.OrderedMap) (registry.RowData, error) {
	rd := make(registry.RowData, len(om))
	for _, kv := range om {
		var v any
		if err := json.Unmarshal(kv.Value, &v); err != nil {
			return nil, fmt.Errorf("storeexec: decoding column %q: %w", kv.Column, err)
		}
		rd[kv.Column] = v
	}
	return rd, nil
}
