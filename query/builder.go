package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brinedb/queryengine/dbproto"
)

// QueryBuilder is a single-use, per-request working value: constructed,
// consumed by one Build call, and discarded.
type QueryBuilder struct {
	Table        string
	Action       dbproto.DatabaseAction
	Values       dbproto.OrderedMap
	BulkValues   []dbproto.OrderedMap
	TableColumns TableColumns
	Filters      *dbproto.Filters

	bindParams []any
	counter    int
}

// NewBuilder validates and normalizes req (component F), then returns a
// QueryBuilder ready for Build.
func NewBuilder(req dbproto.DatabaseRequest, columns TableColumns) (*QueryBuilder, error) {
	table, err := ValidateRequest(&req)
	if err != nil {
		return nil, err
	}
	return &QueryBuilder{
		Table:        table,
		Action:       req.Action,
		Values:       req.Values,
		BulkValues:   req.BulkValues,
		TableColumns: columns,
		Filters:      req.Filters,
		bindParams:   []any{},
		counter:      1,
	}, nil
}

// Build dispatches by action, assembles the SQL head, and appends any
// filter suffixes, returning the final statement and its bindings in
// dense, 1-origin, monotonically increasing placeholder order.
func (b *QueryBuilder) Build() (string, []any, error) {
	switch b.Action.Kind {
	case dbproto.ActionDropTable:
		table, err := SanitizeIdentifier(b.Table)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("DROP TABLE %s", table), []any{}, nil

	case dbproto.ActionRetrieve:
		table, err := SanitizeIdentifier(b.Table)
		if err != nil {
			return "", nil, err
		}
		head := fmt.Sprintf("SELECT * FROM %s", table)
		return b.appendSuffixes(head, true)

	case dbproto.ActionInsert:
		head, err := b.buildInsert()
		if err != nil {
			return "", nil, err
		}
		return b.appendSuffixes(head, false)

	case dbproto.ActionBulkInsert:
		head, err := b.buildBulkInsert()
		if err != nil {
			return "", nil, err
		}
		return b.appendSuffixes(head, false)

	case dbproto.ActionUpdate:
		head, err := b.buildUpdate()
		if err != nil {
			return "", nil, err
		}
		return b.appendSuffixes(head, false)

	case dbproto.ActionDeleteRows:
		head, isTruncate, err := b.buildDeleteRows()
		if err != nil {
			return "", nil, err
		}
		if isTruncate {
			return head, []any{}, nil
		}
		return b.appendSuffixes(head, false)

	default:
		return "", nil, actionNotImplementedErr(b.Action.Kind)
	}
}

// appendSuffixes applies the WHERE suffix (and, if allowOrderLimit, the
// ORDER BY/LIMIT/OFFSET suffixes) from b.Filters, if present.
func (b *QueryBuilder) appendSuffixes(head string, allowOrderLimit bool) (string, []any, error) {
	if b.Filters == nil {
		return head, b.bindParams, nil
	}

	whereSQL, whereBindings, err := BuildWhere(b.Filters.WhereClause, &b.counter)
	if err != nil {
		return "", nil, err
	}
	// WHERE values on columns with a declared type are bound as that
	// type; undeclared columns keep their generic JSON decoding.
	if b.Filters.WhereClause != nil {
		for i, kv := range b.Filters.WhereClause.Pairs {
			if declared, ok := b.TableColumns[kv.Column]; ok {
				v, err := CoerceValue(kv.Column, kv.Value, declared)
				if err != nil {
					return "", nil, err
				}
				whereBindings[i] = v
			}
		}
	}
	head += whereSQL
	b.bindParams = append(b.bindParams, whereBindings...)

	if allowOrderLimit {
		orderSQL, err := BuildOrderBy(b.Filters.OrderBy)
		if err != nil {
			return "", nil, err
		}
		head += orderSQL
		head += BuildLimit(b.Filters.Limit)
		head += BuildOffset(b.Filters.Offset)
	}

	return head, b.bindParams, nil
}

func (b *QueryBuilder) buildInsert() (string, error) {
	if len(b.Values) == 0 {
		return "", missingValuesErr("Insert")
	}
	if b.TableColumns == nil {
		return "", ErrNoTableColumns
	}

	var cols, placeholders []string
	for _, kv := range b.Values {
		col, err := SanitizeIdentifier(kv.Column)
		if err != nil {
			return "", err
		}
		declared, ok := b.TableColumns[kv.Column]
		if !ok {
			return "", unknownColumnErr(kv.Column, b.Table)
		}
		val, err := CoerceValue(kv.Column, kv.Value, declared)
		if err != nil {
			return "", err
		}
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", b.counter))
		b.bindParams = append(b.bindParams, val)
		b.counter++
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.Table, strings.Join(cols, ", "), strings.Join(placeholders, ", ")), nil
}

func (b *QueryBuilder) buildBulkInsert() (string, error) {
	if len(b.BulkValues) == 0 {
		return "", missingValuesErr("BulkInsert")
	}
	if b.TableColumns == nil {
		return "", ErrNoTableColumns
	}

	first := b.BulkValues[0]
	colOrder := make([]string, 0, len(first))
	cols := make([]string, 0, len(first))
	for _, kv := range first {
		col, err := SanitizeIdentifier(kv.Column)
		if err != nil {
			return "", err
		}
		colOrder = append(colOrder, kv.Column)
		cols = append(cols, col)
	}

	var tuples []string
	for _, row := range b.BulkValues {
		rowMap := make(map[string]json.RawMessage, len(row))
		for _, kv := range row {
			rowMap[kv.Column] = kv.Value
		}

		placeholders := make([]string, 0, len(colOrder))
		for _, col := range colOrder {
			raw, ok := rowMap[col]
			if !ok {
				return "", missingColumnErr(col)
			}
			declared, ok := b.TableColumns[col]
			if !ok {
				return "", unknownColumnErr(col, b.Table)
			}
			val, err := CoerceValue(col, raw, declared)
			if err != nil {
				return "", err
			}
			placeholders = append(placeholders, fmt.Sprintf("$%d", b.counter))
			b.bindParams = append(b.bindParams, val)
			b.counter++
		}
		tuples = append(tuples, "("+strings.Join(placeholders, ", ")+")")
	}

	return fmt.Sprintf("INSERT INTO %s (%s) VALUES %s",
		b.Table, strings.Join(cols, ", "), strings.Join(tuples, ", ")), nil
}

func (b *QueryBuilder) buildUpdate() (string, error) {
	if len(b.Values) == 0 {
		return "", missingValuesErr("Update")
	}
	if b.TableColumns == nil {
		return "", ErrNoTableColumns
	}

	var setClauses []string
	for _, kv := range b.Values {
		col, err := SanitizeIdentifier(kv.Column)
		if err != nil {
			return "", err
		}
		declared, ok := b.TableColumns[kv.Column]
		if !ok {
			return "", unknownColumnErr(kv.Column, b.Table)
		}
		val, err := CoerceValue(kv.Column, kv.Value, declared)
		if err != nil {
			return "", err
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, b.counter))
		b.bindParams = append(b.bindParams, val)
		b.counter++
	}

	return fmt.Sprintf("UPDATE %s SET %s", b.Table, strings.Join(setClauses, ", ")), nil
}

// buildDeleteRows returns (sql, isTruncate, error). A DeleteRows action
// with no where_clause present degrades to TRUNCATE TABLE, and E must not
// append any filter suffix to it.
func (b *QueryBuilder) buildDeleteRows() (string, bool, error) {
	table, err := SanitizeIdentifier(b.Table)
	if err != nil {
		return "", false, err
	}
	hasWhere := b.Filters != nil && b.Filters.WhereClause != nil
	if !hasWhere {
		return fmt.Sprintf("TRUNCATE TABLE %s", table), true, nil
	}
	return fmt.Sprintf("DELETE FROM %s", table), false, nil
}
