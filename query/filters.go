package query

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/brinedb/queryengine/dbproto"
)

// BuildWhere walks clause and returns the " WHERE ..." fragment (empty
// string if clause is nil) together with its bindings, advancing counter
// by one per emitted predicate.
func BuildWhere(clause *dbproto.WhereClause, counter *int) (string, []any, error) {
	if clause == nil {
		return "", nil, nil
	}
	if len(clause.Pairs) == 0 {
		return "", nil, ErrEmptyWhereClause
	}

	var conds []string
	var bindings []any
	for _, kv := range clause.Pairs {
		col, err := SanitizeIdentifier(kv.Column)
		if err != nil {
			return "", nil, err
		}
		var v any
		if err := json.Unmarshal(kv.Value, &v); err != nil {
			return "", nil, fmt.Errorf("%w: column %q: %v", ErrTypeMismatch, kv.Column, err)
		}
		conds = append(conds, fmt.Sprintf("%s = $%d", col, *counter))
		bindings = append(bindings, v)
		*counter++
	}

	if clause.Kind == dbproto.WhereOr {
		return fmt.Sprintf(" WHERE (%s)", strings.Join(conds, " OR ")), bindings, nil
	}
	return fmt.Sprintf(" WHERE %s", strings.Join(conds, " AND ")), bindings, nil
}

// BuildOrderBy returns " ORDER BY col DIR" (empty string if orderBy is nil).
func BuildOrderBy(orderBy *dbproto.OrderBy) (string, error) {
	if orderBy == nil {
		return "", nil
	}
	col, err := SanitizeIdentifier(orderBy.Column)
	if err != nil {
		return "", err
	}
	dir := "ASC"
	if orderBy.Direction == dbproto.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir), nil
}

// BuildLimit returns " LIMIT n" (empty string if limit is nil).
func BuildLimit(limit *uint32) string {
	if limit == nil {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", *limit)
}

// BuildOffset returns " OFFSET n" (empty string if offset is nil).
func BuildOffset(offset *uint32) string {
	if offset == nil {
		return ""
	}
	return fmt.Sprintf(" OFFSET %d", *offset)
}
