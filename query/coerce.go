package query

import (
	"encoding/json"
	"strconv"
)

// CoerceValue converts a raw JSON scalar into a typed value according to
// declaredType. It is idempotent: re-coercing an already-coerced value
// (re-marshaled to JSON) yields the same result, since each branch accepts
// exactly the JSON shape it would itself produce.
func CoerceValue(column string, raw json.RawMessage, declaredType string) (any, error) {
	switch declaredType {
	case ColumnBigint:
		return coerceBigint(column, raw)
	case ColumnText:
		return coerceText(column, raw)
	case ColumnBoolean:
		return coerceBoolean(column, raw)
	default:
		return nil, unsupportedTypeErr(declaredType)
	}
}

func coerceBigint(column string, raw json.RawMessage) (any, error) {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}
	return nil, typeMismatchErr(column, ColumnBigint, raw)
}

func coerceText(column string, raw json.RawMessage) (any, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, typeMismatchErr(column, ColumnText, raw)
	}
	return s, nil
}

func coerceBoolean(column string, raw json.RawMessage) (any, error) {
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, typeMismatchErr(column, ColumnBoolean, raw)
	}
	return b, nil
}
