package query

import "github.com/brinedb/queryengine/dbproto"

// Recognized declared column types. Anything else is UnsupportedType;
// callers that need timestamp/uuid/float values must pre-convert them into
// one of these (text for a formatted value, bigint for an epoch) before
// the request reaches the engine.
const (
	ColumnBigint  = "bigint"
	ColumnText    = "text"
	ColumnBoolean = "boolean"
)

// TableColumns maps a column name to its declared type.
type TableColumns = dbproto.TableColumns
