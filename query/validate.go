package query

import (
	"strings"
	"unicode"

	"github.com/brinedb/queryengine/dbproto"
)

// ValidateRequest normalizes req.Table (whitespace stripped, ASCII
// lowercased, then checked against the identifier whitelist) and enforces
// per-action value-presence rules. It writes the normalized table back
// into req and also returns it.
func ValidateRequest(req *dbproto.DatabaseRequest) (string, error) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, req.Table)
	table := strings.ToLower(stripped)
	if _, err := SanitizeIdentifier(table); err != nil {
		return "", err
	}

	switch req.Action.Kind {
	case dbproto.ActionInsert:
		if len(req.Values) == 0 {
			return "", missingValuesErr("Insert")
		}
	case dbproto.ActionBulkInsert:
		if len(req.BulkValues) == 0 {
			return "", missingValuesErr("BulkInsert")
		}
	case dbproto.ActionUpdate:
		if len(req.Values) == 0 {
			return "", missingValuesErr("Update")
		}
	}

	req.Table = table
	return table, nil
}
