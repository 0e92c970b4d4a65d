// Package models holds the entities registered with the process-wide
// registry: auth_users, users, and auth_tokens.
package models

import (
	"fmt"

	"github.com/brinedb/queryengine/registry"
)

func rowInt64(row registry.RowData, key string) (int64, error) {
	v, ok := row[key]
	if !ok {
		return 0, fmt.Errorf("models: row missing column %q", key)
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("models: column %q is not numeric (got %T)", key, v)
	}
}

func rowString(row registry.RowData, key string) (string, error) {
	v, ok := row[key]
	if !ok {
		return "", fmt.Errorf("models: row missing column %q", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("models: column %q is not a string (got %T)", key, v)
	}
	return s, nil
}

func rowBool(row registry.RowData, key string) (bool, error) {
	v, ok := row[key]
	if !ok {
		return false, fmt.Errorf("models: row missing column %q", key)
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("models: column %q is not a bool (got %T)", key, v)
	}
	return b, nil
}

func project(m map[string]any, keys []string) map[string]any {
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := m[k]; ok {
			out[k] = v
		}
	}
	return out
}
