// Package secrets loads the flat key/value document consumed by the
// surrounding collaborators (JWT signing key, SMTP credentials, the
// duplex store URL, and so on). Grounded on
// original_source/src/secrets.rs's init_secrets, adapted to the
// Parser/Parse/ParseFile shape used elsewhere in the pack for TOML
// documents.
package secrets

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Store is the decoded secrets document. Missing keys default to the
// empty string with a logged warning rather than failing the load.
type Store struct {
	SecretKey    string
	DBName       string
	DBPassword   string
	DBPort       string
	NoReplyEmail string
	SMTPUsername string
	SMTPPassword string
	SMTPRelay    string
	DBWsURL      string
	Owner        string
	Repo         string
}

// recognizedKeys lists the wire keys; Repo is allowed to be either a bare
// string or a TOML array, joined with commas when loaded.
var recognizedKeys = []string{
	"SECRET_KEY", "DB_NAME", "DB_PW", "DB_PORT", "NO_REPLY_EMAIL",
	"SMTP_USERNAME", "SMTP_PASSWORD", "SMTP_RELAY", "DB_WS_URL", "OWNER", "REPO",
}

// Load reads the secrets document at path.
func Load(path string) (Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return Store{}, fmt.Errorf("secrets: open %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a secrets document from r.
func Parse(r io.Reader) (Store, error) {
	var raw map[string]any
	if _, err := toml.NewDecoder(r).Decode(&raw); err != nil {
		return Store{}, fmt.Errorf("secrets: decode: %w", err)
	}

	for _, key := range recognizedKeys {
		if _, ok := raw[key]; !ok {
			slog.Warn("secret key missing, defaulting to empty string", "key", key)
		}
	}

	return Store{
		SecretKey:    loadString(raw, "SECRET_KEY"),
		DBName:       loadString(raw, "DB_NAME"),
		DBPassword:   loadString(raw, "DB_PW"),
		DBPort:       loadString(raw, "DB_PORT"),
		NoReplyEmail: loadString(raw, "NO_REPLY_EMAIL"),
		SMTPUsername: loadString(raw, "SMTP_USERNAME"),
		SMTPPassword: loadString(raw, "SMTP_PASSWORD"),
		SMTPRelay:    loadString(raw, "SMTP_RELAY"),
		DBWsURL:      loadString(raw, "DB_WS_URL"),
		Owner:        loadString(raw, "OWNER"),
		Repo:         loadRepo(raw),
	}, nil
}

func loadString(raw map[string]any, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		slog.Warn("secret key has unexpected type, defaulting to empty string", "key", key)
		return ""
	}
	return s
}

// loadRepo accepts REPO as either a bare string or an array of strings,
// matching original_source/src/secrets.rs's load_repos.
func loadRepo(raw map[string]any) string {
	v, ok := raw["REPO"]
	if !ok {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		slog.Warn("secret key has unexpected type, defaulting to empty string", "key", "REPO")
		return ""
	}
}
