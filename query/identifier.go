package query

import "regexp"

var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// SanitizeIdentifier validates name against [A-Za-z0-9_]+. It is the only
// function in this package allowed to hand an identifier to a SQL builder;
// any relaxation of this whitelist reopens an injection path, since table
// and column names can never be bound as parameters.
func SanitizeIdentifier(name string) (string, error) {
	if name == "" || !identifierPattern.MatchString(name) {
		return "", invalidIdentifierErr(name)
	}
	return name, nil
}
