package supply

import "regexp"

// entityIDPattern matches shard.realm.num identifiers. Comparison elsewhere is
// by literal string, so "0.0.01" and "0.0.1" are distinct accounts.
var entityIDPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// IsEntityID reports whether s is a shard.realm.num identifier
func IsEntityID(s string) bool {
	return entityIDPattern.MatchString(s)
}

// ValidateInput checks the aggregation arguments before any network call
func ValidateInput(source, token string, treasuries []string) error {
	if source == "" {
		return &InvalidInputError{Field: "source", Value: source, Reason: "mirror node must be defined"}
	}
	if !IsEntityID(token) {
		return &InvalidInputError{Field: "token", Value: token, Reason: "expected shard.realm.num"}
	}
	for _, treasury := range treasuries {
		if !IsEntityID(treasury) {
			return &InvalidInputError{Field: "treasury", Value: treasury, Reason: "expected shard.realm.num"}
		}
	}
	return nil
}
