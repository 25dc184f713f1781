// Package severity provides severity levels for issues reported by the
// resolver, merger and validator packages.
//
// Levels are ordered from least to most severe: Info < Warning < Error.
// Circular references and resolved conflicts are warnings; dangling
// references and failed conflicts are errors.
package severity

import "fmt"

// Severity indicates how serious a reported issue is.
type Severity int

const (
	// SeverityInfo indicates informational messages about processing choices.
	SeverityInfo Severity = iota

	// SeverityWarning flags something a caller should look at that did not
	// stop processing, such as a renamed component or a reference cycle.
	SeverityWarning

	// SeverityError indicates a problem that makes a document or run invalid.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// AtLeast reports whether s is as severe as min or more.
func (s Severity) AtLeast(min Severity) bool {
	return s >= min
}

// MarshalText renders the level name for JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a level name produced by MarshalText.
func (s *Severity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("severity: unknown level %q", text)
	}
	return nil
}
