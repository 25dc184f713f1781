package merger

import (
	"fmt"

	"github.com/erraggy/oassplit/internal/severity"
)

// WarningCategory identifies the type of warning.
type WarningCategory string

const (
	// WarnVersionMismatch indicates units declare different versions of the
	// same dialect.
	WarnVersionMismatch WarningCategory = "version_mismatch"
	// WarnPathFieldConflict indicates units disagree on a path-level field.
	WarnPathFieldConflict WarningCategory = "path_field_conflict"
	// WarnFieldConflict indicates units disagree on a document-level field.
	WarnFieldConflict WarningCategory = "field_conflict"
	// WarnComponentConflict indicates a component conflict was resolved.
	WarnComponentConflict WarningCategory = "component_conflict"
	// WarnExternalPreserved indicates a reference to a file outside the
	// manifest was kept.
	WarnExternalPreserved WarningCategory = "external_preserved"
	// WarnCircularReference indicates a reference cycle in the merged
	// document.
	WarnCircularReference WarningCategory = "circular_reference"
)

// Warning is a non-fatal finding of a merge.
type Warning struct {
	Category WarningCategory `json:"category"`
	// Path locates the affected element, e.g. "paths./users.parameters".
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	// Unit is the unit file that triggered the warning.
	Unit     string            `json:"unit,omitempty"`
	Severity severity.Severity `json:"severity"`
}

// String returns the message.
func (w Warning) String() string {
	return w.Message
}

func newPathFieldWarning(path, key, first, unit string) Warning {
	return Warning{
		Category: WarnPathFieldConflict,
		Path:     fmt.Sprintf("paths.%s.%s", path, key),
		Message:  fmt.Sprintf("path %s field %q differs between %s and %s; keeping %s", path, key, first, unit, first),
		Unit:     unit,
		Severity: severity.SeverityWarning,
	}
}

func newFieldWarning(key, first, unit string) Warning {
	return Warning{
		Category: WarnFieldConflict,
		Path:     key,
		Message:  fmt.Sprintf("field %q differs between %s and %s; keeping %s", key, first, unit, first),
		Unit:     unit,
		Severity: severity.SeverityWarning,
	}
}

func newVersionWarning(want, got, unit string) Warning {
	return Warning{
		Category: WarnVersionMismatch,
		Message:  fmt.Sprintf("%s declares version %s, merged document uses %s", unit, got, want),
		Unit:     unit,
		Severity: severity.SeverityWarning,
	}
}

func newConflictWarning(c ConflictRecord) Warning {
	return Warning{
		Category: WarnComponentConflict,
		Path:     c.ID.String(),
		Message:  c.String(),
		Unit:     c.Sources[len(c.Sources)-1],
		Severity: c.Severity,
	}
}

func newExternalWarning(ref, unit string) Warning {
	return Warning{
		Category: WarnExternalPreserved,
		Message:  fmt.Sprintf("external reference %s in %s points outside the manifest; preserved", ref, unit),
		Unit:     unit,
		Severity: severity.SeverityInfo,
	}
}
