// Package issues provides the issue type shared by the validator and the
// merger.
package issues

import (
	"fmt"
	"strings"

	"github.com/erraggy/oassplit/internal/severity"
)

// Issue is a single problem found in a document.
type Issue struct {
	// Path is the dotted path to the field, e.g. "paths./pets.get.responses".
	Path     string            `json:"path"`
	Message  string            `json:"message"`
	Severity severity.Severity `json:"severity"`
	// Field is the field name at fault, when one applies.
	Field string `json:"field,omitempty"`
	// SpecRef links the relevant section of the OpenAPI specification.
	SpecRef string `json:"spec_ref,omitempty"`
	// File is the unit file the issue was found in. Empty for the document
	// being validated.
	File string `json:"file,omitempty"`
	// OperationContext names the operation behind the issue, or the
	// operations that reach a component. Nil when not applicable.
	OperationContext *OperationContext `json:"operation,omitempty"`
}

// String renders the issue on one line, with the specification link on a
// second line when set:
//
//	✗ paths./pets.get (GET /pets): responses must not be empty
func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(i.symbol())
	b.WriteByte(' ')
	if i.File != "" {
		b.WriteString(i.File)
		b.WriteByte(':')
	}
	b.WriteString(i.Path)
	if i.OperationContext != nil && !i.OperationContext.IsEmpty() {
		b.WriteByte(' ')
		b.WriteString(i.OperationContext.String())
	}
	fmt.Fprintf(&b, ": %s", i.Message)
	if i.SpecRef != "" {
		fmt.Fprintf(&b, "\n    Spec: %s", i.SpecRef)
	}
	return b.String()
}

func (i Issue) symbol() string {
	switch i.Severity {
	case severity.SeverityError:
		return "✗"
	case severity.SeverityWarning:
		return "⚠"
	case severity.SeverityInfo:
		return "ℹ"
	}
	return "?"
}

// Location returns "file:path" when File is set, else the path.
func (i Issue) Location() string {
	if i.File == "" {
		return i.Path
	}
	return i.File + ":" + i.Path
}

// Count returns the number of issues at exactly sev.
func Count(list []Issue, sev severity.Severity) int {
	n := 0
	for _, i := range list {
		if i.Severity == sev {
			n++
		}
	}
	return n
}
