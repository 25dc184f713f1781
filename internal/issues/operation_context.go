package issues

import "fmt"

// OperationContext ties an issue to API operations. Under paths it names
// the operation; for a component it names the first operation reaching it.
type OperationContext struct {
	// Method is upper case, empty for path-level issues.
	Method      string `json:"method,omitempty"`
	Path        string `json:"path,omitempty"`
	OperationID string `json:"operation_id,omitempty"`
	// Component is set when the issue lies in a reusable component.
	Component bool `json:"component,omitempty"`
	// AdditionalRefs counts the other operations reaching the component.
	// -1 marks a component no operation reaches.
	AdditionalRefs int `json:"additional_refs,omitempty"`
}

// Unused returns the context of a component no operation reaches.
func Unused() *OperationContext {
	return &OperationContext{Component: true, AdditionalRefs: -1}
}

// String renders the context in parentheses, or "" when it is empty.
func (c OperationContext) String() string {
	if c.IsEmpty() {
		return ""
	}
	if c.Component && c.AdditionalRefs == -1 {
		return "(unused component)"
	}
	var primary string
	switch {
	case c.OperationID != "":
		primary = "operationId: " + c.OperationID
	case c.Method != "":
		primary = c.Method + " " + c.Path
	default:
		return fmt.Sprintf("(path: %s)", c.Path)
	}
	if c.Component && c.AdditionalRefs > 0 {
		return fmt.Sprintf("(%s, +%d operations)", primary, c.AdditionalRefs)
	}
	return "(" + primary + ")"
}

// IsEmpty reports whether the context carries nothing to show.
func (c OperationContext) IsEmpty() bool {
	if c.Component && c.AdditionalRefs == -1 {
		return false
	}
	return c.Method == "" && c.Path == "" && c.OperationID == ""
}
