package oaserrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrDecode indicates a document could not be decoded.
	ErrDecode = errors.New("decode error")

	// ErrEmptyDocument indicates a document has no operations to split.
	ErrEmptyDocument = errors.New("empty document")

	// ErrReference indicates any reference problem.
	ErrReference = errors.New("reference error")

	// ErrUnresolvedReference indicates a $ref that does not resolve.
	ErrUnresolvedReference = errors.New("unresolved reference")

	// ErrCircularReference indicates a circular $ref chain was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrDuplicateOperation indicates the same operation appeared in two units.
	ErrDuplicateOperation = errors.New("duplicate operation")

	// ErrComponentConflict indicates same-named components with different bodies.
	ErrComponentConflict = errors.New("component conflict")

	// ErrManifestMismatch indicates unit files and manifest disagree.
	ErrManifestMismatch = errors.New("manifest mismatch")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// DecodeError represents a failure to decode a specification document.
type DecodeError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *DecodeError) Error() string {
	msg := "decode error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// EmptyDocumentError is returned when a split finds no operations.
type EmptyDocumentError struct {
	// Source identifies the document, if known
	Source string
}

// Error returns a human-readable error message.
func (e *EmptyDocumentError) Error() string {
	if e.Source != "" {
		return "empty document: " + e.Source + " has no operations to split"
	}
	return "empty document: no operations to split"
}

// Is reports whether target matches this error type.
func (e *EmptyDocumentError) Is(target error) bool {
	return target == ErrEmptyDocument
}

// ReferenceError represents a reference that failed to resolve or that is part
// of a cycle. Circular references carry the cycle path and are warnings: they
// are reported, never treated as fatal by themselves.
type ReferenceError struct {
	// Ref is the pointer string that failed to resolve
	Ref string
	// Source describes where the pointer was found, e.g. "GET /users" or "schemas/User"
	Source string
	// Location is the JSON path inside the containing body
	Location string
	// External is true when the pointer targets another file
	External bool
	// IsCircular is true if this error describes a reference cycle
	IsCircular bool
	// Cycle is the identity chain of a circular reference, first element repeated last
	Cycle []string
	// Message provides additional context about the failure
	Message string
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	if e.IsCircular {
		return "circular reference: " + strings.Join(e.Cycle, " -> ")
	}
	msg := "unresolved reference"
	if e.External {
		msg = "unresolved external reference"
	}
	if e.Ref != "" {
		msg += " " + e.Ref
	}
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Location != "" {
		msg += " at " + e.Location
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
// Matches ErrReference, and ErrCircularReference or ErrUnresolvedReference
// depending on IsCircular.
func (e *ReferenceError) Is(target error) bool {
	switch target {
	case ErrReference:
		return true
	case ErrCircularReference:
		return e.IsCircular
	case ErrUnresolvedReference:
		return !e.IsCircular
	}
	return false
}

// DuplicateOperationError is returned when two merge units claim the same
// (path, method) pair.
type DuplicateOperationError struct {
	Path   string
	Method string
	// Units lists the unit files that contain the operation, in manifest order
	Units []string
}

// Error returns a human-readable error message.
func (e *DuplicateOperationError) Error() string {
	msg := fmt.Sprintf("duplicate operation %s %s", strings.ToUpper(e.Method), e.Path)
	if len(e.Units) > 0 {
		msg += " in " + strings.Join(e.Units, ", ")
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *DuplicateOperationError) Is(target error) bool {
	return target == ErrDuplicateOperation
}

// ComponentConflictError lists every component identity whose bodies diverged
// during a merge under the fail policy.
type ComponentConflictError struct {
	// Identities are component identities in "category/name" form
	Identities []string
}

// Error returns a human-readable error message.
func (e *ComponentConflictError) Error() string {
	return fmt.Sprintf("component conflict: %d conflicting component(s): %s",
		len(e.Identities), strings.Join(e.Identities, ", "))
}

// Is reports whether target matches this error type.
func (e *ComponentConflictError) Is(target error) bool {
	return target == ErrComponentConflict
}

// ManifestMismatchError reports disagreement between a manifest and the unit
// files supplied alongside it.
type ManifestMismatchError struct {
	// Missing are files listed in the manifest but not supplied
	Missing []string
	// Extra are files supplied but not listed in the manifest
	Extra []string
	// Problems describe other inconsistencies (counts, components, external files)
	Problems []string
}

// Error returns a human-readable error message.
func (e *ManifestMismatchError) Error() string {
	parts := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Extra, ", "))
	}
	parts = append(parts, e.Problems...)
	if len(parts) == 0 {
		return "manifest mismatch"
	}
	return "manifest mismatch: " + strings.Join(parts, "; ")
}

// Empty reports whether no mismatch was recorded.
func (e *ManifestMismatchError) Empty() bool {
	return len(e.Missing) == 0 && len(e.Extra) == 0 && len(e.Problems) == 0
}

// Is reports whether target matches this error type.
func (e *ManifestMismatchError) Is(target error) bool {
	return target == ErrManifestMismatch
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
