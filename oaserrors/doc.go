// Package oaserrors provides structured error types for the oassplit library.
//
// Import path: github.com/erraggy/oassplit/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between the failure kinds of a split or merge run.
//
// # Error Types
//
//   - [DecodeError]: JSON/YAML decoding failures and non-object roots
//   - [EmptyDocumentError]: no operations to split
//   - [ReferenceError]: unresolved $ref pointers and circular reference chains
//   - [DuplicateOperationError]: two merge units claim the same (path, method)
//   - [ComponentConflictError]: divergent same-identity components under the fail policy
//   - [ManifestMismatchError]: manifest and unit files disagree
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrDecode]: Matches any [DecodeError]
//   - [ErrEmptyDocument]: Matches any [EmptyDocumentError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrUnresolvedReference]: Matches [ReferenceError] with IsCircular=false
//   - [ErrCircularReference]: Matches [ReferenceError] with IsCircular=true
//   - [ErrDuplicateOperation]: Matches any [DuplicateOperationError]
//   - [ErrComponentConflict]: Matches any [ComponentConflictError]
//   - [ErrManifestMismatch]: Matches any [ManifestMismatchError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Resolver and merger report every problem found in one pass, joined with
// [errors.Join]. errors.Is and errors.As see through the joined error:
//
//	_, err := merger.Merge(m, units)
//	if errors.Is(err, oaserrors.ErrDuplicateOperation) {
//	    // a unit was edited by hand or copied
//	}
//
//	var refErr *oaserrors.ReferenceError
//	if errors.As(err, &refErr) {
//	    fmt.Printf("dangling %s in %s\n", refErr.Ref, refErr.Source)
//	}
//
// Circular references are warnings. They are returned on results, not as
// errors, and match [ErrCircularReference]:
//
//	for _, c := range res.Cycles {
//	    fmt.Println(c.Error())
//	}
package oaserrors
