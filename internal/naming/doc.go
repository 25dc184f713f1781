// Package naming builds the names oassplit writes: unit file stems and the
// identities given to renamed components.
//
// [FileStem] folds a group key (a tag, a path segment) to a portable file
// stem. [Allocator] keeps stems unique within one split. [Template] renders
// rename templates such as "{{.Name}}_{{.Index}}" with case helpers
// available as template functions.
//
// As an internal package, these functions are not part of the public API
// and may change without notice.
package naming
