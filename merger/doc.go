// Package merger reassembles unit documents produced by the splitter, or
// written by hand next to a manifest, into one OpenAPI document.
//
// # Run
//
// A merge walks the states Loading, Unioning, Deduplicating, Rewriting and
// Validating, ending in Done or Failed. Nothing is returned on failure but
// the Result's trace and the conflicts found so far; there is no partial
// document.
//
//   - Loading checks the inputs against the manifest.
//   - Unioning places operations and path-level fields, and merges the
//     document-level fields: tags by name, servers structurally, everything
//     else first wins.
//   - Deduplicating folds components into one namespace under the Policy.
//   - Rewriting applies renames and turns pointers into sibling unit files
//     into local pointers.
//   - Validating resolves every reference and runs the optional Validator.
//
// # Conflicts
//
// Two units defining the same component with equal bodies keep one copy.
// Different bodies are a conflict, resolved by the policy: keep-first,
// keep-last, rename (the later body becomes "User_2" and its unit's
// references follow) or fail. Every conflict is recorded on the Result.
//
// # Example
//
//	m, inputs, err := merger.LoadDir(ctx, "split_specs", 0)
//	if err != nil {
//		return err
//	}
//	res, err := merger.Merge(m, inputs, merger.WithPolicy(merger.PolicyRename))
//	if err != nil {
//		return err
//	}
//	return merger.WriteResult(res.Document, "merged_spec.json")
package merger
