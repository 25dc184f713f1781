// Package validator checks the structure of OpenAPI 2.0 and 3.x documents.
//
// The merger runs it on an assembled document when configured with
// merger.WithValidator, and the CLI runs it from `oasplit validate` and
// `oasplit merge --validate`. Issues are reported, never fixed.
//
// # Validation Levels
//
//   - SeverityError: violations that make the document invalid
//   - SeverityWarning: best practice violations or recommendations
//
// Warnings can be suppressed with WithIncludeWarnings(false). WithStrictMode
// adds checks beyond what OpenAPI requires.
//
// # Validation Rules
//
// Document:
//   - swagger must be "2.0"; openapi must be 3.0.x, 3.1.x or 3.2.x
//   - info.title and info.version are required
//   - OAS 3.x server entries need a url; an OAS 2.0 host has no scheme or path
//   - tag names are present and unique
//
// Paths:
//   - Path patterns must start with "/"
//   - Path templates must be well-formed (no empty braces, nested braces, etc.)
//   - Template variables and in: path parameters must match, and path
//     parameters must be required
//   - A trailing slash is a warning
//
// Operations:
//   - Operation IDs must be unique across the document
//   - responses must be present and use valid status codes
//   - Strict mode warns about non-standard codes, a missing success response
//     and tags absent from the top-level tag list
//
// References:
//   - every reference must resolve (errors)
//   - circular references and unreferenced components are warnings
//
// # Example
//
//	doc, err := document.Decode(data, document.FormatUnknown)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res := validator.Validate(doc, validator.WithStrictMode(true))
//	for _, issue := range res.Issues() {
//		fmt.Println(issue)
//	}
package validator
