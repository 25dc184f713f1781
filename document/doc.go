// Package document holds the in-memory model shared by the split and merge
// engines.
//
// A [Value] is a tagged union over the JSON data model. Objects are
// insertion-ordered ([Object]) so documents keep the key order they were
// written with, and numbers keep their literal text. [Equal] compares values
// structurally: member order inside objects is ignored, element order inside
// arrays is not.
//
// A [Document] breaks an OpenAPI 2.0 or 3.x document into the parts the
// engines care about: the version field, info, an ordered list of path items
// with their operations, the component registry keyed by [ComponentID], and
// every other top-level field in Extra.
//
// # Decoding and encoding
//
// [Decode] reads JSON or YAML through go.yaml.in/yaml/v4 node trees, which
// resolves anchors, aliases and merge keys while preserving order:
//
//	doc, err := document.Decode(data, document.FormatFromPath("api.yaml"),
//	    document.WithSource("api.yaml"))
//	if err != nil {
//	    var decErr *oaserrors.DecodeError
//	    ...
//	}
//	out, err := document.Encode(doc, document.FormatJSON)
//
// # Logging
//
// [Logger] is a small structured logging interface. [NopLogger] is the
// default and [SlogAdapter] bridges to log/slog.
package document
