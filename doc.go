// Package oassplit splits large OpenAPI Specification documents into smaller,
// self-contained unit documents and merges such units back into one document
// without loss.
//
// It supports OAS 2.0 (Swagger) and OAS 3.0.x through 3.2.x. Documents are
// held in an ordered, format-neutral value model, so key order, unknown fields
// and vendor extensions survive a split and merge round trip.
//
// # Packages
//
//   - document: the value model, the JSON/YAML codec and typed accessors for
//     paths, operations and components
//   - resolver: reference collection, resolution, the component dependency
//     graph, cycle detection and reference rewriting
//   - splitter: partitions a document by tag, path prefix or size
//   - manifest: the split_mapping.json file that records a split
//   - merger: reassembles a split directory, deduplicating components and
//     resolving conflicts under a configurable policy
//   - validator: structural and reference checks for a single document
//   - oaserrors: sentinel and typed errors shared by every package
//
// # Splitting
//
//	data, err := os.ReadFile("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	doc, err := document.Decode(data, document.FormatUnknown, document.WithSource("openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := splitter.Split(doc,
//		splitter.WithStrategy(splitter.StrategyByTag),
//		splitter.WithMaxOperations(30),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := splitter.WriteUnits(ctx, "split_specs", res, 0); err != nil {
//		log.Fatal(err)
//	}
//
// Every unit carries the transitive closure of the components its operations
// reference, so each one resolves on its own. Components no operation reaches
// go to a residual unit named "components".
//
// # Merging
//
//	m, inputs, err := merger.LoadDir(ctx, "split_specs", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := merger.Merge(m, inputs, merger.WithPolicy(merger.PolicyRename))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, c := range res.Conflicts {
//		fmt.Println(c)
//	}
//	if err := merger.WriteResult(res.Document, "merged_spec.json"); err != nil {
//		log.Fatal(err)
//	}
//
// Merging the output of a split reproduces the source document up to key
// order inside objects.
//
// # Command Line
//
// The oasplit command wraps both directions plus validate and info
// subcommands, and an MCP server over stdio:
//
//	oasplit split --strategy by-tag --output-dir split_specs openapi.yaml
//	oasplit merge --input-dir split_specs -o merged_spec.yaml
//	oasplit validate --strict merged_spec.yaml
//
// # Errors
//
// Failures are reported through the oaserrors package. Use errors.Is with
// the sentinels, or errors.As with the typed errors for details:
//
//	var mismatch *oaserrors.ManifestMismatchError
//	if errors.As(err, &mismatch) {
//		fmt.Println(mismatch.Missing)
//	}
package oassplit
