// Package splitter partitions one OpenAPI document into self-contained unit
// documents plus a manifest describing the partition.
//
// # Strategies
//
// Operations are grouped by their first tag (StrategyByTag), by the first
// path segment (StrategyByPathPrefix) or into fixed-size runs in document
// order (StrategyBySize). MaxOperations caps the operations of a unit;
// oversized tag and prefix groups are split into numbered sub-units named
// per group (users_part1) or across the split (part001).
//
// # Units
//
// Every unit carries its operations with their path-level fields, the
// transitive closure of the components they reference, and the top-level
// fields of the source document. Components no operation reaches, tag
// definitions no operation uses and webhooks go into a residual unit named
// "components" so that merging the units reproduces the source document.
//
// # Example
//
//	doc, err := document.Decode(data, document.FormatUnknown)
//	if err != nil {
//		return err
//	}
//	res, err := splitter.Split(doc,
//		splitter.WithStrategy(splitter.StrategyByTag),
//		splitter.WithMaxOperations(50),
//	)
//	if err != nil {
//		return err
//	}
//	return splitter.WriteUnits(ctx, "split_specs", res, 0)
package splitter
