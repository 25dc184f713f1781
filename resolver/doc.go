// Package resolver discovers, resolves and rewrites references inside a
// document.
//
// [Collect] walks operations, path-level fields, component bodies and the
// remaining top-level fields depth first and returns every $ref string,
// every security requirement (a name reference to a security scheme) and
// every pointer inside a discriminator mapping.
//
// [Resolve] checks each reference against the document. Unresolved
// references are collected, never reported first-hit:
//
//	res := resolver.Resolve(doc)
//	if err := res.Err(); err != nil {
//	    // errors.Is(err, oaserrors.ErrUnresolvedReference)
//	}
//	for _, c := range res.Cycles {
//	    log.Println("cycle:", c)
//	}
//
// External references are listed in Result.External and resolved only when a
// [SiblingLookup] is configured.
//
// [Graph] holds the component dependency graph used for closures and cycle
// detection. [Rewrite] is rewrite mode: it maps old component identities and
// file locators to new ones in place.
package resolver
