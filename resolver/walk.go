package resolver

import (
	"strconv"
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/pathutil"
)

// visitFunc receives every reference string found in a body: $ref values,
// security scheme names and discriminator mapping values. at is the location
// inside the body as JSON pointer tokens.
type visitFunc func(ref string, kind Kind, at []string)

// walkValue visits $ref strings and discriminator mapping pointers depth
// first in document order.
func walkValue(v document.Value, at []string, visit visitFunc) {
	switch v.Kind() {
	case document.KindArray:
		items, _ := v.AsArray()
		for i, item := range items {
			walkValue(item, appendToken(at, strconv.Itoa(i)), visit)
		}
	case document.KindObject:
		obj, _ := v.AsObject()
		for key, member := range obj.All() {
			if key == "$ref" {
				if ref, ok := member.AsString(); ok {
					visit(ref, KindPointer, appendToken(at, key))
					continue
				}
			}
			if key == "discriminator" {
				walkDiscriminator(member, appendToken(at, key), visit)
			}
			walkValue(member, appendToken(at, key), visit)
		}
	}
}

func walkDiscriminator(v document.Value, at []string, visit visitFunc) {
	mapping, ok := v.Field("mapping")
	if !ok {
		return
	}
	m, ok := mapping.AsObject()
	if !ok {
		return
	}
	for key, target := range m.All() {
		if s, ok := target.AsString(); ok && s != "" {
			visit(s, KindDiscriminator, append(appendToken(at, "mapping"), key))
		}
	}
}

// walkSecurity visits scheme names of a security requirement array.
func walkSecurity(v document.Value, at []string, visit visitFunc) {
	reqs, ok := v.AsArray()
	if !ok {
		return
	}
	for i, req := range reqs {
		obj, ok := req.AsObject()
		if !ok {
			continue
		}
		for _, name := range obj.Keys() {
			visit(name, KindSecurity, append(appendToken(at, strconv.Itoa(i)), name))
		}
	}
}

func isPointerShaped(s string) bool {
	return strings.Contains(s, "#")
}

func appendToken(at []string, tok string) []string {
	out := make([]string, len(at), len(at)+1)
	copy(out, at)
	return append(out, tok)
}

func formatAt(at []string) string {
	if len(at) == 0 {
		return ""
	}
	var b strings.Builder
	for _, tok := range at {
		b.WriteByte('/')
		b.WriteString(pathutil.EscapeToken(tok))
	}
	return b.String()
}
