// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ComponentsRoot is the OAS 3.x container for reusable components.
const ComponentsRoot = "components"

// OAS 3.x component categories, in the order the specification lists them.
var OAS3Categories = []string{
	"schemas", "responses", "parameters", "examples", "requestBodies",
	"headers", "securitySchemes", "links", "callbacks", "pathItems",
}

// OAS 2.0 component categories. Each one is a top-level document field.
var OAS2Categories = []string{
	"definitions", "parameters", "responses", "securityDefinitions",
}

// ErrInvalidPointer is returned by ParsePointer for values outside the
// reference grammar.
var ErrInvalidPointer = errors.New("invalid reference pointer")

// Pointer is a parsed $ref value of the form [file]#/token/token...
type Pointer struct {
	// File is the document locator before '#', empty for local pointers.
	File string
	// Tokens are the unescaped JSON pointer tokens of the fragment.
	Tokens []string
	// Category and Name are set when the pointer designates a component
	// (or a location inside one).
	Category string
	Name     string
	// Sub holds the tokens below the component, e.g. ["properties", "id"].
	Sub []string
	// OAS2 is true when the component was addressed OAS 2.0 style.
	OAS2 bool
}

// IsLocal reports whether the pointer targets the containing document.
func (p Pointer) IsLocal() bool {
	return p.File == ""
}

// IsComponent reports whether the pointer designates a component.
func (p Pointer) IsComponent() bool {
	return p.Category != ""
}

// ParsePointer parses a $ref string. Both OAS 3.x ("#/components/schemas/X")
// and OAS 2.0 ("#/definitions/X") component layouts are recognized; any other
// well-formed JSON pointer parses with an empty Category.
func ParsePointer(ref string) (Pointer, error) {
	if ref == "" {
		return Pointer{}, fmt.Errorf("%w: empty", ErrInvalidPointer)
	}
	file, fragment, hasFragment := strings.Cut(ref, "#")
	p := Pointer{File: file}
	if !hasFragment || fragment == "" {
		if file == "" {
			return Pointer{}, fmt.Errorf("%w: %q", ErrInvalidPointer, ref)
		}
		return p, nil
	}
	if fragment[0] != '/' {
		return Pointer{}, fmt.Errorf("%w: fragment %q is not a JSON pointer", ErrInvalidPointer, fragment)
	}
	if strings.Contains(fragment, "%") {
		if decoded, err := url.PathUnescape(fragment); err == nil {
			fragment = decoded
		}
	}
	raw := strings.Split(fragment[1:], "/")
	p.Tokens = make([]string, len(raw))
	for i, tok := range raw {
		p.Tokens[i] = UnescapeToken(tok)
	}
	p.classify()
	return p, nil
}

func (p *Pointer) classify() {
	t := p.Tokens
	if len(t) >= 3 && t[0] == ComponentsRoot && t[2] != "" && slices.Contains(OAS3Categories, t[1]) {
		p.Category, p.Name, p.Sub = t[1], t[2], t[3:]
		return
	}
	if len(t) >= 2 && t[1] != "" && slices.Contains(OAS2Categories, t[0]) {
		p.Category, p.Name, p.Sub, p.OAS2 = t[0], t[1], t[2:], true
	}
}

// FormatPointer renders a Pointer back to its $ref string. Component pointers
// are rebuilt from Category, Name and Sub so renamed components format
// correctly.
func FormatPointer(p Pointer) string {
	var b strings.Builder
	b.WriteString(p.File)
	tokens := p.Tokens
	if p.IsComponent() {
		tokens = make([]string, 0, 3+len(p.Sub))
		if !p.OAS2 {
			tokens = append(tokens, ComponentsRoot)
		}
		tokens = append(tokens, p.Category, p.Name)
		tokens = append(tokens, p.Sub...)
	}
	if len(tokens) == 0 {
		if p.File == "" {
			b.WriteString("#")
		}
		return b.String()
	}
	b.WriteString("#")
	for _, tok := range tokens {
		b.WriteByte('/')
		b.WriteString(EscapeToken(tok))
	}
	return b.String()
}

// ComponentPointer builds the local pointer for a component, e.g.
// "#/components/schemas/Pet" or, with oas2, "#/definitions/Pet".
func ComponentPointer(category, name string, oas2 bool) string {
	return FormatPointer(Pointer{Category: category, Name: name, OAS2: oas2})
}

// EscapeToken applies JSON pointer escaping: "~" becomes "~0", "/" becomes "~1".
func EscapeToken(tok string) string {
	if !strings.ContainsAny(tok, "~/") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~", "~0")
	return strings.ReplaceAll(tok, "/", "~1")
}

// UnescapeToken reverses EscapeToken.
func UnescapeToken(tok string) string {
	if !strings.Contains(tok, "~") {
		return tok
	}
	tok = strings.ReplaceAll(tok, "~1", "/")
	return strings.ReplaceAll(tok, "~0", "~")
}

// IsCategory reports whether category is a component category of the given
// dialect.
func IsCategory(category string, oas2 bool) bool {
	if oas2 {
		return slices.Contains(OAS2Categories, category)
	}
	return slices.Contains(OAS3Categories, category)
}
