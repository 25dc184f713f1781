// This file implements path template validation and parameter consistency checks
// for path items and operations.

package validator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/issues"
	"github.com/erraggy/oassplit/internal/pathutil"
)

func (c *check) paths() {
	operationIDs := make(map[string]string)
	declared := c.declaredTags()
	for _, item := range c.doc.Paths {
		base := issues.FormatPath("paths", item.Path)
		if !strings.HasPrefix(item.Path, "/") {
			c.addError(base, fmt.Sprintf("path %q must begin with a slash", item.Path),
				c.withSpecRef("paths-object"))
		}
		if err := validatePathTemplate(item.Path); err != nil {
			c.addError(base, fmt.Sprintf("invalid path template %q: %v", item.Path, err),
				c.withSpecRef("path-templating"))
		}
		c.checkTrailingSlash(item.Path)

		shared, sharedKnown := c.parameters(item.Shared)
		_, itemRef := item.Shared.Get("$ref")
		for _, op := range item.Operations {
			opPath := issues.FormatPath(base, op.Method)
			c.checkOperationID(op, opPath, operationIDs)
			c.checkResponses(op, opPath)
			if c.v.StrictMode && declared != nil {
				for _, tag := range op.Tags() {
					if !declared[tag] {
						c.addWarning(opPath+".tags", fmt.Sprintf("tag %q is not declared in the top-level tags", tag),
							withField("tags"), withOperation(op))
					}
				}
			}
			own, ownKnown := c.parameters(op.Body)
			if itemRef || !sharedKnown || !ownKnown {
				continue
			}
			c.checkPathParameters(op, opPath, slices.Concat(own, shared))
		}
	}
}

func (c *check) declaredTags() map[string]bool {
	v, ok := c.doc.Extra.Get("tags")
	if !ok {
		return nil
	}
	list, _ := v.AsArray()
	out := make(map[string]bool, len(list))
	for _, tag := range list {
		name, _ := tag.Field("name")
		if s, ok := name.AsString(); ok {
			out[s] = true
		}
	}
	return out
}

// parameter is a resolved parameter declaration.
type parameter struct {
	name     string
	in       string
	required bool
}

// parameters resolves the "parameters" list of a path item or operation.
// It reports false when a declaration cannot be resolved locally, in which
// case the list is incomplete.
func (c *check) parameters(holder *document.Object) ([]parameter, bool) {
	v, ok := holder.Get("parameters")
	if !ok {
		return nil, true
	}
	list, _ := v.AsArray()
	out := make([]parameter, 0, len(list))
	complete := true
	for _, p := range list {
		body, ok := c.deref(p)
		if !ok {
			complete = false
			continue
		}
		name, _ := body.Field("name")
		in, _ := body.Field("in")
		required, _ := body.Field("required")
		param := parameter{}
		param.name, _ = name.AsString()
		param.in, _ = in.AsString()
		param.required, _ = required.AsBool()
		out = append(out, param)
	}
	return out, complete
}

// deref follows a local $ref chain from v, giving up after a bounded number
// of hops.
func (c *check) deref(v document.Value) (document.Value, bool) {
	for range 32 {
		ref, ok := v.Field("$ref")
		if !ok {
			return v, true
		}
		s, _ := ref.AsString()
		p, err := pathutil.ParsePointer(s)
		if err != nil || !p.IsLocal() {
			return document.Value{}, false
		}
		if v, ok = c.doc.Lookup(p.Tokens); !ok {
			return document.Value{}, false
		}
	}
	return document.Value{}, false
}

// checkPathParameters matches template variables against the in: path
// declarations. Operation declarations come first and override shared ones
// of the same name.
func (c *check) checkPathParameters(op *document.Operation, opPath string, params []parameter) {
	template := extractPathParameters(op.Path)
	seen := make(map[string]bool)
	for _, p := range params {
		if p.in != "path" || seen[p.name] {
			continue
		}
		seen[p.name] = true
		if !template[p.name] {
			c.addError(opPath+".parameters",
				fmt.Sprintf("path parameter %q is not in the path template", p.name),
				withOperation(op), c.withSpecRef("parameter-object"))
		}
		if !p.required {
			c.addError(opPath+".parameters",
				fmt.Sprintf("path parameter %q must be required", p.name),
				withField("required"), withOperation(op), c.withSpecRef("parameter-object"))
		}
	}
	names := make([]string, 0, len(template))
	for name := range template {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if !seen[name] {
			c.addError(opPath+".parameters",
				fmt.Sprintf("path parameter %q is not declared", name),
				withOperation(op), c.withSpecRef("parameter-object"))
		}
	}
}

// validatePathTemplate validates that a path template is well-formed
// Returns an error if the template is malformed (unclosed braces, empty parameters, etc.)
func validatePathTemplate(pathPattern string) error {
	if strings.Contains(pathPattern, "{}") {
		return fmt.Errorf("empty parameter name in path template")
	}
	if strings.Contains(pathPattern, "//") {
		return fmt.Errorf("path contains consecutive slashes")
	}
	// Fragment and query delimiters are reserved.
	for _, reserved := range []string{"#", "?"} {
		if strings.Contains(pathPattern, reserved) {
			return fmt.Errorf("path contains reserved character '%s'", reserved)
		}
	}

	depth := 0
	for i, ch := range pathPattern {
		switch ch {
		case '{':
			depth++
			if depth > 1 {
				return fmt.Errorf("nested braces are not allowed at position %d", i)
			}
		case '}':
			depth--
			if depth < 0 {
				return fmt.Errorf("unexpected closing brace at position %d", i)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("unclosed brace in path template")
	}

	names := make(map[string]bool)
	for _, match := range pathutil.PathParamRegex.FindAllStringSubmatch(pathPattern, -1) {
		name := match[1]
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty parameter name in path template")
		}
		if names[name] {
			return fmt.Errorf("duplicate parameter name '%s' in path template", name)
		}
		names[name] = true
	}
	return nil
}

// checkTrailingSlash warns about a trailing slash on any path but "/".
func (c *check) checkTrailingSlash(pathPattern string) {
	if len(pathPattern) > 1 && strings.HasSuffix(pathPattern, "/") {
		c.addWarning(issues.FormatPath("paths", pathPattern),
			"path has a trailing slash",
			c.withSpecRef("paths-object"))
	}
}

// extractPathParameters extracts parameter names from a path template
// e.g., "/pets/{petId}/owners/{ownerId}" -> {"petId": true, "ownerId": true}
func extractPathParameters(pathPattern string) map[string]bool {
	params := make(map[string]bool)
	for _, match := range pathutil.PathParamRegex.FindAllStringSubmatch(pathPattern, -1) {
		params[match[1]] = true
	}
	return params
}
