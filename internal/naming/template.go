package naming

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultRenameTemplate names the second variant of "User" "User_2".
const DefaultRenameTemplate = "{{.Name}}_{{.Index}}"

// RenameContext is the data available to rename templates.
type RenameContext struct {
	// Name is the original component name.
	Name string
	// Category is the component category, e.g. "schemas".
	Category string
	// Source is the stem of the unit file that introduced the variant.
	Source string
	// Index numbers variants; the first renamed variant is 2.
	Index int
}

// Template is a parsed rename template.
type Template struct {
	text string
	tmpl *template.Template
}

func funcs() template.FuncMap {
	title := cases.Title(language.Und, cases.NoLower)
	return template.FuncMap{
		"pascalCase": ToPascalCase,
		"camelCase":  ToCamelCase,
		"snakeCase":  ToSnakeCase,
		"kebabCase":  ToKebabCase,
		"title":      title.String,
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
	}
}

// ParseTemplate parses text, defaulting to DefaultRenameTemplate when empty.
// The template must reference .Index or .Source, otherwise every variant
// would get the same name.
func ParseTemplate(text string) (*Template, error) {
	if text == "" {
		text = DefaultRenameTemplate
	}
	if !strings.Contains(text, ".Index") && !strings.Contains(text, ".Source") {
		return nil, fmt.Errorf("naming: rename template %q must use .Index or .Source", text)
	}
	tmpl, err := template.New("rename").Option("missingkey=error").Funcs(funcs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("naming: parsing rename template: %w", err)
	}
	return &Template{text: text, tmpl: tmpl}, nil
}

// String returns the template text.
func (t *Template) String() string { return t.text }

// Render executes the template. An empty result is an error.
func (t *Template) Render(ctx RenameContext) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, ctx); err != nil {
		return "", fmt.Errorf("naming: rendering rename template: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", fmt.Errorf("naming: rename template %q rendered an empty name for %s", t.text, ctx.Name)
	}
	return out, nil
}
