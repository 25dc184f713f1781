package validator

import (
	"fmt"
	"strings"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/internal/issues"
	"github.com/erraggy/oassplit/internal/severity"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a violation that makes the document invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates a best practice violation or recommendation
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
)

// Issue is a single validation problem.
type Issue = issues.Issue

// Result contains the outcome of validating one document.
type Result struct {
	// Valid is true if no errors were found (warnings are allowed)
	Valid bool `json:"valid"`
	// Version is the document's openapi or swagger field
	Version      string  `json:"version"`
	Errors       []Issue `json:"errors,omitempty"`
	Warnings     []Issue `json:"warnings,omitempty"`
	ErrorCount   int     `json:"error_count"`
	WarningCount int     `json:"warning_count"`
}

// Issues returns the errors followed by the warnings.
func (r *Result) Issues() []Issue {
	out := make([]Issue, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	return append(out, r.Warnings...)
}

// Validator checks the structure of OpenAPI 2.0 and 3.x documents.
type Validator struct {
	// IncludeWarnings determines whether to include best practice warnings
	IncludeWarnings bool
	// StrictMode enables checks beyond the OpenAPI requirements
	StrictMode bool
	Logger     document.Logger
}

// New creates a Validator. Warnings are included by default.
func New(opts ...Option) *Validator {
	v := &Validator{IncludeWarnings: true, Logger: document.NopLogger{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks doc and reports every problem found. It never modifies
// doc.
func (v *Validator) Validate(doc *document.Document) *Result {
	c := &check{v: v, doc: doc, baseURL: specURL(doc), res: &Result{Version: doc.Version}}
	c.version()
	c.info()
	c.servers()
	c.tags()
	c.paths()
	c.references()

	r := c.res
	r.ErrorCount = len(r.Errors)
	r.WarningCount = len(r.Warnings)
	r.Valid = r.ErrorCount == 0
	document.LoggerOrNop(v.Logger).Debug("document validated",
		"version", doc.Version,
		"errors", r.ErrorCount,
		"warnings", r.WarningCount)
	return r
}

// Validate is shorthand for New(opts...).Validate(doc).
func Validate(doc *document.Document, opts ...Option) *Result {
	return New(opts...).Validate(doc)
}

// specURL returns the specification page for the document's version.
func specURL(doc *document.Document) string {
	if doc.IsOAS2() {
		return "https://spec.openapis.org/oas/v2.0.html"
	}
	return fmt.Sprintf("https://spec.openapis.org/oas/v%s.html", doc.Version)
}

// check carries the state of one validation run.
type check struct {
	v       *Validator
	doc     *document.Document
	baseURL string
	res     *Result
}

func (c *check) addError(path, message string, opts ...func(*Issue)) {
	issue := Issue{Path: path, Message: message, Severity: SeverityError}
	for _, opt := range opts {
		opt(&issue)
	}
	c.res.Errors = append(c.res.Errors, issue)
}

func (c *check) addWarning(path, message string, opts ...func(*Issue)) {
	if !c.v.IncludeWarnings {
		return
	}
	issue := Issue{Path: path, Message: message, Severity: SeverityWarning}
	for _, opt := range opts {
		opt(&issue)
	}
	c.res.Warnings = append(c.res.Warnings, issue)
}

func withField(field string) func(*Issue) {
	return func(i *Issue) { i.Field = field }
}

func (c *check) withSpecRef(anchor string) func(*Issue) {
	return func(i *Issue) { i.SpecRef = c.baseURL + "#" + anchor }
}

func withOperation(op *document.Operation) func(*Issue) {
	return func(i *Issue) { i.OperationContext = operationContext(op) }
}

func operationContext(op *document.Operation) *issues.OperationContext {
	ctx := &issues.OperationContext{Method: strings.ToUpper(op.Method), Path: op.Path}
	if v, ok := op.Body.Get("operationId"); ok {
		ctx.OperationID, _ = v.AsString()
	}
	return ctx
}

var supportedVersions = []string{"3.0.", "3.1.", "3.2."}

func (c *check) version() {
	switch {
	case c.doc.Version == "":
		c.addError(c.doc.VersionKey, "version field is empty", withField(c.doc.VersionKey))
	case c.doc.IsOAS2():
		if c.doc.Version != "2.0" {
			c.addError("swagger", fmt.Sprintf("unsupported swagger version %q, want \"2.0\"", c.doc.Version),
				withField("swagger"))
		}
	default:
		for _, prefix := range supportedVersions {
			if strings.HasPrefix(c.doc.Version, prefix) {
				return
			}
		}
		c.addError("openapi", fmt.Sprintf("unsupported openapi version %q", c.doc.Version),
			withField("openapi"))
	}
}

func (c *check) info() {
	if c.doc.Info == nil || c.doc.Info.Len() == 0 {
		c.addError("info", "info object is required", c.withSpecRef("info-object"))
		return
	}
	for _, field := range []string{"title", "version"} {
		v, ok := c.doc.Info.Get(field)
		if s, isString := v.AsString(); !ok || !isString || s == "" {
			c.addError("info."+field, fmt.Sprintf("info.%s is required", field),
				withField(field), c.withSpecRef("info-object"))
		}
	}
}

func (c *check) servers() {
	if c.doc.IsOAS2() {
		if v, ok := c.doc.Extra.Get("host"); ok {
			if host, _ := v.AsString(); strings.Contains(host, "://") || strings.Contains(host, "/") {
				c.addError("host", fmt.Sprintf("host %q must not include a scheme or path", host),
					withField("host"), c.withSpecRef("swagger-object"))
			}
		}
		return
	}
	v, ok := c.doc.Extra.Get("servers")
	if !ok {
		return
	}
	list, ok := v.AsArray()
	if !ok {
		c.addError("servers", "servers must be an array", c.withSpecRef("server-object"))
		return
	}
	for i, server := range list {
		url, _ := server.Field("url")
		if s, _ := url.AsString(); s == "" {
			c.addError(fmt.Sprintf("servers[%d].url", i), "server url is required",
				withField("url"), c.withSpecRef("server-object"))
		}
	}
}

func (c *check) tags() {
	v, ok := c.doc.Extra.Get("tags")
	if !ok {
		return
	}
	list, _ := v.AsArray()
	seen := make(map[string]bool)
	for i, tag := range list {
		name, _ := tag.Field("name")
		s, _ := name.AsString()
		path := fmt.Sprintf("tags[%d]", i)
		switch {
		case s == "":
			c.addError(path+".name", "tag name is required", withField("name"), c.withSpecRef("tag-object"))
		case seen[s]:
			c.addError(path, fmt.Sprintf("duplicate tag %q", s), withField("name"), c.withSpecRef("tag-object"))
		}
		seen[s] = true
	}
}
