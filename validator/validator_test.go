package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oassplit/internal/issues"
	"github.com/erraggy/oassplit/internal/testutil"
)

func messages(list []Issue) []string {
	out := make([]string, len(list))
	for i, issue := range list {
		out[i] = issue.Path + ": " + issue.Message
	}
	return out
}

func TestValidateStore(t *testing.T) {
	res := Validate(testutil.MustDecode(t, testutil.StoreYAML))

	assert.True(t, res.Valid)
	assert.Equal(t, "3.1.0", res.Version)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 2, messages(res.Warnings))

	cycle := res.Warnings[0]
	assert.Equal(t, "schemas/Node", cycle.Path)
	assert.Contains(t, cycle.Message, "schemas/Node -> schemas/Node")
	require.NotNil(t, cycle.OperationContext)
	assert.Equal(t, "listUsers", cycle.OperationContext.OperationID)
	assert.True(t, cycle.OperationContext.Component)
	assert.Equal(t, 3, cycle.OperationContext.AdditionalRefs)

	orphan := res.Warnings[1]
	assert.Equal(t, "schemas/Orphan", orphan.Path)
	assert.Equal(t, "(unused component)", orphan.OperationContext.String())

	assert.Equal(t, 0, res.ErrorCount)
	assert.Equal(t, 2, res.WarningCount)
	assert.Len(t, res.Issues(), 2)
}

func TestValidateOAS2(t *testing.T) {
	res := Validate(testutil.MustDecode(t, testutil.PetstoreOAS2YAML))
	assert.True(t, res.Valid, messages(res.Errors))
	assert.Empty(t, res.Warnings)
}

func TestValidateWithoutWarnings(t *testing.T) {
	res := Validate(testutil.MustDecode(t, testutil.StoreYAML), WithIncludeWarnings(false))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		// want are substrings expected among the error messages, in order.
		want []string
	}{
		{
			name: "unsupported version",
			src: `openapi: 4.0.0
info: {title: T, version: "1"}
paths: {}
`,
			want: []string{`openapi: unsupported openapi version "4.0.0"`},
		},
		{
			name: "swagger version",
			src: `swagger: "1.2"
info: {title: T, version: "1"}
paths: {}
`,
			want: []string{`swagger: unsupported swagger version "1.2"`},
		},
		{
			name: "missing info fields",
			src: `openapi: 3.0.3
info: {description: nothing}
paths: {}
`,
			want: []string{"info.title: info.title is required", "info.version: info.version is required"},
		},
		{
			name: "missing info",
			src: `openapi: 3.0.3
paths: {}
`,
			want: []string{"info: info object is required"},
		},
		{
			name: "server without url",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
servers:
  - description: nowhere
paths: {}
`,
			want: []string{"servers[0].url: server url is required"},
		},
		{
			name: "oas2 host with scheme",
			src: `swagger: "2.0"
info: {title: T, version: "1"}
host: https://api.example.com
paths: {}
`,
			want: []string{`host: host "https://api.example.com" must not include a scheme or path`},
		},
		{
			name: "duplicate tag",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
tags: [{name: a}, {name: a}]
paths: {}
`,
			want: []string{`tags[1]: duplicate tag "a"`},
		},
		{
			name: "path without slash and bad template",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  users/{id:
    get:
      responses:
        "200": {description: ok}
`,
			want: []string{`must begin with a slash`, `unclosed brace`},
		},
		{
			name: "undeclared path parameter",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /users/{id}:
    get:
      responses:
        "200": {description: ok}
`,
			want: []string{`paths./users/{id}.get.parameters: path parameter "id" is not declared`},
		},
		{
			name: "path parameter outside template and optional",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /users:
    get:
      parameters:
        - {name: id, in: path}
      responses:
        "200": {description: ok}
`,
			want: []string{`"id" is not in the path template`, `"id" must be required`},
		},
		{
			name: "missing responses and bad status code",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /a:
    get: {}
  /b:
    get:
      responses:
        "2000": {description: ok}
`,
			want: []string{`paths./a.get.responses: operation must define at least one response`, `invalid HTTP status code "2000"`},
		},
		{
			name: "duplicate operationId",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /a:
    get:
      operationId: same
      responses: {"200": {description: ok}}
  /b:
    get:
      operationId: same
      responses: {"200": {description: ok}}
`,
			want: []string{`duplicate operationId "same" (first seen at paths./a.get)`},
		},
		{
			name: "dangling reference",
			src: `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          $ref: '#/components/responses/Missing'
`,
			want: []string{"GET /a: unresolved reference #/components/responses/Missing"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(testutil.MustDecode(t, tt.src))
			assert.False(t, res.Valid)
			got := strings.Join(messages(res.Errors), "\n")
			at := 0
			for _, want := range tt.want {
				i := strings.Index(got[at:], want)
				require.GreaterOrEqual(t, i, 0, "want %q in\n%s", want, got)
				at += i + len(want)
			}
		})
	}
}

func TestValidateDanglingReferenceContext(t *testing.T) {
	src := `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /a:
    get:
      operationId: getA
      responses:
        "200":
          $ref: '#/components/responses/Missing'
`
	res := Validate(testutil.MustDecode(t, src))
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "$ref", res.Errors[0].Field)
	assert.Equal(t, &issues.OperationContext{Method: "GET", Path: "/a", OperationID: "getA"}, res.Errors[0].OperationContext)
	assert.Equal(t, "https://spec.openapis.org/oas/v3.0.3.html#reference-object", res.Errors[0].SpecRef)
}

func TestValidateStrictMode(t *testing.T) {
	src := `openapi: 3.0.3
info: {title: T, version: "1"}
tags: [{name: known}]
paths:
  /a:
    get:
      tags: [unknown]
      responses:
        "299": {description: odd}
  /b/:
    get:
      tags: [known]
      responses:
        "404": {description: missing}
`
	doc := testutil.MustDecode(t, src)

	lenient := Validate(doc)
	assert.True(t, lenient.Valid)
	assert.Equal(t, []string{"paths./b/: path has a trailing slash"}, messages(lenient.Warnings))

	strict := Validate(doc, WithStrictMode(true))
	assert.True(t, strict.Valid)
	assert.Equal(t, []string{
		"paths./a.get.responses.299: non-standard HTTP status code \"299\"",
		"paths./a.get.tags: tag \"unknown\" is not declared in the top-level tags",
		"paths./b/: path has a trailing slash",
		"paths./b/.get.responses: operation should define a successful response (2XX or default)",
	}, messages(strict.Warnings))
}

func TestValidatePathParameterViaSharedRef(t *testing.T) {
	src := `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /users/{id}:
    parameters:
      - $ref: '#/components/parameters/ID'
    get:
      responses:
        "200": {description: ok}
components:
  parameters:
    ID: {name: id, in: path, required: true, schema: {type: string}}
`
	res := Validate(testutil.MustDecode(t, src))
	assert.True(t, res.Valid, messages(res.Errors))
	assert.Empty(t, res.Warnings)
}

func TestValidatePathParameterExternalRefSkipped(t *testing.T) {
	src := `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /users/{id}:
    get:
      parameters:
        - $ref: 'common.yaml#/components/parameters/ID'
      responses:
        "200": {description: ok}
`
	res := Validate(testutil.MustDecode(t, src))
	assert.True(t, res.Valid, messages(res.Errors))
}

func TestValidatePathTemplate(t *testing.T) {
	tests := []struct {
		path    string
		wantErr string
	}{
		{"/pets/{petId}", ""},
		{"/pets/{petId}/owners/{ownerId}", ""},
		{"/pets/{}", "empty parameter name"},
		{"/pets//owners", "consecutive slashes"},
		{"/pets#frag", "reserved character '#'"},
		{"/pets?q", "reserved character '?'"},
		{"/pets/{{id}}", "nested braces"},
		{"/pets/id}", "unexpected closing brace"},
		{"/pets/{id", "unclosed brace"},
		{"/pets/{ }", "empty parameter name"},
		{"/a/{id}/b/{id}", "duplicate parameter name 'id'"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := validatePathTemplate(tt.path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidStatusCode(t *testing.T) {
	for _, code := range []string{"200", "404", "599", "100", "2XX", "5XX", "default", "x-custom"} {
		assert.True(t, validStatusCode(code), code)
	}
	for _, code := range []string{"99", "600", "6XX", "2xx", "abc", "", "2000"} {
		assert.False(t, validStatusCode(code), code)
	}
	assert.True(t, standardStatusCode("404"))
	assert.True(t, standardStatusCode("2XX"))
	assert.False(t, standardStatusCode("299"))
}

func TestExtractPathParameters(t *testing.T) {
	assert.Equal(t, map[string]bool{"petId": true, "ownerId": true},
		extractPathParameters("/pets/{petId}/owners/{ownerId}"))
	assert.Empty(t, extractPathParameters("/pets"))
}
