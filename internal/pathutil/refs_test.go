package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePointer(t *testing.T) {
	tests := []struct {
		name     string
		ref      string
		file     string
		category string
		compName string
		sub      []string
		oas2     bool
	}{
		{name: "oas3 schema", ref: "#/components/schemas/User", category: "schemas", compName: "User"},
		{name: "oas3 parameter", ref: "#/components/parameters/limit", category: "parameters", compName: "limit"},
		{name: "oas2 definition", ref: "#/definitions/Pet", category: "definitions", compName: "Pet", oas2: true},
		{name: "inside component", ref: "#/components/schemas/User/properties/id", category: "schemas", compName: "User", sub: []string{"properties", "id"}},
		{name: "external component", ref: "common.yaml#/components/schemas/Error", file: "common.yaml", category: "schemas", compName: "Error"},
		{name: "escaped name", ref: "#/components/schemas/a~1b~0c", category: "schemas", compName: "a/b~c"},
		{name: "percent encoded", ref: "#/components/schemas/My%20Type", category: "schemas", compName: "My Type"},
		{name: "non component", ref: "#/paths/~1users/get"},
		{name: "whole file", ref: "other.yaml", file: "other.yaml"},
		{name: "unknown category", ref: "#/components/widgets/X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePointer(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.file, p.File)
			assert.Equal(t, tt.category, p.Category)
			assert.Equal(t, tt.compName, p.Name)
			assert.Equal(t, tt.oas2, p.OAS2)
			if tt.sub != nil {
				assert.Equal(t, tt.sub, p.Sub)
			}
		})
	}
}

func TestParsePointer_NonComponentTokens(t *testing.T) {
	p, err := ParsePointer("#/paths/~1users/get")
	require.NoError(t, err)
	assert.Equal(t, []string{"paths", "/users", "get"}, p.Tokens)
	assert.False(t, p.IsComponent())
	assert.True(t, p.IsLocal())
}

func TestParsePointer_Invalid(t *testing.T) {
	for _, ref := range []string{"", "#", "#anchor", "file.yaml#name"} {
		t.Run(ref, func(t *testing.T) {
			_, err := ParsePointer(ref)
			assert.ErrorIs(t, err, ErrInvalidPointer)
		})
	}
}

func TestFormatPointer_RoundTrip(t *testing.T) {
	refs := []string{
		"#/components/schemas/User",
		"#/definitions/Pet",
		"#/components/schemas/User/properties/id",
		"common.yaml#/components/responses/Error",
		"#/components/schemas/a~1b~0c",
		"#/paths/~1users/get",
		"other.yaml",
	}
	for _, ref := range refs {
		t.Run(ref, func(t *testing.T) {
			p, err := ParsePointer(ref)
			require.NoError(t, err)
			assert.Equal(t, ref, FormatPointer(p))
		})
	}
}

func TestFormatPointer_Renamed(t *testing.T) {
	p, err := ParsePointer("units/spec_a.json#/components/schemas/User")
	require.NoError(t, err)
	p.File = ""
	p.Name = "User_2"
	assert.Equal(t, "#/components/schemas/User_2", FormatPointer(p))
}

func TestComponentPointer(t *testing.T) {
	assert.Equal(t, "#/components/schemas/Pet", ComponentPointer("schemas", "Pet", false))
	assert.Equal(t, "#/definitions/Pet", ComponentPointer("definitions", "Pet", true))
	assert.Equal(t, "#/components/schemas/a~1b", ComponentPointer("schemas", "a/b", false))
}

func TestIsCategory(t *testing.T) {
	assert.True(t, IsCategory("schemas", false))
	assert.False(t, IsCategory("definitions", false))
	assert.True(t, IsCategory("securityDefinitions", true))
	assert.False(t, IsCategory("schemas", true))
}
