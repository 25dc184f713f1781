package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStem(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: "users", want: "users"},
		{name: "spaces", input: "Pet Store", want: "Pet_Store"},
		{name: "slash", input: "admin/users", want: "admin_users"},
		{name: "diacritics folded", input: "Ünïcödé", want: "Unicode"},
		{name: "non-latin replaced", input: "日本", want: "unnamed"},
		{name: "mixed", input: "café-orders", want: "cafe-orders"},
		{name: "leading dot", input: ".hidden", want: "_hidden"},
		{name: "inner dot kept", input: "v1.2", want: "v1.2"},
		{name: "empty", input: "", want: "unnamed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FileStem(tt.input))
		})
	}
}

func TestAllocator(t *testing.T) {
	var a Allocator
	assert.Equal(t, "users", a.Unique("users"))
	assert.Equal(t, "users_2", a.Unique("users"))
	assert.Equal(t, "Users_3", a.Unique("Users"))
	a.Reserve("components")
	assert.Equal(t, "components_2", a.Unique("components"))
}

func TestCaseConversion(t *testing.T) {
	tests := []struct {
		input, pascal, camel, snake, kebab string
	}{
		{"user_profile", "UserProfile", "userProfile", "user_profile", "user-profile"},
		{"UserProfile", "UserProfile", "userProfile", "user_profile", "user-profile"},
		{"/api/v1/users", "ApiV1Users", "apiV1Users", "api_v1_users", "api-v1-users"},
		{"über_user", "ÜberUser", "überUser", "über_user", "über-user"},
		{"", "", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.pascal, ToPascalCase(tt.input))
			assert.Equal(t, tt.camel, ToCamelCase(tt.input))
			assert.Equal(t, tt.snake, ToSnakeCase(tt.input))
			assert.Equal(t, tt.kebab, ToKebabCase(tt.input))
		})
	}
}

func TestTemplate(t *testing.T) {
	tmpl, err := ParseTemplate("")
	require.NoError(t, err)
	assert.Equal(t, DefaultRenameTemplate, tmpl.String())

	got, err := tmpl.Render(RenameContext{Name: "User", Category: "schemas", Index: 2})
	require.NoError(t, err)
	assert.Equal(t, "User_2", got)

	tmpl, err = ParseTemplate("{{.Name}}{{pascalCase .Source}}")
	require.NoError(t, err)
	got, err = tmpl.Render(RenameContext{Name: "User", Source: "spec_admin_users", Index: 2})
	require.NoError(t, err)
	assert.Equal(t, "UserSpecAdminUsers", got)

	tmpl, err = ParseTemplate("{{title .Source}}{{.Index}}")
	require.NoError(t, err)
	got, err = tmpl.Render(RenameContext{Name: "x", Source: "billing", Index: 3})
	require.NoError(t, err)
	assert.Equal(t, "Billing3", got)
}

func TestTemplateErrors(t *testing.T) {
	_, err := ParseTemplate("{{.Name}}")
	assert.Error(t, err, "no variant discriminator")

	_, err = ParseTemplate("{{.Name}_{{.Index}}")
	assert.Error(t, err)

	tmpl, err := ParseTemplate("{{if false}}{{.Index}}{{end}}")
	require.NoError(t, err)
	_, err = tmpl.Render(RenameContext{Name: "User", Index: 2})
	assert.Error(t, err, "empty result")
}
