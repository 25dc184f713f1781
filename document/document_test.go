package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const petstoreYAML = `openapi: 3.0.3
info:
  title: Pets
  version: "1.0"
tags:
  - name: pets
paths:
  /pets:
    parameters:
      - name: limit
        in: query
    get:
      tags: [pets]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
    post:
      tags: [pets]
      responses:
        "201":
          description: created
  /pets/{id}:
    delete:
      responses:
        "204":
          description: gone
components:
  x-owner: team-a
  schemas:
    Pet:
      type: object
    Error:
      type: string
  responses:
    NotFound:
      description: missing
`

func mustDecode(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Decode([]byte(src), FormatUnknown)
	require.NoError(t, err)
	return doc
}

func TestDocumentStructure(t *testing.T) {
	doc := mustDecode(t, petstoreYAML)

	assert.Equal(t, VersionKeyOpenAPI, doc.VersionKey)
	assert.Equal(t, "3.0.3", doc.Version)
	assert.False(t, doc.IsOAS2())
	assert.Equal(t, 3, doc.OperationCount())

	var keys []string
	for _, op := range doc.Operations() {
		keys = append(keys, op.Key())
	}
	assert.Equal(t, []string{"GET /pets", "POST /pets", "DELETE /pets/{id}"}, keys)

	item := doc.PathItem("/pets")
	require.NotNil(t, item)
	assert.True(t, item.Shared.Has("parameters"))
	assert.Equal(t, []string{"pets"}, item.Operation("get").Tags())
	assert.Nil(t, doc.PathItem("/pets/{id}").Operation("delete").Tags())

	assert.Equal(t, []ComponentID{
		{"schemas", "Pet"}, {"schemas", "Error"}, {"responses", "NotFound"},
	}, doc.ComponentIDs())
	assert.Equal(t, 3, doc.ComponentCount())
	assert.True(t, doc.ComponentsExtra.Has("x-owner"))
	assert.True(t, doc.Extra.Has("tags"))
}

func TestComponentMutation(t *testing.T) {
	doc := mustDecode(t, petstoreYAML)

	id := ComponentID{Category: "headers", Name: "RateLimit"}
	doc.SetComponent(id, obj("description", String("limit")))
	assert.True(t, doc.HasComponent(id))
	assert.Equal(t, "headers", doc.ComponentIDs()[3].Category)

	assert.True(t, doc.DeleteComponent(id))
	assert.False(t, doc.DeleteComponent(id))
	assert.Nil(t, doc.Category("headers"))
	assert.False(t, doc.Components.Has("headers"))
}

func TestAddOperation(t *testing.T) {
	doc := New(VersionKeyOpenAPI, "3.1.0")
	shared := NewObject()
	shared.Set("summary", String("users"))

	assert.True(t, doc.AddOperation(&Operation{Path: "/users", Method: "get", Body: NewObject()}, shared))
	assert.True(t, doc.AddOperation(&Operation{Path: "/users", Method: "post", Body: NewObject()}, nil))
	assert.False(t, doc.AddOperation(&Operation{Path: "/users", Method: "get", Body: NewObject()}, nil))

	item := doc.PathItem("/users")
	require.NotNil(t, item)
	assert.Len(t, item.Operations, 2)
	assert.True(t, item.Shared.Has("summary"))

	other := NewObject()
	other.Set("summary", String("different"))
	other.Set("description", String("added"))
	assert.Equal(t, []string{"summary"}, item.MergeShared(other))
	assert.True(t, item.Shared.Has("description"))
}

func TestDocumentLookup(t *testing.T) {
	doc := mustDecode(t, petstoreYAML)

	v, ok := doc.Lookup([]string{"components", "schemas", "Pet", "type"})
	require.True(t, ok)
	assert.Equal(t, String("object"), v)

	v, ok = doc.Lookup([]string{"paths", "/pets", "get", "tags", "0"})
	require.True(t, ok)
	assert.Equal(t, String("pets"), v)

	v, ok = doc.Lookup([]string{"paths", "/pets", "parameters", "0", "name"})
	require.True(t, ok)
	assert.Equal(t, String("limit"), v)

	v, ok = doc.Lookup([]string{"openapi"})
	require.True(t, ok)
	assert.Equal(t, String("3.0.3"), v)

	_, ok = doc.Lookup([]string{"components", "schemas", "Nope"})
	assert.False(t, ok)
	_, ok = doc.Lookup([]string{"paths", "/nope"})
	assert.False(t, ok)
}

func TestDocumentCloneAndEqual(t *testing.T) {
	doc := mustDecode(t, petstoreYAML)
	c := doc.Clone()
	assert.True(t, doc.Equal(c))

	c.PathItem("/pets").Operation("get").Body.Set("summary", String("list"))
	assert.False(t, doc.Equal(c))
	assert.False(t, doc.PathItem("/pets").Operation("get").Body.Has("summary"))
	assert.False(t, doc.Equal(nil))
}

func TestOAS2Components(t *testing.T) {
	doc := mustDecode(t, `swagger: "2.0"
info: {title: Old, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
          schema: {$ref: '#/definitions/A'}
definitions:
  A: {type: object}
securityDefinitions:
  key: {type: apiKey, name: k, in: header}
`)
	assert.True(t, doc.IsOAS2())
	assert.Equal(t, "definitions", doc.SchemaCategory())
	assert.Equal(t, "securityDefinitions", doc.SecurityCategory())
	assert.True(t, doc.HasComponent(ComponentID{"definitions", "A"}))
	assert.Equal(t, "#/definitions/A", ComponentID{"definitions", "A"}.Pointer(true))

	root := doc.Root()
	assert.True(t, root.Has("definitions"))
	assert.False(t, root.Has("components"))

	v, ok := doc.Lookup([]string{"definitions", "A", "type"})
	require.True(t, ok)
	assert.Equal(t, String("object"), v)
}

func TestParseComponentID(t *testing.T) {
	id, err := ParseComponentID("schemas/User")
	require.NoError(t, err)
	assert.Equal(t, ComponentID{"schemas", "User"}, id)
	assert.Equal(t, "schemas/User", id.String())
	assert.Equal(t, "#/components/schemas/User", id.Pointer(false))

	id, err = ParseComponentID("schemas/a/b")
	require.NoError(t, err)
	assert.Equal(t, "a/b", id.Name)

	for _, bad := range []string{"", "schemas", "schemas/", "/User"} {
		_, err := ParseComponentID(bad)
		assert.Error(t, err, bad)
	}
}

func TestIsMethod(t *testing.T) {
	assert.True(t, IsMethod("get"))
	assert.True(t, IsMethod("query"))
	assert.False(t, IsMethod("parameters"))
	assert.False(t, IsMethod("GET"))
}
