package resolver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oassplit/document"
	"github.com/erraggy/oassplit/oaserrors"
)

func decode(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Decode([]byte(src), document.FormatYAML)
	require.NoError(t, err)
	return doc
}

const usersYAML = `openapi: 3.0.3
info: {title: Users, version: "1"}
security:
  - apiKey: []
paths:
  /users:
    parameters:
      - $ref: '#/components/parameters/Limit'
    get:
      security:
        - oauth: [read]
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/User'
components:
  parameters:
    Limit: {name: limit, in: query, schema: {type: integer}}
  schemas:
    User:
      type: object
      properties:
        address:
          $ref: '#/components/schemas/Address'
        pet:
          $ref: '#/components/schemas/Pet'
    Address: {type: object}
    Pet:
      oneOf:
        - $ref: '#/components/schemas/Cat'
      discriminator:
        propertyName: kind
        mapping:
          cat: '#/components/schemas/Cat'
    Cat: {type: object}
    Orphan: {type: string}
  securitySchemes:
    apiKey: {type: apiKey, name: k, in: header}
    oauth: {type: oauth2, flows: {}}
`

func TestCollect(t *testing.T) {
	doc := decode(t, usersYAML)
	refs := Collect(doc)

	var got []string
	for _, r := range refs {
		got = append(got, r.Kind.String()+" "+r.Ref+" @ "+r.From.String())
	}
	assert.Equal(t, []string{
		"pointer #/components/parameters/Limit @ path /users",
		"pointer #/components/schemas/User @ GET /users",
		"security oauth @ GET /users",
		"pointer #/components/schemas/Address @ schemas/User",
		"pointer #/components/schemas/Pet @ schemas/User",
		"pointer #/components/schemas/Cat @ schemas/Pet",
		"discriminator #/components/schemas/Cat @ schemas/Pet",
		"security apiKey @ security",
	}, got)

	assert.Equal(t, "/responses/200/content/application~1json/schema/items/$ref", refs[1].At)
	id, ok := refs[2].Target()
	require.True(t, ok)
	assert.Equal(t, document.ComponentID{Category: "securitySchemes", Name: "oauth"}, id)
}

func TestResolveClean(t *testing.T) {
	res := Resolve(decode(t, usersYAML))
	assert.NoError(t, res.Err())
	assert.Empty(t, res.Unresolved)
	assert.Empty(t, res.External)
	assert.Empty(t, res.Cycles)
}

func TestResolveCollectsAllUnresolved(t *testing.T) {
	doc := decode(t, `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /a:
    get:
      security: [{missingScheme: []}]
      responses:
        "200": {$ref: '#/components/responses/Missing'}
components:
  schemas:
    A: {$ref: '#/components/schemas/Gone'}
    B: {$ref: '#not-a-pointer'}
`)
	res := Resolve(doc)
	require.Len(t, res.Unresolved, 4)

	err := res.Err()
	require.Error(t, err)
	assert.ErrorIs(t, err, oaserrors.ErrUnresolvedReference)
	assert.NotErrorIs(t, err, oaserrors.ErrCircularReference)

	var refErr *oaserrors.ReferenceError
	require.True(t, errors.As(err, &refErr))
	assert.Equal(t, "#/components/responses/Missing", refErr.Ref)
	assert.Equal(t, "GET /a", refErr.Source)
	assert.Equal(t, "/responses/200/$ref", refErr.Location)
}

func TestCollectBareDiscriminatorName(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want document.ComponentID
	}{
		{
			name: "oas3",
			src: `openapi: 3.0.3
paths: {}
components:
  schemas:
    Pet:
      discriminator:
        propertyName: kind
        mapping: {cat: Cat}
    Cat: {type: object}
`,
			want: document.ComponentID{Category: "schemas", Name: "Cat"},
		},
		{
			name: "oas2",
			src: `swagger: "2.0"
paths: {}
definitions:
  Pet:
    discriminator:
      propertyName: kind
      mapping: {cat: Cat}
  Cat: {type: object}
`,
			want: document.ComponentID{Category: "definitions", Name: "Cat"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := decode(t, tt.src)
			refs := Collect(doc)
			require.Len(t, refs, 1)
			assert.Equal(t, KindDiscriminator, refs[0].Kind)
			assert.Equal(t, "/discriminator/mapping/cat", refs[0].At)
			id, ok := refs[0].Target()
			require.True(t, ok)
			assert.Equal(t, tt.want, id)

			assert.Equal(t, []document.ComponentID{
				{Category: tt.want.Category, Name: "Pet"}, tt.want,
			}, Closure(doc, []document.ComponentID{{Category: tt.want.Category, Name: "Pet"}}))
			assert.NoError(t, Resolve(doc).Err())
		})
	}
}

func TestResolveMissingBareDiscriminatorName(t *testing.T) {
	doc := decode(t, `openapi: 3.0.3
paths: {}
components:
  schemas:
    Pet:
      discriminator:
        propertyName: kind
        mapping: {cat: Cat}
`)
	res := Resolve(doc)
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, "Cat", res.Unresolved[0].Ref)
	assert.Equal(t, "schemas/Pet", res.Unresolved[0].Source)
	assert.ErrorIs(t, res.Err(), oaserrors.ErrUnresolvedReference)
}

func TestResolveExternal(t *testing.T) {
	src := `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /a:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {$ref: 'common.yaml#/components/schemas/Error'}
`
	t.Run("listed by default", func(t *testing.T) {
		res := Resolve(decode(t, src))
		assert.NoError(t, res.Err())
		require.Len(t, res.External, 1)
		assert.Equal(t, "common.yaml", res.External[0].Pointer.File)
	})

	t.Run("strict without lookup", func(t *testing.T) {
		res := Resolve(decode(t, src), WithStrictExternal(true))
		require.Len(t, res.Unresolved, 1)
		assert.True(t, res.Unresolved[0].External)
	})

	t.Run("sibling lookup", func(t *testing.T) {
		common := decode(t, "openapi: 3.0.3\npaths: {}\ncomponents:\n  schemas:\n    Error: {type: object}\n")
		lookup := func(file string) (*document.Document, bool) {
			return common, file == "common.yaml"
		}
		res := Resolve(decode(t, src), WithSiblings(lookup))
		assert.NoError(t, res.Err())

		empty := func(string) (*document.Document, bool) { return nil, false }
		res = Resolve(decode(t, src), WithSiblings(empty))
		assert.Len(t, res.Unresolved, 1)
	})
}

func TestSelfReferencingCycle(t *testing.T) {
	doc := decode(t, `openapi: 3.0.3
info: {title: T, version: "1"}
paths:
  /nodes:
    get:
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema: {$ref: '#/components/schemas/Node'}
components:
  schemas:
    Node:
      type: object
      properties:
        children:
          type: array
          items: {$ref: '#/components/schemas/Node'}
`)
	before := doc.Clone()
	res := Resolve(doc)

	assert.NoError(t, res.Err())
	require.Len(t, res.Cycles, 1)
	assert.Equal(t, "schemas/Node -> schemas/Node", res.Cycles[0].String())
	refErr := res.Cycles[0].ReferenceError()
	assert.ErrorIs(t, refErr, oaserrors.ErrCircularReference)
	assert.True(t, doc.Equal(before))

	closure := Closure(doc, []document.ComponentID{{Category: "schemas", Name: "Node"}})
	assert.Len(t, closure, 1)
}

func TestCyclesDeduplicatedByRotation(t *testing.T) {
	doc := decode(t, `openapi: 3.0.3
paths: {}
components:
  schemas:
    A: {properties: {b: {$ref: '#/components/schemas/B'}}}
    B: {properties: {c: {$ref: '#/components/schemas/C'}}}
    C: {properties: {a: {$ref: '#/components/schemas/A'}, b: {$ref: '#/components/schemas/B'}}}
`)
	cycles := NewGraph(doc).Cycles()
	var got []string
	for _, c := range cycles {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"schemas/A -> schemas/B -> schemas/C -> schemas/A",
		"schemas/B -> schemas/C -> schemas/B",
	}, got)
}

func TestClosure(t *testing.T) {
	doc := decode(t, usersYAML)
	g := NewGraph(doc)

	got := g.Closure([]document.ComponentID{{Category: "schemas", Name: "User"}})
	assert.Equal(t, []document.ComponentID{
		{Category: "schemas", Name: "User"},
		{Category: "schemas", Name: "Address"},
		{Category: "schemas", Name: "Pet"},
		{Category: "schemas", Name: "Cat"},
	}, got)

	assert.Empty(t, g.Closure([]document.ComponentID{{Category: "schemas", Name: "Nope"}}))
	assert.Equal(t, []document.ComponentID{{Category: "schemas", Name: "Cat"}},
		g.Dependencies(document.ComponentID{Category: "schemas", Name: "Pet"}))
}

func TestTargets(t *testing.T) {
	doc := decode(t, usersYAML)
	item := doc.PathItem("/users")
	refs := CollectOperation(doc, item, item.Operation("get"))
	assert.Equal(t, []document.ComponentID{
		{Category: "parameters", Name: "Limit"},
		{Category: "schemas", Name: "User"},
		{Category: "securitySchemes", Name: "oauth"},
	}, Targets(refs))

	assert.Equal(t, []document.ComponentID{{Category: "securitySchemes", Name: "apiKey"}},
		Targets(CollectField(doc, "security")))
}

func TestOAS2References(t *testing.T) {
	doc := decode(t, `swagger: "2.0"
info: {title: T, version: "1"}
security: [{key: []}]
paths:
  /a:
    get:
      responses:
        "200": {description: ok, schema: {$ref: '#/definitions/A'}}
definitions:
  A: {type: object}
securityDefinitions:
  key: {type: apiKey, name: k, in: header}
`)
	res := Resolve(doc)
	assert.NoError(t, res.Err())
	assert.Equal(t, []document.ComponentID{
		{Category: "definitions", Name: "A"},
		{Category: "securityDefinitions", Name: "key"},
	}, Targets(res.References))
}
