// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/oassplit/document"
)

// StoreYAML is an OAS 3.1 document exercising every part a split has to
// carry: tags with one unused definition, path-level parameters, a
// transitive component chain, a self-referencing schema, an unreferenced
// schema, document-level security, webhooks and a component extension.
const StoreYAML = `openapi: 3.1.0
info:
  title: Store
  version: "2.0"
servers:
  - url: https://api.example.com
security:
  - bearer: []
tags:
  - name: users
    description: User accounts
  - name: orders
  - name: admin
    description: Never used by an operation
paths:
  /users:
    get:
      tags: [users]
      operationId: listUsers
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/User'
    post:
      tags: [users]
      operationId: createUser
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/User'
      responses:
        "201":
          description: created
  /users/{id}:
    parameters:
      - $ref: '#/components/parameters/UserID'
    get:
      tags: [users]
      operationId: getUser
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/User'
        "404":
          $ref: '#/components/responses/NotFound'
    delete:
      tags: [users]
      operationId: deleteUser
      responses:
        "204":
          description: gone
  /orders:
    get:
      tags: [orders, users]
      operationId: listOrders
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Order'
  /health:
    get:
      operationId: health
      security: []
      responses:
        "200":
          description: ok
webhooks:
  userCreated:
    post:
      requestBody:
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Event'
      responses:
        "200":
          description: ok
components:
  x-owner: platform
  schemas:
    User:
      type: object
      properties:
        id:
          type: integer
        tree:
          $ref: '#/components/schemas/Node'
    Node:
      type: object
      properties:
        children:
          type: array
          items:
            $ref: '#/components/schemas/Node'
    Order:
      type: object
      properties:
        total:
          type: number
          format: double
        customer:
          $ref: '#/components/schemas/User'
    Event:
      type: object
    Orphan:
      type: string
  parameters:
    UserID:
      name: id
      in: path
      required: true
      schema:
        type: integer
  responses:
    NotFound:
      description: not found
  securitySchemes:
    bearer:
      type: http
      scheme: bearer
`

// PetstoreOAS2YAML is a Swagger 2.0 document with top-level definitions.
const PetstoreOAS2YAML = `swagger: "2.0"
info:
  title: Petstore
  version: "1.0"
host: petstore.example.com
basePath: /v1
tags:
  - name: pets
paths:
  /pets:
    get:
      tags: [pets]
      responses:
        "200":
          description: ok
          schema:
            type: array
            items:
              $ref: '#/definitions/Pet'
  /stores:
    get:
      responses:
        "200":
          description: ok
          schema:
            $ref: '#/definitions/Store'
definitions:
  Pet:
    type: object
    properties:
      name:
        type: string
  Store:
    type: object
    properties:
      pets:
        type: array
        items:
          $ref: '#/definitions/Pet'
`

// MustDecode decodes src, failing the test on error.
func MustDecode(t *testing.T, src string) *document.Document {
	t.Helper()
	doc, err := document.Decode([]byte(src), document.FormatUnknown)
	if err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return doc
}

// GenerateOperations builds an OAS 3.0 document with n GET operations on
// /items/i, each tagged "items" and referencing schemas/Item.
func GenerateOperations(n int) *document.Document {
	doc := document.New(document.VersionKeyOpenAPI, "3.0.3")
	doc.Info.Set("title", document.String("Generated"))
	doc.Info.Set("version", document.String("1.0"))
	for i := range n {
		content := document.NewObject()
		content.Set("$ref", document.String("#/components/schemas/Item"))
		resp := document.NewObject()
		resp.Set("description", document.String("ok"))
		resp.Set("content", wrap("application/json", wrap("schema", document.ObjectValue(content))))
		body := document.NewObject()
		body.Set("tags", document.Array(document.String("items")))
		body.Set("operationId", document.String(fmt.Sprintf("getItem%d", i)))
		body.Set("responses", wrap("200", document.ObjectValue(resp)))
		doc.AddOperation(&document.Operation{Path: fmt.Sprintf("/items/%d", i), Method: "get", Body: body}, nil)
	}
	item := document.NewObject()
	item.Set("type", document.String("object"))
	doc.SetComponent(document.ComponentID{Category: "schemas", Name: "Item"}, document.ObjectValue(item))
	return doc
}

func wrap(key string, v document.Value) document.Value {
	o := document.NewObject()
	o.Set(key, v)
	return document.ObjectValue(o)
}

// WriteTemp writes data to name inside a fresh temporary directory.
// Returns the path to the file.
// The file is automatically cleaned up when the test completes (via t.TempDir).
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}

	return path
}
