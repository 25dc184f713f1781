package oaserrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &DecodeError{Path: "api.yaml", Line: 42, Message: "invalid syntax", Cause: cause}
		assert.Equal(t, "decode error in api.yaml at line 42: invalid syntax: underlying error", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "decode error", (&DecodeError{}).Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &DecodeError{Cause: cause}
		assert.Same(t, cause, err.Unwrap())
	})

	t.Run("errors.Is through wrapping", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", &DecodeError{Path: "x.json"})
		assert.ErrorIs(t, err, ErrDecode)
		assert.NotErrorIs(t, err, ErrConfig)
	})
}

func TestEmptyDocumentError(t *testing.T) {
	assert.Equal(t, "empty document: no operations to split", (&EmptyDocumentError{}).Error())
	assert.Equal(t, "empty document: api.yaml has no operations to split", (&EmptyDocumentError{Source: "api.yaml"}).Error())
	assert.ErrorIs(t, &EmptyDocumentError{}, ErrEmptyDocument)
}

func TestReferenceError(t *testing.T) {
	t.Run("unresolved", func(t *testing.T) {
		err := &ReferenceError{Ref: "#/components/schemas/Missing", Source: "GET /users", Location: "responses.200"}
		assert.Equal(t, "unresolved reference #/components/schemas/Missing in GET /users at responses.200", err.Error())
		assert.ErrorIs(t, err, ErrReference)
		assert.ErrorIs(t, err, ErrUnresolvedReference)
		assert.NotErrorIs(t, err, ErrCircularReference)
	})

	t.Run("external", func(t *testing.T) {
		err := &ReferenceError{Ref: "common.yaml#/components/schemas/Error", External: true}
		assert.Equal(t, "unresolved external reference common.yaml#/components/schemas/Error", err.Error())
	})

	t.Run("circular", func(t *testing.T) {
		err := &ReferenceError{IsCircular: true, Cycle: []string{"schemas/Node", "schemas/Node"}}
		assert.Equal(t, "circular reference: schemas/Node -> schemas/Node", err.Error())
		assert.ErrorIs(t, err, ErrCircularReference)
		assert.NotErrorIs(t, err, ErrUnresolvedReference)
	})

	t.Run("joined errors are still matched", func(t *testing.T) {
		joined := errors.Join(&ReferenceError{Ref: "a"}, &ReferenceError{Ref: "b"})
		var refErr *ReferenceError
		assert.ErrorAs(t, joined, &refErr)
		assert.Equal(t, "a", refErr.Ref)
	})
}

func TestDuplicateOperationError(t *testing.T) {
	err := &DuplicateOperationError{Path: "/users", Method: "get", Units: []string{"spec_a.json", "spec_b.json"}}
	assert.Equal(t, "duplicate operation GET /users in spec_a.json, spec_b.json", err.Error())
	assert.ErrorIs(t, err, ErrDuplicateOperation)
}

func TestComponentConflictError(t *testing.T) {
	err := &ComponentConflictError{Identities: []string{"schemas/User", "responses/Error"}}
	assert.Equal(t, "component conflict: 2 conflicting component(s): schemas/User, responses/Error", err.Error())
	assert.ErrorIs(t, err, ErrComponentConflict)
}

func TestManifestMismatchError(t *testing.T) {
	tests := []struct {
		name string
		err  *ManifestMismatchError
		want string
	}{
		{"empty", &ManifestMismatchError{}, "manifest mismatch"},
		{"missing", &ManifestMismatchError{Missing: []string{"spec_a.json"}}, "manifest mismatch: missing spec_a.json"},
		{
			"all",
			&ManifestMismatchError{Missing: []string{"a"}, Extra: []string{"b"}, Problems: []string{"a: count 3, manifest says 2"}},
			"manifest mismatch: missing a; unexpected b; a: count 3, manifest says 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrManifestMismatch)
		})
	}
	assert.True(t, (&ManifestMismatchError{}).Empty())
	assert.False(t, (&ManifestMismatchError{Extra: []string{"x"}}).Empty())
}

func TestConfigError(t *testing.T) {
	cause := errors.New("must be positive")
	err := &ConfigError{Option: "max-operations", Value: -1, Cause: cause}
	assert.Equal(t, "configuration error for max-operations (value: -1): must be positive", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, cause)
}
