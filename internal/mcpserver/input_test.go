package mcpserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `openapi: "3.0.0"
info:
  title: Test
  version: "1.0"
paths: {}
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSpecInput_ResolveFile(t *testing.T) {
	specCache.reset()
	doc, err := specInput{File: writeTemp(t, "spec.yaml", minimalYAML)}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", doc.Version)
}

func TestSpecInput_ResolveContent(t *testing.T) {
	specCache.reset()
	doc, err := specInput{Content: minimalYAML}.resolve()
	require.NoError(t, err)
	assert.Equal(t, "3.0.0", doc.Version)
}

func TestSpecInput_ResolveExactlyOne(t *testing.T) {
	for _, in := range []specInput{{}, {File: "foo.yaml", Content: "bar"}} {
		_, err := in.resolve()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exactly one of file or content must be provided")
	}
}

func TestSpecInput_ResolveFileNotFound(t *testing.T) {
	specCache.reset()
	_, err := specInput{File: "/nonexistent/path.yaml"}.resolve()
	assert.Error(t, err)
}

func TestSpecInput_ResolveUndecodable(t *testing.T) {
	specCache.reset()
	_, err := specInput{Content: "{not json"}.resolve()
	assert.Error(t, err)
	assert.Zero(t, specCache.size())
}

func TestSpecInput_Source(t *testing.T) {
	assert.Equal(t, "api.yaml", specInput{File: "/specs/api.yaml"}.source())
	assert.Equal(t, "<content>", specInput{Content: "x"}.source())
}

func TestSpecCache_HitOnSameFile(t *testing.T) {
	specCache.reset()
	input := specInput{File: writeTemp(t, "spec.yaml", minimalYAML)}

	doc1, err := input.resolve()
	require.NoError(t, err)
	assert.Equal(t, 1, specCache.size())

	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, doc1, doc2, "expected same pointer from cache hit")
}

func TestSpecCache_MissOnModifiedFile(t *testing.T) {
	specCache.reset()
	path := writeTemp(t, "spec.yaml", minimalYAML)
	input := specInput{File: path}

	doc1, err := input.resolve()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`openapi: "3.1.0"
info:
  title: Test V2
  version: "2.0"
paths: {}
`), 0o600))
	// Ensure mtime differs from the first write on coarse-grained filesystems.
	future := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, future, future))

	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.NotSame(t, doc1, doc2)
	assert.Equal(t, "3.1.0", doc2.Version)
}

func TestSpecCache_ContentHash(t *testing.T) {
	specCache.reset()
	input := specInput{Content: minimalYAML}

	doc1, err := input.resolve()
	require.NoError(t, err)
	doc2, err := input.resolve()
	require.NoError(t, err)
	assert.Same(t, doc1, doc2)
}

func TestSpecCache_LRUEviction(t *testing.T) {
	specCache.reset()

	var firstKey string
	for i := range 11 {
		content := `openapi: "3.0.0"
info:
  title: "Spec ` + string(rune('A'+i)) + `"
  version: "1.0"
paths: {}
`
		if i == 0 {
			firstKey = makeCacheKey(specInput{Content: content})
		}
		_, err := specInput{Content: content}.resolve()
		require.NoError(t, err)
	}

	assert.Equal(t, 10, specCache.size())
	assert.Nil(t, specCache.get(firstKey), "expected oldest entry to be evicted")
}

func TestSpecCache_Sweep(t *testing.T) {
	specCache.reset()
	specCache.put("expired", nil, -time.Second)
	specCache.put("live", nil, time.Hour)
	specCache.sweep()
	assert.Equal(t, 1, specCache.size())
}
