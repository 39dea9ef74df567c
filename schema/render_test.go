//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGolden(t *testing.T) {
	content := []byte(`{"users":[{"id":1,"name":"Alice","email":"a@x.com"}],` +
		`"pagination":{"page":1,"total":1}}`)
	node := InferJSON(content, DefaultOptions())

	want := `{
  "users": [
    {
      "id": "number",
      "name": "string",
      "email": "string"
    }
  ],
  "pagination": {
    "page": "number",
    "total": "number"
  }
}`
	assert.Equal(t, want, Render(node))
}

func TestRenderIdempotent(t *testing.T) {
	node := InferJSON([]byte(`{"a":[1,2],"b":{"c":null}}`), DefaultOptions())
	first := Render(node)
	second := Render(node)
	assert.Equal(t, first, second)
}

func TestRenderOpaque(t *testing.T) {
	assert.Equal(t, `"..."`, Render(opaque(ReasonMaxDepth)))
	assert.Equal(t, `"unparseable"`, Render(Unparseable()))
	assert.Equal(t, `"unparseable"`, Render(nil))
}

func TestRenderEmptyContainers(t *testing.T) {
	assert.Equal(t, "{}", Render(&Node{Kind: KindObject}))
	assert.Equal(t, "[]", Render(&Node{Kind: KindArray}))
}

func TestRenderCSV(t *testing.T) {
	content := []byte("id,name\n1,Alice\n2,Bob\n")
	s, err := InferCSV(content, DefaultOptions())
	require.NoError(t, err)

	want := `{
  "columns": ["id", "name"],
  "column_types": {"id": "number", "name": "string"},
  "sample": [
    {"id": "1", "name": "Alice"},
    {"id": "2", "name": "Bob"}
  ]
}`
	assert.Equal(t, want, RenderCSV(s))
	assert.Equal(t, RenderCSV(s), RenderCSV(s))
}

func TestRenderDepthBound(t *testing.T) {
	node := InferJSON([]byte(`{"a":{"b":{"c":{"d":{"e":1}}}}}`), DefaultOptions())
	want := `{
  "a": {
    "b": {
      "c": "..."
    }
  }
}`
	assert.Equal(t, want, Render(node))
}
