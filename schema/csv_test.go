//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferCSV(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("id,name,age\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "%d,user%d,%d\n", i, i, 20+i%50)
	}

	s, err := InferCSV([]byte(sb.String()), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "age"}, s.Columns)
	assert.Equal(t, []string{TypeNumber, TypeString, TypeNumber}, s.Types)
	assert.Equal(t, 500, s.Rows)
	require.Len(t, s.Samples, 3)
	assert.Equal(t, []string{"0", "user0", "20"}, s.Samples[0])
}

func TestInferCSVTabDelimited(t *testing.T) {
	content := []byte("id\tname\n1\tAlice\n2\tBob\n")
	s, err := InferCSV(content, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name"}, s.Columns)
	assert.Equal(t, 2, s.Rows)
}

func TestInferCSVValueTruncation(t *testing.T) {
	long := strings.Repeat("x", 50)
	content := []byte("col\n" + long + "\n")
	s, err := InferCSV(content, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("x", 20)+"...", s.Samples[0][0])
}

func TestInferCSVColumnTypeUnion(t *testing.T) {
	content := []byte("v,w\n1,a\nhello,b\n,c\n")
	s, err := InferCSV(content, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "number|string|null", s.Types[0])
	assert.Equal(t, TypeString, s.Types[1])
}

func TestInferCSVBooleanColumn(t *testing.T) {
	content := []byte("active\ntrue\nfalse\nTRUE\n")
	s, err := InferCSV(content, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{TypeBoolean}, s.Types)
}
