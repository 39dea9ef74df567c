//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonyzdev/skim/sniff"
)

// largeJSON builds a users/pagination document padded past the
// threshold.
func largeJSON(t *testing.T) []byte {
	t.Helper()
	var users []string
	for i := 0; i < 40; i++ {
		users = append(users, fmt.Sprintf(
			`{"id":%d,"name":"Alice","email":"a%d@example.com"}`, i, i))
	}
	doc := fmt.Sprintf(`{"users":[%s],"pagination":{"page":1,"total":40}}`,
		strings.Join(users, ","))
	require.Greater(t, len(doc), DefaultConfig().Threshold)
	return []byte(doc)
}

func TestSummarizeInlineBelowThreshold(t *testing.T) {
	root := t.TempDir()
	p := New(root, DefaultConfig())
	content := []byte(`{"small": true}`)

	s, err := p.Summarize(context.Background(), content)
	require.NoError(t, err)
	assert.True(t, s.Inline)
	assert.Empty(t, s.ArtifactPath)
	assert.Equal(t, string(content), s.Content)
	assert.Equal(t, string(content), s.Text())
	assert.Equal(t, sniff.FormatJSON, s.Format)

	// Nothing was persisted.
	_, err = os.Stat(p.Store().Dir())
	assert.True(t, os.IsNotExist(err))
}

func TestSummarizeJSON(t *testing.T) {
	root := t.TempDir()
	p := New(root, DefaultConfig())
	content := largeJSON(t)

	s, err := p.Summarize(context.Background(), content)
	require.NoError(t, err)
	assert.False(t, s.Inline)
	assert.Equal(t, sniff.FormatJSON, s.Format)
	assert.Equal(t, 40, s.ItemCount)
	assert.Equal(t, "items", s.Unit)
	assert.Contains(t, s.Structure, `"id": "number"`)
	assert.Contains(t, s.Structure, `"email": "string"`)
	assert.NotEmpty(t, s.ArtifactPath)

	// The artifact holds the original bytes.
	got, err := os.ReadFile(filepath.Join(root, s.ArtifactPath))
	require.NoError(t, err)
	assert.Equal(t, content, got)

	text := s.Text()
	assert.Contains(t, text, "Saved: "+s.ArtifactPath)
	assert.Contains(t, text, "Structure (JSON):")
	assert.Contains(t, text, "Stats: ")
	assert.Contains(t, text, "skim_drill")

	// Rendering is pure.
	assert.Equal(t, text, s.Text())
}

func TestSummarizeCSV(t *testing.T) {
	root := t.TempDir()
	p := New(root, DefaultConfig())

	var sb strings.Builder
	sb.WriteString("id,name,age\n")
	for i := 0; i < 500; i++ {
		fmt.Fprintf(&sb, "%d,user%d,%d\n", i, i, 20+i%50)
	}
	s, err := p.Summarize(context.Background(), []byte(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, sniff.FormatCSV, s.Format)
	assert.Equal(t, 500, s.ItemCount)
	assert.Equal(t, "rows", s.Unit)
	assert.Contains(t, s.Structure, `"columns": ["id", "name", "age"]`)
	assert.Contains(t, s.Stats(), "500 rows | CSV")
}

func TestSummarizeText(t *testing.T) {
	root := t.TempDir()
	p := New(root, DefaultConfig())

	var sb strings.Builder
	for i := 1; i <= 200; i++ {
		fmt.Fprintf(&sb, "log line %d\n", i)
	}
	s, err := p.Summarize(context.Background(), []byte(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, sniff.FormatText, s.Format)
	assert.Equal(t, 200, s.ItemCount)
	assert.Equal(t, "lines", s.Unit)
	assert.Empty(t, s.Structure)
	assert.True(t, strings.HasPrefix(s.Preview, "log line 1\n"))
	assert.True(t, strings.HasSuffix(s.Preview, "\n..."))
	assert.Equal(t, DefaultConfig().PreviewLines, strings.Count(s.Preview, "\n"))
}

func TestSummarizeYAML(t *testing.T) {
	root := t.TempDir()
	p := New(root, DefaultConfig())

	var sb strings.Builder
	sb.WriteString("entries:\n")
	for i := 0; i < 100; i++ {
		fmt.Fprintf(&sb, "  - name: item%d\n    value: %d\n", i, i)
	}
	s, err := p.Summarize(context.Background(), []byte(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, sniff.FormatYAML, s.Format)
	assert.Equal(t, 100, s.ItemCount)
	assert.Contains(t, s.Structure, `"name": "string"`)
}

func TestSummarizeXML(t *testing.T) {
	root := t.TempDir()
	p := New(root, DefaultConfig())

	var sb strings.Builder
	sb.WriteString("<catalog>\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&sb, `  <book id="%d"><title>t</title></book>`+"\n", i)
	}
	sb.WriteString("</catalog>\n")
	s, err := p.Summarize(context.Background(), []byte(sb.String()))
	require.NoError(t, err)

	assert.Equal(t, sniff.FormatXML, s.Format)
	assert.Equal(t, "lines", s.Unit)
	assert.Contains(t, s.Structure, `"catalog"`)
}

func TestSummarizeObjectKeyCount(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Threshold = 10
	p := New(root, cfg)

	// A root object without any array-valued field counts its keys.
	content := fmt.Sprintf(`{"host":"localhost","port":8080,"debug":false,"pad":%q}`,
		strings.Repeat("x", 32))
	s, err := p.Summarize(context.Background(), []byte(content))
	require.NoError(t, err)
	assert.Equal(t, 4, s.ItemCount)
	assert.Equal(t, "keys", s.Unit)
	assert.Contains(t, s.Stats(), "4 keys | JSON")
}

func TestSummarizeThresholdGate(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Threshold = 10
	p := New(root, cfg)

	// Exactly at the threshold stays inline; one past it is persisted.
	s, err := p.Summarize(context.Background(), []byte("0123456789"))
	require.NoError(t, err)
	assert.True(t, s.Inline)

	s, err = p.Summarize(context.Background(), []byte("0123456789!"))
	require.NoError(t, err)
	assert.False(t, s.Inline)
	assert.NotEmpty(t, s.ArtifactPath)
}

func TestSummarizeCustomDepthAndSampling(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Threshold = 10
	cfg.MaxSchemaDepth = 1
	p := New(root, cfg)

	s, err := p.Summarize(context.Background(),
		[]byte(`{"deep":{"deeper":{"deepest":1}},"pad":"xxxxxxxxxxxxxxxx"}`))
	require.NoError(t, err)
	assert.Contains(t, s.Structure, `"deep": "..."`)
}

func TestSummarizeCustomTempDir(t *testing.T) {
	root := t.TempDir()
	cfg := DefaultConfig()
	cfg.Threshold = 10
	cfg.TempDir = ".custom-cache"
	p := New(root, cfg)

	s, err := p.Summarize(context.Background(), []byte(strings.Repeat("x", 64)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(s.ArtifactPath, ".custom-cache"))
}

func TestStatsFormatting(t *testing.T) {
	s := &Summary{Format: sniff.FormatCSV, ByteSize: 12595, ItemCount: 500, Unit: "rows"}
	assert.Equal(t, "12.3KB | 500 rows | CSV", s.Stats())

	s = &Summary{Format: sniff.FormatText, ByteSize: 512, ItemCount: 3, Unit: "lines"}
	assert.Equal(t, "512B | 3 lines | TEXT", s.Stats())

	s = &Summary{Format: sniff.FormatJSON, ByteSize: 3 << 20, ItemCount: 1, Unit: "items"}
	assert.Equal(t, "3.0MB | 1 items | JSON", s.Stats())
}

func TestHumanSize(t *testing.T) {
	assert.Equal(t, "0B", HumanSize(0))
	assert.Equal(t, "1023B", HumanSize(1023))
	assert.Equal(t, "1.0KB", HumanSize(1024))
	assert.Equal(t, "12.3KB", HumanSize(12595))
	assert.Equal(t, "2.0MB", HumanSize(2<<20))
}
