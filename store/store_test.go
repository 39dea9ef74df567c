//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonyzdev/skim/sniff"
)

func TestSaveRoundTrip(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	data := []byte(`{"hello":"world"}`)

	art, err := s.Save(context.Background(), data, sniff.FormatJSON)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(art.Name, ".json"))
	assert.Equal(t, filepath.Join(DefaultDirName, art.Name), art.Path)
	assert.Equal(t, int64(len(data)), art.Size)

	// Resolving the generated name returns a path whose bytes match the
	// original buffer exactly.
	path, err := s.Resolve(art.Name)
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestSaveBootstrapsDirectory(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	_, err := s.Save(context.Background(), []byte("content"), sniff.FormatText)
	require.NoError(t, err)

	// README dropped in the cache dir.
	_, err = os.Stat(filepath.Join(s.Dir(), "README.md"))
	require.NoError(t, err)

	// Cache dir registered in .gitignore exactly once, even after more
	// saves.
	_, err = s.Save(context.Background(), []byte("more content"), sniff.FormatText)
	require.NoError(t, err)
	gi, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(gi), DefaultDirName))
}

func TestSaveAppendsToExistingGitignore(t *testing.T) {
	root := t.TempDir()
	existing := "node_modules/\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(existing), 0o644))

	s := New(root)
	_, err := s.Save(context.Background(), []byte("content"), sniff.FormatText)
	require.NoError(t, err)

	gi, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gi), "node_modules/")
	assert.Contains(t, string(gi), DefaultDirName+"/")
}

func TestArtifactName(t *testing.T) {
	ts := time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC)
	name := artifactName(ts, []byte("payload"), sniff.FormatCSV)
	assert.Regexp(t, `^20250314_150926_[0-9a-f]{12}\.csv$`, name)

	// Identical content at the identical second coincides on the name.
	assert.Equal(t, name, artifactName(ts, []byte("payload"), sniff.FormatCSV))
	// Distinct content does not.
	assert.NotEqual(t, name, artifactName(ts, []byte("other"), sniff.FormatCSV))
}

func TestResolveFragment(t *testing.T) {
	root := t.TempDir()
	s := New(root)

	art, err := s.Save(context.Background(), []byte(`{"a":1}`), sniff.FormatJSON)
	require.NoError(t, err)

	// The hash fragment alone is unambiguous.
	fragment := strings.TrimSuffix(art.Name, ".json")
	fragment = fragment[strings.LastIndex(fragment, "_")+1:]
	path, err := s.Resolve(fragment)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), art.Name), path)

	// Paths including the cache directory resolve too.
	path, err = s.Resolve(art.Path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.Dir(), art.Name), path)
}

func TestResolveNotFound(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Resolve("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve("")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAmbiguous(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()

	_, err := s.Save(ctx, []byte("first payload"), sniff.FormatText)
	require.NoError(t, err)
	_, err = s.Save(ctx, []byte("second payload"), sniff.FormatText)
	require.NoError(t, err)

	// Both names share the ".txt" suffix fragment.
	_, err = s.Resolve("txt")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestListNewestFirst(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()

	a, err := s.Save(ctx, []byte("json payload a"), sniff.FormatJSON)
	require.NoError(t, err)
	b, err := s.Save(ctx, []byte("text payload b"), sniff.FormatText)
	require.NoError(t, err)

	// Age the first artifact so ordering does not depend on sub-second
	// timestamp resolution.
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), a.Name), old, old))

	entries, err := s.List("")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, b.Name, entries[0].Name)
	assert.Equal(t, a.Name, entries[1].Name)
	assert.Equal(t, sniff.FormatJSON, entries[1].Format)

	// Glob filter.
	entries, err = s.List("*.json")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, a.Name, entries[0].Name)
}

func TestListMissingDir(t *testing.T) {
	s := New(t.TempDir())
	entries, err := s.List("")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEvict(t *testing.T) {
	root := t.TempDir()
	s := New(root)
	ctx := context.Background()

	old, err := s.Save(ctx, []byte("old payload"), sniff.FormatText)
	require.NoError(t, err)
	fresh, err := s.Save(ctx, []byte("fresh payload"), sniff.FormatText)
	require.NoError(t, err)

	aged := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(s.Dir(), old.Name), aged, aged))

	removed, err := s.Evict(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = s.Resolve(old.Name)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Resolve(fresh.Name)
	assert.NoError(t, err)

	// README survives a full eviction.
	removed, err = s.Evict(0)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	_, err = os.Stat(filepath.Join(s.Dir(), "README.md"))
	assert.NoError(t, err)
}

func TestEvictEmptyDir(t *testing.T) {
	s := New(t.TempDir())
	removed, err := s.Evict(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
