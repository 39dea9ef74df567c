//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package store persists large command outputs as named artifacts and
// resolves names (or fragments of names) back to files. The Store owns all
// filesystem mutation under its cache directory; every other component only
// ever receives Artifact handles or resolved paths.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/tonyzdev/skim/log"
	"github.com/tonyzdev/skim/sniff"
)

// DefaultDirName is the cache directory created under the project root.
const DefaultDirName = ".skim-cache"

// hashLen is the number of hex digits of the content digest kept in
// artifact names. 48 bits of sha256 keeps same-second collisions of
// distinct content practically negligible while names stay short.
const hashLen = 12

// readmeName is the marker file dropped into the cache directory; it is
// never listed, resolved or evicted.
const readmeName = "README.md"

const readmeContent = `# skim cache

This directory stores large command outputs captured by skim.

- Files may be cleaned up at any time
- Do NOT store important data here
- Automatically added to .gitignore

Use skim_list to view files, skim_clean to clean up.
`

// Sentinel errors surfaced by Resolve.
var (
	// ErrNotFound means no stored artifact matches the reference.
	ErrNotFound = errors.New("artifact not found")
	// ErrAmbiguous means a fragment matches more than one artifact.
	ErrAmbiguous = errors.New("ambiguous artifact reference")
)

// Artifact is the metadata handle for one persisted output.
type Artifact struct {
	// Name is the bare filename, {YYYYMMDD_HHMMSS}_{hash}.{ext}.
	Name string
	// Path is the location relative to the project root, suitable for
	// echoing back to the calling agent.
	Path string
	// Size is the artifact byte size.
	Size int64
	// CreatedAt is the file modification time.
	CreatedAt time.Time
	// Format is the sniffed format the artifact was saved under.
	Format sniff.Format
}

// Store names, writes, resolves and evicts artifacts under a single cache
// directory.
type Store struct {
	root    string // project root, absolute or relative
	dirName string // cache directory name under root

	bootstrapOnce sync.Once
	bootstrapErr  error
}

// Option configures a Store.
type Option func(*Store)

// WithDirName overrides the cache directory name.
func WithDirName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.dirName = name
		}
	}
}

// New creates a Store rooted at projectRoot. Nothing is created on disk
// until the first Save.
func New(projectRoot string, opts ...Option) *Store {
	s := &Store{root: projectRoot, dirName: DefaultDirName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the absolute cache directory path.
func (s *Store) Dir() string {
	return filepath.Join(s.root, s.dirName)
}

// Save persists data under a generated name and returns its handle. The
// write is atomic: data lands in a temporary file in the cache directory
// and is renamed into place, so a concurrent reader never observes a
// partial artifact. Two saves of identical content within the same second
// coincide on the same name; the rename then degenerates to an overwrite
// with identical bytes, which is harmless.
func (s *Store) Save(ctx context.Context, data []byte, format sniff.Format) (*Artifact, error) {
	if err := s.bootstrap(); err != nil {
		return nil, err
	}

	name := artifactName(time.Now(), data, format)
	target := filepath.Join(s.Dir(), name)

	tmp, err := os.CreateTemp(s.Dir(), name+".tmp*")
	if err != nil {
		return nil, fmt.Errorf("creating temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return nil, fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("publishing artifact: %w", err)
	}

	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stating artifact: %w", err)
	}
	log.Debugf("saved artifact %s (%d bytes, %s)", name, info.Size(), format)
	return &Artifact{
		Name:      name,
		Path:      filepath.Join(s.dirName, name),
		Size:      info.Size(),
		CreatedAt: info.ModTime(),
		Format:    format,
	}, nil
}

// Resolve maps an artifact name, relative path, or unique name fragment to
// an absolute file path. Exact names win; otherwise a fragment must match
// exactly one stored artifact.
func (s *Store) Resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty reference", ErrNotFound)
	}
	// Accept both bare names and paths that include the cache directory.
	ref = filepath.Base(ref)

	exact := filepath.Join(s.Dir(), ref)
	if info, err := os.Stat(exact); err == nil && !info.IsDir() && ref != readmeName {
		return exact, nil
	}

	entries, err := s.entries()
	if err != nil {
		return "", err
	}
	var matches []string
	for _, e := range entries {
		if strings.Contains(e.Name, ref) {
			matches = append(matches, e.Name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %q", ErrNotFound, ref)
	case 1:
		return filepath.Join(s.Dir(), matches[0]), nil
	default:
		return "", fmt.Errorf("%w: %q matches %s",
			ErrAmbiguous, ref, strings.Join(matches, ", "))
	}
}

// List returns artifact metadata, newest first. A non-empty pattern filters
// names with doublestar glob matching.
func (s *Store) List(pattern string) ([]*Artifact, error) {
	entries, err := s.entries()
	if err != nil {
		return nil, err
	}
	if pattern != "" {
		filtered := entries[:0]
		for _, e := range entries {
			ok, err := doublestar.Match(pattern, e.Name)
			if err != nil {
				return nil, fmt.Errorf("bad list pattern %q: %w", pattern, err)
			}
			if ok {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Evict deletes artifacts whose modification time predates now-olderThan
// and returns how many were removed. An olderThan of zero removes
// everything. A missing or empty cache directory is not an error.
func (s *Store) Evict(olderThan time.Duration) (int, error) {
	entries, err := s.entries()
	if err != nil {
		return 0, err
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir(), e.Name)); err != nil {
			if os.IsNotExist(err) {
				continue // lost a race with a concurrent eviction
			}
			return removed, fmt.Errorf("evicting %s: %w", e.Name, err)
		}
		removed++
	}
	if removed > 0 {
		log.Infof("evicted %d artifact(s) older than %s", removed, olderThan)
	}
	return removed, nil
}

// entries reads artifact metadata from the cache directory. A missing
// directory yields an empty slice.
func (s *Store) entries() ([]*Artifact, error) {
	dirEntries, err := os.ReadDir(s.Dir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var out []*Artifact
	for _, de := range dirEntries {
		if de.IsDir() || de.Name() == readmeName {
			continue
		}
		if strings.Contains(de.Name(), ".tmp") {
			continue // in-flight write
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		out = append(out, &Artifact{
			Name:      de.Name(),
			Path:      filepath.Join(s.dirName, de.Name()),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
			Format:    sniff.FromExt(filepath.Ext(de.Name())),
		})
	}
	return out, nil
}

// bootstrap creates the cache directory, drops the README and registers the
// directory in the project's .gitignore. It runs at most once per Store and
// every step is idempotent across processes.
func (s *Store) bootstrap() error {
	s.bootstrapOnce.Do(func() {
		if err := os.MkdirAll(s.Dir(), 0o755); err != nil {
			s.bootstrapErr = fmt.Errorf("creating cache directory: %w", err)
			return
		}
		readme := filepath.Join(s.Dir(), readmeName)
		if _, err := os.Stat(readme); os.IsNotExist(err) {
			if err := os.WriteFile(readme, []byte(readmeContent), 0o644); err != nil {
				log.Warnf("writing cache README: %v", err)
			}
		}
		if err := s.registerGitignore(); err != nil {
			log.Warnf("registering %s in .gitignore: %v", s.dirName, err)
		}
	})
	return s.bootstrapErr
}

// registerGitignore appends the cache directory to the project .gitignore
// exactly once.
func (s *Store) registerGitignore() error {
	path := filepath.Join(s.root, ".gitignore")
	entry := fmt.Sprintf("\n# skim cache\n%s/\n", s.dirName)

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		return os.WriteFile(path, []byte(entry), 0o644)
	}
	if strings.Contains(string(content), s.dirName) {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(entry)
	return err
}

// artifactName builds {YYYYMMDD_HHMMSS}_{hash}.{ext} for data saved at ts.
func artifactName(ts time.Time, data []byte, format sniff.Format) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s_%s.%s",
		ts.Format("20060102_150405"),
		hex.EncodeToString(sum[:])[:hashLen],
		format.Ext(),
	)
}
