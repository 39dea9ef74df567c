//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"fmt"
	"strings"

	"github.com/tonyzdev/skim/sniff"
)

// Summary is the externally visible result of one summarization. It is
// produced fresh on every call and never persisted; only the artifact is.
type Summary struct {
	// Format is the sniffed format tag.
	Format sniff.Format
	// Structure is the rendered schema. Empty for inline and plain-text
	// results.
	Structure string
	// Preview holds the head lines shown for plain text instead of a
	// schema.
	Preview string
	// ByteSize is the raw output size in bytes.
	ByteSize int
	// ItemCount is the array length, row count or line count, per Unit.
	ItemCount int
	// Unit names what ItemCount counts: items, keys, rows or lines.
	Unit string
	// ArtifactPath is the stored artifact relative to the project root.
	// Empty when the output was returned inline.
	ArtifactPath string
	// Inline reports that the output was below the threshold and Content
	// carries it unchanged.
	Inline bool
	// Content is the unmodified output, inline results only.
	Content string
	// Hint suggests drill-down syntax appropriate to Format.
	Hint string
}

// Stats renders the one-line statistics summary, e.g.
// "12.3KB | 500 rows | CSV".
func (s *Summary) Stats() string {
	return fmt.Sprintf("%s | %d %s | %s",
		HumanSize(int64(s.ByteSize)), s.ItemCount, s.Unit, s.Format)
}

// Text renders the canonical agent-facing message. Inline results pass the
// original content through unchanged; summarized results show the artifact
// path, the structure or preview, statistics and the drill hint. Identical
// summaries always render to the identical string.
func (s *Summary) Text() string {
	if s.Inline {
		return s.Content
	}

	var parts []string
	parts = append(parts, "Saved: "+s.ArtifactPath, "")
	if s.Structure != "" {
		parts = append(parts,
			fmt.Sprintf("Structure (%s):", s.Format), s.Structure, "")
	} else {
		parts = append(parts, "Preview:", s.Preview, "")
	}
	parts = append(parts, "Stats: "+s.Stats(), "", s.Hint)
	return strings.Join(parts, "\n")
}

// HumanSize renders a byte count as B, KB or MB.
func HumanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%dB", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(n)/(1024*1024))
	}
}
