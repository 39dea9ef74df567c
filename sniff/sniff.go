//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package sniff classifies raw command output into one of the formats skim
// knows how to summarize. Classification is a pure, ordered predicate chain:
// every input maps to exactly one format, with text as the universal
// fallback, and no probe ever surfaces an error to the caller.
package sniff

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the detected content format of a buffer.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
	FormatXML  Format = "xml"
	FormatText Format = "text"
)

// Ext returns the file extension used for artifacts of this format.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// FromExt maps an artifact file extension back to its format.
// Unknown extensions map to text.
func FromExt(ext string) Format {
	switch strings.TrimPrefix(ext, ".") {
	case "json":
		return FormatJSON
	case "csv":
		return FormatCSV
	case "yaml", "yml":
		return FormatYAML
	case "xml":
		return FormatXML
	default:
		return FormatText
	}
}

// String returns the upper-case tag used in stats lines, e.g. "JSON".
func (f Format) String() string {
	return strings.ToUpper(string(f))
}

// sniffLines is the number of leading lines sampled by the CSV probe.
const sniffLines = 10

// Sniff classifies content. The probes run in a fixed order with explicit
// tie-breaks: JSON, then XML, then CSV, then YAML. YAML runs last among the
// structured formats because its grammar accepts nearly everything the
// earlier probes match.
func Sniff(content []byte) Format {
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) == 0 {
		return FormatText
	}

	if isJSON(trimmed) {
		return FormatJSON
	}
	if isXML(trimmed) {
		return FormatXML
	}
	if isCSV(trimmed) {
		return FormatCSV
	}
	if isYAML(trimmed) {
		return FormatYAML
	}
	return FormatText
}

// isJSON reports whether trimmed content is a complete JSON document.
// The cheap first-byte probe gates the full parse.
func isJSON(trimmed []byte) bool {
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return false
	}
	return json.Valid(trimmed)
}

// isXML reports whether trimmed content opens with an XML/HTML tag:
// '<' followed by a letter or '!' (declarations, doctypes, comments).
func isXML(trimmed []byte) bool {
	if trimmed[0] != '<' || len(trimmed) < 2 {
		return false
	}
	c := trimmed[1]
	return c == '!' || c == '?' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isCSV reports whether the first sampled lines split into the same nonzero
// number of fields on a single delimiter. The delimiter is whichever of
// comma and tab yields a consistent column count; comma wins ties.
func isCSV(trimmed []byte) bool {
	lines := sampleLines(trimmed, sniffLines)
	if len(lines) < 2 {
		return false
	}
	return consistentColumns(lines, ",") || consistentColumns(lines, "\t")
}

// consistentColumns reports whether every line yields the same field count
// (at least two fields, so the delimiter actually occurs) for delim.
func consistentColumns(lines []string, delim string) bool {
	want := strings.Count(lines[0], delim) + 1
	if want < 2 {
		return false
	}
	for _, line := range lines[1:] {
		if strings.Count(line, delim)+1 != want {
			return false
		}
	}
	return true
}

// isYAML reports whether content parses as a YAML document whose top level
// is a mapping or a sequence. Plain scalars are deliberately excluded:
// arbitrary prose is a valid YAML scalar.
func isYAML(trimmed []byte) bool {
	var doc any
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return false
	}
	switch doc.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

// sampleLines returns up to max non-empty leading lines of content.
func sampleLines(content []byte, max int) []string {
	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == max {
			break
		}
	}
	return lines
}
