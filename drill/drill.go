//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package drill extracts sub-views from stored artifacts. JSON and YAML
// artifacts take a jq-style path such as ".users[0].name", delimited
// artifacts take row ranges and column projections, and plain text takes
// line ranges. Path evaluation itself is delegated to gjson; this package
// only validates the artifact's format and normalizes the query onto it.
package drill

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/tonyzdev/skim/internal/telemetry"
	"github.com/tonyzdev/skim/sniff"
	"github.com/tonyzdev/skim/store"
)

// Preview bounds applied when no query is given.
const (
	previewLines = 50
	previewChars = 2000
)

// Drill resolves ref against the store and returns the sub-view selected by
// query. An empty query returns a bounded preview of the artifact. A
// malformed query is surfaced with the query echoed back; it never panics.
func Drill(ctx context.Context, st *store.Store, ref, query string) (string, error) {
	_, span := telemetry.StartSpan(ctx, telemetry.OperationDrill,
		telemetry.KeyArtifact.String(ref),
		telemetry.KeyQuery.String(query),
	)
	out, err := drill(st, ref, query)
	telemetry.EndSpan(span, err)
	return out, err
}

func drill(st *store.Store, ref, query string) (string, error) {
	path, err := st.Resolve(ref)
	if err != nil {
		return "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading artifact: %w", err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return preview(string(content)), nil
	}

	switch sniff.FromExt(filepath.Ext(path)) {
	case sniff.FormatJSON:
		return drillJSON(content, query)
	case sniff.FormatYAML:
		jsonContent, err := yamlToJSON(content)
		if err != nil {
			return "", fmt.Errorf("decoding yaml artifact: %w", err)
		}
		return drillJSON(jsonContent, query)
	case sniff.FormatCSV:
		return drillCSV(string(content), query)
	default:
		return drillLines(string(content), query)
	}
}

// sliceQuery matches a trailing "[:N]" slice on a path segment.
var sliceQuery = regexp.MustCompile(`^\[:(\d+)\]$`)

// drillJSON evaluates a jq-style path against a JSON document. The path is
// normalized onto gjson syntax; a trailing [:N] slice truncates an array
// result.
func drillJSON(content []byte, query string) (string, error) {
	path, sliceN, err := normalizePath(query)
	if err != nil {
		return "", err
	}

	result := gjson.ParseBytes(content)
	if path != "" {
		path, err = resolveNegativeIndices(result, path)
		if err != nil {
			return "", fmt.Errorf("query %q: %w", query, err)
		}
		result = result.Get(path)
	}
	if !result.Exists() {
		return "", fmt.Errorf("query %q matched nothing", query)
	}

	var decoded any
	if err := json.Unmarshal([]byte(result.Raw), &decoded); err != nil {
		return "", fmt.Errorf("query %q: decoding result: %w", query, err)
	}
	if sliceN >= 0 {
		arr, ok := decoded.([]any)
		if !ok {
			return "", fmt.Errorf("query %q: slice applied to non-array", query)
		}
		if sliceN < len(arr) {
			arr = arr[:sliceN]
		}
		decoded = arr
	}

	pretty, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return "", fmt.Errorf("query %q: encoding result: %w", query, err)
	}
	return string(pretty), nil
}

// normalizePath rewrites ".users[0].name" into gjson's "users.0.name". A
// trailing "[:N]" slice is split off and returned separately (gjson has no
// slice syntax); sliceN is -1 when absent.
func normalizePath(query string) (path string, sliceN int, err error) {
	sliceN = -1
	q := strings.TrimPrefix(query, ".")
	if q == "" {
		return "", sliceN, nil
	}

	var parts []string
	for _, segment := range strings.Split(q, ".") {
		for {
			open := strings.Index(segment, "[")
			if open < 0 {
				if segment != "" {
					parts = append(parts, segment)
				}
				break
			}
			if open > 0 {
				parts = append(parts, segment[:open])
			}
			end := strings.Index(segment, "]")
			if end < open {
				return "", -1, fmt.Errorf("query %q: unbalanced brackets", query)
			}
			idx := segment[open : end+1]
			if m := sliceQuery.FindStringSubmatch(idx); m != nil {
				n, _ := strconv.Atoi(m[1])
				sliceN = n
			} else {
				inner := idx[1 : len(idx)-1]
				if _, err := strconv.Atoi(inner); err != nil {
					return "", -1, fmt.Errorf("query %q: bad index %q", query, idx)
				}
				parts = append(parts, inner)
			}
			segment = segment[end+1:]
		}
	}
	return strings.Join(parts, "."), sliceN, nil
}

// resolveNegativeIndices rewrites negative array indices in a normalized
// path into positive ones against doc, so ".users[-1]" addresses the last
// element. gjson itself has no negative indexing.
func resolveNegativeIndices(doc gjson.Result, path string) (string, error) {
	if !strings.Contains(path, "-") {
		return path, nil
	}
	parts := strings.Split(path, ".")
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n >= 0 {
			continue
		}
		arr := doc
		if i > 0 {
			arr = doc.Get(strings.Join(parts[:i], "."))
		}
		if !arr.IsArray() {
			return "", fmt.Errorf("index %d applied to non-array", n)
		}
		idx := len(arr.Array()) + n
		if idx < 0 {
			return "", fmt.Errorf("index %d out of range", n)
		}
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "."), nil
}

// yamlToJSON re-encodes a YAML document as JSON so the same path engine
// serves both formats.
func yamlToJSON(content []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(doc))
}

// normalizeYAML rewrites map[any]any trees (possible with older documents)
// into map[string]any so they marshal as JSON.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = normalizeYAML(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[fmt.Sprint(k)] = normalizeYAML(child)
		}
		return out
	case []any:
		for i, child := range val {
			val[i] = normalizeYAML(child)
		}
		return val
	default:
		return v
	}
}

// drillCSV selects rows and/or columns from a delimited artifact. Supported
// queries: "cols:a,b" (column projection), "N-M", "head:N", "tail:N" (data
// row ranges, header always included), and "cols:..;N-M" combinations.
func drillCSV(content, query string) (string, error) {
	lines := splitLines(content)
	if len(lines) == 0 {
		return "", fmt.Errorf("query %q: empty artifact", query)
	}
	header, rows := lines[0], lines[1:]

	var cols []string
	for _, part := range strings.Split(query, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "cols:") {
			for _, c := range strings.Split(strings.TrimPrefix(part, "cols:"), ",") {
				cols = append(cols, strings.TrimSpace(c))
			}
			continue
		}
		selected, err := selectLines(rows, part)
		if err != nil {
			return "", err
		}
		rows = selected
	}

	out := append([]string{header}, rows...)
	if len(cols) > 0 {
		projected, err := projectColumns(out, cols)
		if err != nil {
			return "", fmt.Errorf("query %q: %w", query, err)
		}
		out = projected
	}
	return strings.Join(out, "\n"), nil
}

// projectColumns keeps only the named header columns in each row.
func projectColumns(lines []string, cols []string) ([]string, error) {
	header := strings.Split(lines[0], ",")
	var keep []int
	for _, want := range cols {
		found := -1
		for i, h := range header {
			if strings.TrimSpace(h) == want {
				found = i
				break
			}
		}
		if found < 0 {
			return nil, fmt.Errorf("unknown column %q", want)
		}
		keep = append(keep, found)
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		fields := strings.Split(line, ",")
		var row []string
		for _, i := range keep {
			if i < len(fields) {
				row = append(row, fields[i])
			} else {
				row = append(row, "")
			}
		}
		out = append(out, strings.Join(row, ","))
	}
	return out, nil
}

// drillLines selects a line range from a text artifact: "head:N", "tail:N"
// or "N-M" (1-based, inclusive).
func drillLines(content, query string) (string, error) {
	selected, err := selectLines(splitLines(content), query)
	if err != nil {
		return "", err
	}
	return strings.Join(selected, "\n"), nil
}

func selectLines(lines []string, query string) ([]string, error) {
	switch {
	case strings.HasPrefix(query, "head:"):
		n, err := strconv.Atoi(strings.TrimPrefix(query, "head:"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("query %q: bad head count", query)
		}
		if n < len(lines) {
			lines = lines[:n]
		}
		return lines, nil
	case strings.HasPrefix(query, "tail:"):
		n, err := strconv.Atoi(strings.TrimPrefix(query, "tail:"))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("query %q: bad tail count", query)
		}
		if n < len(lines) {
			lines = lines[len(lines)-n:]
		}
		return lines, nil
	default:
		start, end, ok := parseRange(query)
		if !ok {
			return nil, fmt.Errorf("query %q: expected head:N, tail:N or N-M", query)
		}
		if start < 1 {
			start = 1
		}
		if end > len(lines) {
			end = len(lines)
		}
		if start > end {
			return []string{}, nil
		}
		return lines[start-1 : end], nil
	}
}

func parseRange(query string) (start, end int, ok bool) {
	parts := strings.SplitN(query, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	end, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}

// preview returns the head of an artifact: up to previewLines lines capped
// at previewChars characters.
func preview(content string) string {
	lines := splitLines(content)
	truncated := false
	if len(lines) > previewLines {
		lines = lines[:previewLines]
		truncated = true
	}
	out := strings.Join(lines, "\n")
	if len(out) > previewChars {
		out = out[:previewChars]
		truncated = true
	}
	if truncated {
		out += "\n...[truncated]"
	}
	return out
}

func splitLines(content string) []string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}
