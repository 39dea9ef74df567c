//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

// csvSampleRows is how many literal data rows are carried into the summary
// and used to infer per-column types.
const csvSampleRows = 3

// csvValueLimit truncates sampled cell values so a wide row cannot bloat
// the summary.
const csvValueLimit = 20

// CSVSchema is the structural summary of a delimited document: header
// columns, a scalar type per column inferred from the sampled rows, the
// sampled rows verbatim, and the true data row count.
type CSVSchema struct {
	Columns []string
	Types   []string
	Samples [][]string
	Rows    int
}

// InferCSV parses a delimited buffer and summarizes it. The delimiter is
// re-detected the same way the sniffer chooses it: comma unless tabs give
// the header its columns.
func InferCSV(content []byte, opts Options) (*CSVSchema, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = detectDelimiter(content)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parsing csv: empty document")
	}

	out := &CSVSchema{Rows: len(records) - 1}
	for _, h := range records[0] {
		out.Columns = append(out.Columns, strings.TrimSpace(h))
	}

	sampled := records[1:]
	if len(sampled) > csvSampleRows {
		sampled = sampled[:csvSampleRows]
	}
	for _, row := range sampled {
		sample := make([]string, len(row))
		for i, v := range row {
			sample[i] = truncateValue(strings.TrimSpace(v))
		}
		out.Samples = append(out.Samples, sample)
	}

	out.Types = make([]string, len(out.Columns))
	for col := range out.Columns {
		for _, row := range sampled {
			if col >= len(row) {
				continue
			}
			t := csvScalarType(strings.TrimSpace(row[col]))
			out.Types[col] = unionTypes(out.Types[col], t)
		}
		if out.Types[col] == "" {
			out.Types[col] = TypeString
		}
	}
	return out, nil
}

// detectDelimiter picks comma or tab for content, comma winning ties,
// mirroring the sniffer's choice.
func detectDelimiter(content []byte) rune {
	header := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		header = content[:i]
	}
	if bytes.Count(header, []byte{','}) == 0 &&
		bytes.Count(header, []byte{'\t'}) > 0 {
		return '\t'
	}
	return ','
}

func csvScalarType(v string) string {
	if v == "" {
		return TypeNull
	}
	if _, err := strconv.ParseFloat(v, 64); err == nil {
		return TypeNumber
	}
	switch strings.ToLower(v) {
	case "true", "false":
		return TypeBoolean
	}
	return TypeString
}

func truncateValue(v string) string {
	if len(v) <= csvValueLimit {
		return v
	}
	return v[:csvValueLimit] + "..."
}
