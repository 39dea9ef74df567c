//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"strconv"
	"strings"
)

const renderIndent = "  "

// Render turns a node tree into its canonical textual form: a JSON-like
// notation with two-space indentation where scalars appear as quoted type
// names, arrays show one bracketed representative element, and opaque nodes
// appear as literal placeholders. Rendering is pure; identical trees always
// produce identical strings.
func Render(n *Node) string {
	var sb strings.Builder
	renderNode(&sb, n, "")
	return sb.String()
}

func renderNode(sb *strings.Builder, n *Node, indent string) {
	if n == nil {
		sb.WriteString(strconv.Quote(ReasonUnparseable))
		return
	}
	switch n.Kind {
	case KindScalar:
		sb.WriteString(strconv.Quote(n.Type))
	case KindOpaque:
		if n.Reason == ReasonMaxDepth {
			sb.WriteString(`"..."`)
		} else {
			sb.WriteString(strconv.Quote(n.Reason))
		}
	case KindObject:
		if len(n.Fields) == 0 {
			sb.WriteString("{}")
			return
		}
		sb.WriteString("{\n")
		inner := indent + renderIndent
		for i, f := range n.Fields {
			sb.WriteString(inner)
			sb.WriteString(strconv.Quote(f.Name))
			sb.WriteString(": ")
			renderNode(sb, f.Node, inner)
			if i < len(n.Fields)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indent)
		sb.WriteString("}")
	case KindArray:
		if n.Elem == nil {
			sb.WriteString("[]")
			return
		}
		sb.WriteString("[\n")
		inner := indent + renderIndent
		sb.WriteString(inner)
		renderNode(sb, n.Elem, inner)
		sb.WriteString("\n")
		sb.WriteString(indent)
		sb.WriteString("]")
	}
}

// RenderCSV turns a CSV summary into its canonical textual form. Column
// order follows the header.
func RenderCSV(s *CSVSchema) string {
	var sb strings.Builder
	sb.WriteString("{\n")

	sb.WriteString(renderIndent)
	sb.WriteString(`"columns": `)
	renderStringList(&sb, s.Columns)
	sb.WriteString(",\n")

	sb.WriteString(renderIndent)
	sb.WriteString(`"column_types": {`)
	for i, col := range s.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(col))
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(s.Types[i]))
	}
	sb.WriteString("},\n")

	sb.WriteString(renderIndent)
	sb.WriteString(`"sample": [`)
	if len(s.Samples) > 0 {
		sb.WriteString("\n")
		inner := renderIndent + renderIndent
		for i, row := range s.Samples {
			sb.WriteString(inner)
			sb.WriteString("{")
			for j, col := range s.Columns {
				if j >= len(row) {
					break
				}
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(strconv.Quote(col))
				sb.WriteString(": ")
				sb.WriteString(strconv.Quote(row[j]))
			}
			sb.WriteString("}")
			if i < len(s.Samples)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(renderIndent)
	}
	sb.WriteString("]\n")

	sb.WriteString("}")
	return sb.String()
}

// renderStringList writes values as a compact JSON string array.
func renderStringList(sb *strings.Builder, values []string) {
	sb.WriteString("[")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Quote(v))
	}
	sb.WriteString("]")
}
