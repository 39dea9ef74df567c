//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package schema infers bounded structural summaries from decoded command
// output. The summary is a closed tree of Node variants: every position in
// the inferred shape is exactly one of scalar, object, array or opaque, and
// both inference and rendering switch exhaustively over those kinds.
package schema

import "strings"

// Kind discriminates the Node variants.
type Kind int

// Node kinds.
const (
	KindScalar Kind = iota
	KindObject
	KindArray
	KindOpaque
)

// Opaque reasons.
const (
	ReasonMaxDepth    = "max-depth"
	ReasonUnparseable = "unparseable"
)

// Scalar type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// Field is one named member of an object node. Field order is first-seen
// order in the source document.
type Field struct {
	Name string
	Node *Node
}

// Node describes one position in the inferred shape of a document.
type Node struct {
	Kind Kind

	// Type is the scalar type name, possibly a union such as
	// "string|null" when sampled values disagree. Scalar nodes only.
	Type string

	// Fields holds object members in insertion order. Object nodes only.
	Fields []Field

	// Elem is the unioned element schema built from the sampled leading
	// elements. Nil for empty arrays. Array nodes only.
	Elem *Node
	// Sampled is how many elements were examined to build Elem.
	Sampled int
	// Length is the true element count regardless of sampling.
	Length int

	// Reason is the opaque cause, one of the Reason constants.
	// Opaque nodes only.
	Reason string
}

// Options bounds inference depth and array sampling.
type Options struct {
	// MaxDepth caps nesting: containers at this depth collapse to
	// Opaque(max-depth).
	MaxDepth int
	// SampleSize is how many leading array elements are examined.
	SampleSize int
}

// DefaultOptions returns the default inference bounds.
func DefaultOptions() Options {
	return Options{MaxDepth: 3, SampleSize: 1}
}

// normalize fills zero-valued bounds with defaults.
func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.MaxDepth <= 0 {
		o.MaxDepth = def.MaxDepth
	}
	if o.SampleSize <= 0 {
		o.SampleSize = def.SampleSize
	}
	return o
}

// scalar returns a scalar node for typeName.
func scalar(typeName string) *Node {
	return &Node{Kind: KindScalar, Type: typeName}
}

// opaque returns an opaque node for reason.
func opaque(reason string) *Node {
	return &Node{Kind: KindOpaque, Reason: reason}
}

// Unparseable returns the root node used when a buffer passed the sniffer's
// shallow probe but failed full decoding.
func Unparseable() *Node {
	return opaque(ReasonUnparseable)
}

// merge unions two sibling schemas observed for the same position, such as
// successive sampled elements of one array. No observed structure is
// dropped: object field sets union, scalar types union in first-seen order,
// and an opaque node absorbs whatever it meets.
func merge(a, b *Node) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Kind == KindOpaque {
		return a
	}
	if b.Kind == KindOpaque {
		return b
	}
	if a.Kind != b.Kind {
		return scalar(unionTypes(kindTypeName(a), kindTypeName(b)))
	}
	switch a.Kind {
	case KindScalar:
		return scalar(unionTypes(a.Type, b.Type))
	case KindObject:
		merged := &Node{Kind: KindObject, Fields: append([]Field(nil), a.Fields...)}
		for _, bf := range b.Fields {
			found := false
			for i, mf := range merged.Fields {
				if mf.Name == bf.Name {
					merged.Fields[i].Node = merge(mf.Node, bf.Node)
					found = true
					break
				}
			}
			if !found {
				merged.Fields = append(merged.Fields, bf)
			}
		}
		return merged
	case KindArray:
		return &Node{
			Kind:    KindArray,
			Elem:    merge(a.Elem, b.Elem),
			Sampled: a.Sampled,
			Length:  a.Length,
		}
	default:
		return a
	}
}

// kindTypeName names a node for use inside a scalar union when sampled
// elements disagree in kind.
func kindTypeName(n *Node) string {
	switch n.Kind {
	case KindScalar:
		return n.Type
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return n.Reason
	}
}

// unionTypes merges two union strings, keeping each distinct type name once
// in the order first observed.
func unionTypes(a, b string) string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range append(strings.Split(a, "|"), strings.Split(b, "|")...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return strings.Join(out, "|")
}
