//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

package schema

import (
	"sort"
	"strings"

	"github.com/clbanning/mxj"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// InferJSON infers the shape of a JSON document. The document is walked via
// gjson so that object fields keep their source order. Content is expected
// to have passed sniffing; an invalid document yields Opaque(unparseable).
func InferJSON(content []byte, opts Options) *Node {
	if !gjson.ValidBytes(content) {
		return Unparseable()
	}
	opts = opts.normalize()
	return inferJSONValue(gjson.ParseBytes(content), 0, opts)
}

func inferJSONValue(v gjson.Result, depth int, opts Options) *Node {
	switch {
	case v.IsObject():
		if depth >= opts.MaxDepth {
			return opaque(ReasonMaxDepth)
		}
		node := &Node{Kind: KindObject}
		v.ForEach(func(key, value gjson.Result) bool {
			node.Fields = append(node.Fields, Field{
				Name: key.String(),
				Node: inferJSONValue(value, depth+1, opts),
			})
			return true
		})
		return node
	case v.IsArray():
		if depth >= opts.MaxDepth {
			return opaque(ReasonMaxDepth)
		}
		elems := v.Array()
		return inferArray(len(elems), opts, func(i int) *Node {
			return inferJSONValue(elems[i], depth+1, opts)
		})
	default:
		return scalar(jsonScalarType(v))
	}
}

func jsonScalarType(v gjson.Result) string {
	switch v.Type {
	case gjson.Number:
		return TypeNumber
	case gjson.True, gjson.False:
		return TypeBoolean
	case gjson.Null:
		return TypeNull
	default:
		return TypeString
	}
}

// inferArray samples the first SampleSize elements of an n-element array
// and unions their schemas into the element schema.
func inferArray(n int, opts Options, elem func(int) *Node) *Node {
	sampled := n
	if sampled > opts.SampleSize {
		sampled = opts.SampleSize
	}
	node := &Node{Kind: KindArray, Sampled: sampled, Length: n}
	for i := 0; i < sampled; i++ {
		node.Elem = merge(node.Elem, elem(i))
	}
	return node
}

// InferYAML infers the shape of a YAML document. The yaml.v3 node API keeps
// mapping keys in source order. A buffer that fails to decode, or decodes
// to an empty document, yields Opaque(unparseable).
func InferYAML(content []byte, opts Options) *Node {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Unparseable()
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return Unparseable()
		}
		root = root.Content[0]
	}
	opts = opts.normalize()
	return inferYAMLNode(root, 0, opts)
}

func inferYAMLNode(n *yaml.Node, depth int, opts Options) *Node {
	switch n.Kind {
	case yaml.MappingNode:
		if depth >= opts.MaxDepth {
			return opaque(ReasonMaxDepth)
		}
		node := &Node{Kind: KindObject}
		for i := 0; i+1 < len(n.Content); i += 2 {
			node.Fields = append(node.Fields, Field{
				Name: n.Content[i].Value,
				Node: inferYAMLNode(n.Content[i+1], depth+1, opts),
			})
		}
		return node
	case yaml.SequenceNode:
		if depth >= opts.MaxDepth {
			return opaque(ReasonMaxDepth)
		}
		return inferArray(len(n.Content), opts, func(i int) *Node {
			return inferYAMLNode(n.Content[i], depth+1, opts)
		})
	case yaml.AliasNode:
		if n.Alias != nil {
			return inferYAMLNode(n.Alias, depth, opts)
		}
		return scalar(TypeString)
	case yaml.ScalarNode:
		return scalar(yamlScalarType(n.Tag))
	default:
		return opaque(ReasonUnparseable)
	}
}

func yamlScalarType(tag string) string {
	switch tag {
	case "!!int", "!!float":
		return TypeNumber
	case "!!bool":
		return TypeBoolean
	case "!!null":
		return TypeNull
	default:
		return TypeString
	}
}

// InferXML infers the tag hierarchy of an XML document: element names and
// attributes down to the depth limit, never text content. XML decoding is
// map-based, so fields are sorted (attributes first, then child tags) to
// keep rendering deterministic.
func InferXML(content []byte, opts Options) *Node {
	m, err := mxj.NewMapXml(content)
	if err != nil {
		return Unparseable()
	}
	opts = opts.normalize()
	return inferXMLValue(map[string]any(m), 0, opts)
}

const (
	xmlAttrPrefix = "-"
	xmlTextKey    = "#text"
)

func inferXMLValue(v any, depth int, opts Options) *Node {
	switch val := v.(type) {
	case map[string]any:
		if depth >= opts.MaxDepth {
			return opaque(ReasonMaxDepth)
		}
		node := &Node{Kind: KindObject}
		for _, key := range sortedXMLKeys(val) {
			name := key
			child := val[key]
			if strings.HasPrefix(key, xmlAttrPrefix) {
				name = "@" + strings.TrimPrefix(key, xmlAttrPrefix)
				child = nil // attributes contribute the name only
			}
			node.Fields = append(node.Fields, Field{
				Name: name,
				Node: inferXMLChild(child, depth+1, opts),
			})
		}
		if len(node.Fields) == 0 {
			// Element with nothing but text content.
			return scalar(TypeString)
		}
		return node
	case []any:
		if depth >= opts.MaxDepth {
			return opaque(ReasonMaxDepth)
		}
		return inferArray(len(val), opts, func(i int) *Node {
			return inferXMLValue(val[i], depth+1, opts)
		})
	default:
		return scalar(TypeString)
	}
}

func inferXMLChild(v any, depth int, opts Options) *Node {
	if v == nil {
		return scalar(TypeString)
	}
	return inferXMLValue(v, depth, opts)
}

// sortedXMLKeys returns map keys with attributes first, then child tags,
// each group alphabetical. The #text pseudo-key is dropped.
func sortedXMLKeys(m map[string]any) []string {
	var attrs, tags []string
	for k := range m {
		switch {
		case k == xmlTextKey:
		case strings.HasPrefix(k, xmlAttrPrefix):
			attrs = append(attrs, k)
		default:
			tags = append(tags, k)
		}
	}
	sort.Strings(attrs)
	sort.Strings(tags)
	return append(attrs, tags...)
}
