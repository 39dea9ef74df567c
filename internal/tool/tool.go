//
// Copyright (C) 2025 skim authors.  All rights reserved.
//
// skim is licensed under the Apache License Version 2.0.
//
//

// Package tool provides internal utilities for tool schema generation.
package tool

import (
	"reflect"
	"strings"

	"github.com/tonyzdev/skim/tool"
)

// GenerateJSONSchema generates a basic JSON schema from a reflect.Type.
// Struct fields honor json tags for naming and omitempty, and a
// jsonschema:"description=..." tag for documentation.
func GenerateJSONSchema(t reflect.Type) *tool.Schema {
	if t == nil {
		return &tool.Schema{Type: "object"}
	}
	return generateSchema(t)
}

func generateSchema(t reflect.Type) *tool.Schema {
	switch t.Kind() {
	case reflect.Ptr:
		return generateSchema(t.Elem())
	case reflect.Struct:
		return generateStructSchema(t)
	case reflect.Slice, reflect.Array:
		return &tool.Schema{Type: "array", Items: generateSchema(t.Elem())}
	case reflect.Map:
		return &tool.Schema{Type: "object"}
	case reflect.String:
		return &tool.Schema{Type: "string"}
	case reflect.Bool:
		return &tool.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &tool.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &tool.Schema{Type: "number"}
	default:
		return &tool.Schema{}
	}
}

func generateStructSchema(t reflect.Type) *tool.Schema {
	schema := &tool.Schema{
		Type:       "object",
		Properties: map[string]*tool.Schema{},
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, omitEmpty, skip := parseJSONTag(field)
		if skip {
			continue
		}

		fieldSchema := generateSchema(field.Type)
		applyJSONSchemaTag(field.Tag.Get("jsonschema"), fieldSchema)
		schema.Properties[name] = fieldSchema

		if field.Type.Kind() != reflect.Ptr && !omitEmpty {
			schema.Required = append(schema.Required, name)
		}
	}
	return schema
}

// parseJSONTag resolves the field's wire name and omitempty flag.
func parseJSONTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	name = field.Name
	tag := field.Tag.Get("json")
	if tag == "-" {
		return "", false, true
	}
	if tag == "" {
		return name, false, false
	}
	parts := strings.Split(tag, ",")
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// applyJSONSchemaTag parses a jsonschema struct tag of the form
// "description=..." onto schema. The description runs to the end of the
// tag, so commas inside it survive.
func applyJSONSchemaTag(tag string, schema *tool.Schema) {
	if strings.HasPrefix(tag, "description=") {
		schema.Description = strings.TrimPrefix(tag, "description=")
	}
}
