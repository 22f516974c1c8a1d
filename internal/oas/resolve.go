// internal/oas/resolve.go
package oas

import "strings"

const schemaRefPrefix = "#/components/schemas/"

// ResolveSchema returns a copy of schema with local component references
// expanded in place of their "$ref" nodes. Unresolvable or cyclic
// references are left untouched so callers can decide to skip them.
func (d *Document) ResolveSchema(schema map[string]interface{}) map[string]interface{} {
	if schema == nil {
		return nil
	}
	resolved, ok := d.resolveNode(schema, map[string]bool{}).(map[string]interface{})
	if !ok {
		return schema
	}
	return resolved
}

func (d *Document) resolveNode(node interface{}, seen map[string]bool) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		if ref, ok := v["$ref"].(string); ok {
			if seen[ref] {
				return v
			}
			target := d.lookupSchemaRef(ref)
			if target == nil {
				return v
			}
			seen[ref] = true
			resolved := d.resolveNode(target, seen)
			delete(seen, ref)
			return resolved
		}
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[k] = d.resolveNode(val, seen)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = d.resolveNode(val, seen)
		}
		return out
	default:
		return node
	}
}

func (d *Document) lookupSchemaRef(ref string) map[string]interface{} {
	if d.Components == nil || !strings.HasPrefix(ref, schemaRefPrefix) {
		return nil
	}
	name := strings.TrimPrefix(ref, schemaRefPrefix)
	schema, ok := d.Components.Schemas[name]
	if !ok {
		return nil
	}
	return schema
}
