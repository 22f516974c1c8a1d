// internal/oas/parse.go
package oas

import (
	"fmt"
	"os"

	"sigs.k8s.io/yaml"
)

// Parse decodes an OpenAPI 3.x document from YAML or JSON. JSON documents
// parse through the same path since JSON is a YAML subset.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.OpenAPI == "" {
		if doc.Swagger != "" {
			return nil, fmt.Errorf("swagger %s documents are not supported, convert to OpenAPI 3.x", doc.Swagger)
		}
		return nil, fmt.Errorf("document is missing the openapi version field")
	}
	if len(doc.Paths) == 0 {
		return nil, fmt.Errorf("document declares no paths")
	}
	doc.index()
	return &doc, nil
}

// ParseFile reads and decodes an OpenAPI document file.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}
