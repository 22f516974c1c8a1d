// internal/assertion/assertion.go

// Package assertion builds the Postman test script fragments the generator
// injects into collection requests. Builders return script lines only,
// appending them to an item is the caller's job.
package assertion

import (
	"strings"
)

// PreambleMarker is the first line of the response capture preamble. It is
// used to detect an already injected preamble so a script gets at most one.
const PreambleMarker = "// Set response object as internal variable"

// JSONPreamble captures the parsed response body into the jsonData variable
// used by content checks and variable assignments.
func JSONPreamble() []string {
	return []string{
		PreambleMarker,
		"let jsonData = {};",
		"try {jsonData = pm.response.json();}catch(e){}",
	}
}

// escapeJS makes a string safe for embedding inside a double quoted JS
// string literal.
func escapeJS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// jsonPath joins a dotted property path onto the jsonData root. An empty
// path addresses the whole body.
func jsonPath(prop string) string {
	if prop == "" {
		return "jsonData"
	}
	if strings.HasPrefix(prop, "[") {
		return "jsonData" + prop
	}
	return "jsonData." + prop
}

// sanitizeIdent turns a variable name into a valid JS identifier for the
// local capture variable.
func sanitizeIdent(name string) string {
	var b strings.Builder
	for i, r := range name {
		valid := r == '_' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if valid {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_value"
	}
	return b.String()
}
