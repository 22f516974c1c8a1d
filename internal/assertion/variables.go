// internal/assertion/variables.go
package assertion

import (
	"fmt"
)

// AssignBodyVariable captures a response body property into a collection
// variable. The capture is guarded so an absent property leaves the variable
// untouched instead of setting "undefined".
func AssignBodyVariable(label, prop, variable string) []string {
	local := sanitizeIdent(variable)
	return []string{
		fmt.Sprintf("// pm.collectionVariables - Set %s as variable for %s", variable, jsonPath(prop)),
		fmt.Sprintf("let %s = %s;", local, optionalChain(prop)),
		fmt.Sprintf("if (%s !== undefined) {", local),
		fmt.Sprintf(`   pm.collectionVariables.set("%s", %s);`, escapeJS(variable), local),
		fmt.Sprintf(`   console.log("- %s: use {{%s}} as collection variable for value", %s);`, escapeJS(label), escapeJS(variable), local),
		"}",
	}
}

// AssignHeaderVariable captures a response header value into a collection
// variable.
func AssignHeaderVariable(label, header, variable string) []string {
	local := sanitizeIdent(variable)
	return []string{
		fmt.Sprintf("// pm.collectionVariables - Set %s as variable for header %s", variable, header),
		fmt.Sprintf(`let %s = pm.response.headers.get("%s");`, local, escapeJS(header)),
		fmt.Sprintf("if (%s !== undefined && %s !== null) {", local, local),
		fmt.Sprintf(`   pm.collectionVariables.set("%s", %s);`, escapeJS(variable), local),
		fmt.Sprintf(`   console.log("- %s: use {{%s}} as collection variable for value", %s);`, escapeJS(label), escapeJS(variable), local),
		"}",
	}
}

// optionalChain renders a dotted property path as an optional chain so a
// missing intermediate object yields undefined instead of a script error.
func optionalChain(prop string) string {
	if prop == "" {
		return "jsonData"
	}
	out := "jsonData"
	for _, part := range splitPath(prop) {
		out += "?." + part
	}
	return out
}

func splitPath(prop string) []string {
	var parts []string
	current := ""
	for _, r := range prop {
		if r == '.' {
			if current != "" {
				parts = append(parts, current)
				current = ""
			}
			continue
		}
		current += string(r)
	}
	if current != "" {
		parts = append(parts, current)
	}
	return parts
}
