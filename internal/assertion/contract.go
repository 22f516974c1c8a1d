// internal/assertion/contract.go
package assertion

import (
	"encoding/json"
	"fmt"
)

// StatusSuccess asserts the response code is in the success range.
func StatusSuccess(label string) []string {
	return []string{
		"// Validate status 2xx",
		fmt.Sprintf(`pm.test("%s - Status code is 2xx", function () {`, escapeJS(label)),
		"   pm.response.to.be.success;",
		"});",
	}
}

// StatusCode asserts an exact response code.
func StatusCode(label string, code int) []string {
	return []string{
		fmt.Sprintf("// Validate status %d", code),
		fmt.Sprintf(`pm.test("%s - Status code is %d", function () {`, escapeJS(label), code),
		fmt.Sprintf("   pm.response.to.have.status(%d);", code),
		"});",
	}
}

// ResponseTime asserts the response arrives under maxMs milliseconds.
func ResponseTime(label string, maxMs int) []string {
	return []string{
		"// Validate response time",
		fmt.Sprintf(`pm.test("%s - Response time is less than %dms", function () {`, escapeJS(label), maxMs),
		fmt.Sprintf("    pm.expect(pm.response.responseTime).to.be.below(%d);", maxMs),
		"});",
	}
}

// ContentType asserts the Content-Type response header includes contentType.
func ContentType(label, contentType string) []string {
	return []string{
		"// Validate Content-Type header",
		fmt.Sprintf(`pm.test("%s - Content-Type is %s", function () {`, escapeJS(label), escapeJS(contentType)),
		fmt.Sprintf(`   pm.expect(pm.response.headers.get("Content-Type")).to.include("%s");`, escapeJS(contentType)),
		"});",
	}
}

// JSONBody asserts the response carries a JSON body.
func JSONBody(label string) []string {
	return []string{
		"// Validate if response has JSON Body",
		fmt.Sprintf(`pm.test("%s - Response has JSON Body", function () {`, escapeJS(label)),
		"    pm.response.to.have.jsonBody();",
		"});",
	}
}

// SchemaValidation asserts the response body against an embedded JSON
// schema. The schema constant lives in its own block scope so several
// schema checks can share one script.
func SchemaValidation(label string, schema map[string]interface{}) ([]string, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	return []string{
		"// Response Validation",
		"{",
		fmt.Sprintf("    const schema = %s;", string(data)),
		fmt.Sprintf(`    pm.test("%s - Schema is valid", function () {`, escapeJS(label)),
		"        pm.response.to.have.jsonSchema(schema);",
		"    });",
		"}",
	}, nil
}

// HeaderPresent asserts a response header is present.
func HeaderPresent(label, header string) []string {
	return []string{
		"// Validate header",
		fmt.Sprintf(`pm.test("%s - Response header %s is present", function () {`, escapeJS(label), escapeJS(header)),
		fmt.Sprintf(`   pm.response.to.have.header("%s");`, escapeJS(header)),
		"});",
	}
}
