// internal/assertion/content.go
package assertion

import (
	"encoding/json"
	"fmt"
)

// KeyExists asserts a body property is present.
func KeyExists(label, key string) []string {
	return []string{
		fmt.Sprintf("// Validate if '%s' exists", key),
		fmt.Sprintf(`pm.test("%s - Content check if '%s' exists", function () {`, escapeJS(label), escapeJS(key)),
		fmt.Sprintf(`   pm.expect((typeof %s !== "undefined")).to.be.true;`, jsonPath(key)),
		"});",
	}
}

// KeyNotExists asserts a body property is absent.
func KeyNotExists(label, key string) []string {
	return []string{
		fmt.Sprintf("// Validate if '%s' does not exist", key),
		fmt.Sprintf(`pm.test("%s - Content check if '%s' does not exist", function () {`, escapeJS(label), escapeJS(key)),
		fmt.Sprintf(`   pm.expect((typeof %s === "undefined")).to.be.true;`, jsonPath(key)),
		"});",
	}
}

// ValueEquals asserts a body property equals value. Value renders as its
// JSON literal, so strings stay quoted and numbers do not.
func ValueEquals(label, key string, value interface{}) ([]string, error) {
	literal, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return []string{
		fmt.Sprintf("// Validate value of '%s'", key),
		fmt.Sprintf(`pm.test("%s - Content check if value for '%s' matches '%v'", function () {`, escapeJS(label), escapeJS(key), value),
		fmt.Sprintf("   pm.expect(%s).to.eql(%s);", jsonPath(key), string(literal)),
		"});",
	}, nil
}

// ValueContains asserts a body property contains a substring or element.
func ValueContains(label, key, contains string) []string {
	return []string{
		fmt.Sprintf("// Validate value of '%s'", key),
		fmt.Sprintf(`pm.test("%s - Content check if value for '%s' contains '%s'", function () {`, escapeJS(label), escapeJS(key), escapeJS(contains)),
		fmt.Sprintf(`   pm.expect(%s).to.include("%s");`, jsonPath(key), escapeJS(contains)),
		"});",
	}
}

// LengthEquals asserts the exact length of a body property.
func LengthEquals(label, key string, length int) []string {
	return []string{
		fmt.Sprintf("// Validate length of '%s'", key),
		fmt.Sprintf(`pm.test("%s - Content check if value of '%s' has length '%d'", function () {`, escapeJS(label), escapeJS(key), length),
		fmt.Sprintf("   pm.expect(%s.length).to.equal(%d);", jsonPath(key), length),
		"});",
	}
}

// LengthAtLeast asserts a minimum length of a body property.
func LengthAtLeast(label, key string, min int) []string {
	return []string{
		fmt.Sprintf("// Validate length of '%s'", key),
		fmt.Sprintf(`pm.test("%s - Content check if value of '%s' has minimum length '%d'", function () {`, escapeJS(label), escapeJS(key), min),
		fmt.Sprintf("   pm.expect(%s.length).to.be.at.least(%d);", jsonPath(key), min),
		"});",
	}
}

// LengthAtMost asserts a maximum length of a body property.
func LengthAtMost(label, key string, max int) []string {
	return []string{
		fmt.Sprintf("// Validate length of '%s'", key),
		fmt.Sprintf(`pm.test("%s - Content check if value of '%s' has maximum length '%d'", function () {`, escapeJS(label), escapeJS(key), max),
		fmt.Sprintf("   pm.expect(%s.length).to.be.at.most(%d);", jsonPath(key), max),
		"});",
	}
}
