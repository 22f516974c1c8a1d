// internal/assertion/assertion_test.go
package assertion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLabel = "[GET]::/pets/{petId}"

func joined(lines []string) string {
	return strings.Join(lines, "\n")
}

func TestContractBuilders(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		contains []string
	}{
		{
			name:  "status success",
			lines: StatusSuccess(testLabel),
			contains: []string{
				`pm.test("[GET]::/pets/{petId} - Status code is 2xx"`,
				"pm.response.to.be.success;",
			},
		},
		{
			name:  "status code",
			lines: StatusCode(testLabel, 404),
			contains: []string{
				"Status code is 404",
				"pm.response.to.have.status(404);",
			},
		},
		{
			name:  "response time",
			lines: ResponseTime(testLabel, 250),
			contains: []string{
				"Response time is less than 250ms",
				"pm.expect(pm.response.responseTime).to.be.below(250);",
			},
		},
		{
			name:  "content type",
			lines: ContentType(testLabel, "application/json"),
			contains: []string{
				`pm.response.headers.get("Content-Type")`,
				`to.include("application/json")`,
			},
		},
		{
			name:  "json body",
			lines: JSONBody(testLabel),
			contains: []string{
				"pm.response.to.have.jsonBody();",
			},
		},
		{
			name:  "header present",
			lines: HeaderPresent(testLabel, "X-Request-Id"),
			contains: []string{
				`pm.response.to.have.header("X-Request-Id");`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := joined(tt.lines)
			for _, want := range tt.contains {
				assert.Contains(t, script, want)
			}
			assert.Equal(t, 1, strings.Count(script, "pm.test("))
		})
	}
}

func TestSchemaValidationEmbedsSchema(t *testing.T) {
	lines, err := SchemaValidation(testLabel, map[string]interface{}{
		"type":     "object",
		"required": []string{"id"},
	})
	require.NoError(t, err)

	script := joined(lines)
	assert.Contains(t, script, `const schema = {"required":["id"],"type":"object"};`)
	assert.Contains(t, script, "pm.response.to.have.jsonSchema(schema);")
	// Block scoped so several schema checks can coexist in one script.
	assert.Equal(t, "{", lines[1])
	assert.Equal(t, "}", lines[len(lines)-1])
}

func TestContentBuilders(t *testing.T) {
	script := joined(KeyExists(testLabel, "data[0].id"))
	assert.Contains(t, script, `typeof jsonData.data[0].id !== "undefined"`)

	script = joined(KeyNotExists(testLabel, "error"))
	assert.Contains(t, script, `typeof jsonData.error === "undefined"`)

	lines, err := ValueEquals(testLabel, "name", "Rex")
	require.NoError(t, err)
	assert.Contains(t, joined(lines), `pm.expect(jsonData.name).to.eql("Rex");`)

	lines, err = ValueEquals(testLabel, "count", 3)
	require.NoError(t, err)
	assert.Contains(t, joined(lines), "pm.expect(jsonData.count).to.eql(3);")

	script = joined(ValueContains(testLabel, "tags", "dog"))
	assert.Contains(t, script, `pm.expect(jsonData.tags).to.include("dog");`)

	script = joined(LengthAtLeast(testLabel, "items", 1))
	assert.Contains(t, script, "pm.expect(jsonData.items.length).to.be.at.least(1);")
}

func TestVariableBuilders(t *testing.T) {
	script := joined(AssignBodyVariable(testLabel, "data.id", "petId"))
	assert.Contains(t, script, "let petId = jsonData?.data?.id;")
	assert.Contains(t, script, `pm.collectionVariables.set("petId", petId);`)

	script = joined(AssignHeaderVariable(testLabel, "Location", "petLocation"))
	assert.Contains(t, script, `pm.response.headers.get("Location");`)
	assert.Contains(t, script, `pm.collectionVariables.set("petLocation", petLocation);`)
}

func TestJSONPreamble(t *testing.T) {
	lines := JSONPreamble()
	assert.Equal(t, PreambleMarker, lines[0])
	assert.Contains(t, joined(lines), "pm.response.json()")
}

func TestEscapeJS(t *testing.T) {
	assert.Equal(t, `a \"quoted\" value`, escapeJS(`a "quoted" value`))
	assert.Equal(t, `back\\slash`, escapeJS(`back\slash`))
}

func TestSanitizeIdent(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"petId", "petId"},
		{"pet-id", "pet_id"},
		{"lead.id", "lead_id"},
		{"9lives", "_lives"},
		{"", "_value"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, sanitizeIdent(tt.in), tt.in)
	}
}
