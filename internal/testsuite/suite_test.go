// internal/testsuite/suite_test.go
package testsuite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postgen/internal/common/config"
	"postgen/internal/common/logger"
	"postgen/internal/oas"
	"postgen/pkg/postman"
)

// ==========================
// Test Helpers
// ==========================

const petstoreYAML = `
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: array
                items:
                  type: object
        "400":
          description: bad request
    post:
      operationId: createPet
      requestBody:
        content:
          application/json:
            example:
              name: Rex
              tag: dog
            schema:
              type: object
      responses:
        "201":
          description: created
          content:
            application/json:
              schema:
                type: object
          headers:
            Location:
              description: created resource
              schema:
                type: string
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
          example: "42"
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                required: [id]
        "404":
          description: not found
  /pets/{petId}/history:
    get:
      operationId: petHistory
      responses:
        "404":
          description: not found
`

func petstoreDoc(t *testing.T) *oas.Document {
	t.Helper()
	doc, err := oas.Parse([]byte(petstoreYAML))
	require.NoError(t, err)
	return doc
}

func petstoreCollection() *postman.Collection {
	col := postman.New("Petstore")
	col.AddItem(&postman.Item{
		Name: "List pets",
		Request: &postman.Request{
			Method: "GET",
			URL:    &postman.URL{Path: []string{"pets"}},
		},
	})
	col.AddItem(&postman.Item{
		Name: "Create a pet",
		Request: &postman.Request{
			Method: "POST",
			URL:    &postman.URL{Path: []string{"pets"}},
			Body: &postman.Body{
				Mode: "raw",
				Raw:  "{\n  \"name\": \"Rex\",\n  \"tag\": \"dog\"\n}",
			},
		},
	})
	col.AddItem(&postman.Item{
		Name: "Get a pet",
		Request: &postman.Request{
			Method: "GET",
			URL: &postman.URL{
				Path:     []string{"pets", ":petId"},
				Variable: []*postman.KV{{Key: "petId", Value: "42"}},
			},
		},
	})
	col.AddItem(&postman.Item{
		Name: "Pet history",
		Request: &postman.Request{
			Method: "GET",
			URL:    &postman.URL{Path: []string{"pets", ":petId", "history"}},
		},
	})
	return col
}

func newTestSuite(t *testing.T, cfg *config.GenerateConfig) (*Suite, *postman.Collection) {
	t.Helper()
	if cfg == nil {
		cfg = &config.GenerateConfig{}
	}
	col := petstoreCollection()
	s := New(cfg, petstoreDoc(t), col, logger.NewTestLogger(t))
	return s, col
}

// testCount counts the pm.test assertions in an item's test script.
func testCount(it *postman.Item) int {
	n := 0
	for _, ev := range it.Event {
		if ev.Listen != "test" || ev.Script == nil {
			continue
		}
		for _, line := range ev.Script.Exec {
			if strings.Contains(line, "pm.test(") {
				n++
			}
		}
	}
	return n
}

func scriptText(it *postman.Item) string {
	var lines []string
	for _, ev := range it.Event {
		if ev.Listen == "test" && ev.Script != nil {
			lines = append(lines, ev.Script.Exec...)
		}
	}
	return strings.Join(lines, "\n")
}

func enabled() *config.CheckOptions {
	return &config.CheckOptions{Enabled: true}
}

// ==========================
// Resolution Tests
// ==========================

func TestResolveOperations(t *testing.T) {
	s, _ := newTestSuite(t, nil)

	tests := []struct {
		name     string
		target   config.Target
		expected []string
	}{
		{
			name:     "by path reference",
			target:   config.Target{OpenAPIOperation: "GET::/pets"},
			expected: []string{"listPets"},
		},
		{
			name:     "by wildcard path reference",
			target:   config.Target{OpenAPIOperation: "*::/pets/**"},
			expected: []string{"getPet", "petHistory"},
		},
		{
			name:     "by operation id",
			target:   config.Target{OpenAPIOperationID: "createPet"},
			expected: []string{"createPet"},
		},
		{
			name:     "by id list keeps collection order",
			target:   config.Target{OpenAPIOperationIDs: []string{"getPet", "listPets"}},
			expected: []string{"listPets", "getPet"},
		},
		{
			name:     "empty target resolves to nothing",
			target:   config.Target{},
			expected: nil,
		},
		{
			name:     "unknown id resolves to nothing",
			target:   config.Target{OpenAPIOperationID: "deletePet"},
			expected: nil,
		},
		{
			name: "exclusion by id",
			target: config.Target{
				OpenAPIOperation:     "*::/pets/**",
				ExcludeForOperations: []string{"petHistory"},
			},
			expected: []string{"getPet"},
		},
		{
			name: "exclusion by path reference",
			target: config.Target{
				OpenAPIOperation:     "*::/pets/**",
				ExcludeForOperations: []string{"GET::/pets/{petId}"},
			},
			expected: []string{"petHistory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, rec := range s.ResolveOperations(&tt.target) {
				got = append(got, rec.ID())
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

// ==========================
// Contract Injection Tests
// ==========================

func TestInjectContractTestsStatusSuccess(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		StatusSuccess: &config.StatusSuccessCheck{CheckOptions: *enabled()},
	}

	rec, ok := s.index.ByID("listPets")
	require.True(t, ok)
	s.InjectContractTests(rec, rule, "")

	// One declared success response (200), the 400 is skipped.
	assert.Equal(t, 1, testCount(rec.Item))
	assert.Contains(t, scriptText(rec.Item), "Status code is 2xx")
}

func TestInjectContractTestsSkipsNonSuccessResponses(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		StatusSuccess:  &config.StatusSuccessCheck{CheckOptions: *enabled()},
		StatusCode:     &config.StatusCodeCheck{CheckOptions: *enabled()},
		ResponseTime:   &config.ResponseTimeCheck{CheckOptions: *enabled(), MaxMs: 300},
		ContentType:    &config.ContentTypeCheck{CheckOptions: *enabled()},
		JSONBody:       &config.JSONBodyCheck{CheckOptions: *enabled()},
		HeadersPresent: &config.HeadersPresentCheck{CheckOptions: *enabled()},
	}

	// petHistory only declares a 404, nothing qualifies.
	rec, ok := s.index.ByID("petHistory")
	require.True(t, ok)
	s.InjectContractTests(rec, rule, "")

	assert.Equal(t, 0, testCount(rec.Item))
}

func TestInjectContractTestsNoResponsesIsNoOp(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		StatusSuccess: &config.StatusSuccessCheck{CheckOptions: *enabled()},
	}

	rec, ok := s.index.ByID("listPets")
	require.True(t, ok)
	rec.Operation = nil
	s.InjectContractTests(rec, rule, "")

	assert.Equal(t, 0, testCount(rec.Item))
}

func TestInjectContractTestsStatusCodeAndSchema(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		StatusCode:       &config.StatusCodeCheck{CheckOptions: *enabled()},
		SchemaValidation: &config.SchemaValidationCheck{CheckOptions: *enabled()},
	}

	rec, ok := s.index.ByID("getPet")
	require.True(t, ok)
	s.InjectContractTests(rec, rule, "")

	// Exactly two assertions: status 200 equality plus the schema check.
	// The 404 response is outside the success range.
	assert.Equal(t, 2, testCount(rec.Item))
	script := scriptText(rec.Item)
	assert.Contains(t, script, "pm.response.to.have.status(200)")
	assert.Contains(t, script, `"required":["id"]`)
}

func TestInjectContractTestsContentTypeAndJSONBody(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		ContentType: &config.ContentTypeCheck{CheckOptions: *enabled()},
		JSONBody:    &config.JSONBodyCheck{CheckOptions: *enabled()},
	}

	rec, ok := s.index.ByID("createPet")
	require.True(t, ok)
	s.InjectContractTests(rec, rule, "")

	assert.Equal(t, 2, testCount(rec.Item))
	script := scriptText(rec.Item)
	assert.Contains(t, script, "Content-Type is application/json")
	assert.Contains(t, script, "pm.response.to.have.jsonBody()")
}

func TestInjectContractTestsHeadersPresent(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		HeadersPresent: &config.HeadersPresentCheck{CheckOptions: *enabled()},
	}

	rec, ok := s.index.ByID("createPet")
	require.True(t, ok)
	s.InjectContractTests(rec, rule, "")

	assert.Equal(t, 1, testCount(rec.Item))
	assert.Contains(t, scriptText(rec.Item), `pm.response.to.have.header("Location")`)
}

func TestInjectContractTestsPerCheckExclusion(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		StatusSuccess: &config.StatusSuccessCheck{CheckOptions: config.CheckOptions{
			Enabled:              true,
			ExcludeForOperations: []string{"listPets"},
		}},
		ResponseTime: &config.ResponseTimeCheck{CheckOptions: *enabled(), MaxMs: 300},
	}

	excludedRec, ok := s.index.ByID("listPets")
	require.True(t, ok)
	other, ok := s.index.ByID("getPet")
	require.True(t, ok)

	s.InjectContractTests(excludedRec, rule, "")
	s.InjectContractTests(other, rule, "")

	// The excluded record still receives the other enabled check.
	assert.Equal(t, 1, testCount(excludedRec.Item))
	assert.NotContains(t, scriptText(excludedRec.Item), "Status code is 2xx")

	assert.Equal(t, 2, testCount(other.Item))
	assert.Contains(t, scriptText(other.Item), "Status code is 2xx")
}

func TestInjectContractTestsAccumulateAcrossCalls(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rec, ok := s.index.ByID("getPet")
	require.True(t, ok)

	s.InjectContractTests(rec, &config.ContractTestRule{
		StatusSuccess: &config.StatusSuccessCheck{CheckOptions: *enabled()},
	}, "")
	s.InjectContractTests(rec, &config.ContractTestRule{
		ResponseTime: &config.ResponseTimeCheck{CheckOptions: *enabled(), MaxMs: 250},
	}, "")

	// Assertions accumulate, a later pass never removes earlier ones.
	assert.Equal(t, 2, testCount(rec.Item))
}

func TestInjectContractTestsResponseScope(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rule := &config.ContractTestRule{
		StatusCode: &config.StatusCodeCheck{CheckOptions: *enabled()},
	}

	rec, ok := s.index.ByID("listPets")
	require.True(t, ok)
	s.InjectContractTests(rec, rule, "400")

	// Scoped to a response outside the success range: nothing fires.
	assert.Equal(t, 0, testCount(rec.Item))
}

// ==========================
// Content / Extend / Variables
// ==========================

func TestInjectContentTests(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	length := 2
	rule := &config.ContentTestRule{
		ResponseBodyTests: []*config.ResponseBodyTest{
			{Key: "name", Value: "Rex"},
			{Key: "tags", MinLength: &length},
			{Key: "error", NotExist: true},
		},
	}

	rec, ok := s.index.ByID("createPet")
	require.True(t, ok)
	s.InjectContentTests(rec, rule)

	script := scriptText(rec.Item)
	// name: exists + equals, tags: exists + min length, error: not exists.
	assert.Equal(t, 5, testCount(rec.Item))
	assert.Contains(t, script, `pm.expect(jsonData.name).to.eql("Rex");`)
	assert.Contains(t, script, "jsonData.tags.length).to.be.at.least(2)")
	assert.Contains(t, script, "'error' does not exist")

	// The jsonData preamble is injected exactly once.
	assert.Equal(t, 1, strings.Count(script, "pm.response.json()"))

	s.InjectContentTests(rec, &config.ContentTestRule{
		ResponseBodyTests: []*config.ResponseBodyTest{{Key: "id"}},
	})
	assert.Equal(t, 1, strings.Count(scriptText(rec.Item), "pm.response.json()"))
}

func TestExtendTests(t *testing.T) {
	s, _ := newTestSuite(t, nil)
	rec, ok := s.index.ByID("listPets")
	require.True(t, ok)

	s.ExtendTests(rec, []string{`pm.test("custom", function () {});`}, false)
	assert.Equal(t, 1, testCount(rec.Item))

	// Overwrite replaces everything injected so far.
	s.ExtendTests(rec, []string{`pm.test("replacement", function () {});`}, true)
	assert.Equal(t, 1, testCount(rec.Item))
	assert.Contains(t, scriptText(rec.Item), "replacement")
	assert.NotContains(t, scriptText(rec.Item), `"custom"`)
}

func TestAssignVariables(t *testing.T) {
	s, col := newTestSuite(t, nil)
	rec, ok := s.index.ByID("createPet")
	require.True(t, ok)

	s.AssignVariables(rec, []*config.CollectionVariableTarget{
		{ResponseBodyProp: "id", Name: "petId"},
		{ResponseHeaderProp: "Location", Name: "petLocation"},
		{Value: "v1", Name: "apiVersion"},
	})

	script := scriptText(rec.Item)
	assert.Contains(t, script, `pm.collectionVariables.set("petId", petId);`)
	assert.Contains(t, script, `pm.response.headers.get("Location")`)

	names := map[string]string{}
	for _, v := range col.Variable {
		names[v.Key] = v.Value
	}
	assert.Contains(t, names, "petId")
	assert.Contains(t, names, "petLocation")
	assert.Equal(t, "v1", names["apiVersion"])
}

// ==========================
// Execute Tests
// ==========================

func TestExecuteRunsRuleListsInOrder(t *testing.T) {
	cfg := &config.GenerateConfig{
		Tests: config.TestsConfig{
			ContractTests: []*config.ContractTestRule{
				{
					Target:        config.Target{OpenAPIOperation: "*::/**"},
					StatusSuccess: &config.StatusSuccessCheck{CheckOptions: *enabled()},
				},
			},
			ExtendTests: []*config.ExtendTestRule{
				{
					Target: config.Target{OpenAPIOperationID: "listPets"},
					Tests:  []string{`pm.test("after contract", function () {});`},
				},
			},
		},
	}
	s, _ := newTestSuite(t, cfg)
	stats := s.Execute(nil)

	assert.Equal(t, 3, stats.ContractAssertions)
	assert.Equal(t, 1, stats.ExtendBlocks)
	assert.Equal(t, 4, stats.RequestsProcessed)

	rec, ok := s.index.ByID("listPets")
	require.True(t, ok)
	script := scriptText(rec.Item)
	assert.Less(t, strings.Index(script, "Status code is 2xx"), strings.Index(script, "after contract"))
}

func TestExecuteOverrideReplacesInstanceRules(t *testing.T) {
	cfg := &config.GenerateConfig{
		Tests: config.TestsConfig{
			ContractTests: []*config.ContractTestRule{
				{
					Target:        config.Target{OpenAPIOperation: "*::/**"},
					StatusSuccess: &config.StatusSuccessCheck{CheckOptions: *enabled()},
				},
			},
		},
	}
	s, _ := newTestSuite(t, cfg)

	stats := s.Execute(&config.TestsConfig{})
	assert.Equal(t, 0, stats.ContractAssertions)
}

func TestExecuteEndToEnd(t *testing.T) {
	cfg := &config.GenerateConfig{
		Tests: config.TestsConfig{
			ContractTests: []*config.ContractTestRule{
				{
					Target: config.Target{
						OpenAPIOperation:     "GET::/pets/**",
						ExcludeForOperations: []string{"petHistory"},
					},
					StatusCode:       &config.StatusCodeCheck{CheckOptions: *enabled()},
					SchemaValidation: &config.SchemaValidationCheck{CheckOptions: *enabled()},
				},
			},
		},
	}
	s, _ := newTestSuite(t, cfg)
	s.Execute(nil)

	rec, ok := s.index.ByID("getPet")
	require.True(t, ok)
	assert.Equal(t, 2, testCount(rec.Item))

	excludedRec, ok := s.index.ByID("petHistory")
	require.True(t, ok)
	assert.Equal(t, 0, testCount(excludedRec.Item))
}
