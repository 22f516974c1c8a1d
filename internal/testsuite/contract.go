// internal/testsuite/contract.go
package testsuite

import (
	"strconv"

	"postgen/internal/assertion"
	"postgen/internal/collection"
	"postgen/internal/common/config"
	"postgen/internal/oas"
)

const jsonMediaType = "application/json"

// InjectContractTests appends contract assertions derived from the document
// to one request record. A record without a matched operation, or an
// operation without declared responses, passes through untouched. Responses
// are processed in the canonical ResponseCodes order; only codes in the
// success range
// qualify, and assertions accumulate across responses. A non empty
// responseScope restricts processing to that declared response code
// (variation scoping).
func (s *Suite) InjectContractTests(rec *collection.Record, rule *config.ContractTestRule, responseScope string) {
	op := rec.Operation
	if op == nil || len(op.Responses) == 0 {
		s.log.Debug("no declared responses, nothing to inject", map[string]interface{}{
			"request": rec.Item.Name,
		})
		return
	}

	label := rec.Label()
	for _, code := range op.ResponseCodes() {
		if responseScope != "" && code != responseScope {
			continue
		}
		if !oas.InSuccessRange(code) {
			continue
		}
		resp, _ := op.Response(code)
		s.injectResponseChecks(rec, rule, label, code, resp)
	}
}

// injectResponseChecks runs the fixed check table against one declared
// response. Order is part of the output contract: status success, status
// code, response time, then per content type the content type, json body and
// schema checks, then one header check per declared header.
func (s *Suite) injectResponseChecks(rec *collection.Record, rule *config.ContractTestRule, label, code string, resp *oas.Response) {
	if c := rule.StatusSuccess; enabledFor(c.Options(), rec) {
		s.appendContract(rec, assertion.StatusSuccess(label))
	}

	if c := rule.StatusCode; enabledFor(c.Options(), rec) {
		want := c.Code
		if want == 0 {
			// Codes reaching this point passed the success range check,
			// so they are always numeric.
			want, _ = strconv.Atoi(code)
		}
		s.appendContract(rec, assertion.StatusCode(label, want))
	}

	if c := rule.ResponseTime; enabledFor(c.Options(), rec) {
		s.appendContract(rec, assertion.ResponseTime(label, c.MaxMs))
	}

	for _, contentType := range resp.ContentTypes() {
		media := resp.Content[contentType]

		if c := rule.ContentType; enabledFor(c.Options(), rec) {
			s.appendContract(rec, assertion.ContentType(label, contentType))
		}

		if c := rule.JSONBody; enabledFor(c.Options(), rec) && contentType == jsonMediaType {
			s.appendContract(rec, assertion.JSONBody(label))
		}

		if c := rule.SchemaValidation; enabledFor(c.Options(), rec) && media != nil && media.Schema != nil {
			schema := s.doc.ResolveSchema(media.Schema)
			if c.AdditionalProperties != nil {
				schema = withAdditionalProperties(schema, *c.AdditionalProperties)
			}
			lines, err := assertion.SchemaValidation(label, schema)
			if err != nil {
				s.log.Debug("schema check skipped, schema does not serialize", map[string]interface{}{
					"request":      rec.Item.Name,
					"content_type": contentType,
					"error":        err.Error(),
				})
				continue
			}
			s.appendContract(rec, lines)
		}
	}

	if c := rule.HeadersPresent; enabledFor(c.Options(), rec) {
		for _, header := range resp.HeaderNames() {
			s.appendContract(rec, assertion.HeaderPresent(label, header))
		}
	}
}

func (s *Suite) appendContract(rec *collection.Record, lines []string) {
	rec.Item.AppendTest(lines)
	s.stats.ContractAssertions++
}

// enabledFor reports whether an optional check both is enabled and does not
// exclude the record. Absent checks (nil options) inject nothing.
func enabledFor(opts *config.CheckOptions, rec *collection.Record) bool {
	if opts == nil || !opts.Enabled {
		return false
	}
	return !excluded(opts.ExcludeForOperations, rec)
}

// withAdditionalProperties returns a shallow copy of schema with its
// additionalProperties flag forced to the given value.
func withAdditionalProperties(schema map[string]interface{}, allow bool) map[string]interface{} {
	out := make(map[string]interface{}, len(schema)+1)
	for k, v := range schema {
		out[k] = v
	}
	out["additionalProperties"] = allow
	return out
}
