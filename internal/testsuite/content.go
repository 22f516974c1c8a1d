// internal/testsuite/content.go
package testsuite

import (
	"postgen/internal/assertion"
	"postgen/internal/collection"
	"postgen/internal/common/config"
)

// InjectContentTests appends one assertion per configured response body
// check. The capture preamble that parses the body into jsonData is injected
// at most once per request script.
func (s *Suite) InjectContentTests(rec *collection.Record, rule *config.ContentTestRule) {
	if len(rule.ResponseBodyTests) == 0 {
		return
	}
	s.ensurePreamble(rec)

	label := rec.Label()
	for _, check := range rule.ResponseBodyTests {
		for _, lines := range s.bodyTestLines(rec, label, check) {
			rec.Item.AppendTest(lines)
			s.stats.ContentAssertions++
		}
	}
}

// bodyTestLines expands one response body check into its assertion blocks.
// A check combining several conditions (value and length, say) yields one
// block per condition.
func (s *Suite) bodyTestLines(rec *collection.Record, label string, check *config.ResponseBodyTest) [][]string {
	if check.NotExist {
		return [][]string{assertion.KeyNotExists(label, check.Key)}
	}

	blocks := [][]string{assertion.KeyExists(label, check.Key)}
	if check.Value != nil {
		lines, err := assertion.ValueEquals(label, check.Key, check.Value)
		if err != nil {
			s.log.Debug("value check skipped, value does not serialize", map[string]interface{}{
				"request": rec.Item.Name,
				"key":     check.Key,
				"error":   err.Error(),
			})
		} else {
			blocks = append(blocks, lines)
		}
	}
	if check.Contains != "" {
		blocks = append(blocks, assertion.ValueContains(label, check.Key, check.Contains))
	}
	if check.Length != nil {
		blocks = append(blocks, assertion.LengthEquals(label, check.Key, *check.Length))
	}
	if check.MinLength != nil {
		blocks = append(blocks, assertion.LengthAtLeast(label, check.Key, *check.MinLength))
	}
	if check.MaxLength != nil {
		blocks = append(blocks, assertion.LengthAtMost(label, check.Key, *check.MaxLength))
	}
	return blocks
}

// ExtendTests appends hand written script lines to a record, or replaces the
// whole test script when overwrite is set.
func (s *Suite) ExtendTests(rec *collection.Record, lines []string, overwrite bool) {
	if len(lines) == 0 {
		return
	}
	if overwrite {
		rec.Item.TestScript().Exec = append([]string(nil), lines...)
	} else {
		rec.Item.AppendTest(lines)
	}
	s.stats.ExtendBlocks++
}

// AssignVariables injects the capture script for each configured collection
// variable and registers the variable on the collection so generated
// "{{name}}" references resolve.
func (s *Suite) AssignVariables(rec *collection.Record, targets []*config.CollectionVariableTarget) {
	label := rec.Label()
	for _, cv := range targets {
		name := cv.Name
		switch {
		case cv.ResponseBodyProp != "":
			if name == "" {
				name = rec.ID() + "." + cv.ResponseBodyProp
			}
			s.ensurePreamble(rec)
			rec.Item.AppendTest(assertion.AssignBodyVariable(label, cv.ResponseBodyProp, name))
		case cv.ResponseHeaderProp != "":
			if name == "" {
				name = rec.ID() + "." + cv.ResponseHeaderProp
			}
			rec.Item.AppendTest(assertion.AssignHeaderVariable(label, cv.ResponseHeaderProp, name))
		case cv.Value != "":
			if name == "" {
				s.log.Debug("fixed value variable without a name skipped", map[string]interface{}{
					"request": rec.Item.Name,
				})
				continue
			}
			s.col.UpsertVariable(name, cv.Value)
			s.stats.VariablesAssigned++
			continue
		default:
			continue
		}
		s.col.EnsureVariable(name)
		s.stats.VariablesAssigned++
	}
}

// ensurePreamble injects the jsonData capture preamble unless the record's
// test script already carries one.
func (s *Suite) ensurePreamble(rec *collection.Record) {
	if rec.Item.TestScript().ContainsLine(assertion.PreambleMarker) {
		return
	}
	rec.Item.AppendTest(assertion.JSONPreamble())
}
