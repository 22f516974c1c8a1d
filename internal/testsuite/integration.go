// internal/testsuite/integration.go
package testsuite

import (
	"github.com/google/uuid"

	"postgen/internal/collection"
	"postgen/internal/common/config"
	"postgen/internal/common/logger"
	"postgen/pkg/postman"
)

// IntegrationWriter composes multi step scenarios. Each scenario becomes one
// top level folder holding a sub folder per step, in step order, with one
// cloned request per step variation, in variation order. That ordering is
// the scenario's execution order once the collection runs.
type IntegrationWriter struct {
	suite     *Suite
	scenarios []*grouping
	log       logger.Logger
}

func NewIntegrationWriter(s *Suite) *IntegrationWriter {
	return &IntegrationWriter{
		suite: s,
		log:   s.log.WithFields(map[string]interface{}{"writer": "scenarios"}),
	}
}

// Add expands one scenario. A step whose operation reference resolves to no
// request record is skipped, the scenario continues with the next step.
func (w *IntegrationWriter) Add(scenario *config.IntegrationRule) {
	// Each scenario gets its own writer so step folders stay scoped to it.
	steps := NewVariationWriter(w.suite)

	for _, step := range scenario.Operations {
		rec, ok := w.resolveStep(step)
		if !ok {
			w.log.Debug("scenario step resolves to no request record", map[string]interface{}{
				"scenario":             scenario.Name,
				"openapi_operation_id": step.OpenAPIOperationID,
				"openapi_operation":    step.OpenAPIOperation,
			})
			continue
		}
		for _, variation := range step.Variations {
			steps.AddToGrouping(stepFolderName(step, rec), rec, variation)
		}
	}

	folder := &postman.Item{ID: uuid.NewString(), Name: scenario.Name}
	for _, g := range steps.groups {
		folder.AddChild(&postman.Item{ID: uuid.NewString(), Name: g.name, Items: g.items})
	}
	w.scenarios = append(w.scenarios, &grouping{name: scenario.Name, items: []*postman.Item{folder}})
	w.suite.stats.Scenarios++
}

// resolveStep resolves a scenario step to its single request record, by
// operation id first, else by exact path reference.
func (w *IntegrationWriter) resolveStep(step *config.ScenarioStep) (*collection.Record, bool) {
	if step.OpenAPIOperationID != "" {
		return w.suite.index.ByID(step.OpenAPIOperationID)
	}
	if step.OpenAPIOperation != "" {
		if records := w.suite.index.ByRef(step.OpenAPIOperation); len(records) > 0 {
			return records[0], true
		}
	}
	return nil, false
}

// stepFolderName names the step sub folder: the explicit step name when
// given, else the operation id.
func stepFolderName(step *config.ScenarioStep, rec *collection.Record) string {
	if step.Name != "" {
		return step.Name
	}
	return rec.ID()
}

// MergeToCollection appends one top level folder per scenario into the
// collection and returns it. Like the variation writer, merging twice
// duplicates content.
func (w *IntegrationWriter) MergeToCollection(c *postman.Collection) *postman.Collection {
	for _, g := range w.scenarios {
		c.Items = append(c.Items, g.items...)
	}
	return c
}
