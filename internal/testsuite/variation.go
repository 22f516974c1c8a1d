// internal/testsuite/variation.go
package testsuite

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"postgen/internal/collection"
	"postgen/internal/common/config"
	"postgen/internal/common/logger"
	"postgen/pkg/postman"
)

// grouping is a named transient folder accumulating cloned requests before
// the final merge.
type grouping struct {
	name  string
	items []*postman.Item
}

// VariationWriter clones request records per variation, mutates the clones
// and re-runs test injection against the mutated shape. Clones accumulate in
// named groupings, keyed by variation name in order of first appearance, and
// land in the collection only on MergeToCollection.
type VariationWriter struct {
	suite  *Suite
	seq    int
	groups []*grouping
	log    logger.Logger
}

func NewVariationWriter(s *Suite) *VariationWriter {
	return &VariationWriter{
		suite: s,
		log:   s.log.WithFields(map[string]interface{}{"writer": "variations"}),
	}
}

// Add clones rec for one variation and places the clone into the grouping
// named after the variation. A record that fails to clone is skipped, the
// rest of the run continues.
func (w *VariationWriter) Add(rec *collection.Record, variation *config.VariationSpec) {
	clone, ok := w.cloneRecord(rec, variation)
	if !ok {
		return
	}
	w.grouping(variation.Name).items = append(w.grouping(variation.Name).items, clone.Item)
	w.suite.stats.Variations++
}

// AddToGrouping is Add with a caller supplied grouping name, used by
// integration scenarios to collect clones under a step folder instead of the
// variation name.
func (w *VariationWriter) AddToGrouping(groupName string, rec *collection.Record, variation *config.VariationSpec) {
	clone, ok := w.cloneRecord(rec, variation)
	if !ok {
		return
	}
	w.grouping(groupName).items = append(w.grouping(groupName).items, clone.Item)
	w.suite.stats.Variations++
}

// cloneRecord deep clones the source record under a fresh identifier, strips
// the inherited test script and applies the variation's mutations and tests.
// Identifiers combine the variation name with a per writer counter, so two
// clones can never collide.
func (w *VariationWriter) cloneRecord(rec *collection.Record, variation *config.VariationSpec) (*collection.Record, bool) {
	w.seq++
	id := fmt.Sprintf("%s-%d", slug(variation.Name), w.seq)

	item, err := rec.Item.Clone(id, variation.Name)
	if err != nil {
		w.log.Warn("variation clone failed", map[string]interface{}{
			"request":   rec.Item.Name,
			"variation": variation.Name,
			"error":     err.Error(),
		})
		return nil, false
	}
	// The clone re-runs its own injections against the mutated shape;
	// inherited scripts from the source would double every assertion.
	item.Event = nil
	item.Response = nil

	clone := &collection.Record{Item: item, Operation: rec.Operation}
	for _, m := range variation.Overwrites {
		w.suite.ApplyMutations(clone, m)
	}
	if variation.Tests != nil {
		for _, rule := range variation.Tests.ContractTests {
			w.suite.InjectContractTests(clone, rule, variation.OpenAPIResponse)
		}
		for _, rule := range variation.Tests.ContentTests {
			w.suite.InjectContentTests(clone, rule)
		}
	}
	if len(variation.AssignVariables) > 0 {
		w.suite.AssignVariables(clone, variation.AssignVariables)
	}
	if len(variation.ExtendTests) > 0 {
		w.suite.ExtendTests(clone, variation.ExtendTests, false)
	}
	return clone, true
}

// grouping returns the named grouping, appending a new one on first use so
// merge order follows first appearance.
func (w *VariationWriter) grouping(name string) *grouping {
	for _, g := range w.groups {
		if g.name == name {
			return g
		}
	}
	g := &grouping{name: name}
	w.groups = append(w.groups, g)
	return g
}

// MergeToCollection appends one top level folder per accumulated grouping
// into the collection and returns it. The writer does not reset afterwards:
// calling merge twice duplicates the folders, callers merge once per writer.
func (w *VariationWriter) MergeToCollection(c *postman.Collection) *postman.Collection {
	for _, g := range w.groups {
		folder := &postman.Item{ID: uuid.NewString(), Name: g.name, Items: g.items}
		c.AddItem(folder)
	}
	return c
}

// slug reduces a variation name to a lower case identifier fragment.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteRune('-')
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
