// internal/testsuite/globals.go
package testsuite

import (
	"encoding/json"
	"sort"
	"strings"

	"postgen/internal/oas"
	"postgen/pkg/postman"
)

// ApplyGlobals runs the collection wide post processing configured under
// globals, after every rule has finished.
func (s *Suite) ApplyGlobals() {
	g := &s.cfg.Globals
	if !g.HasWork() {
		return
	}

	if g.StripResponseExamples {
		s.col.ForEachItem(func(it *postman.Item) {
			it.Response = nil
		})
	}

	if len(g.KeyValueReplacements) > 0 {
		s.col.ForEachItem(func(it *postman.Item) {
			s.replaceBodyKeys(it, g.KeyValueReplacements)
		})
	}

	if len(g.ValueReplacements) > 0 {
		s.col.ForEachItem(func(it *postman.Item) {
			replaceValues(it, g.ValueReplacements)
		})
	}

	if len(g.OrderOfOperations) > 0 {
		orderItems(s.col.Items, g.OrderOfOperations)
	}
}

// replaceBodyKeys rewrites the values of matching keys anywhere in a raw
// JSON request body.
func (s *Suite) replaceBodyKeys(it *postman.Item, replacements map[string]interface{}) {
	if it.Request == nil || it.Request.Body == nil || it.Request.Body.Raw == "" {
		return
	}
	var root interface{}
	if err := json.Unmarshal([]byte(it.Request.Body.Raw), &root); err != nil {
		return
	}
	root = replaceKeysDeep(root, replacements)
	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return
	}
	it.Request.Body.Raw = string(data)
}

func replaceKeysDeep(node interface{}, replacements map[string]interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, child := range v {
			if replacement, ok := replacements[k]; ok {
				v[k] = replacement
				continue
			}
			v[k] = replaceKeysDeep(child, replacements)
		}
		return v
	case []interface{}:
		for i, child := range v {
			v[i] = replaceKeysDeep(child, replacements)
		}
		return v
	default:
		return node
	}
}

// replaceValues does plain string replacement over the request's raw body,
// header values and query values.
func replaceValues(it *postman.Item, replacements map[string]string) {
	if it.Request == nil {
		return
	}
	// Replacement order is fixed so output stays reproducible.
	keys := make([]string, 0, len(replacements))
	for k := range replacements {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	replace := func(s string) string {
		for _, old := range keys {
			s = strings.ReplaceAll(s, old, replacements[old])
		}
		return s
	}
	if it.Request.Body != nil {
		it.Request.Body.Raw = replace(it.Request.Body.Raw)
	}
	for _, h := range it.Request.Header {
		h.Value = replace(h.Value)
	}
	if it.Request.URL != nil {
		for _, q := range it.Request.URL.Query {
			q.Value = replace(q.Value)
		}
		for _, v := range it.Request.URL.Variable {
			v.Value = replace(v.Value)
		}
	}
}

// orderItems stably reorders request items so those matching an entry of
// order come first, in entry order. Unlisted items keep their relative order
// after the listed ones. Folders keep their position, their children are
// reordered recursively.
func orderItems(items []*postman.Item, order []string) {
	rank := func(it *postman.Item) int {
		if it.Request == nil {
			return len(order)
		}
		ref := strings.ToUpper(it.Request.Method) + "::" + it.Request.URL.PathString()
		for i, pattern := range order {
			if oas.MatchRef(pattern, ref) {
				return i
			}
		}
		return len(order)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return rank(items[i]) < rank(items[j])
	})
	for _, it := range items {
		if len(it.Items) > 0 {
			orderItems(it.Items, order)
		}
	}
}
