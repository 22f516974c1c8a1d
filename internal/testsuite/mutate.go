// internal/testsuite/mutate.go
package testsuite

import (
	"encoding/json"
	"strconv"
	"strings"

	"postgen/internal/collection"
	"postgen/internal/common/config"
	"postgen/pkg/postman"
)

// ApplyMutations applies one mutation set to a record's query parameters,
// path variables, headers and JSON body. Dynamic value tokens such as
// "{{$randomInt}}" pass through verbatim, Postman resolves them at run time.
func (s *Suite) ApplyMutations(rec *collection.Record, m *config.Mutations) {
	req := rec.Item.Request
	if req == nil {
		return
	}

	if req.URL != nil {
		for _, kv := range m.QueryParams {
			req.URL.Query = applyKVMutation(req.URL.Query, kv)
			s.stats.OverwritesApplied++
		}
		for _, kv := range m.PathVariables {
			req.URL.Variable = applyKVMutation(req.URL.Variable, kv)
			s.stats.OverwritesApplied++
		}
	}
	for _, kv := range m.Headers {
		req.Header = applyKVMutation(req.Header, kv)
		s.stats.OverwritesApplied++
	}

	if len(m.Body) > 0 {
		s.applyBodyMutations(rec, m.Body)
	}
}

// applyKVMutation mutates one entry of a key/value list. Remove drops the
// entry. An existing value is replaced by default, or appended to when the
// mutation sets overwrite to false. A missing key is inserted unless insert
// is set to false.
func applyKVMutation(entries []*postman.KV, m *config.KVMutation) []*postman.KV {
	if m.Remove {
		out := entries[:0]
		for _, e := range entries {
			if !strings.EqualFold(e.Key, m.Key) {
				out = append(out, e)
			}
		}
		return out
	}

	for _, e := range entries {
		if !strings.EqualFold(e.Key, m.Key) {
			continue
		}
		if m.Overwrite == nil || *m.Overwrite {
			e.Value = m.Value
		} else {
			e.Value += m.Value
		}
		return entries
	}

	if m.Insert != nil && !*m.Insert {
		return entries
	}
	return append(entries, &postman.KV{Key: m.Key, Value: m.Value})
}

// applyBodyMutations decodes the raw JSON body, applies every mutation by
// dotted path and re-encodes with two space indentation. A request without a
// raw body, or with a body that does not parse as JSON, is skipped.
func (s *Suite) applyBodyMutations(rec *collection.Record, mutations []*config.BodyMutation) {
	req := rec.Item.Request
	if req.Body == nil || req.Body.Raw == "" {
		s.log.Debug("body mutation skipped, request has no raw body", map[string]interface{}{
			"request": rec.Item.Name,
		})
		return
	}

	var root interface{}
	if err := json.Unmarshal([]byte(req.Body.Raw), &root); err != nil {
		s.log.Debug("body mutation skipped, body is not JSON", map[string]interface{}{
			"request": rec.Item.Name,
			"error":   err.Error(),
		})
		return
	}

	for _, m := range mutations {
		if m.Remove {
			root = removeNested(root, splitKeyPath(m.Key))
		} else {
			overwrite := m.Overwrite == nil || *m.Overwrite
			root = setNested(root, splitKeyPath(m.Key), m.Value, overwrite)
		}
		s.stats.OverwritesApplied++
	}

	data, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		s.log.Debug("body mutation skipped, mutated body does not serialize", map[string]interface{}{
			"request": rec.Item.Name,
			"error":   err.Error(),
		})
		return
	}
	req.Body.Raw = string(data)
}

// splitKeyPath tokenizes a dotted path such as "items[0].name" into
// ["items", "0", "name"]. Index tokens are plain digit strings.
func splitKeyPath(key string) []string {
	var tokens []string
	current := strings.Builder{}
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range key {
		switch r {
		case '.', '[':
			flush()
		case ']':
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// setNested writes value at the token path, creating intermediate objects
// for missing map keys. With overwrite false an existing string value gets
// the new value appended instead of replaced; other existing values are left
// untouched.
func setNested(node interface{}, path []string, value interface{}, overwrite bool) interface{} {
	if len(path) == 0 {
		if overwrite {
			return value
		}
		if existing, ok := node.(string); ok {
			if appended, ok := value.(string); ok {
				return existing + appended
			}
		}
		return node
	}

	head, rest := path[0], path[1:]
	switch v := node.(type) {
	case map[string]interface{}:
		child, exists := v[head]
		if !exists && len(rest) > 0 {
			child = map[string]interface{}{}
		}
		v[head] = setNested(child, rest, value, overwrite || !exists)
		return v
	case []interface{}:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(v) {
			return v
		}
		v[idx] = setNested(v[idx], rest, value, overwrite)
		return v
	default:
		// Descending into a scalar is a no-op, only nil grows new objects.
		if node != nil {
			return node
		}
		return map[string]interface{}{head: setNested(nil, rest, value, true)}
	}
}

// removeNested deletes the value at the token path. Paths through missing
// nodes are no-ops.
func removeNested(node interface{}, path []string) interface{} {
	if len(path) == 0 {
		return node
	}
	head, rest := path[0], path[1:]
	switch v := node.(type) {
	case map[string]interface{}:
		if len(rest) == 0 {
			delete(v, head)
			return v
		}
		if child, ok := v[head]; ok {
			v[head] = removeNested(child, rest)
		}
		return v
	case []interface{}:
		idx, err := strconv.Atoi(head)
		if err != nil || idx < 0 || idx >= len(v) {
			return v
		}
		if len(rest) == 0 {
			return append(v[:idx], v[idx+1:]...)
		}
		v[idx] = removeNested(v[idx], rest)
		return v
	default:
		return node
	}
}
