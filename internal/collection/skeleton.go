// internal/collection/skeleton.go
package collection

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"postgen/internal/oas"
	"postgen/pkg/postman"
)

const jsonMediaType = "application/json"

// BuildSkeleton derives a runnable collection from an API document for runs
// that start without an existing collection. Requests are grouped into
// folders by first tag and named after the operation summary, falling back
// to the operation id and then the path reference.
func BuildSkeleton(doc *oas.Document, name string) *postman.Collection {
	col := postman.New(name)
	col.Info.Description = doc.Info.Description
	col.EnsureVariable("baseUrl")
	if len(doc.Servers) > 0 {
		col.UpsertVariable("baseUrl", doc.Servers[0].URL)
	}

	for _, op := range doc.Operations() {
		item := buildRequestItem(op)
		if len(op.Tags) > 0 {
			col.Folder(op.Tags[0]).AddChild(item)
		} else {
			col.AddItem(item)
		}
	}
	return col
}

func buildRequestItem(op *oas.Operation) *postman.Item {
	item := &postman.Item{
		ID:          uuid.NewString(),
		Name:        requestName(op),
		Description: op.Description,
		Request: &postman.Request{
			Method: op.Method,
			URL:    buildURL(op),
		},
	}

	for _, p := range op.Parameters {
		switch p.In {
		case "query":
			item.Request.URL.Query = append(item.Request.URL.Query, &postman.KV{
				Key:         p.Name,
				Value:       exampleString(p.Example),
				Description: p.Description,
			})
		case "header":
			item.Request.Header = append(item.Request.Header, &postman.KV{
				Key:         p.Name,
				Value:       exampleString(p.Example),
				Description: p.Description,
			})
		}
	}

	if body := buildBody(op); body != nil {
		item.Request.Body = body
		item.Request.SetHeader("Content-Type", jsonMediaType)
	}
	return item
}

func requestName(op *oas.Operation) string {
	if op.Summary != "" {
		return op.Summary
	}
	if op.ID != "" {
		return op.ID
	}
	return op.Method + " " + op.Path
}

func buildURL(op *oas.Operation) *postman.URL {
	segments := strings.Split(strings.TrimPrefix(op.Path, "/"), "/")
	u := &postman.URL{Host: []string{"{{baseUrl}}"}}
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			varName := seg[1 : len(seg)-1]
			u.Path = append(u.Path, ":"+varName)
			u.Variable = append(u.Variable, &postman.KV{Key: varName, Value: pathVariableExample(op, varName)})
			continue
		}
		u.Path = append(u.Path, seg)
	}
	u.Raw = "{{baseUrl}}/" + strings.Join(u.Path, "/")
	return u
}

func pathVariableExample(op *oas.Operation, name string) string {
	for _, p := range op.Parameters {
		if p.In == "path" && p.Name == name {
			return exampleString(p.Example)
		}
	}
	return ""
}

func buildBody(op *oas.Operation) *postman.Body {
	if op.RequestBody == nil {
		return nil
	}
	media, ok := op.RequestBody.Content[jsonMediaType]
	if !ok {
		return nil
	}
	raw := ""
	if media.Example != nil {
		if data, err := json.MarshalIndent(media.Example, "", "  "); err == nil {
			raw = string(data)
		}
	}
	return &postman.Body{
		Mode:    "raw",
		Raw:     raw,
		Options: &postman.BodyOptions{Raw: &postman.RawOptions{Language: "json"}},
	}
}

func exampleString(example interface{}) string {
	switch v := example.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
