// internal/collection/record.go

// Package collection links the request items of a Postman collection to the
// operations of an OpenAPI document and answers the lookups rule processing
// needs: by path reference pattern, by operation id, and by id batches.
package collection

import (
	"strings"

	"postgen/internal/oas"
	"postgen/pkg/postman"
)

// Record pairs one request item with its matched document operation. The
// operation is nil when the request has no counterpart in the document.
type Record struct {
	Item      *postman.Item
	Operation *oas.Operation
}

// ID returns the operation id when the record is matched, otherwise the
// item's own id.
func (r *Record) ID() string {
	if r.Operation != nil && r.Operation.ID != "" {
		return r.Operation.ID
	}
	return r.Item.ID
}

// PathRef returns the record's "METHOD::/path" reference. Unmatched records
// derive it from the request itself.
func (r *Record) PathRef() string {
	if r.Operation != nil {
		return r.Operation.PathRef()
	}
	return requestRef(r.Item)
}

// Label returns the display form used in generated test names, for example
// "[GET]::/pets/{petId}".
func (r *Record) Label() string {
	method, path, ok := oas.SplitRef(r.PathRef())
	if !ok {
		return r.Item.Name
	}
	return "[" + method + "]::" + path
}

func requestRef(item *postman.Item) string {
	if item.Request == nil {
		return ""
	}
	return strings.ToUpper(item.Request.Method) + "::" + item.Request.URL.PathString()
}
