// internal/collection/index.go
package collection

import (
	"postgen/internal/common/logger"
	"postgen/internal/oas"
	"postgen/pkg/postman"
)

// Index holds every request record of a collection in declaration order.
type Index struct {
	records []*Record
	log     logger.Logger
}

// NewIndex walks the collection's request items in declaration order and
// matches each against the document by "METHOD::/path" reference. Requests
// without a document counterpart stay in the index unmatched so mutation
// rules can still address them by path reference.
func NewIndex(doc *oas.Document, col *postman.Collection, log logger.Logger) *Index {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	idx := &Index{log: log}
	for _, item := range col.Requests() {
		rec := &Record{Item: item}
		if op, ok := doc.OperationByRef(requestRef(item)); ok {
			rec.Operation = op
		} else {
			log.Debug("request has no matching document operation", map[string]interface{}{
				"request": item.Name,
				"ref":     requestRef(item),
			})
		}
		idx.records = append(idx.records, rec)
	}
	return idx
}

// Records returns every record in collection declaration order.
func (x *Index) Records() []*Record {
	return x.records
}

// Matched returns only the records with a document operation, in
// declaration order.
func (x *Index) Matched() []*Record {
	out := make([]*Record, 0, len(x.records))
	for _, r := range x.records {
		if r.Operation != nil {
			out = append(out, r)
		}
	}
	return out
}

// ByRef returns the records whose path reference matches the pattern, in
// declaration order. The pattern supports the wildcard forms of
// oas.MatchRef.
func (x *Index) ByRef(pattern string) []*Record {
	var out []*Record
	for _, r := range x.records {
		if oas.MatchRef(pattern, r.PathRef()) {
			out = append(out, r)
		}
	}
	return out
}

// ByID returns the first record whose id matches exactly.
func (x *Index) ByID(id string) (*Record, bool) {
	for _, r := range x.records {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}

// ByIDs returns the records whose id is in ids, in declaration order.
func (x *Index) ByIDs(ids []string) []*Record {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*Record
	for _, r := range x.records {
		if want[r.ID()] {
			out = append(out, r)
		}
	}
	return out
}
