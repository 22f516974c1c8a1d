// internal/oas/document.go

// Package oas holds the subset of the OpenAPI 3.x document model the
// generator needs: operations, their responses, declared media types and
// response headers. Lookup tables are built once at parse time so that
// rule resolution never rescans the raw document.
package oas

import (
	"sort"
	"strconv"
	"strings"
)

// Success range bounds for contract test injection. Codes 300 and 301
// count as success, 302 and above do not.
const (
	successRangeMin = 200
	successRangeMax = 302 // exclusive
)

// InSuccessRange reports whether a declared response code falls in the
// injectable success range. Non-numeric codes such as "4XX" or "default"
// never qualify.
func InSuccessRange(code string) bool {
	n, err := strconv.Atoi(code)
	if err != nil {
		return false
	}
	return n >= successRangeMin && n < successRangeMax
}

// Document is a parsed OpenAPI 3.x document.
type Document struct {
	OpenAPI    string               `json:"openapi"`
	Swagger    string               `json:"swagger,omitempty"`
	Info       DocumentInfo         `json:"info"`
	Servers    []Server             `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`

	ops   []*Operation
	byRef map[string]*Operation
	byID  map[string]*Operation
}

type DocumentInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type Components struct {
	Schemas map[string]map[string]interface{} `json:"schemas,omitempty"`
}

// PathItem carries the operations declared under a single path.
type PathItem struct {
	Get        *Operation   `json:"get,omitempty"`
	Put        *Operation   `json:"put,omitempty"`
	Post       *Operation   `json:"post,omitempty"`
	Delete     *Operation   `json:"delete,omitempty"`
	Options    *Operation   `json:"options,omitempty"`
	Head       *Operation   `json:"head,omitempty"`
	Patch      *Operation   `json:"patch,omitempty"`
	Trace      *Operation   `json:"trace,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty"`
}

type methodOperation struct {
	method string
	op     *Operation
}

// operations lists the declared operations in a fixed method order so that
// document traversal stays reproducible.
func (p *PathItem) operations() []methodOperation {
	all := []methodOperation{
		{"GET", p.Get},
		{"PUT", p.Put},
		{"POST", p.Post},
		{"DELETE", p.Delete},
		{"OPTIONS", p.Options},
		{"HEAD", p.Head},
		{"PATCH", p.Patch},
		{"TRACE", p.Trace},
	}
	out := make([]methodOperation, 0, len(all))
	for _, mo := range all {
		if mo.op != nil {
			out = append(out, mo)
		}
	}
	return out
}

// Operation is a single method+path entry of the document. Method and Path
// are stamped during parsing, they are not part of the wire format.
type Operation struct {
	ID          string               `json:"operationId,omitempty"`
	Tags        []string             `json:"tags,omitempty"`
	Summary     string               `json:"summary,omitempty"`
	Description string               `json:"description,omitempty"`
	Deprecated  bool                 `json:"deprecated,omitempty"`
	Parameters  []*Parameter         `json:"parameters,omitempty"`
	RequestBody *RequestBody         `json:"requestBody,omitempty"`
	Responses   map[string]*Response `json:"responses"`

	Method string `json:"-"`
	Path   string `json:"-"`
}

// PathRef returns the operation's canonical "METHOD::/path" reference.
func (o *Operation) PathRef() string {
	return o.Method + "::" + o.Path
}

// Response returns the declared response for an exact code or pattern key.
func (o *Operation) Response(code string) (*Response, bool) {
	r, ok := o.Responses[code]
	return r, ok
}

// ResponseCodes returns the declared response codes with numeric codes
// first in ascending order, followed by pattern codes such as "4XX" and
// "default" in lexical order.
func (o *Operation) ResponseCodes() []string {
	codes := make([]string, 0, len(o.Responses))
	for c := range o.Responses {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool {
		ni, errI := strconv.Atoi(codes[i])
		nj, errJ := strconv.Atoi(codes[j])
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return codes[i] < codes[j]
		}
	})
	return codes
}

type Parameter struct {
	Name        string                 `json:"name"`
	In          string                 `json:"in"`
	Description string                 `json:"description,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
	Example     interface{}            `json:"example,omitempty"`
}

type RequestBody struct {
	Description string                `json:"description,omitempty"`
	Required    bool                  `json:"required,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// Response is a declared response of an operation.
type Response struct {
	Description string                `json:"description,omitempty"`
	Headers     map[string]*Header    `json:"headers,omitempty"`
	Content     map[string]*MediaType `json:"content,omitempty"`
}

// ContentTypes returns the declared media types in lexical order.
func (r *Response) ContentTypes() []string {
	types := make([]string, 0, len(r.Content))
	for ct := range r.Content {
		types = append(types, ct)
	}
	sort.Strings(types)
	return types
}

// HeaderNames returns the declared response header names in lexical order.
func (r *Response) HeaderNames() []string {
	names := make([]string, 0, len(r.Headers))
	for n := range r.Headers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type MediaType struct {
	Schema   map[string]interface{} `json:"schema,omitempty"`
	Example  interface{}            `json:"example,omitempty"`
	Examples map[string]interface{} `json:"examples,omitempty"`
}

type Header struct {
	Description string                 `json:"description,omitempty"`
	Required    bool                   `json:"required,omitempty"`
	Schema      map[string]interface{} `json:"schema,omitempty"`
}

// Operations returns every operation in document traversal order: paths in
// lexical order, methods in the fixed order of PathItem.operations.
func (d *Document) Operations() []*Operation {
	return d.ops
}

// OperationByRef returns the operation with the exact "METHOD::/path"
// reference.
func (d *Document) OperationByRef(ref string) (*Operation, bool) {
	op, ok := d.byRef[normalizeRefMethod(ref)]
	return op, ok
}

// OperationByID returns the operation with the given operationId.
func (d *Document) OperationByID(id string) (*Operation, bool) {
	op, ok := d.byID[id]
	return op, ok
}

// index builds the lookup tables and stamps Method and Path onto every
// operation. Path level parameters are merged in front of operation level
// ones.
func (d *Document) index() {
	d.byRef = make(map[string]*Operation)
	d.byID = make(map[string]*Operation)

	paths := make([]string, 0, len(d.Paths))
	for p := range d.Paths {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		item := d.Paths[p]
		if item == nil {
			continue
		}
		for _, mo := range item.operations() {
			op := mo.op
			op.Method = mo.method
			op.Path = p
			if len(item.Parameters) > 0 {
				merged := make([]*Parameter, 0, len(item.Parameters)+len(op.Parameters))
				merged = append(merged, item.Parameters...)
				merged = append(merged, op.Parameters...)
				op.Parameters = merged
			}
			d.ops = append(d.ops, op)
			d.byRef[op.PathRef()] = op
			if op.ID != "" {
				if _, exists := d.byID[op.ID]; !exists {
					d.byID[op.ID] = op
				}
			}
		}
	}
}

func normalizeRefMethod(ref string) string {
	method, path, ok := SplitRef(ref)
	if !ok {
		return ref
	}
	return strings.ToUpper(method) + "::" + path
}
