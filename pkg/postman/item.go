// pkg/postman/item.go
package postman

import (
	"strings"

	"github.com/jinzhu/copier"
)

// Item is a single entry in the collection tree. A folder carries child
// Items, a request carries a Request definition.
type Item struct {
	ID          string      `json:"id,omitempty"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Items       []*Item     `json:"item,omitempty"`
	Request     *Request    `json:"request,omitempty"`
	Response    []*Response `json:"response,omitempty"`
	Event       []*Event    `json:"event,omitempty"`
}

type Request struct {
	Method      string `json:"method"`
	Header      []*KV  `json:"header,omitempty"`
	Body        *Body  `json:"body,omitempty"`
	URL         *URL   `json:"url"`
	Description string `json:"description,omitempty"`
}

// KV is a key/value entry as used by headers, query params and path variables.
type KV struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Disabled    bool   `json:"disabled,omitempty"`
}

type URL struct {
	Raw      string   `json:"raw,omitempty"`
	Protocol string   `json:"protocol,omitempty"`
	Host     []string `json:"host,omitempty"`
	Path     []string `json:"path,omitempty"`
	Query    []*KV    `json:"query,omitempty"`
	Variable []*KV    `json:"variable,omitempty"`
}

type Body struct {
	Mode    string       `json:"mode,omitempty"`
	Raw     string       `json:"raw,omitempty"`
	Options *BodyOptions `json:"options,omitempty"`
}

type BodyOptions struct {
	Raw *RawOptions `json:"raw,omitempty"`
}

type RawOptions struct {
	Language string `json:"language,omitempty"`
}

// Response is a saved example response attached to a request item.
type Response struct {
	ID              string   `json:"id,omitempty"`
	Name            string   `json:"name,omitempty"`
	OriginalRequest *Request `json:"originalRequest,omitempty"`
	Status          string   `json:"status,omitempty"`
	Code            int      `json:"code,omitempty"`
	Header          []*KV    `json:"header,omitempty"`
	Body            string   `json:"body,omitempty"`
}

// IsFolder reports whether the item is a folder rather than a request.
func (i *Item) IsFolder() bool {
	return i.Request == nil
}

// AddChild appends a child item, turning the receiver into a folder.
func (i *Item) AddChild(child *Item) {
	i.Items = append(i.Items, child)
}

// Clone returns a deep copy of the item under a new id and name. The copy
// shares no mutable state with the receiver, so scripts, headers and bodies
// of the clone can be edited freely.
func (i *Item) Clone(id, name string) (*Item, error) {
	clone := &Item{}
	if err := copier.CopyWithOption(clone, i, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	clone.ID = id
	clone.Name = name
	return clone, nil
}

// HeaderValue returns the value of the first matching request header.
// Header names compare case insensitively.
func (r *Request) HeaderValue(key string) (string, bool) {
	for _, h := range r.Header {
		if strings.EqualFold(h.Key, key) {
			return h.Value, true
		}
	}
	return "", false
}

// SetHeader replaces the value of an existing header (case insensitive
// match) or appends a new one.
func (r *Request) SetHeader(key, value string) {
	for _, h := range r.Header {
		if strings.EqualFold(h.Key, key) {
			h.Value = value
			return
		}
	}
	r.Header = append(r.Header, &KV{Key: key, Value: value})
}

// PathString returns the request path with a leading slash. Postman style
// ":var" segments and "{{var}}" variables are normalized to OpenAPI style
// "{var}" placeholders so paths can be compared against API documents.
func (u *URL) PathString() string {
	if u == nil || len(u.Path) == 0 {
		return "/"
	}
	segs := make([]string, 0, len(u.Path))
	for _, s := range u.Path {
		switch {
		case strings.HasPrefix(s, ":") && len(s) > 1:
			s = "{" + s[1:] + "}"
		case strings.HasPrefix(s, "{{") && strings.HasSuffix(s, "}}") && len(s) > 4:
			s = "{" + s[2:len(s)-2] + "}"
		}
		segs = append(segs, s)
	}
	return "/" + strings.Join(segs, "/")
}
