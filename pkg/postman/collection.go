// pkg/postman/collection.go
package postman

import (
	"encoding/json"
	"os"

	"github.com/google/uuid"
)

// SchemaV210 identifies the Postman collection v2.1.0 wire format.
const SchemaV210 = "https://schema.getpostman.com/json/collection/v2.1.0/collection.json"

// Collection is a Postman collection in v2.1 wire format.
type Collection struct {
	Info     Info        `json:"info"`
	Items    []*Item     `json:"item"`
	Variable []*Variable `json:"variable,omitempty"`
	Event    []*Event    `json:"event,omitempty"`
}

type Info struct {
	PostmanID   string `json:"_postman_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Schema      string `json:"schema"`
}

type Variable struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type,omitempty"`
}

// New creates an empty collection with a fresh identity.
func New(name string) *Collection {
	return &Collection{
		Info: Info{
			PostmanID: uuid.NewString(),
			Name:      name,
			Schema:    SchemaV210,
		},
	}
}

// Parse decodes a collection from its JSON wire form. Items missing an id
// are assigned one so that later processing can address them individually.
func Parse(data []byte) (*Collection, error) {
	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if c.Info.Schema == "" {
		c.Info.Schema = SchemaV210
	}
	if c.Info.PostmanID == "" {
		c.Info.PostmanID = uuid.NewString()
	}
	c.ForEachItem(func(it *Item) {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
	})
	return &c, nil
}

// ParseFile reads and decodes a collection file.
func ParseFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Encode serializes the collection as indented JSON.
func (c *Collection) Encode() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// WriteFile serializes the collection and writes it to path.
func (c *Collection) WriteFile(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ForEachItem visits every item in the collection tree, folders included,
// in declaration order (depth first).
func (c *Collection) ForEachItem(fn func(*Item)) {
	walkItems(c.Items, fn)
}

func walkItems(items []*Item, fn func(*Item)) {
	for _, it := range items {
		fn(it)
		if len(it.Items) > 0 {
			walkItems(it.Items, fn)
		}
	}
}

// Requests returns every request item (non folder) in declaration order.
func (c *Collection) Requests() []*Item {
	var out []*Item
	c.ForEachItem(func(it *Item) {
		if it.Request != nil {
			out = append(out, it)
		}
	})
	return out
}

// AddItem appends an item at the top level of the collection.
func (c *Collection) AddItem(it *Item) {
	c.Items = append(c.Items, it)
}

// Folder returns the top level folder with the given name, creating it
// when absent.
func (c *Collection) Folder(name string) *Item {
	for _, it := range c.Items {
		if it.Request == nil && it.Name == name {
			return it
		}
	}
	f := &Item{ID: uuid.NewString(), Name: name}
	c.Items = append(c.Items, f)
	return f
}

// UpsertVariable sets a collection variable, replacing the value of an
// existing key.
func (c *Collection) UpsertVariable(key, value string) {
	for _, v := range c.Variable {
		if v.Key == key {
			v.Value = value
			return
		}
	}
	c.Variable = append(c.Variable, &Variable{Key: key, Value: value, Type: "string"})
}

// EnsureVariable registers a collection variable with an empty value unless
// the key already exists. Existing values are left untouched.
func (c *Collection) EnsureVariable(key string) {
	for _, v := range c.Variable {
		if v.Key == key {
			return
		}
	}
	c.Variable = append(c.Variable, &Variable{Key: key, Value: "", Type: "string"})
}
