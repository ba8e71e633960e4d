package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TypeTag is the closed set of field types.
// The zero value is String, the default for untyped fields.
type TypeTag int

const (
	String TypeTag = iota
	Number
	Date
	Boolean
)

// AllTags lists every tag in canonical order.
var AllTags = []TypeTag{String, Number, Date, Boolean}

// String renders the lowercase tag name.
func (t TypeTag) String() string {
	switch t {
	case String:
		return "string"
	case Number:
		return "number"
	case Date:
		return "date"
	case Boolean:
		return "boolean"
	default:
		return fmt.Sprintf("TypeTag(%d)", int(t))
	}
}

// Valid reports whether t is one of the four tags.
func (t TypeTag) Valid() bool {
	switch t {
	case String, Number, Date, Boolean:
		return true
	default:
		return false
	}
}

// ParseTypeTag parses a tag name. Unknown names are an error, never a silent
// fallback to string.
func ParseTypeTag(s string) (TypeTag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "string":
		return String, nil
	case "number":
		return Number, nil
	case "date":
		return Date, nil
	case "boolean":
		return Boolean, nil
	default:
		return String, fmt.Errorf("unknown type tag %q: must be one of number, string, date, boolean", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t TypeTag) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid type tag %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TypeTag) UnmarshalText(text []byte) error {
	tag, err := ParseTypeTag(string(text))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// Field is a single field declaration.
type Field struct {
	Name string  `json:"name" yaml:"name"`
	Type TypeTag `json:"type" yaml:"type"`
}

// TypeMap maps field names to type tags in declaration order.
//
// Declaration order is part of the contract: free-text search scans fields
// in this order and stops at the first match.
//
// A nil *TypeMap is valid and empty; every lookup yields String.
type TypeMap struct {
	names []string
	tags  map[string]TypeTag
}

// NewTypeMap creates a TypeMap from fields in the given order.
// A repeated name keeps its first position and takes the last tag.
func NewTypeMap(fields ...Field) *TypeMap {
	m := &TypeMap{tags: make(map[string]TypeTag, len(fields))}
	for _, f := range fields {
		m.Set(f.Name, f.Type)
	}
	return m
}

// Set declares or retags a field. New fields are appended.
func (m *TypeMap) Set(name string, tag TypeTag) {
	if m.tags == nil {
		m.tags = make(map[string]TypeTag)
	}
	if _, ok := m.tags[name]; !ok {
		m.names = append(m.names, name)
	}
	m.tags[name] = tag
}

// Lookup returns the tag of name, or String when the field is undeclared.
func (m *TypeMap) Lookup(name string) TypeTag {
	if m == nil {
		return String
	}
	if tag, ok := m.tags[name]; ok {
		return tag
	}
	return String
}

// Has reports whether name is declared.
func (m *TypeMap) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.tags[name]
	return ok
}

// Len returns the number of declared fields.
func (m *TypeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// Names returns field names in declaration order.
func (m *TypeMap) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Fields returns the declarations in order.
func (m *TypeMap) Fields() []Field {
	if m == nil {
		return nil
	}
	out := make([]Field, len(m.names))
	for i, name := range m.names {
		out[i] = Field{Name: name, Type: m.tags[name]}
	}
	return out
}

// String renders the map in the same "name:type,..." form ParseTypeMap reads.
func (m *TypeMap) String() string {
	parts := make([]string, 0, m.Len())
	for _, f := range m.Fields() {
		parts = append(parts, f.Name+":"+f.Type.String())
	}
	return strings.Join(parts, ",")
}

// MarshalJSON renders the map as an ordered list of field declarations.
func (m *TypeMap) MarshalJSON() ([]byte, error) {
	fields := m.Fields()
	if fields == nil {
		fields = []Field{}
	}
	return json.Marshal(fields)
}

// UnmarshalJSON reads an ordered list of field declarations.
func (m *TypeMap) UnmarshalJSON(data []byte) error {
	var fields []Field
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*m = *NewTypeMap(fields...)
	return nil
}

// ParseTypeMap parses "name:type,name:type" into a TypeMap.
// Whitespace around names and tags is ignored; empty entries are skipped.
func ParseTypeMap(s string) (*TypeMap, error) {
	m := NewTypeMap()
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, tagText, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid type declaration %q: want name:type", entry)
		}
		tag, err := ParseTypeTag(tagText)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		m.Set(name, tag)
	}
	return m, nil
}
