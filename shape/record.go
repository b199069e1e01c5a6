package shape

import (
	"bytes"
	"encoding/json"
)

// Field is a single key/value pair of a record.
type Field struct {
	Key   string
	Value string
}

// Fields is an object with string values that keeps insertion order.
type Fields []Field

// Get returns the value for key.
func (f Fields) Get(key string) (string, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return "", false
}

// Set adds key, or overwrites the value of an existing key in place.
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{key, value})
}

// MarshalJSON encodes the fields as a JSON object in insertion order.
func (f Fields) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := f.writeTo(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f Fields) writeTo(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(buf, field.Key, field.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

// Record is the shaped representation of a node or way.
//
// The JSON encoding starts with "created", followed by all pass-through
// attributes in document order and the optional "pos", "address" and
// "node_refs" members. "type" is always last.
type Record struct {
	Type string
	// Created holds the version, changeset, timestamp, user and uid
	// attributes. Always encoded, even if empty.
	Created Fields
	// Attrs holds all other attributes except lat/lon.
	Attrs Fields
	// Pos is [lat, lon], or nil if the element has no coordinates.
	Pos []float64
	// Address holds the addr:* tags without the prefix, or nil.
	Address Fields
	// NodeRefs holds the refs of all nd children, or nil.
	NodeRefs []string
}

// Members that every record has. Attributes with these names are not
// copied.
var reserved = map[string]bool{
	"type":    true,
	"created": true,
}

// removeShadowed removes attributes named like an optional member that is
// set, so that each key is encoded once.
func (r *Record) removeShadowed() {
	shadowed := map[string]bool{
		"pos":       r.Pos != nil,
		"address":   r.Address != nil,
		"node_refs": r.NodeRefs != nil,
	}
	attrs := r.Attrs[:0]
	for _, attr := range r.Attrs {
		if !shadowed[attr.Key] {
			attrs = append(attrs, attr)
		}
	}
	if len(attrs) == 0 {
		attrs = nil
	}
	r.Attrs = attrs
}

func (r Record) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}

	buf.WriteString(`{"created":`)
	if err := r.Created.writeTo(buf); err != nil {
		return nil, err
	}
	for _, attr := range r.Attrs {
		buf.WriteByte(',')
		if err := writeMember(buf, attr.Key, attr.Value); err != nil {
			return nil, err
		}
	}
	if r.Pos != nil {
		buf.WriteByte(',')
		if err := writeMember(buf, "pos", r.Pos); err != nil {
			return nil, err
		}
	}
	if r.Address != nil {
		buf.WriteString(`,"address":`)
		if err := r.Address.writeTo(buf); err != nil {
			return nil, err
		}
	}
	if r.NodeRefs != nil {
		buf.WriteByte(',')
		if err := writeMember(buf, "node_refs", r.NodeRefs); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(',')
	if err := writeMember(buf, "type", r.Type); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeMember(buf *bytes.Buffer, key string, value interface{}) error {
	if err := writeValue(buf, key); err != nil {
		return err
	}
	buf.WriteByte(':')
	return writeValue(buf, value)
}

// writeValue appends the JSON encoding of v without escaping <, > and &.
func writeValue(buf *bytes.Buffer, v interface{}) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// strip newline added by Encode
	buf.Truncate(buf.Len() - 1)
	return nil
}
