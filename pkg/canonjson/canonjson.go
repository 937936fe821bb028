// Package canonjson renders bson values as canonical JSON: bson.D entries in
// declared order, map keys sorted, no HTML escaping. The output is meant for
// golden files, examples and logs, not for the database driver.
package canonjson

import (
	"bytes"
	"encoding/json"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Marshal renders v as compact canonical JSON.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, "", ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent renders v as canonical JSON indented with two spaces.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v any, prefix, indent string) error {
	switch t := v.(type) {
	case bson.D:
		return encodeD(buf, t, prefix, indent)
	case bson.M:
		return encodeMap(buf, t, prefix, indent)
	case map[string]any:
		return encodeMap(buf, t, prefix, indent)
	case bson.A:
		return encodeSlice(buf, t, prefix, indent)
	case []any:
		return encodeSlice(buf, t, prefix, indent)
	case []bson.D:
		items := make([]any, len(t))
		for i, d := range t {
			items[i] = d
		}
		return encodeSlice(buf, items, prefix, indent)
	case time.Time:
		return encodeScalar(buf, t.UTC().Format(time.RFC3339Nano))
	case primitive.ObjectID:
		return encodeScalar(buf, t.Hex())
	default:
		return encodeScalar(buf, v)
	}
}

func encodeD(buf *bytes.Buffer, doc bson.D, prefix, indent string) error {
	keys := make([]string, len(doc))
	values := make([]any, len(doc))
	for i, e := range doc {
		keys[i], values[i] = e.Key, e.Value
	}
	return encodeObject(buf, keys, values, prefix, indent)
}

func encodeMap(buf *bytes.Buffer, doc map[string]any, prefix, indent string) error {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]any, len(keys))
	for i, k := range keys {
		values[i] = doc[k]
	}
	return encodeObject(buf, keys, values, prefix, indent)
}

func encodeObject(buf *bytes.Buffer, keys []string, values []any, prefix, indent string) error {
	if len(keys) == 0 {
		buf.WriteString("{}")
		return nil
	}
	inner := prefix + indent
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeBreak(buf, inner, indent)
		if err := encodeScalar(buf, k); err != nil {
			return err
		}
		buf.WriteByte(':')
		if indent != "" {
			buf.WriteByte(' ')
		}
		if err := encode(buf, values[i], inner, indent); err != nil {
			return err
		}
	}
	writeBreak(buf, prefix, indent)
	buf.WriteByte('}')
	return nil
}

func encodeSlice(buf *bytes.Buffer, items []any, prefix, indent string) error {
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}
	inner := prefix + indent
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeBreak(buf, inner, indent)
		if err := encode(buf, item, inner, indent); err != nil {
			return err
		}
	}
	writeBreak(buf, prefix, indent)
	buf.WriteByte(']')
	return nil
}

func encodeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encode appends a newline the canonical form does not want.
	buf.Truncate(buf.Len() - 1)
	return nil
}

func writeBreak(buf *bytes.Buffer, prefix, indent string) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(prefix)
}
