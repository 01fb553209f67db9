package types

import "encoding/json"

// Document is an opaque JSON-serializable entity record. Known collections
// have typed counterparts (Product, Category, Order); Document is the shape
// that flows through the store, the gateway, and the sync queue, so payloads
// with fields this package does not know about survive a round-trip intact.
type Document map[string]any

// ID returns the document's "id" field as a string. Numeric identifiers
// (JSON numbers decode as float64) are formatted without a fraction.
func (d Document) ID() string {
	switch v := d["id"].(type) {
	case string:
		return v
	case float64:
		return json.Number(jsonNumberString(v)).String()
	case int64:
		return json.Number(jsonNumberString(float64(v))).String()
	default:
		return ""
	}
}

// SetID sets the document's "id" field.
func (d Document) SetID(id string) {
	d["id"] = id
}

// Synced reports whether the document carries synced:true. Documents that
// never passed through the offline path have no synced field and count as
// synced.
func (d Document) Synced() bool {
	v, ok := d["synced"].(bool)
	if !ok {
		return true
	}
	return v
}

// SetSynced stamps the synced flag.
func (d Document) SetSynced(synced bool) {
	d["synced"] = synced
}

// Clone returns a shallow copy of the document. Nested values are shared;
// callers that mutate nested maps must deep-copy them first.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Merge returns a copy of d with every field from overlay applied on top.
// Last writer wins at field granularity.
func (d Document) Merge(overlay Document) Document {
	out := d.Clone()
	if out == nil {
		out = make(Document, len(overlay))
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// ToDocument converts a typed entity struct to a Document by a JSON
// round-trip. The zero Document is returned only on marshal failure, which
// for the known entity types cannot happen.
func ToDocument(entity any) (Document, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FromDocument decodes a Document into the typed entity pointed to by out.
func FromDocument(doc Document, out any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func jsonNumberString(v float64) string {
	raw, _ := json.Marshal(v)
	return string(raw)
}
