package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentID(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{"string id", Document{"id": "prod-1"}, "prod-1"},
		{"numeric id from JSON decode", Document{"id": float64(42)}, "42"},
		{"int64 id", Document{"id": int64(7)}, "7"},
		{"missing id", Document{"name": "x"}, ""},
		{"nil document", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.ID())
		})
	}
}

func TestDocumentSynced(t *testing.T) {
	assert.True(t, Document{"id": "a"}.Synced(), "absent flag counts as synced")
	assert.True(t, Document{"synced": true}.Synced())
	assert.False(t, Document{"synced": false}.Synced())

	doc := Document{"id": "a"}
	doc.SetSynced(false)
	assert.False(t, doc.Synced())
	doc.SetSynced(true)
	assert.True(t, doc.Synced())
}

func TestDocumentClone(t *testing.T) {
	orig := Document{"id": "a", "name": "Apples"}
	clone := orig.Clone()

	clone["name"] = "Bananas"
	assert.Equal(t, "Apples", orig["name"], "clone must not alias the original")

	var nilDoc Document
	assert.Nil(t, nilDoc.Clone())
}

func TestDocumentMerge(t *testing.T) {
	base := Document{"id": "a", "name": "Apples", "price": 1.5}
	overlay := Document{"price": 2.0, "category": "fruit"}

	merged := base.Merge(overlay)

	assert.Equal(t, "a", merged.ID())
	assert.Equal(t, "Apples", merged["name"])
	assert.Equal(t, 2.0, merged["price"], "overlay wins per field")
	assert.Equal(t, "fruit", merged["category"])

	assert.Equal(t, 1.5, base["price"], "merge must not mutate the base")
	assert.NotContains(t, overlay, "name", "merge must not mutate the overlay")
}

func TestDocumentMerge_NilBase(t *testing.T) {
	var base Document
	merged := base.Merge(Document{"id": "a"})
	assert.Equal(t, "a", merged.ID())
}

func TestToDocumentRoundTrip(t *testing.T) {
	product := Product{
		ID:      "p1",
		Name:    "Espresso",
		Price:   2.40,
		Barcode: "4006381333931",
		Synced:  true,
	}

	doc, err := ToDocument(product)
	require.NoError(t, err)
	assert.Equal(t, "p1", doc.ID())
	assert.Equal(t, "Espresso", doc["name"])
	assert.True(t, doc.Synced())

	var back Product
	require.NoError(t, FromDocument(doc, &back))
	assert.Equal(t, product, back)
}
