// Package model defines the open document records stored in the catalog.
//
// Products and categories are schema-less: clients may attach arbitrary
// descriptive fields, and the service stores and returns them verbatim. Only
// the fields the catalog itself operates on (title, price, quantity, name)
// are declared as typed; everything else rides along in the inline extras.
package model

import (
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document is a schema-less payload as supplied by a client. Create inserts
// it verbatim; partial updates turn its top-level fields into a $set.
type Document map[string]any

// WithoutID returns the document with any client-supplied _id removed.
// Identity is store-assigned and never taken from a request body.
func (d Document) WithoutID() Document {
	if _, ok := d["_id"]; !ok {
		return d
	}
	out := make(Document, len(d))
	for k, v := range d {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

// Product is the decoded read model of a product document. Fields the
// service does not know about are preserved in Extra.
type Product struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Title    string             `bson:"title"`
	Price    float64            `bson:"price"`
	Quantity int64              `bson:"quantity"`
	Extra    Document           `bson:",inline"`
}

// MarshalJSON flattens the record into a single JSON object: typed fields,
// passthrough extras, and the identifier as its 24-hex form under "_id".
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+4)
	for k, v := range p.Extra {
		out[k] = v
	}
	if !p.ID.IsZero() {
		out["_id"] = p.ID.Hex()
	}
	out["title"] = p.Title
	out["price"] = p.Price
	out["quantity"] = p.Quantity
	return json.Marshal(out)
}

// Category is the decoded read model of a category document.
type Category struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Extra Document           `bson:",inline"`
}

// MarshalJSON flattens the record the same way Product does.
func (c Category) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+2)
	for k, v := range c.Extra {
		out[k] = v
	}
	if !c.ID.IsZero() {
		out["_id"] = c.ID.Hex()
	}
	out["name"] = c.Name
	return json.Marshal(out)
}
