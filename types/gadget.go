package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gadget is the document stored in MongoDB for a single gadget.
// Fields are projected as-is through the GraphQL Gadget type
// and the REST gadget routes; a field missing from the document
// stays nil and is rendered as null on both surfaces
type Gadget struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        *string            `json:"name" bson:"name,omitempty"`
	ReleaseDate *time.Time         `json:"release_date" bson:"release_date,omitempty"`
	ByCompany   *string            `json:"by_company" bson:"by_company,omitempty"`
	Price       *float64           `json:"price" bson:"price,omitempty"`
}

// NameOrEmpty returns the gadget name, or "" if the document has none
func (g *Gadget) NameOrEmpty() string {
	if g.Name == nil {
		return ""
	}
	return *g.Name
}
