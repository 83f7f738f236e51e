package gql

import (
	"time"

	"github.com/graphql-go/graphql"

	"github.com/jd-116/gadget-graphql-api/db"
	"github.com/jd-116/gadget-graphql-api/types"
)

// gadgetType maps the persisted gadget document onto query-able fields.
// Fields without an explicit resolver fall back to the json struct tags,
// so a nil field from a sparse document resolves to null
var gadgetType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Gadget",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type:    graphql.String,
			Resolve: resolveGadgetID,
		},
		"name": &graphql.Field{
			Type: graphql.String,
		},
		"release_date": &graphql.Field{
			Type:        graphql.String,
			Description: "Release date formatted as RFC 3339",
			Resolve:     resolveReleaseDate,
		},
		"by_company": &graphql.Field{
			Type: graphql.String,
		},
		"price": &graphql.Field{
			Type: graphql.Float,
		},
	},
})

// NewSchema builds the GraphQL schema with the root query
// backed by the given gadget provider
func NewSchema(gadgets db.GadgetProvider) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query: newRootQuery(gadgets),
	})
}

func newRootQuery(gadgets db.GadgetProvider) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"gadget": &graphql.Field{
				Type:        gadgetType,
				Description: "Looks up a single gadget by its ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{
						Type: graphql.String,
					},
				},
				Resolve: resolveGadget(gadgets),
			},
		},
	})
}

// resolveGadget performs one point lookup per resolution.
// A missing document resolves to null rather than an error
func resolveGadget(gadgets db.GadgetProvider) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		id, ok := p.Args["id"].(string)
		if !ok {
			return nil, nil
		}

		gadget, err := gadgets.GetGadget(p.Context, id)
		if err != nil {
			if db.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}

		return gadget, nil
	}
}

func resolveGadgetID(p graphql.ResolveParams) (interface{}, error) {
	gadget, ok := p.Source.(*types.Gadget)
	if !ok || gadget.ID.IsZero() {
		return nil, nil
	}
	return gadget.ID.Hex(), nil
}

func resolveReleaseDate(p graphql.ResolveParams) (interface{}, error) {
	gadget, ok := p.Source.(*types.Gadget)
	if !ok || gadget.ReleaseDate == nil {
		return nil, nil
	}
	return gadget.ReleaseDate.UTC().Format(time.RFC3339), nil
}
