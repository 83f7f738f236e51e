package db

import (
	"context"

	"github.com/jd-116/gadget-graphql-api/types"
)

// Provider represents a database provider implementation
type Provider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	GadgetProvider
}

// GadgetProvider provides read operations for types.Gadget documents
type GadgetProvider interface {
	// GetGadget performs a single point lookup by identifier,
	// returning a *NotFoundError if no document matches
	// and an *InvalidIDError if the identifier is malformed
	GetGadget(ctx context.Context, id string) (*types.Gadget, error)
	GetAllGadgets(ctx context.Context) ([]types.Gadget, error)
}
