// Package dbtest provides an in-memory db.Provider for handler and resolver tests
package dbtest

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jd-116/gadget-graphql-api/db"
	"github.com/jd-116/gadget-graphql-api/types"
)

// Provider is an in-memory db.Provider that mirrors the lookup
// semantics of the MongoDB provider (object ID parsing, typed errors)
type Provider struct {
	mu      sync.Mutex
	gadgets map[primitive.ObjectID]types.Gadget
	lookups []string

	// Err, when set, is returned from every read
	Err error
}

var _ db.Provider = (*Provider)(nil)

// NewProvider creates a provider seeded with the given gadgets
func NewProvider(gadgets ...types.Gadget) *Provider {
	p := &Provider{
		gadgets: make(map[primitive.ObjectID]types.Gadget),
	}
	for _, gadget := range gadgets {
		p.gadgets[gadget.ID] = gadget
	}
	return p
}

// Connect is a no-op
func (p *Provider) Connect(ctx context.Context) error {
	return nil
}

// Disconnect is a no-op
func (p *Provider) Disconnect(ctx context.Context) error {
	return nil
}

// GetGadget implements db.GadgetProvider
func (p *Provider) GetGadget(ctx context.Context, id string) (*types.Gadget, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lookups = append(p.lookups, id)
	if p.Err != nil {
		return nil, p.Err
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, db.NewInvalidIDError(id)
	}

	gadget, ok := p.gadgets[objectID]
	if !ok {
		return nil, db.NewNotFoundError(id)
	}

	return &gadget, nil
}

// GetAllGadgets implements db.GadgetProvider, sorting by name
func (p *Provider) GetAllGadgets(ctx context.Context) ([]types.Gadget, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return nil, p.Err
	}

	gadgets := make([]types.Gadget, 0, len(p.gadgets))
	for _, gadget := range p.gadgets {
		gadgets = append(gadgets, gadget)
	}
	sort.Slice(gadgets, func(i, j int) bool {
		return gadgets[i].NameOrEmpty() < gadgets[j].NameOrEmpty()
	})

	return gadgets, nil
}

// Lookups returns the IDs passed to GetGadget so far
func (p *Provider) Lookups() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.lookups...)
}

// String returns a pointer to the given string, for seeding optional fields
func String(value string) *string {
	return &value
}

// Float64 returns a pointer to the given float
func Float64(value float64) *float64 {
	return &value
}

// Time returns a pointer to the given time
func Time(value time.Time) *time.Time {
	return &value
}
