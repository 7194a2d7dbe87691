package tickets

import (
	"context"
	"fmt"
)

// CreationPlan is the validated outcome of a ticket creation request. The
// caller creates the channel; on success it persists the ticket state, and a
// failed channel creation leaves nothing behind.
type CreationPlan struct {
	// CategoryID is the category that the new channel should be placed under.
	CategoryID string

	// Type is the descriptor of the requested ticket type.
	Type TypeDescriptor

	// ChannelName is the derived name for the new channel.
	ChannelName string
}

// LifecycleService validates ticket creation requests. It performs no side
// effects; channel creation belongs to the messaging collaborator.
type LifecycleService struct {
	configs ConfigStore
	catalog *Catalog
}

// NewLifecycleService creates a new lifecycle service.
func NewLifecycleService(configs ConfigStore, catalog *Catalog) *LifecycleService {
	return &LifecycleService{
		configs: configs,
		catalog: catalog,
	}
}

// Catalog returns the catalog the service validates against.
func (s *LifecycleService) Catalog() *Catalog {
	return s.catalog
}

// ValidateCreation checks the prerequisites for opening a ticket and derives
// the channel name. Returns ErrNoConfig when the guild has no config,
// ErrTicketingDisabled when ticketing is switched off, and ErrInvalidType for
// an unknown type key.
func (s *LifecycleService) ValidateCreation(ctx context.Context, guildID, typeKey, requesterName string) (*CreationPlan, error) {
	config, err := s.configs.GetConfig(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting guild config: %w", err)
	}
	if config == nil {
		return nil, ErrNoConfig
	}
	if !config.Enabled {
		return nil, ErrTicketingDisabled
	}

	descriptor, ok := s.catalog.Lookup(typeKey)
	if !ok {
		return nil, ErrInvalidType
	}

	return &CreationPlan{
		CategoryID:  config.CategoryID,
		Type:        descriptor,
		ChannelName: descriptor.ChannelName(requesterName),
	}, nil
}
