package tickets

import (
	"context"

	"github.com/mpiekarski/zbik/pkg/entities"
)

// ConfigStore reads per-guild ticketing configuration. The persistence layer
// is the single source of truth; a missing config is (nil, nil), not an error.
type ConfigStore interface {
	// GetConfig gets the config for a guild. Returns (nil, nil) when the guild
	// has no config.
	GetConfig(ctx context.Context, guildID string) (*entities.TicketConfig, error)
}

// StateStore persists ticket state records keyed by channel ID.
type StateStore interface {
	// GetState gets the state for a ticket channel. Returns (nil, nil) when
	// the channel has no state.
	GetState(ctx context.Context, channelID string) (*entities.TicketState, error)

	// CreateState creates the state record for a freshly created ticket
	// channel. The record starts unassigned.
	CreateState(ctx context.Context, state *entities.TicketState) error

	// Claim atomically assigns the ticket to the moderator, but only if it is
	// currently unassigned. The check and the write must be a single
	// indivisible operation at the store; concurrent callers for the same
	// channel must see exactly one success. A lost race returns
	// ErrAlreadyTaken.
	Claim(ctx context.Context, channelID, moderatorID string) (*entities.TicketState, error)

	// DeleteState removes the state for a ticket channel. Deleting an absent
	// channel is not an error.
	DeleteState(ctx context.Context, channelID string) error
}

// StatsStore persists the per-moderator claim counters.
type StatsStore interface {
	// IncrementClaims adds one to the moderator's claim count for the guild,
	// creating the record if absent, and returns the new count.
	IncrementClaims(ctx context.Context, guildID, moderatorID string) (int, error)

	// TopModerators returns the moderators with the highest claim counts for
	// the guild, in descending order.
	TopModerators(ctx context.Context, guildID string, limit int) ([]*entities.ModeratorStat, error)
}
