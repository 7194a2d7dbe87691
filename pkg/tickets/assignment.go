package tickets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mpiekarski/zbik/pkg/logging"
)

// ClaimResult is the outcome of a successful claim.
type ClaimResult struct {
	// AssignedTo is the ID of the moderator that now owns the ticket.
	AssignedTo string

	// StatsCount is the moderator's claim count for the guild after this
	// claim. Zero when the counter increment failed after the claim committed.
	StatsCount int
}

// AssignmentService owns the claim logic. At most one moderator may ever own
// a ticket; the guarantee lives in the store's atomic conditional write, never
// in an application-level lock.
type AssignmentService struct {
	states StateStore
	stats  StatsStore
	l      *slog.Logger
}

// NewAssignmentService creates a new assignment service.
func NewAssignmentService(states StateStore, stats StatsStore, l *slog.Logger) *AssignmentService {
	return &AssignmentService{
		states: states,
		stats:  stats,
		l:      l,
	}
}

// TakeTicket claims the ticket for the moderator. Concurrent calls for the
// same channel resolve to exactly one success; every other caller gets
// ErrAlreadyTaken and no record is mutated for them. On success the
// moderator's stat counter is incremented and the new count returned.
func (s *AssignmentService) TakeTicket(ctx context.Context, channelID, guildID, moderatorID string) (*ClaimResult, error) {
	state, err := s.states.Claim(ctx, channelID, moderatorID)
	if err != nil {
		if errors.Is(err, ErrAlreadyTaken) {
			return nil, ErrAlreadyTaken
		}
		return nil, fmt.Errorf("error claiming ticket: %w", err)
	}

	result := &ClaimResult{
		AssignedTo: moderatorID,
	}
	if state != nil && state.AssignedTo != nil {
		result.AssignedTo = *state.AssignedTo
	}

	// The claim is committed at this point. A failed counter increment is
	// logged and the claim stands.
	count, err := s.stats.IncrementClaims(ctx, guildID, moderatorID)
	if err != nil {
		s.l.Error("Error incrementing moderator stats",
			slog.String(logging.KeyGuild, guildID),
			slog.String(logging.KeyChannel, channelID),
			slog.String(logging.KeyError, err.Error()),
		)
		return result, nil
	}
	result.StatsCount = count

	return result, nil
}

// Owner returns the moderator that owns the ticket, or empty when the ticket
// is unclaimed. ErrNotATicket when the channel has no state.
func (s *AssignmentService) Owner(ctx context.Context, channelID string) (string, error) {
	state, err := s.states.GetState(ctx, channelID)
	if err != nil {
		return "", fmt.Errorf("error getting ticket state: %w", err)
	}
	if state == nil {
		return "", ErrNotATicket
	}
	if !state.Assigned() {
		return "", nil
	}
	return *state.AssignedTo, nil
}
