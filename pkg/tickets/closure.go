package tickets

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mpiekarski/zbik/pkg/logging"
)

// CloseDelay is the fixed delay between a confirmed close and the channel
// deletion.
const CloseDelay = 5000 * time.Millisecond

// Messenger is the slice of the messaging platform the closure flow needs.
type Messenger interface {
	// DeleteChannel deletes a channel.
	DeleteChannel(channelID string) error
}

// PermissionChecker answers whether a user is ticket staff in a guild.
type PermissionChecker interface {
	IsStaff(guildID, userID string) (bool, error)
}

// ClosureCoordinator drives the two-step close flow: a guarded close request,
// an ephemeral confirm/cancel prompt, and a delayed fire-and-forget deletion.
// The pending prompt is never persisted; a cancel simply abandons it.
type ClosureCoordinator struct {
	states    StateStore
	messenger Messenger
	perms     PermissionChecker
	delay     time.Duration
	l         *slog.Logger

	// schedule runs fn after d. Swappable so tests can fire the timer
	// synchronously.
	schedule func(d time.Duration, fn func())
}

// NewClosureCoordinator creates a new closure coordinator.
func NewClosureCoordinator(states StateStore, messenger Messenger, perms PermissionChecker, l *slog.Logger) *ClosureCoordinator {
	return &ClosureCoordinator{
		states:    states,
		messenger: messenger,
		perms:     perms,
		delay:     CloseDelay,
		l:         l,
		schedule: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// RequestClose validates a close request for the ticket channel. Allowed when
// the requester is guild staff or the ticket's creator; ErrPermissionDenied
// otherwise. Nothing is persisted either way; the caller shows the
// confirm/cancel prompt on success.
func (c *ClosureCoordinator) RequestClose(ctx context.Context, channelID, requesterID string) error {
	state, err := c.states.GetState(ctx, channelID)
	if err != nil {
		return fmt.Errorf("error getting ticket state: %w", err)
	}
	if state == nil {
		return ErrNotATicket
	}

	if requesterID == state.CreatorID {
		return nil
	}

	staff, err := c.perms.IsStaff(state.GuildID, requesterID)
	if err != nil {
		return fmt.Errorf("error checking staff role: %w", err)
	}
	if !staff {
		return ErrPermissionDenied
	}
	return nil
}

// CancelClose abandons a pending close prompt. The prompt only ever existed
// in the user interface, so there is nothing to undo.
func (c *ClosureCoordinator) CancelClose(channelID string) {
	c.l.Debug("Close cancelled", slog.String(logging.KeyChannel, channelID))
}

// ConfirmClose schedules the channel deletion and returns immediately. Once
// confirmed there is no way to cancel; a duplicate or late firing is harmless
// because the terminal cleanup is idempotent.
func (c *ClosureCoordinator) ConfirmClose(channelID string) {
	c.schedule(c.delay, func() {
		if err := c.messenger.DeleteChannel(channelID); err != nil {
			// The state record is still removed below, so a channel that was
			// already deleted by hand does not wedge the ticket.
			c.l.Error("Error deleting ticket channel",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}

		if err := c.CloseTicket(context.Background(), channelID); err != nil {
			c.l.Error("Error removing ticket state",
				slog.String(logging.KeyChannel, channelID),
				slog.String(logging.KeyError, err.Error()),
			)
		}
	})
}

// CloseTicket removes the ticket state for the channel. Idempotent: closing a
// channel with no state is a no-op, because the channel may already have been
// deleted by an earlier confirm.
func (c *ClosureCoordinator) CloseTicket(ctx context.Context, channelID string) error {
	if err := c.states.DeleteState(ctx, channelID); err != nil {
		return fmt.Errorf("error deleting ticket state: %w", err)
	}
	return nil
}
