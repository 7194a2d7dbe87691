package tickets

import (
	"context"
	"testing"
	"time"

	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/mpiekarski/zbik/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newClosureCoordinator(t *testing.T, states StateStore, messenger Messenger, perms PermissionChecker) *ClosureCoordinator {
	t.Helper()
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return NewClosureCoordinator(states, messenger, perms, l)
}

func TestRequestClose(t *testing.T) {
	state := &entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
		CreatorID: "user-1",
	}

	tests := []struct {
		name      string
		requester string
		staff     map[string]bool
		wantErr   error
	}{
		{
			name:      "Creator",
			requester: "user-1",
		},
		{
			name:      "Staff",
			requester: "mod-1",
			staff:     map[string]bool{"mod-1": true},
		},
		{
			name:      "Stranger",
			requester: "user-2",
			wantErr:   ErrPermissionDenied,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			states := newFakeStateStore(state)
			c := newClosureCoordinator(t, states, &fakeMessenger{}, &fakePerms{staff: tt.staff})

			err := c.RequestClose(context.Background(), "ch-1", tt.requester)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			// A close request persists nothing.
			got, err := states.GetState(context.Background(), "ch-1")
			require.NoError(t, err)
			require.Equal(t, state, got)
		})
	}
}

func TestRequestCloseNotATicket(t *testing.T) {
	c := newClosureCoordinator(t, newFakeStateStore(), &fakeMessenger{}, &fakePerms{})

	err := c.RequestClose(context.Background(), "ch-404", "user-1")
	require.ErrorIs(t, err, ErrNotATicket)
}

func TestConfirmClose(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
		CreatorID: "user-1",
	})
	messenger := &fakeMessenger{}
	c := newClosureCoordinator(t, states, messenger, &fakePerms{})

	var gotDelay time.Duration
	var fired func()
	c.schedule = func(d time.Duration, fn func()) {
		gotDelay = d
		fired = fn
	}

	// Confirm returns immediately; the deletion only runs when the timer
	// fires.
	c.ConfirmClose("ch-1")
	require.Equal(t, CloseDelay, gotDelay)
	require.Empty(t, messenger.deleted)

	st, err := states.GetState(context.Background(), "ch-1")
	require.NoError(t, err)
	require.NotNil(t, st)

	fired()
	require.Equal(t, []string{"ch-1"}, messenger.deleted)

	st, err = states.GetState(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Nil(t, st)
}

func TestConfirmCloseChannelDeleteFailure(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
	})
	messenger := &fakeMessenger{err: context.DeadlineExceeded}
	c := newClosureCoordinator(t, states, messenger, &fakePerms{})

	var fired func()
	c.schedule = func(_ time.Duration, fn func()) { fired = fn }

	c.ConfirmClose("ch-1")
	fired()

	// A failed channel delete still removes the state record.
	st, err := states.GetState(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Nil(t, st)
}

func TestCloseTicketIdempotent(t *testing.T) {
	states := newFakeStateStore()
	c := newClosureCoordinator(t, states, &fakeMessenger{}, &fakePerms{})

	// No state for the channel; closing is a no-op, not an error.
	require.NoError(t, c.CloseTicket(context.Background(), "ch-404"))
	require.NoError(t, c.CloseTicket(context.Background(), "ch-404"))
	require.Equal(t, 2, states.deletes)
}

func TestCancelClosePersistsNothing(t *testing.T) {
	state := &entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
		CreatorID: "user-1",
	}
	states := newFakeStateStore(state)
	messenger := &fakeMessenger{}
	c := newClosureCoordinator(t, states, messenger, &fakePerms{})

	scheduled := false
	c.schedule = func(time.Duration, func()) { scheduled = true }

	require.NoError(t, c.RequestClose(context.Background(), "ch-1", "user-1"))
	c.CancelClose("ch-1")

	require.False(t, scheduled)
	require.Empty(t, messenger.deleted)

	got, err := states.GetState(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Equal(t, state, got)
}
