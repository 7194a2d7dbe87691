package tickets

import (
	"context"
	"sync"
	"testing"

	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/mpiekarski/zbik/pkg/logging"
	"github.com/stretchr/testify/require"
)

func newAssignmentService(t *testing.T, states StateStore, stats StatsStore) *AssignmentService {
	t.Helper()
	l, err := logging.CommonLogger(logging.NewConfig(`tests`))
	require.NoError(t, err, "Failed to create logger")
	return NewAssignmentService(states, stats, l)
}

func TestTakeTicket(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
	})
	s := newAssignmentService(t, states, newFakeStatsStore())

	result, err := s.TakeTicket(context.Background(), "ch-1", "guild-1", "mod-1")
	require.NoError(t, err)
	require.Equal(t, "mod-1", result.AssignedTo)
	require.Equal(t, 1, result.StatsCount)

	owner, err := s.Owner(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Equal(t, "mod-1", owner)
}

func TestTakeTicketAlreadyTaken(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
	})
	stats := newFakeStatsStore()
	s := newAssignmentService(t, states, stats)

	_, err := s.TakeTicket(context.Background(), "ch-1", "guild-1", "mod-1")
	require.NoError(t, err)

	// The second claim loses, mutates nothing, and the winner stays the owner.
	_, err = s.TakeTicket(context.Background(), "ch-1", "guild-1", "mod-2")
	require.ErrorIs(t, err, ErrAlreadyTaken)

	owner, err := s.Owner(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Equal(t, "mod-1", owner)
	require.Equal(t, 1, stats.counts["guild-1/mod-1"])
	require.Zero(t, stats.counts["guild-1/mod-2"])
}

func TestTakeTicketConcurrent(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
	})
	stats := newFakeStatsStore()
	s := newAssignmentService(t, states, stats)

	const claimers = 32

	var wg sync.WaitGroup
	successes := make(chan string, claimers)
	losses := make(chan error, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			mod := string(rune('a' + n))
			result, err := s.TakeTicket(context.Background(), "ch-1", "guild-1", mod)
			if err != nil {
				losses <- err
				return
			}
			successes <- result.AssignedTo
		}(i)
	}
	wg.Wait()
	close(successes)
	close(losses)

	// Exactly one claim wins; all others observe ErrAlreadyTaken.
	require.Len(t, successes, 1)
	require.Len(t, losses, claimers-1)
	for err := range losses {
		require.ErrorIs(t, err, ErrAlreadyTaken)
	}

	winner := <-successes
	owner, err := s.Owner(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Equal(t, winner, owner)

	// The guild's counters moved by exactly one in total.
	total := 0
	for _, c := range stats.counts {
		total += c
	}
	require.Equal(t, 1, total)
}

func TestTakeTicketStatsProgress(t *testing.T) {
	states := newFakeStateStore(
		&entities.TicketState{ChannelID: "ch-1", GuildID: "guild-1"},
		&entities.TicketState{ChannelID: "ch-2", GuildID: "guild-1"},
	)
	s := newAssignmentService(t, states, newFakeStatsStore())

	first, err := s.TakeTicket(context.Background(), "ch-1", "guild-1", "mod-1")
	require.NoError(t, err)
	require.Equal(t, 1, first.StatsCount)

	second, err := s.TakeTicket(context.Background(), "ch-2", "guild-1", "mod-1")
	require.NoError(t, err)
	require.Equal(t, 2, second.StatsCount)
}

func TestTakeTicketStatsFailureKeepsClaim(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
	})
	stats := newFakeStatsStore()
	stats.err = context.DeadlineExceeded
	s := newAssignmentService(t, states, stats)

	// The claim is committed before the counter moves; a counter failure does
	// not roll it back.
	result, err := s.TakeTicket(context.Background(), "ch-1", "guild-1", "mod-1")
	require.NoError(t, err)
	require.Equal(t, "mod-1", result.AssignedTo)
	require.Zero(t, result.StatsCount)

	owner, err := s.Owner(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Equal(t, "mod-1", owner)
}

func TestOwnerUnclaimed(t *testing.T) {
	states := newFakeStateStore(&entities.TicketState{
		ChannelID: "ch-1",
		GuildID:   "guild-1",
	})
	s := newAssignmentService(t, states, newFakeStatsStore())

	owner, err := s.Owner(context.Background(), "ch-1")
	require.NoError(t, err)
	require.Empty(t, owner)

	_, err = s.Owner(context.Background(), "ch-404")
	require.ErrorIs(t, err, ErrNotATicket)
}
