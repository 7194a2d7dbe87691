package tickets

import (
	"context"
	"sync"

	"github.com/mpiekarski/zbik/pkg/entities"
)

// fakeConfigStore is an in-memory ConfigStore.
type fakeConfigStore struct {
	configs map[string]*entities.TicketConfig
	err     error

	gets int
}

func newFakeConfigStore(configs ...*entities.TicketConfig) *fakeConfigStore {
	s := &fakeConfigStore{configs: make(map[string]*entities.TicketConfig)}
	for _, c := range configs {
		s.configs[c.GuildID] = c
	}
	return s
}

func (s *fakeConfigStore) GetConfig(_ context.Context, guildID string) (*entities.TicketConfig, error) {
	s.gets++
	if s.err != nil {
		return nil, s.err
	}
	return s.configs[guildID], nil
}

// fakeStateStore is an in-memory StateStore. Claim holds the mutex across the
// check and the write, mirroring the single conditional update the real store
// performs.
type fakeStateStore struct {
	mut    sync.Mutex
	states map[string]*entities.TicketState

	deletes int
}

func newFakeStateStore(states ...*entities.TicketState) *fakeStateStore {
	s := &fakeStateStore{states: make(map[string]*entities.TicketState)}
	for _, st := range states {
		s.states[st.ChannelID] = st
	}
	return s
}

func (s *fakeStateStore) GetState(_ context.Context, channelID string) (*entities.TicketState, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	return s.states[channelID], nil
}

func (s *fakeStateStore) CreateState(_ context.Context, state *entities.TicketState) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	s.states[state.ChannelID] = state
	return nil
}

func (s *fakeStateStore) Claim(_ context.Context, channelID, moderatorID string) (*entities.TicketState, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	state, ok := s.states[channelID]
	if !ok {
		// Create-if-absent, matching the store's upsert semantics.
		state = &entities.TicketState{ChannelID: channelID}
		s.states[channelID] = state
	}
	if state.Assigned() {
		return nil, ErrAlreadyTaken
	}

	mod := moderatorID
	state.AssignedTo = &mod
	return state, nil
}

func (s *fakeStateStore) DeleteState(_ context.Context, channelID string) error {
	s.mut.Lock()
	defer s.mut.Unlock()
	delete(s.states, channelID)
	s.deletes++
	return nil
}

// fakeStatsStore is an in-memory StatsStore.
type fakeStatsStore struct {
	mut    sync.Mutex
	counts map[string]int
	err    error
}

func newFakeStatsStore() *fakeStatsStore {
	return &fakeStatsStore{counts: make(map[string]int)}
}

func (s *fakeStatsStore) IncrementClaims(_ context.Context, guildID, moderatorID string) (int, error) {
	s.mut.Lock()
	defer s.mut.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	key := guildID + "/" + moderatorID
	s.counts[key]++
	return s.counts[key], nil
}

func (s *fakeStatsStore) TopModerators(_ context.Context, guildID string, limit int) ([]*entities.ModeratorStat, error) {
	return nil, nil
}

// fakeMessenger records channel deletions.
type fakeMessenger struct {
	mut     sync.Mutex
	deleted []string
	err     error
}

func (m *fakeMessenger) DeleteChannel(channelID string) error {
	m.mut.Lock()
	defer m.mut.Unlock()
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, channelID)
	return nil
}

// fakePerms answers staff checks from a fixed set.
type fakePerms struct {
	staff map[string]bool
	err   error
}

func (p *fakePerms) IsStaff(_ string, userID string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.staff[userID], nil
}
