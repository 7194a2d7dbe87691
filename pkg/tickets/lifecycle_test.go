package tickets

import (
	"context"
	"testing"

	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/stretchr/testify/require"
)

func TestValidateCreation(t *testing.T) {
	configured := newFakeConfigStore(&entities.TicketConfig{
		GuildID:    "guild-1",
		CategoryID: "cat-1",
		Enabled:    true,
	})
	disabled := newFakeConfigStore(&entities.TicketConfig{
		GuildID:    "guild-1",
		CategoryID: "cat-1",
		Enabled:    false,
	})

	tests := []struct {
		name      string
		configs   ConfigStore
		guildID   string
		typeKey   string
		requester string
		wantErr   error
		wantPlan  *CreationPlan
	}{
		{
			name:      "NoConfig",
			configs:   newFakeConfigStore(),
			guildID:   "guild-1",
			typeKey:   "help",
			requester: "User1",
			wantErr:   ErrNoConfig,
		},
		{
			name:      "Disabled",
			configs:   disabled,
			guildID:   "guild-1",
			typeKey:   "help",
			requester: "User1",
			wantErr:   ErrTicketingDisabled,
		},
		{
			name:      "InvalidType",
			configs:   configured,
			guildID:   "guild-1",
			typeKey:   "giveaway",
			requester: "User1",
			wantErr:   ErrInvalidType,
		},
		{
			name:      "Help",
			configs:   configured,
			guildID:   "guild-1",
			typeKey:   "help",
			requester: "User1",
			wantPlan: &CreationPlan{
				CategoryID:  "cat-1",
				ChannelName: "pomoc-user1",
			},
		},
		{
			name:      "Report",
			configs:   configured,
			guildID:   "guild-1",
			typeKey:   "report",
			requester: "TestUser",
			wantPlan: &CreationPlan{
				CategoryID:  "cat-1",
				ChannelName: "zgloszenie-testuser",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLifecycleService(tt.configs, DefaultCatalog())

			plan, err := s.ValidateCreation(context.Background(), tt.guildID, tt.typeKey, tt.requester)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, plan)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantPlan.CategoryID, plan.CategoryID)
			require.Equal(t, tt.wantPlan.ChannelName, plan.ChannelName)
			require.Equal(t, tt.typeKey, plan.Type.Key)
		})
	}
}

// The service only ever reads guild config; it is constructed without a
// state or stats store, so a rejected request cannot leave ticket state
// behind.
func TestValidateCreationReadsConfigOnly(t *testing.T) {
	configs := newFakeConfigStore(&entities.TicketConfig{
		GuildID:    "guild-1",
		CategoryID: "cat-1",
		Enabled:    true,
	})
	s := NewLifecycleService(configs, DefaultCatalog())

	_, err := s.ValidateCreation(context.Background(), "guild-1", "giveaway", "User1")
	require.ErrorIs(t, err, ErrInvalidType)
	require.Equal(t, 1, configs.gets)
}
