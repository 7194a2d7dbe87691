package tickets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogEntries(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		key    string
		prefix string
	}{
		{key: "help", prefix: "pomoc"},
		{key: "report", prefix: "zgloszenie"},
		{key: "partnership", prefix: "partnerstwo"},
		{key: "idea", prefix: "pomysl"},
		{key: "rewards", prefix: "nagrody"},
	}

	require.Len(t, c.Descriptors(), len(tests))

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			d, ok := c.Lookup(tt.key)
			require.True(t, ok)
			require.Equal(t, tt.prefix, d.ChannelPrefix)
			require.NotEmpty(t, d.Title)
		})
	}
}

func TestCatalogLookupUnknown(t *testing.T) {
	c := DefaultCatalog()

	_, ok := c.Lookup("giveaway")
	require.False(t, ok)
}

func TestChannelName(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		name      string
		key       string
		requester string
		want      string
	}{
		{
			name:      "ReportUppercase",
			key:       "report",
			requester: "TestUser",
			want:      "zgloszenie-testuser",
		},
		{
			name:      "HelpCamelCase",
			key:       "help",
			requester: "CamelCase",
			want:      "pomoc-camelcase",
		},
		{
			name:      "IdeaLowercase",
			key:       "idea",
			requester: "someone",
			want:      "pomysl-someone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := c.Lookup(tt.key)
			require.True(t, ok)
			require.Equal(t, tt.want, d.ChannelName(tt.requester))
		})
	}
}
