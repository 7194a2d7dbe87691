package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreationLimiter(t *testing.T) {
	l := newCreationLimiter()

	// The burst is available immediately.
	for i := 0; i < creationBurst; i++ {
		require.True(t, l.Allow("guild-1"))
	}
	require.False(t, l.Allow("guild-1"))

	// Guilds are limited independently.
	require.True(t, l.Allow("guild-2"))
}
