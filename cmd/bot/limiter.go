package main

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// creationLimiter throttles ticket creation per guild. A guild gets a small
// burst and then one ticket every creationInterval.
type creationLimiter struct {
	mut      sync.Mutex
	limiters map[string]*rate.Limiter
}

const (
	// creationInterval is the steady-state gap between ticket creations in a
	// guild.
	creationInterval = 20 * time.Second

	// creationBurst is how many tickets a guild may open back to back.
	creationBurst = 3
)

func newCreationLimiter() *creationLimiter {
	return &creationLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the guild may open another ticket right now.
func (c *creationLimiter) Allow(guildID string) bool {
	c.mut.Lock()
	defer c.mut.Unlock()

	l, ok := c.limiters[guildID]
	if !ok {
		l = rate.NewLimiter(rate.Every(creationInterval), creationBurst)
		c.limiters[guildID] = l
	}
	return l.Allow()
}
