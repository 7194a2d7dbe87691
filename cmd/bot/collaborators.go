package main

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/mpiekarski/zbik/pkg/dataaccess"
)

// sessionMessenger adapts the discord session to the closure coordinator's
// Messenger port.
type sessionMessenger struct {
	s *discordgo.Session
}

func (m *sessionMessenger) DeleteChannel(channelID string) error {
	if _, err := m.s.ChannelDelete(channelID); err != nil {
		return fmt.Errorf("error deleting channel: %w", err)
	}
	return nil
}

// sessionPermissions answers staff checks from the guild's configured staff
// role.
type sessionPermissions struct {
	s       *discordgo.Session
	configs dataaccess.TicketConfigDal
}

func (p *sessionPermissions) IsStaff(guildID, userID string) (bool, error) {
	config, err := p.configs.GetConfig(context.Background(), guildID)
	if err != nil {
		return false, fmt.Errorf("error getting guild config: %w", err)
	}
	if config == nil || config.StaffRoleID == "" {
		return false, nil
	}

	member, err := p.s.GuildMember(guildID, userID)
	if err != nil {
		return false, fmt.Errorf("error getting member: %w", err)
	}
	return hasRole(member, config.StaffRoleID), nil
}
