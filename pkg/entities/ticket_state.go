package entities

import (
	"github.com/mpiekarski/zbik/pkg/custom"
)

// TicketState is the record for one active ticket channel. It is created when
// the channel is created and removed when the ticket is confirmed closed.
type TicketState struct {
	// ChannelID is the ID of the ticket channel. Unique per ticket.
	ChannelID string `json:"channel_id" bson:"channel_id"`

	// GuildID is the ID of the guild that the ticket is in.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// CreatorID is the ID of the user that opened the ticket.
	CreatorID string `json:"creator_id" bson:"creator_id"`

	// CreatorName is the username of the user that opened the ticket.
	CreatorName string `json:"creator_name" bson:"creator_name"`

	// TypeKey is the catalog key of the ticket type.
	TypeKey string `json:"type_key" bson:"type_key"`

	// AssignedTo is the ID of the moderator that claimed the ticket. Nil until
	// the ticket is claimed; it never changes again once set.
	AssignedTo *string `json:"assigned_to" bson:"assigned_to"`

	// CreatedAt is the time that the ticket was created.
	CreatedAt custom.Datetime `json:"created_at" bson:"created_at"`
}

// Assigned reports whether the ticket has been claimed.
func (t *TicketState) Assigned() bool {
	return t.AssignedTo != nil && *t.AssignedTo != ""
}
