package entities

// TicketConfig is the per-guild ticketing configuration. There is at most one
// config per guild; it is written by the admin setup flow and read on every
// ticket creation.
type TicketConfig struct {
	// GuildID is the ID of the guild that the config belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// CategoryID is the ID of the category that new ticket channels are
	// created under.
	CategoryID string `json:"category_id" bson:"category_id"`

	// StaffRoleID is the ID of the role that handles tickets.
	StaffRoleID string `json:"staff_role_id" bson:"staff_role_id"`

	// PanelChannelID is the ID of the channel holding the open-ticket panel.
	PanelChannelID string `json:"panel_channel_id" bson:"panel_channel_id"`

	// PanelMessageID is the ID of the open-ticket panel message.
	PanelMessageID string `json:"panel_message_id" bson:"panel_message_id"`

	// Enabled is whether ticketing is enabled.
	Enabled bool `json:"enabled" bson:"enabled"`
}
