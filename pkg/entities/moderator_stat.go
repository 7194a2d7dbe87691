package entities

// ModeratorStat is the running count of tickets a moderator has claimed in a
// guild. Created lazily on the first successful claim; only ever incremented.
type ModeratorStat struct {
	// GuildID is the ID of the guild that the stat belongs to.
	GuildID string `json:"guild_id" bson:"guild_id"`

	// ModeratorID is the ID of the moderator.
	ModeratorID string `json:"moderator_id" bson:"moderator_id"`

	// Count is the number of tickets the moderator has claimed.
	Count int `json:"count" bson:"count"`
}
