package dataaccess

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB is the Mongo client. This is a connection pool.
var MongoDB *mongo.Client

const mongoDatabase = "zbik"

const (
	// collectionTicketConfigs holds one config document per guild.
	collectionTicketConfigs = "ticket_configs"

	// collectionTicketStates holds one document per active ticket channel.
	collectionTicketStates = "ticket_states"

	// collectionModeratorStats holds one counter document per
	// (guild, moderator) pair.
	collectionModeratorStats = "moderator_stats"
)
