package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mpiekarski/zbik/pkg/dataaccess/monitoring"
	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/mpiekarski/zbik/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const configDalName = "ticket_config_dal"

// TicketConfigDal is the data access layer for per-guild ticketing
// configuration. It satisfies tickets.ConfigStore.
type TicketConfigDal interface {
	// GetConfig gets the config for a guild. Returns (nil, nil) when the
	// guild has no config.
	GetConfig(ctx context.Context, guildID string) (*entities.TicketConfig, error)

	// SaveConfig upserts the config for a guild.
	SaveConfig(ctx context.Context, config *entities.TicketConfig) error
}

type ticketConfigDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketConfigDal creates a new ticket config data access layer.
func NewTicketConfigDal(client *mongo.Client, logger *slog.Logger) TicketConfigDal {
	return &ticketConfigDal{
		l:      logger.With(slog.String(logging.KeyDal, configDalName)),
		client: client,
	}
}

func (d *ticketConfigDal) GetConfig(ctx context.Context, guildID string) (*entities.TicketConfig, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketConfigs)

	monitoring.MongoTotalRequests.WithLabelValues(configDalName, "get_config", mongoDatabase, collectionTicketConfigs).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(configDalName, "get_config", mongoDatabase, collectionTicketConfigs))
	defer t.ObserveDuration()

	config := new(entities.TicketConfig)
	err := collection.FindOne(ctx, bson.M{"guild_id": guildID}).Decode(config)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket config: %w", err)
	}
	return config, nil
}

func (d *ticketConfigDal) SaveConfig(ctx context.Context, config *entities.TicketConfig) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketConfigs)

	monitoring.MongoTotalRequests.WithLabelValues(configDalName, "save_config", mongoDatabase, collectionTicketConfigs).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(configDalName, "save_config", mongoDatabase, collectionTicketConfigs))
	defer t.ObserveDuration()

	opts := options.Update().SetUpsert(true)
	_, err := collection.UpdateOne(ctx, bson.M{"guild_id": config.GuildID}, bson.M{"$set": config}, opts)
	if err != nil {
		return fmt.Errorf("error saving ticket config: %w", err)
	}
	return nil
}
