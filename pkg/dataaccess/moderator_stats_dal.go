package dataaccess

import (
	"context"
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

const statsDalName = "moderator_stats_dal"

// ModeratorStatsDal is the data access layer for the per-moderator claim
// counters. It satisfies tickets.StatsStore.
type ModeratorStatsDal interface {
	// IncrementClaims adds one to the moderator's claim count for the guild,
	// creating the record if absent, and returns the new count.
	IncrementClaims(ctx context.Context, guildID, moderatorID string) (int, error)

	// TopModerators returns the moderators with the highest claim counts for
	// the guild, in descending order.
	TopModerators(ctx context.Context, guildID string, limit int) ([]*entities.ModeratorStat, error)
}

type moderatorStatsDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewModeratorStatsDal creates a new moderator stats data access layer.
func NewModeratorStatsDal(client *mongo.Client, logger *slog.Logger) ModeratorStatsDal {
	return &moderatorStatsDal{
		l:      logger.With(slog.String(logging.KeyDal, statsDalName)),
		client: client,
	}
}

func (d *moderatorStatsDal) IncrementClaims(ctx context.Context, guildID, moderatorID string) (int, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionModeratorStats)

	monitoring.MongoTotalRequests.WithLabelValues(statsDalName, "increment_claims", mongoDatabase, collectionModeratorStats).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(statsDalName, "increment_claims", mongoDatabase, collectionModeratorStats))
	defer t.ObserveDuration()

	// One atomic increment-or-create; the post-image carries the new count.
	filter := bson.M{
		"guild_id":     guildID,
		"moderator_id": moderatorID,
	}
	update := bson.M{
		"$inc": bson.M{"count": 1},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	stat := new(entities.ModeratorStat)
	if err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(stat); err != nil {
		return 0, fmt.Errorf("error incrementing moderator stats: %w", err)
	}
	return stat.Count, nil
}

func (d *moderatorStatsDal) TopModerators(ctx context.Context, guildID string, limit int) ([]*entities.ModeratorStat, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionModeratorStats)

	monitoring.MongoTotalRequests.WithLabelValues(statsDalName, "top_moderators", mongoDatabase, collectionModeratorStats).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(statsDalName, "top_moderators", mongoDatabase, collectionModeratorStats))
	defer t.ObserveDuration()

	opts := options.Find().
		SetSort(bson.M{"count": -1}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{"guild_id": guildID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying moderator stats: %w", err)
	}

	var stats []*entities.ModeratorStat
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("error decoding moderator stats: %w", err)
	}
	return stats, nil
}
