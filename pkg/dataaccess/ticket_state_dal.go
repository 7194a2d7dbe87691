package dataaccess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mpiekarski/zbik/pkg/dataaccess/monitoring"
	"github.com/mpiekarski/zbik/pkg/entities"
	"github.com/mpiekarski/zbik/pkg/logging"
	"github.com/mpiekarski/zbik/pkg/tickets"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const stateDalName = "ticket_state_dal"

// TicketStateDal is the data access layer for ticket state records. It
// satisfies tickets.StateStore; the at-most-one-claim invariant is enforced
// here, at the store boundary, with a single conditional write.
type TicketStateDal interface {
	// GetState gets the state for a ticket channel. Returns (nil, nil) when
	// the channel has no state.
	GetState(ctx context.Context, channelID string) (*entities.TicketState, error)

	// CreateState creates the state record for a new ticket channel.
	CreateState(ctx context.Context, state *entities.TicketState) error

	// Claim assigns the ticket to the moderator only if it is currently
	// unassigned. Returns tickets.ErrAlreadyTaken when another moderator got
	// there first.
	Claim(ctx context.Context, channelID, moderatorID string) (*entities.TicketState, error)

	// DeleteState removes the state for a ticket channel. Idempotent.
	DeleteState(ctx context.Context, channelID string) error

	// EnsureIndexes creates the unique channel index the claim write relies
	// on. Called once at startup.
	EnsureIndexes(ctx context.Context) error
}

type ticketStateDal struct {
	// l is the logger.
	l *slog.Logger

	// client is the database.
	client *mongo.Client
}

// NewTicketStateDal creates a new ticket state data access layer.
func NewTicketStateDal(client *mongo.Client, logger *slog.Logger) TicketStateDal {
	return &ticketStateDal{
		l:      logger.With(slog.String(logging.KeyDal, stateDalName)),
		client: client,
	}
}

func (d *ticketStateDal) EnsureIndexes(ctx context.Context) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketStates)

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "channel_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("error creating ticket state index: %w", err)
	}
	return nil
}

func (d *ticketStateDal) GetState(ctx context.Context, channelID string) (*entities.TicketState, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketStates)

	monitoring.MongoTotalRequests.WithLabelValues(stateDalName, "get_state", mongoDatabase, collectionTicketStates).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(stateDalName, "get_state", mongoDatabase, collectionTicketStates))
	defer t.ObserveDuration()

	state := new(entities.TicketState)
	err := collection.FindOne(ctx, bson.M{"channel_id": channelID}).Decode(state)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("error getting ticket state: %w", err)
	}
	return state, nil
}

func (d *ticketStateDal) CreateState(ctx context.Context, state *entities.TicketState) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketStates)

	monitoring.MongoTotalRequests.WithLabelValues(stateDalName, "create_state", mongoDatabase, collectionTicketStates).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(stateDalName, "create_state", mongoDatabase, collectionTicketStates))
	defer t.ObserveDuration()

	if _, err := collection.InsertOne(ctx, state); err != nil {
		return fmt.Errorf("error creating ticket state: %w", err)
	}
	return nil
}

// Claim is the load-bearing write of the whole subsystem. The filter matches
// the document only while assigned_to is null, so the check and the set are
// one indivisible operation server-side. With the unique channel_id index, a
// concurrent claim that lost the race surfaces as a duplicate-key error from
// the upsert path, never as a double assignment.
func (d *ticketStateDal) Claim(ctx context.Context, channelID, moderatorID string) (*entities.TicketState, error) {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketStates)

	monitoring.MongoTotalRequests.WithLabelValues(stateDalName, "claim", mongoDatabase, collectionTicketStates).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(stateDalName, "claim", mongoDatabase, collectionTicketStates))
	defer t.ObserveDuration()

	filter := bson.M{
		"channel_id":  channelID,
		"assigned_to": nil,
	}
	update := bson.M{
		"$set": bson.M{"assigned_to": moderatorID},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	state := new(entities.TicketState)
	err := collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(state)
	if mongo.IsDuplicateKeyError(err) {
		return nil, tickets.ErrAlreadyTaken
	} else if err != nil {
		return nil, fmt.Errorf("error claiming ticket: %w", err)
	}
	return state, nil
}

func (d *ticketStateDal) DeleteState(ctx context.Context, channelID string) error {
	collection := d.client.Database(mongoDatabase).Collection(collectionTicketStates)

	monitoring.MongoTotalRequests.WithLabelValues(stateDalName, "delete_state", mongoDatabase, collectionTicketStates).Inc()
	t := prometheus.NewTimer(monitoring.MongoLatency.WithLabelValues(stateDalName, "delete_state", mongoDatabase, collectionTicketStates))
	defer t.ObserveDuration()

	// A zero delete count means the state was already gone, which is fine.
	if _, err := collection.DeleteOne(ctx, bson.M{"channel_id": channelID}); err != nil {
		return fmt.Errorf("error deleting ticket state: %w", err)
	}
	return nil
}
