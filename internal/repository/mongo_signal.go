package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/alexanderramin/cadence/internal/domain"
)

// CollectionSignals holds raw activity artifacts, one document per signal.
const CollectionSignals = "raw_artifacts"

// ConnectMongo opens a pooled client and verifies the primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(30 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return client, nil
}

type signalDocument struct {
	ID              string     `bson:"_id"`
	UserID          string     `bson:"user_id"`
	Kind            string     `bson:"kind"`
	RawText         string     `bson:"raw_text"`
	Concepts        []string   `bson:"concepts"`
	ObservedAt      time.Time  `bson:"observed_at"`
	DurationSec     *int       `bson:"duration_sec,omitempty"`
	DetectedDueDate *time.Time `bson:"detected_due_date,omitempty"`
	Title           string     `bson:"title,omitempty"`
}

func toSignalDocument(s *domain.ActivitySignal) signalDocument {
	doc := signalDocument{
		ID:          s.ID,
		UserID:      s.UserID,
		Kind:        string(s.Kind),
		RawText:     s.RawText,
		Concepts:    s.Concepts,
		ObservedAt:  s.ObservedAt.UTC(),
		DurationSec: s.DurationSec,
		Title:       s.Title,
	}
	if doc.Concepts == nil {
		doc.Concepts = []string{}
	}
	if s.DetectedDueDate != nil {
		due := s.DetectedDueDate.UTC()
		doc.DetectedDueDate = &due
	}
	return doc
}

func (d signalDocument) toDomain() domain.ActivitySignal {
	s := domain.ActivitySignal{
		ID:              d.ID,
		UserID:          d.UserID,
		Kind:            domain.ActivityKind(d.Kind),
		RawText:         d.RawText,
		ObservedAt:      d.ObservedAt.UTC(),
		DurationSec:     d.DurationSec,
		DetectedDueDate: d.DetectedDueDate,
		Title:           d.Title,
	}
	if len(d.Concepts) > 0 {
		s.Concepts = d.Concepts
	}
	return s
}

// MongoSignalRepo stores signals in MongoDB for deployments where an
// ingestion pipeline already writes there.
type MongoSignalRepo struct {
	coll *mongo.Collection
}

func NewMongoSignalRepo(coll *mongo.Collection) *MongoSignalRepo {
	return &MongoSignalRepo{coll: coll}
}

// EnsureIndexes creates the indexes the read paths rely on.
func (r *MongoSignalRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "observed_at", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "detected_due_date", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("creating signal indexes: %w", err)
	}
	return nil
}

func (r *MongoSignalRepo) Append(ctx context.Context, s *domain.ActivitySignal) error {
	if _, err := r.coll.InsertOne(ctx, toSignalDocument(s)); err != nil {
		return fmt.Errorf("inserting activity signal: %w", err)
	}
	return nil
}

func (r *MongoSignalRepo) FetchRecentSignals(ctx context.Context, userID string, since time.Time, limit int) ([]domain.ActivitySignal, error) {
	filter := bson.M{
		"user_id":     userID,
		"observed_at": bson.M{"$gte": since.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "observed_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching recent signals: %w", err)
	}
	var docs []signalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding recent signals: %w", err)
	}

	signals := make([]domain.ActivitySignal, 0, len(docs))
	for _, d := range docs {
		signals = append(signals, d.toDomain())
	}
	return signals, nil
}

func (r *MongoSignalRepo) FetchUpcomingDeadlines(ctx context.Context, userID string, from, to time.Time) ([]domain.Deadline, error) {
	filter := bson.M{
		"user_id":           userID,
		"detected_due_date": bson.M{"$gte": from.UTC(), "$lte": to.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "detected_due_date", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching upcoming deadlines: %w", err)
	}
	var docs []signalDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decoding upcoming deadlines: %w", err)
	}

	var deadlines []domain.Deadline
	seen := make(map[string]bool)
	for _, d := range docs {
		if d.DetectedDueDate == nil {
			continue
		}
		s := d.toDomain()
		key := s.Label() + "|" + d.DetectedDueDate.Format(time.RFC3339)
		if seen[key] {
			continue
		}
		seen[key] = true
		deadlines = append(deadlines, domain.Deadline{Label: s.Label(), DueDate: d.DetectedDueDate.UTC()})
	}
	return deadlines, nil
}

// IsMongoUnavailable reports whether err came from an unreachable server.
func IsMongoUnavailable(err error) bool {
	return mongo.IsTimeout(err) || mongo.IsNetworkError(err) || errors.Is(err, mongo.ErrClientDisconnected)
}
