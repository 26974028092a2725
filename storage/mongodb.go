package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/blavejr/plantcareAI/config"
	"github.com/blavejr/plantcareAI/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const countryIndexName = "country_unique"

// MongoStore reads country records from a MongoDB collection. The service
// only reads from it; Seed is used by the seed command to load a dataset.
type MongoStore struct {
	client     *mongo.Client
	database   *mongo.Database
	collection *mongo.Collection
	logger     *zap.Logger
}

func NewMongoStore(cfg *config.Config, logger *zap.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)
	collection := database.Collection(cfg.MongoCollection)

	logger.Info("connected to MongoDB",
		zap.String("database", cfg.MongoDatabase),
		zap.String("collection", cfg.MongoCollection),
	)

	return &MongoStore{
		client:     client,
		database:   database,
		collection: collection,
		logger:     logger,
	}, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureCountryIndex creates a unique index on the country key if missing.
func (s *MongoStore) EnsureCountryIndex(ctx context.Context) error {
	cursor, err := s.collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}
	defer cursor.Close(ctx)

	var indexes []bson.M
	if err := cursor.All(ctx, &indexes); err != nil {
		return fmt.Errorf("failed to decode indexes: %w", err)
	}

	for _, idx := range indexes {
		if name, ok := idx["name"].(string); ok && name == countryIndexName {
			return nil
		}
	}

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "country", Value: 1}},
		Options: options.Index().SetName(countryIndexName).SetUnique(true),
	}
	if _, err := s.collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		return fmt.Errorf("failed to create country index: %w", err)
	}

	s.logger.Info("country index created")
	return nil
}

// LoadCountries returns every record ordered by country name.
func (s *MongoStore) LoadCountries(ctx context.Context) ([]models.CountryRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "country", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.CountryRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	for i, record := range records {
		if record.Country == "" {
			return nil, fmt.Errorf("record %d has no country", i)
		}
	}

	return records, nil
}

// Seed upserts records keyed by country.
func (s *MongoStore) Seed(ctx context.Context, records []models.CountryRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("no countries to seed")
	}

	startTime := time.Now()
	writes := make([]mongo.WriteModel, len(records))
	for i, record := range records {
		writes[i] = mongo.NewReplaceOneModel().
			SetFilter(bson.M{"country": record.Country}).
			SetReplacement(record).
			SetUpsert(true)
	}

	result, err := s.collection.BulkWrite(ctx, writes)
	if err != nil {
		return fmt.Errorf("failed to seed countries: %w", err)
	}

	s.logger.Info("seeded countries",
		zap.Int("records", len(records)),
		zap.Int64("inserted", result.UpsertedCount),
		zap.Int64("replaced", result.ModifiedCount),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

func (s *MongoStore) CountCountries(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count countries: %w", err)
	}
	return count, nil
}

// DeleteCountry removes one record; used to clean up after integration tests.
func (s *MongoStore) DeleteCountry(ctx context.Context, country string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"country": country}); err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}
	return nil
}
