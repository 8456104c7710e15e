package store

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/krishiq/krishiq/agridata"
	"github.com/krishiq/krishiq/config"
)

// MongoProvider implements agridata.Provider on MongoDB. Unlike the
// PostgreSQL layout it stores pre-joined documents, one per record, so
// Query is a single collection scan with a bson filter.
type MongoProvider struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
}

// MongoConfig holds MongoDB connection configuration.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// DefaultMongoConfig returns default MongoDB configuration.
func DefaultMongoConfig() *MongoConfig {
	return &MongoConfig{
		URI:        "mongodb://localhost:27017",
		Database:   "krishiq",
		Collection: "agroclimate",
	}
}

// mongoRecord is the internal document representation.
type mongoRecord struct {
	ID       string `bson:"_id"`
	State    string `bson:"state"`
	District string `bson:"district"`
	Year     int    `bson:"year"`

	Crop             string  `bson:"crop"`
	Season           string  `bson:"season"`
	AreaHectares     float64 `bson:"area_hectares"`
	YieldTonnesPerHa float64 `bson:"yield_tonnes_per_ha"`
	ProductionTonnes float64 `bson:"production_tonnes"`

	AvgTemperatureC float64 `bson:"avg_temperature_c"`
	TotalRainfallMM float64 `bson:"total_rainfall_mm"`
	HumidityPercent float64 `bson:"humidity_percent"`

	AgriSource     string `bson:"agri_source"`
	AgriDataset    string `bson:"agri_dataset"`
	ClimateSource  string `bson:"climate_source"`
	ClimateDataset string `bson:"climate_dataset"`
}

// Validate checks the configuration before connecting.
func (c *MongoConfig) Validate() error {
	return config.ValidateMongoConfig(c.URI, c.Database)
}

// NewMongoProvider connects to MongoDB and prepares the collection.
func NewMongoProvider(cfg *MongoConfig) (*MongoProvider, error) {
	if cfg == nil {
		cfg = DefaultMongoConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid MongoDB config: %w", err)
	}
	if cfg.Collection == "" {
		cfg.Collection = "agroclimate"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(cfg.Database)
	collection := db.Collection(cfg.Collection)

	p := &MongoProvider{
		client:     client,
		db:         db,
		collection: collection,
	}

	if err := p.createIndexes(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return p, nil
}

// createIndexes creates indexes for the common state and year filters.
func (p *MongoProvider) createIndexes(ctx context.Context) error {
	indexModel := mongo.IndexModel{
		Keys: bson.D{{Key: "state", Value: 1}, {Key: "year", Value: 1}},
	}

	_, err := p.collection.Indexes().CreateOne(ctx, indexModel)
	return err
}

// AddRecords upserts pre-joined records. The document id is derived from
// the state, district, year, crop, and season key, so re-adding a record
// replaces the previous figures.
func (p *MongoProvider) AddRecords(ctx context.Context, records ...agridata.Record) error {
	opts := options.Replace().SetUpsert(true)

	for _, r := range records {
		doc := mongoRecord{
			ID:       recordID(r),
			State:    r.State,
			District: r.District,
			Year:     r.Year,

			Crop:             r.Crop,
			Season:           r.Season,
			AreaHectares:     r.AreaHectares,
			YieldTonnesPerHa: r.YieldTonnesPerHa,
			ProductionTonnes: r.ProductionTonnes,

			AvgTemperatureC: r.AvgTemperatureC,
			TotalRainfallMM: r.TotalRainfallMM,
			HumidityPercent: r.HumidityPercent,

			AgriSource:     r.AgriSource,
			AgriDataset:    r.AgriDataset,
			ClimateSource:  r.ClimateSource,
			ClimateDataset: r.ClimateDataset,
		}

		filter := bson.M{"_id": doc.ID}
		if _, err := p.collection.ReplaceOne(ctx, filter, doc, opts); err != nil {
			return fmt.Errorf("failed to add record to MongoDB: %w", err)
		}
	}
	return nil
}

// Query returns the records matching f, sorted by state, district, year,
// crop, and season so output order is deterministic.
func (p *MongoProvider) Query(ctx context.Context, f agridata.Filter) ([]agridata.Record, error) {
	filter := bson.M{}
	if len(f.States) > 0 {
		filter["state"] = foldIn(f.States)
	}
	if len(f.Crops) > 0 {
		filter["crop"] = foldIn(f.Crops)
	}
	if len(f.Years) > 0 {
		filter["year"] = bson.M{"$in": f.Years}
	}
	if len(f.Districts) > 0 {
		filter["district"] = foldIn(f.Districts)
	}

	sort := options.Find().SetSort(bson.D{
		{Key: "state", Value: 1},
		{Key: "district", Value: 1},
		{Key: "year", Value: 1},
		{Key: "crop", Value: 1},
		{Key: "season", Value: 1},
	})

	cursor, err := p.collection.Find(ctx, filter, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoRecord
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}

	records := make([]agridata.Record, len(docs))
	for i, d := range docs {
		records[i] = agridata.Record{
			State:    d.State,
			District: d.District,
			Year:     d.Year,

			Crop:             d.Crop,
			Season:           d.Season,
			AreaHectares:     d.AreaHectares,
			YieldTonnesPerHa: d.YieldTonnesPerHa,
			ProductionTonnes: d.ProductionTonnes,

			AvgTemperatureC: d.AvgTemperatureC,
			TotalRainfallMM: d.TotalRainfallMM,
			HumidityPercent: d.HumidityPercent,

			AgriSource:     d.AgriSource,
			AgriDataset:    d.AgriDataset,
			ClimateSource:  d.ClimateSource,
			ClimateDataset: d.ClimateDataset,
		}
	}

	return records, nil
}

// Clear removes all records from the collection.
func (p *MongoProvider) Clear(ctx context.Context) error {
	if _, err := p.collection.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

// Count returns the number of records in the collection.
func (p *MongoProvider) Count(ctx context.Context) (int, error) {
	count, err := p.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return int(count), nil
}

// Close closes the MongoDB connection.
func (p *MongoProvider) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return p.client.Disconnect(ctx)
}

// Ping checks if the MongoDB connection is alive.
func (p *MongoProvider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, nil)
}

var _ agridata.Provider = (*MongoProvider)(nil)

func recordID(r agridata.Record) string {
	return fmt.Sprintf("%s|%s|%d|%s|%s", r.State, r.District, r.Year, r.Crop, r.Season)
}

// foldIn builds a case-insensitive $in over exact values.
func foldIn(values []string) bson.M {
	patterns := make([]primitive.Regex, len(values))
	for i, v := range values {
		patterns[i] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(v) + "$",
			Options: "i",
		}
	}
	return bson.M{"$in": patterns}
}
