package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/example/nyksales/pkg/config"
)

// AuditStore keeps an append-only trail of order lifecycle actions
// (created, status_changed, deleted) in MongoDB.
type AuditStore struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewAuditStore(cfg *config.MongoDBConfig) (*AuditStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &AuditStore{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (s *AuditStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *AuditStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type AuditLog struct {
	ID        string                 `bson:"_id,omitempty"`
	Action    string                 `bson:"action"`
	EntityID  string                 `bson:"entity_id"`
	ActorID   string                 `bson:"actor_id,omitempty"`
	Data      map[string]interface{} `bson:"data"`
	CreatedAt time.Time              `bson:"created_at"`
}

func (s *AuditStore) CreateAuditLog(ctx context.Context, log *AuditLog) error {
	collection := s.database.Collection(s.config.Collection)
	log.CreatedAt = time.Now()
	_, err := collection.InsertOne(ctx, log)
	return err
}

func (s *AuditStore) GetAuditLogs(ctx context.Context, entityID string, limit int64) ([]*AuditLog, error) {
	collection := s.database.Collection(s.config.Collection)

	filter := bson.M{"entity_id": entityID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*AuditLog
	if err = cursor.All(ctx, &logs); err != nil {
		return nil, err
	}

	return logs, nil
}
