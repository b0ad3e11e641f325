package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"panako/apperr"
)

// MongoBackend stores each Reference as a single document, keyed by
// its id, in one collection. It is the document-store option in the
// three-way backend menu alongside filesystem/JSON and SQLite.
type MongoBackend struct {
	client *mongo.Client
	refs   *mongo.Collection
}

// NewMongoBackend connects to uri and opens database/collection
// "panako"/"references".
func NewMongoBackend(uri string) (*MongoBackend, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("connecting to mongo: %w", err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("pinging mongo: %w", err))
	}

	refs := client.Database("panako").Collection("references")
	return &MongoBackend{client: client, refs: refs}, nil
}

func (b *MongoBackend) Put(ref Reference) error {
	if ref.Version == "" {
		ref.Version = FileFormatVersion
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts := options.Replace().SetUpsert(true)
	_, err := b.refs.ReplaceOne(ctx, bson.M{"_id": ref.ID}, ref, opts)
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	return nil
}

func (b *MongoBackend) Get(id string) (Reference, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var ref Reference
	if err := b.refs.FindOne(ctx, bson.M{"_id": id}).Decode(&ref); err != nil {
		return Reference{}, apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("reference %q not found: %w", id, err))
	}
	return ref, nil
}

func (b *MongoBackend) List() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cur, err := b.refs.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, apperr.Wrap(apperr.ErrStorageFailed, err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (b *MongoBackend) Delete(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := b.refs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	if res.DeletedCount == 0 {
		return apperr.Wrap(apperr.ErrStorageFailed, fmt.Errorf("reference %q not found", id))
	}
	return nil
}

func (b *MongoBackend) Stats() (Stats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"fpCount": bson.M{"$sum": bson.M{"$map": bson.M{
				"input": "$segments",
				"as":    "s",
				"in":    bson.M{"$size": "$$s.fingerprints"},
			}}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"refs":      bson.M{"$sum": 1},
			"fingerprints": bson.M{"$sum": "$fpCount"},
		}}},
	}

	cur, err := b.refs.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, apperr.Wrap(apperr.ErrStorageFailed, err)
	}
	defer cur.Close(ctx)

	var stats Stats
	if cur.Next(ctx) {
		var row struct {
			Refs         int `bson:"refs"`
			Fingerprints int `bson:"fingerprints"`
		}
		if err := cur.Decode(&row); err != nil {
			return Stats{}, apperr.Wrap(apperr.ErrStorageFailed, err)
		}
		stats.TotalReferences = row.Refs
		stats.TotalFingerprints = row.Fingerprints
	}
	return stats, nil
}

func (b *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return b.client.Disconnect(ctx)
}
