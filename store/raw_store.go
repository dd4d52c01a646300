package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/socialmux/cleanser/model"
)

const rawDataCollection = "raw_data"

// RawStore is the boundary to the persistent raw-data store the crawler
// writes into. FetchById returns (nil, nil) when the record does not exist,
// the caller decides whether absence is fatal.
type RawStore interface {
	FetchById(ctx context.Context, id string) (*model.RawData, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

// MongoRawStore reads raw search-result records from MongoDB.
type MongoRawStore struct {
	coll *mongo.Collection
}

// NewMongoRawStore connects using RAW_STORE_URI / RAW_STORE_DB from env.
func NewMongoRawStore(ctx context.Context) (*MongoRawStore, error) {
	uri := os.Getenv("RAW_STORE_URI")
	if uri == "" {
		uri = fmt.Sprintf("mongodb://%s:%s", os.Getenv("RAW_STORE_HOST"), os.Getenv("RAW_STORE_PORT"))
	}
	dbName := os.Getenv("RAW_STORE_DB")
	if dbName == "" {
		dbName = "crawler"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "fail to connect to raw-data store")
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(err, "fail to ping raw-data store")
	}

	return &MongoRawStore{
		coll: client.Database(dbName).Collection(rawDataCollection),
	}, nil
}

func (s *MongoRawStore) FetchById(ctx context.Context, id string) (*model.RawData, error) {
	var record model.RawData
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "storage error: fail to fetch raw record %s", id)
	}
	return &record, nil
}

func (s *MongoRawStore) UpdateStatus(ctx context.Context, id string, status string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "status_updated_at": time.Now()}},
	)
	if err != nil {
		return errors.Wrapf(err, "storage error: fail to update status of raw record %s", id)
	}
	return nil
}
