package records

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/seatmap/pkg/errors"
)

// Mongo defaults.
const (
	DefaultMongoURI        = "mongodb://localhost:27017"
	DefaultMongoDatabase   = "seatmap"
	DefaultMongoCollection = "layouts"
)

const mongoDialTimeout = 5 * time.Second

// mongoDoc is the stored document. The layout is kept as a string so the
// persisted array round-trips byte for byte.
type mongoDoc struct {
	ID        string    `bson:"_id"`
	Layout    string    `bson:"layout"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoStore keeps one document per layout, keyed by layout id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// DialMongo connects to uri and verifies the connection. Empty arguments
// use the Default* values.
func DialMongo(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		uri = DefaultMongoURI
	}
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}

	dialCtx, cancel := context.WithTimeout(ctx, mongoDialTimeout)
	defer cancel()

	client, err := mongo.Connect(dialCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, storageErr(err, "connect to mongo")
	}
	if err := client.Ping(dialCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storageErr(err, "ping mongo")
	}
	return NewMongoStore(client.Database(database).Collection(collection)), nil
}

// NewMongoStore wraps an existing collection. Close disconnects the
// collection's client.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: coll.Database().Client(), coll: coll, now: time.Now}
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := errors.ValidateLayoutID(id); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "get layout %s", id)
	}
	return &Record{ID: doc.ID, Layout: []byte(doc.Layout), UpdatedAt: doc.UpdatedAt.UTC()}, nil
}

func (s *MongoStore) Set(ctx context.Context, id string, layout []byte) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	doc := mongoDoc{ID: id, Layout: string(normalizeValue(layout)), UpdatedAt: s.now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: id}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return storageErr(err, "set layout %s", id)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateLayoutID(id); err != nil {
		return err
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return storageErr(err, "delete layout %s", id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "_id", Value: 1}}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, storageErr(err, "list layouts")
	}
	defer cur.Close(ctx)

	var ids []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, storageErr(err, "decode layout id")
		}
		ids = append(ids, doc.ID)
	}
	if err := cur.Err(); err != nil {
		return nil, storageErr(err, "list layouts")
	}
	return ids, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
