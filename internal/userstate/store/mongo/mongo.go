// Package mongo stores user state in a MongoDB collection.
package mongo

import (
	"context"
	"fmt"
	"iter"

	"github.com/syntrixbase/crm/internal/userstate"
	"github.com/syntrixbase/crm/internal/windowquery"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// New connects to uri and verifies the connection.
func New(ctx context.Context, cfg userstate.MongoConfig) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	s := &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the unique email index and one index per time column.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}}
	for _, c := range userstate.TimeColumns {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: c, Value: 1}}})
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func makeFilterBSON(f windowquery.Filter) bson.M {
	filter := bson.M{}
	for _, field := range f.TimeFields() {
		r, _ := f.Range(field)
		cond := bson.M{}
		if r.Since != nil {
			cond["$gte"] = *r.Since
		}
		if r.Until != nil {
			cond["$lte"] = *r.Until
		}
		if len(cond) > 0 {
			filter[field] = cond
		}
	}
	for _, field := range f.IDFields() {
		ids, _ := f.IDSet(field)
		filter[field] = bson.M{"$all": ids}
	}
	return filter
}

// Query opens a cursor sorted by email. The cursor is closed when the
// returned sequence finishes, so callers must range over it.
func (s *Store) Query(ctx context.Context, f windowquery.Filter) (iter.Seq2[userstate.User, error], error) {
	opts := options.Find().SetSort(bson.D{{Key: "email", Value: 1}})
	cursor, err := s.collection.Find(ctx, makeFilterBSON(f), opts)
	if err != nil {
		return nil, err
	}

	return func(yield func(userstate.User, error) bool) {
		defer cursor.Close(context.WithoutCancel(ctx))
		for cursor.Next(ctx) {
			var u userstate.User
			if err := cursor.Decode(&u); err != nil {
				yield(userstate.User{}, err)
				return
			}
			if !yield(u, nil) {
				return
			}
		}
		if err := cursor.Err(); err != nil {
			yield(userstate.User{}, err)
		}
	}, nil
}

// Insert upserts users by email.
func (s *Store) Insert(ctx context.Context, users ...userstate.User) error {
	if len(users) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(users))
	for _, u := range users {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"email": u.Email}).
			SetReplacement(u).
			SetUpsert(true))
	}
	_, err := s.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	return err
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
