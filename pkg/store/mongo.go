package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/topicmap/pkg/errors"
	"github.com/matzehuels/topicmap/pkg/topic"
)

// Collection names.
const (
	collMaps  = "mindMaps"
	collUsers = "users"
)

// DefaultMongoDatabase is used when no database name is configured.
const DefaultMongoDatabase = "topicmap"

const mongoTimeout = 10 * time.Second

// MongoStore keeps maps in the mindMaps collection and each user's saved
// topics as an array on their users document.
type MongoStore struct {
	client *mongo.Client
	maps   *mongo.Collection
	users  *mongo.Collection
}

// userDoc is the shape of a users document.
type userDoc struct {
	ID          string   `bson:"_id"`
	SavedTopics []string `bson:"savedTopics"`
}

// NewMongoStore connects to uri and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo uri is empty")
	}
	if database == "" {
		database = DefaultMongoDatabase
	}

	ctx, cancel := context.WithTimeout(ctx, mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongo")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongo")
	}

	db := client.Database(database)
	return &MongoStore{
		client: client,
		maps:   db.Collection(collMaps),
		users:  db.Collection(collUsers),
	}, nil
}

func (s *MongoStore) CreateMap(ctx context.Context, m *Map) error {
	if err := prepareMap(m, uuid.NewString(), now()); err != nil {
		return err
	}
	if _, err := s.maps.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert map: %w", err)
	}
	return nil
}

func (s *MongoStore) GetMap(ctx context.Context, id string) (*Map, error) {
	var m Map
	err := s.maps.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get map: %w", err)
	}
	m.Tree = m.Tree.Normalize()
	return &m, nil
}

func (s *MongoStore) ListMaps(ctx context.Context, userID string) ([]Map, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := s.maps.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	result := []Map{}
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("list maps: %w", err)
	}
	for i := range result {
		result[i].Tree = result[i].Tree.Normalize()
	}
	return result, nil
}

func (s *MongoStore) updateMap(ctx context.Context, id string, set bson.M) error {
	set["updatedAt"] = now()
	res, err := s.maps.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update map: %w", err)
	}
	if res.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) RenameMap(ctx context.Context, id, title string) error {
	if err := errors.ValidateMapTitle(title); err != nil {
		return err
	}
	return s.updateMap(ctx, id, bson.M{"title": strings.TrimSpace(title)})
}

func (s *MongoStore) UpdateMap(ctx context.Context, id string, tree topic.Tree) error {
	return s.updateMap(ctx, id, bson.M{"tree": tree.Normalize()})
}

func (s *MongoStore) DeleteMap(ctx context.Context, id string) error {
	res, err := s.maps.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete map: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// SaveTopic uses $addToSet, which appends only absent values and so keeps
// first-saved order.
func (s *MongoStore) SaveTopic(ctx context.Context, userID, name string) error {
	name, err := prepareTopic(userID, name)
	if err != nil {
		return err
	}
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"savedTopics": name}},
		options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save topic: %w", err)
	}
	return nil
}

func (s *MongoStore) Topics(ctx context.Context, userID string) ([]string, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if doc.SavedTopics == nil {
		return []string{}, nil
	}
	return doc.SavedTopics, nil
}

func (s *MongoStore) RemoveTopic(ctx context.Context, userID, name string) error {
	name, err := prepareTopic(userID, name)
	if err != nil {
		return err
	}
	_, err = s.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"savedTopics": name}})
	if err != nil {
		return fmt.Errorf("remove topic: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}
