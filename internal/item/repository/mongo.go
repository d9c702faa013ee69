package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crudapp/crudapp/internal/item"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionSource hands out a collection per call. *database.Client satisfies it;
// until the client is connected every call fails, and so does every query.
type CollectionSource interface {
	Collection(name string) (*mongo.Collection, error)
}

// MongoRepo implements Repository on a MongoDB collection keyed by _id ObjectIDs.
type MongoRepo struct {
	src  CollectionSource
	name string
}

func NewMongoRepo(src CollectionSource, collection string) *MongoRepo {
	return &MongoRepo{src: src, name: collection}
}

func (m *MongoRepo) col() (*mongo.Collection, error) {
	col, err := m.src.Collection(m.name)
	if err != nil {
		return nil, fmt.Errorf("collection %s: %w", m.name, err)
	}
	return col, nil
}

func (m *MongoRepo) Create(ctx context.Context, it *item.Item) error {
	col, err := m.col()
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	it.ID = primitive.NewObjectID()
	it.CreatedAt = now
	it.UpdatedAt = now
	if _, err := col.InsertOne(ctx, it); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id primitive.ObjectID) (*item.Item, error) {
	col, err := m.col()
	if err != nil {
		return nil, err
	}
	var it item.Item
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find item: %w", err)
	}
	return &it, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]*item.Item, error) {
	col, err := m.col()
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer cur.Close(ctx)
	out := []*item.Item{}
	for cur.Next(ctx) {
		var it item.Item
		if err := cur.Decode(&it); err != nil {
			return nil, fmt.Errorf("decode item: %w", err)
		}
		out = append(out, &it)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// Update sets name and description, and image only when a new one was uploaded,
// returning the document as it is after the update.
func (m *MongoRepo) Update(ctx context.Context, id primitive.ObjectID, in item.UpdateInput) (*item.Item, error) {
	col, err := m.col()
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"name":        in.Name,
		"description": in.Description,
		"updatedAt":   time.Now().UTC(),
	}
	if in.Image != "" {
		set["image"] = in.Image
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated item.Item
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return &updated, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	col, err := m.col()
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
