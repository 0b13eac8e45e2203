package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"rollcall.io/infrastructure/logger"
)

// ErrDuplicate is returned when an insert or update violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

func (repo *MongoRepository[T]) CreateOne(ctx context.Context, payload T) (*T, error) {
	parsed, ok := payload.ParseModel().(*T)
	if !ok {
		return nil, fmt.Errorf("ParseModel of %T did not return a pointer to itself", payload)
	}
	_, err := repo.Model.InsertOne(ctx, parsed)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		logger.Error("mongo error occured while running CreateOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "collection",
			Data: repo.Model.Name(),
		})
		return nil, err
	}
	return parsed, nil
}

// Returns nil without an error when nothing matches.
func (repo *MongoRepository[T]) FindOneByFilter(ctx context.Context, filter map[string]any) (*T, error) {
	var result T
	err := repo.Model.FindOne(ctx, withoutDeleted(filter)).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("mongo error occured while running FindOneByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	return repo.FindOneByFilter(ctx, map[string]any{"_id": id})
}

func (repo *MongoRepository[T]) FindMany(ctx context.Context, filter map[string]any, opts *FindOptions) ([]T, error) {
	findOpts := options.Find()
	if opts != nil {
		if opts.Sort != nil {
			findOpts.SetSort(opts.Sort)
		}
		if opts.Skip != nil {
			findOpts.SetSkip(*opts.Skip)
		}
		if opts.Limit != nil {
			findOpts.SetLimit(*opts.Limit)
		}
	}
	cursor, err := repo.Model.Find(ctx, withoutDeleted(filter), findOpts)
	if err != nil {
		logger.Error("mongo error occured while running FindMany", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	results := []T{}
	if err := cursor.All(ctx, &results); err != nil {
		logger.Error("mongo error occured while decoding FindMany cursor", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return results, nil
}

func (repo *MongoRepository[T]) CountDocs(ctx context.Context, filter map[string]any) (int64, error) {
	count, err := repo.Model.CountDocuments(ctx, withoutDeleted(filter))
	if err != nil {
		logger.Error("mongo error occured while running CountDocs", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return 0, err
	}
	return count, nil
}

// Applies $set with payload and returns the updated document, or nil when
// nothing matched.
func (repo *MongoRepository[T]) UpdatePartialByFilter(ctx context.Context, filter map[string]any, payload map[string]any) (*T, error) {
	payload["updatedAt"] = time.Now()
	var result T
	err := repo.Model.FindOneAndUpdate(ctx, withoutDeleted(filter), bson.M{"$set": payload},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		logger.Error("mongo error occured while running UpdatePartialByFilter", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	return &result, nil
}

func (repo *MongoRepository[T]) UpdatePartialByID(ctx context.Context, id string, payload map[string]any) (*T, error) {
	return repo.UpdatePartialByFilter(ctx, map[string]any{"_id": id}, payload)
}

// Inserts payload or overwrites the document matching filter. The _id and
// createdAt of an existing document are preserved.
func (repo *MongoRepository[T]) UpsertOne(ctx context.Context, filter map[string]any, payload T) (*T, error) {
	parsed, ok := payload.ParseModel().(*T)
	if !ok {
		return nil, fmt.Errorf("ParseModel of %T did not return a pointer to itself", payload)
	}
	document, err := toDocument(parsed)
	if err != nil {
		return nil, err
	}
	onInsert := bson.M{"_id": document["_id"], "createdAt": document["createdAt"]}
	delete(document, "_id")
	delete(document, "createdAt")

	var result T
	err = repo.Model.FindOneAndUpdate(ctx, filter, bson.M{"$set": document, "$setOnInsert": onInsert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&result)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicate
		}
		logger.Error("mongo error occured while running UpsertOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "filter",
			Data: filter,
		})
		return nil, err
	}
	return &result, nil
}

func withoutDeleted(filter map[string]any) map[string]any {
	scoped := map[string]any{"deletedAt": nil}
	for key, value := range filter {
		scoped[key] = value
	}
	return scoped
}

func toDocument(value any) (bson.M, error) {
	raw, err := bson.Marshal(value)
	if err != nil {
		return nil, err
	}
	document := bson.M{}
	if err := bson.Unmarshal(raw, &document); err != nil {
		return nil, err
	}
	return document, nil
}
