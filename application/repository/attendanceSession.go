package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/database/repository/mongo"
)

var sessionOnce = sync.Once{}

var sessionRepository SessionRepository

func SessionRepo() SessionRepository {
	sessionOnce.Do(func() {
		if useMemoryStore() {
			sessionRepository = NewMemorySessionRepository()
			return
		}
		sessionRepository = &mongoSessionRepository{repo: mongo.MongoRepository[entities.AttendanceSession]{Model: datastore.AttendanceSessionModel}}
	})
	return sessionRepository
}

type mongoSessionRepository struct {
	repo mongo.MongoRepository[entities.AttendanceSession]
}

func (r *mongoSessionRepository) Create(ctx context.Context, session entities.AttendanceSession) (*entities.AttendanceSession, error) {
	created, err := r.repo.CreateOne(ctx, session)
	return created, translate(err)
}

func (r *mongoSessionRepository) FindByID(ctx context.Context, id string) (*entities.AttendanceSession, error) {
	return found(r.repo.FindByID(ctx, id))
}

func (r *mongoSessionRepository) Stop(ctx context.Context, id string, end time.Time) (*entities.AttendanceSession, error) {
	return found(r.repo.UpdatePartialByID(ctx, id, map[string]any{
		"active":  false,
		"endTime": end,
	}))
}

func (r *mongoSessionRepository) FindActive(ctx context.Context, now time.Time) ([]entities.AttendanceSession, error) {
	return r.repo.FindMany(ctx, map[string]any{
		"active":  true,
		"endTime": bson.M{"$gt": now},
	}, &mongo.FindOptions{Sort: bson.D{{Key: "startTime", Value: -1}}})
}

func (r *mongoSessionRepository) FindStartedBetween(ctx context.Context, from time.Time, to time.Time) ([]entities.AttendanceSession, error) {
	return r.repo.FindMany(ctx, map[string]any{
		"startTime": bson.M{"$gte": from, "$lt": to},
	}, &mongo.FindOptions{Sort: bson.D{{Key: "startTime", Value: 1}}})
}
