package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/database/repository/mongo"
)

var geoFenceOnce = sync.Once{}

var geoFenceRepository GeoFenceRepository

func GeoFenceRepo() GeoFenceRepository {
	geoFenceOnce.Do(func() {
		if useMemoryStore() {
			geoFenceRepository = NewMemoryGeoFenceRepository()
			return
		}
		geoFenceRepository = &mongoGeoFenceRepository{repo: mongo.MongoRepository[entities.GeoFence]{Model: datastore.GeoFenceModel}}
	})
	return geoFenceRepository
}

type mongoGeoFenceRepository struct {
	repo mongo.MongoRepository[entities.GeoFence]
}

func (r *mongoGeoFenceRepository) Create(ctx context.Context, fence entities.GeoFence) (*entities.GeoFence, error) {
	created, err := r.repo.CreateOne(ctx, fence)
	return created, translate(err)
}

func (r *mongoGeoFenceRepository) FindByID(ctx context.Context, id string) (*entities.GeoFence, error) {
	return found(r.repo.FindByID(ctx, id))
}

func (r *mongoGeoFenceRepository) FindAll(ctx context.Context) ([]entities.GeoFence, error) {
	return r.repo.FindMany(ctx, map[string]any{}, &mongo.FindOptions{Sort: bson.D{{Key: "name", Value: 1}}})
}
