package mongo

import (
	"go.mongodb.org/mongo-driver/mongo"
	"rollcall.io/infrastructure/database"
)

type MongoRepository[T database.BaseModel] struct {
	Model *mongo.Collection
}

type FindOptions struct {
	Sort  any
	Skip  *int64
	Limit *int64
}
