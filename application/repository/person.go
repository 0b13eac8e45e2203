package repository

import (
	"context"
	"errors"
	"sync"

	"rollcall.io/entities"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/database/repository/mongo"
)

var personOnce = sync.Once{}

var personRepository PersonRepository

func PersonRepo() PersonRepository {
	personOnce.Do(func() {
		if useMemoryStore() {
			personRepository = NewMemoryPersonRepository()
			return
		}
		personRepository = &mongoPersonRepository{repo: mongo.MongoRepository[entities.Person]{Model: datastore.PersonModel}}
	})
	return personRepository
}

type mongoPersonRepository struct {
	repo mongo.MongoRepository[entities.Person]
}

func (r *mongoPersonRepository) Create(ctx context.Context, person entities.Person) (*entities.Person, error) {
	created, err := r.repo.CreateOne(ctx, person)
	return created, translate(err)
}

func (r *mongoPersonRepository) FindByID(ctx context.Context, id string) (*entities.Person, error) {
	return found(r.repo.FindByID(ctx, id))
}

func (r *mongoPersonRepository) FindActive(ctx context.Context) ([]entities.Person, error) {
	return r.repo.FindMany(ctx, map[string]any{"active": true}, nil)
}

func (r *mongoPersonRepository) UpdateFaceTemplate(ctx context.Context, id string, template []float64, imageURL *string) (*entities.Person, error) {
	return found(r.repo.UpdatePartialByID(ctx, id, map[string]any{
		"faceTemplate": template,
		"faceImageURL": imageURL,
	}))
}

// found turns the generic repository's nil result into ErrNotFound.
func found[T any](result *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNotFound
	}
	return result, nil
}

func translate(err error) error {
	if errors.Is(err, mongo.ErrDuplicate) {
		return ErrDuplicate
	}
	return err
}
