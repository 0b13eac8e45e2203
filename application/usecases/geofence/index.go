package geofence_usecase

import (
	"context"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/repository"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/logger"
)

func CreateGeoFenceUseCase(ctx context.Context, fences repository.GeoFenceRepository, requester entities.Person, payload *dto.CreateGeoFenceDTO) (*entities.GeoFence, error) {
	if requester.Role == entities.RoleStudent {
		return nil, apperrors.NewFailure(apperrors.Forbidden, "only staff can create geofences")
	}
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}
	fence, err := fences.Create(ctx, entities.GeoFence{
		Name:      payload.Name,
		Latitude:  *payload.Latitude,
		Longitude: *payload.Longitude,
		Radius:    payload.Radius,
		Active:    active,
	})
	if err != nil {
		logger.Error("an error occured while creating geofence", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "payload",
			Data: *payload,
		})
		return nil, err
	}
	return fence, nil
}

func ListGeoFencesUseCase(ctx context.Context, fences repository.GeoFenceRepository) ([]entities.GeoFence, error) {
	return fences.FindAll(ctx)
}
