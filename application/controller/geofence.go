package controller

import (
	"net/http"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	"rollcall.io/application/repository"
	geofence_usecase "rollcall.io/application/usecases/geofence"
	server_response "rollcall.io/infrastructure/serverResponse"
	"rollcall.io/infrastructure/validator"
)

func CreateGeoFence(ctx *interfaces.ApplicationContext[dto.CreateGeoFenceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	fence, err := geofence_usecase.CreateGeoFenceUseCase(ctx.Ctx.Request.Context(), repository.GeoFenceRepo(), *ctx.Requester(), ctx.Body)
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "geofence created", fence, nil, nil)
}

func ListGeoFences(ctx *interfaces.ApplicationContext[any]) {
	fences, err := geofence_usecase.ListGeoFencesUseCase(ctx.Ctx.Request.Context(), repository.GeoFenceRepo())
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "geofences fetched", fences, nil, nil)
}
