package controller

import (
	"net/http"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	biometric_usecase "rollcall.io/application/usecases/biometric"
	"rollcall.io/infrastructure/biometric"
	server_response "rollcall.io/infrastructure/serverResponse"
	"rollcall.io/infrastructure/validator"
)

func EnrollFace(ctx *interfaces.ApplicationContext[dto.EnrollFaceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	frame, err := biometric.DecodeBase64Frame(ctx.Body.Image)
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	person, err := biometric_usecase.NewEnroller().EnrollFace(ctx.Ctx.Request.Context(), ctx.Requester().ID, frame)
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "face enrolled", dto.EnrollFaceResponse{
		PersonID:     person.ID,
		Dimensions:   len(person.FaceTemplate),
		FaceImageURL: person.FaceImageURL,
	}, nil, nil)
}

func DeleteFace(ctx *interfaces.ApplicationContext[any]) {
	person, err := biometric_usecase.NewEnroller().DeleteFace(ctx.Ctx.Request.Context(), ctx.Requester().ID)
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "face enrollment removed", dto.EnrollFaceResponse{
		PersonID: person.ID,
	}, nil, nil)
}
