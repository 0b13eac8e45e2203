package controller

import (
	"net/http"
	"time"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	attendance_usecase "rollcall.io/application/usecases/attendance"
	"rollcall.io/infrastructure/biometric"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/logger"
	server_response "rollcall.io/infrastructure/serverResponse"
	"rollcall.io/infrastructure/validator"
)

func MarkAttendance(ctx *interfaces.ApplicationContext[dto.MarkAttendanceDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	requester := ctx.Requester()

	// an unreadable capture is reported by the pipeline after the location
	// checks, as InvalidImage
	var frame *types.Frame
	decoded, err := biometric.DecodeBase64Frame(ctx.Body.Image)
	if err != nil {
		logger.Info("attendance capture could not be decoded", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	} else {
		frame = decoded
	}

	outcome := attendance_usecase.NewRecorder().MarkAttendance(ctx.Ctx.Request.Context(), attendance_usecase.MarkAttendanceRequest{
		PersonID:   requester.ID,
		SessionID:  ctx.Body.SessionID,
		Frame:      frame,
		Coordinate: ctx.Body.Coordinate(),
		Device:     ctx.GetCaptureDevice(),
	})
	if !outcome.Succeeded() {
		apperrors.FailureError(ctx.Ctx, outcome.Failure)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "attendance marked 🎉", dto.MarkAttendanceResponse{
		RecordID:     outcome.Record.ID,
		SessionID:    outcome.Session.ID,
		SessionName:  outcome.Session.Name,
		FaceDistance: outcome.Record.FaceDistance,
		MarkedAt:     outcome.Record.Timestamp.Format(time.RFC3339),
	}, nil, nil)
}
