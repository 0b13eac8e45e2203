package controller

import (
	"net/http"
	"time"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	session_usecase "rollcall.io/application/usecases/session"
	"rollcall.io/entities"
	server_response "rollcall.io/infrastructure/serverResponse"
	"rollcall.io/infrastructure/validator"
)

func sessionResponse(session entities.AttendanceSession, now time.Time) dto.SessionResponse {
	return dto.SessionResponse{AttendanceSession: session, State: session.State(now)}
}

func CreateSession(ctx *interfaces.ApplicationContext[dto.CreateSessionDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	manager := session_usecase.NewManager()
	session, err := manager.Create(ctx.Ctx.Request.Context(), *ctx.Requester(), ctx.Body)
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "session created", sessionResponse(*session, manager.Clock.Now()), nil, nil)
}

func StartSession(ctx *interfaces.ApplicationContext[any]) {
	sessionID := ctx.GetStringParameter("id")
	if err := validator.ValidatorInstance.ValidateValue(sessionID, "required,ulid"); err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		return
	}
	manager := session_usecase.NewManager()
	session, err := manager.Start(ctx.Ctx.Request.Context(), sessionID, *ctx.Requester())
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "session started", sessionResponse(*session, manager.Clock.Now()), nil, nil)
}

func StopSession(ctx *interfaces.ApplicationContext[any]) {
	sessionID := ctx.GetStringParameter("id")
	if err := validator.ValidatorInstance.ValidateValue(sessionID, "required,ulid"); err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		return
	}
	manager := session_usecase.NewManager()
	session, err := manager.Stop(ctx.Ctx.Request.Context(), sessionID, *ctx.Requester())
	if err != nil {
		apperrors.FailureError(ctx.Ctx, apperrors.AsFailure(err))
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "session stopped", sessionResponse(*session, manager.Clock.Now()), nil, nil)
}

func ActiveSessions(ctx *interfaces.ApplicationContext[any]) {
	manager := session_usecase.NewManager()
	sessions, err := manager.ActiveSessionsFor(ctx.Ctx.Request.Context(), *ctx.Requester())
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	now := manager.Clock.Now()
	payload := []dto.SessionResponse{}
	for _, session := range sessions {
		payload = append(payload, sessionResponse(session, now))
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "active sessions fetched", payload, nil, nil)
}
