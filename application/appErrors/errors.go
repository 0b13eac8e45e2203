package apperrors

import (
	"fmt"
	"net/http"

	"rollcall.io/infrastructure/logger"
	server_response "rollcall.io/infrastructure/serverResponse"
)

func NotFoundError(ctx interface{}, message string) {
	server_response.Responder.Respond(ctx, http.StatusNotFound, message, nil, nil, nil)
}

func ValidationFailedError(ctx interface{}, errMessages *[]error) {
	server_response.Responder.Respond(ctx, http.StatusUnprocessableEntity, "Payload validation failed 🙄", nil, *errMessages, nil)
}

func EntityAlreadyExistsError(ctx interface{}, message string) {
	server_response.Responder.Respond(ctx, http.StatusConflict, message, nil, nil, nil)
}

func AuthenticationError(ctx interface{}, message string) {
	server_response.Responder.Respond(ctx, http.StatusUnauthorized, message, nil, nil, nil)
}

func ForbiddenError(ctx interface{}, message string) {
	server_response.Responder.Respond(ctx, http.StatusForbidden, message, nil, nil, nil)
}

func ExternalDependencyError(ctx interface{}, serviceName string, statusCode string, err error) {
	logger.Error(err.Error(), logger.LoggerOptions{
		Key: fmt.Sprintf("error with %s. status code %s", serviceName, statusCode),
	})
	server_response.Responder.Respond(ctx, http.StatusServiceUnavailable,
		"Our service is temporarily down 😢. Our team is working to fix it. Please check back later.", nil, nil, nil)
}

func ErrorProcessingPayload(ctx interface{}) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, "Abnormal payload passed 🤨", nil, nil, nil)
}

func FatalServerError(ctx interface{}, err error) {
	logger.Error("fatal server error", logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.Respond(ctx, http.StatusInternalServerError,
		"Our service is temporarily down 😢. Our team is working to fix it. Please check back later.", nil, nil, nil)
}

func MalformedHeader(ctx interface{}) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest,
		"malformed header information 👮🏻‍♂️", nil, nil, nil)
}

func ClientError(ctx interface{}, msg string, errs []error, responseCode *uint) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, msg, nil, errs, responseCode)
}

// Responds with the status and message mapped from a pipeline failure.
// The reason and measurement are returned in the body so clients can guide
// the user.
func FailureError(ctx interface{}, failure *Failure) {
	body := map[string]any{
		"reason": failure.Reason,
	}
	if failure.Detail != "" {
		body["detail"] = failure.Detail
	}
	if failure.Measurement != nil {
		body["measurement"] = *failure.Measurement
	}
	if failure.Reason == Internal {
		logger.Error("internal failure while handling request", logger.LoggerOptions{
			Key:  "detail",
			Data: failure.Detail,
		})
		delete(body, "detail")
	}
	server_response.Responder.Respond(ctx, failure.Reason.HTTPStatus(), failure.Reason.Message(), body, nil, failure.Reason.ResponseCode())
}
