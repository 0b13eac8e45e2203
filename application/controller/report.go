package controller

import (
	"net/http"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	report_usecase "rollcall.io/application/usecases/report"
	server_response "rollcall.io/infrastructure/serverResponse"
	"rollcall.io/infrastructure/validator"
)

func GenerateMonthlyReports(ctx *interfaces.ApplicationContext[dto.GenerateMonthlyReportDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	reporter := report_usecase.NewReporter()
	month, err := report_usecase.ParseMonth(ctx.Body.Month, reporter.Clock.Now())
	if err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		return
	}
	reports, err := reporter.GenerateMonthlyReports(ctx.Ctx.Request.Context(), month)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "monthly reports generated", reports, nil, nil)
}
