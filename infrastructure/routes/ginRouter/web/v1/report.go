package routev1

import (
	"github.com/gin-gonic/gin"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	"rollcall.io/entities"
	middlewares "rollcall.io/infrastructure/middleware"
)

func ReportRouter(router *gin.RouterGroup) {
	reportRouter := router.Group("/reports")
	reportRouter.Use(middlewares.AuthenticationMiddleware(entities.RoleAdmin, entities.RolePrincipal))
	{
		reportRouter.POST("/monthly", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.GenerateMonthlyReportDTO
			if ctx.Request.ContentLength > 0 {
				if err := ctx.ShouldBindJSON(&body); err != nil {
					apperrors.ErrorProcessingPayload(ctx)
					return
				}
			}
			controller.GenerateMonthlyReports(&interfaces.ApplicationContext[dto.GenerateMonthlyReportDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})
	}
}
