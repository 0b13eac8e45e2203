package routev1

import (
	"github.com/gin-gonic/gin"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	middlewares "rollcall.io/infrastructure/middleware"
)

func AttendanceRouter(router *gin.RouterGroup) {
	attendanceRouter := router.Group("/attendance")
	attendanceRouter.Use(middlewares.AuthenticationMiddleware())
	{
		attendanceRouter.POST("/mark", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.MarkAttendanceDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.MarkAttendance(&interfaces.ApplicationContext[dto.MarkAttendanceDTO]{
				Ctx:    ctx,
				Body:   &body,
				Keys:   appContext.Keys,
				Header: appContext.Header,
			})
		})
	}
}
