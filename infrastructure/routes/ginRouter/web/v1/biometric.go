package routev1

import (
	"github.com/gin-gonic/gin"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	middlewares "rollcall.io/infrastructure/middleware"
)

func BiometricRouter(router *gin.RouterGroup) {
	biometricRouter := router.Group("/biometric")
	biometricRouter.Use(middlewares.AuthenticationMiddleware())
	{
		biometricRouter.POST("/enroll", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.EnrollFaceDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.EnrollFace(&interfaces.ApplicationContext[dto.EnrollFaceDTO]{
				Ctx:    ctx,
				Body:   &body,
				Keys:   appContext.Keys,
				Header: appContext.Header,
			})
		})

		biometricRouter.DELETE("/enroll", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.DeleteFace(&interfaces.ApplicationContext[any]{
				Ctx:    ctx,
				Keys:   appContext.Keys,
				Header: appContext.Header,
			})
		})
	}
}
