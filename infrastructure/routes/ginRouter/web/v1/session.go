package routev1

import (
	"github.com/gin-gonic/gin"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	middlewares "rollcall.io/infrastructure/middleware"
)

func SessionRouter(router *gin.RouterGroup) {
	sessionRouter := router.Group("/sessions")
	sessionRouter.Use(middlewares.AuthenticationMiddleware())
	{
		sessionRouter.POST("", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateSessionDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateSession(&interfaces.ApplicationContext[dto.CreateSessionDTO]{
				Ctx:    ctx,
				Body:   &body,
				Keys:   appContext.Keys,
				Header: appContext.Header,
			})
		})

		sessionRouter.POST("/:id/start", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.StartSession(&interfaces.ApplicationContext[any]{
				Ctx:   ctx,
				Keys:  appContext.Keys,
				Param: map[string]any{"id": ctx.Param("id")},
			})
		})

		sessionRouter.POST("/:id/stop", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.StopSession(&interfaces.ApplicationContext[any]{
				Ctx:   ctx,
				Keys:  appContext.Keys,
				Param: map[string]any{"id": ctx.Param("id")},
			})
		})

		sessionRouter.GET("/active", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.ActiveSessions(&interfaces.ApplicationContext[any]{
				Ctx:  ctx,
				Keys: appContext.Keys,
			})
		})
	}
}
