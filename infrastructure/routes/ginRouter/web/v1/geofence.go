package routev1

import (
	"github.com/gin-gonic/gin"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/interfaces"
	middlewares "rollcall.io/infrastructure/middleware"
)

func GeoFenceRouter(router *gin.RouterGroup) {
	geoFenceRouter := router.Group("/geofences")
	geoFenceRouter.Use(middlewares.AuthenticationMiddleware())
	{
		geoFenceRouter.POST("", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateGeoFenceDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateGeoFence(&interfaces.ApplicationContext[dto.CreateGeoFenceDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})

		geoFenceRouter.GET("", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.ListGeoFences(&interfaces.ApplicationContext[any]{
				Ctx:  ctx,
				Keys: appContext.Keys,
			})
		})
	}
}
