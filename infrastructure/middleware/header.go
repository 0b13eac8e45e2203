package middlewares

import (
	"github.com/gin-gonic/gin"
	"rollcall.io/application/middlewares"
)

func UserAgentMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.UserAgentMiddleware(appContextFrom(ctx))
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}
