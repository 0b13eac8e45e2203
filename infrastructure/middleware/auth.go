package middlewares

import (
	"github.com/gin-gonic/gin"
	"rollcall.io/application/interfaces"
	"rollcall.io/application/middlewares"
	"rollcall.io/application/repository"
	"rollcall.io/entities"
)

func AuthenticationMiddleware(roles ...entities.Role) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.AuthenticationMiddleware(appContextFrom(ctx), repository.PersonRepo(), roles...)
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}

// appContextFrom reuses the context set by an earlier middleware.
func appContextFrom(ctx *gin.Context) *interfaces.ApplicationContext[any] {
	if saved, ok := ctx.Get("AppContext"); ok {
		if appContext, ok := saved.(*interfaces.ApplicationContext[any]); ok {
			return appContext
		}
	}
	return &interfaces.ApplicationContext[any]{
		Ctx:    ctx,
		Keys:   map[string]any{},
		Header: ctx.Request.Header,
	}
}
