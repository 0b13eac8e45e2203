package middlewares

import (
	"context"
	"errors"
	"strings"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/interfaces"
	"rollcall.io/application/repository"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/auth"
	"rollcall.io/infrastructure/logger"
)

// AuthenticationMiddleware resolves the bearer token to a person. When
// roles are given only those roles get through.
func AuthenticationMiddleware(ctx *interfaces.ApplicationContext[any], persons repository.PersonRepository, roles ...entities.Role) (*interfaces.ApplicationContext[any], bool) {
	authTokenHeaderPointer := ctx.GetHeader("Authorization")
	if authTokenHeaderPointer == nil {
		apperrors.AuthenticationError(ctx.Ctx, "provide an auth token")
		return nil, false
	}
	scheme, authToken, found := strings.Cut(*authTokenHeaderPointer, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || authToken == "" {
		apperrors.AuthenticationError(ctx.Ctx, "invalid access token used")
		return nil, false
	}
	claims, err := auth.DecodeAuthToken(authToken)
	if err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired")
		return nil, false
	}

	var requestCtx context.Context = context.Background()
	if ctx.Ctx != nil {
		requestCtx = ctx.Ctx.Request.Context()
	}
	person, err := persons.FindByID(requestCtx, claims.PersonID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Warning("token issued for a person that no longer exists", logger.LoggerOptions{
				Key:  "personID",
				Data: claims.PersonID,
			})
			apperrors.AuthenticationError(ctx.Ctx, "this account does not exist")
			return nil, false
		}
		apperrors.FatalServerError(ctx.Ctx, err)
		return nil, false
	}
	if !person.Active {
		apperrors.ForbiddenError(ctx.Ctx, "this account has been deactivated")
		return nil, false
	}
	if len(roles) > 0 && !hasRole(person.Role, roles) {
		apperrors.ForbiddenError(ctx.Ctx, "you are not permitted to perform this action")
		return nil, false
	}

	ctx.SetContextData("PersonID", person.ID)
	ctx.SetContextData("Role", string(person.Role))
	ctx.SetContextData("Person", person)
	return ctx, true
}

func hasRole(role entities.Role, roles []entities.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
