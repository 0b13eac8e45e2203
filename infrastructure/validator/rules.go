package validator

import (
	"github.com/go-playground/validator/v10"
	"rollcall.io/entities"
)

func validateRole(fl validator.FieldLevel) bool {
	return entities.Role(fl.Field().String()).Valid()
}
