package interfaces

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"rollcall.io/entities"
)

type ApplicationContext[T any] struct {
	Ctx    *gin.Context
	Body   *T
	Keys   map[string]any
	Param  map[string]any
	Query  map[string]any
	Header http.Header
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	if ac.Header == nil {
		return nil
	}
	value := ac.Header.Get(key)
	if value == "" {
		return nil
	}
	return &value
}

func (ac *ApplicationContext[T]) SetContextData(key string, value any) {
	if ac.Keys == nil {
		ac.Keys = map[string]any{}
	}
	ac.Keys[key] = value
}

func (ac *ApplicationContext[T]) GetContextData(key string) any {
	return ac.Keys[key]
}

func (ac *ApplicationContext[T]) GetStringContextData(key string) string {
	value, _ := ac.Keys[key].(string)
	return value
}

func (ac *ApplicationContext[T]) GetStringParameter(key string) string {
	value, _ := ac.Param[key].(string)
	return value
}

// Requester is the authenticated person set by the auth middleware.
func (ac *ApplicationContext[T]) Requester() *entities.Person {
	person, _ := ac.Keys["Person"].(*entities.Person)
	return person
}

func (ac *ApplicationContext[T]) GetCaptureDevice() *entities.CaptureDevice {
	device, _ := ac.Keys["CaptureDevice"].(*entities.CaptureDevice)
	return device
}
