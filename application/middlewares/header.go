package middlewares

import (
	"rollcall.io/application/interfaces"
	"rollcall.io/infrastructure/useragent"
)

// UserAgentMiddleware records the capture device. Requests without a
// user agent still go through, their records just carry no device.
func UserAgentMiddleware(ctx *interfaces.ApplicationContext[any]) (*interfaces.ApplicationContext[any], bool) {
	agent := ctx.GetHeader("User-Agent")
	if agent == nil {
		return ctx, true
	}
	ctx.SetContextData("UserAgent", *agent)
	if device := useragent.CaptureDevice(*agent); device != nil {
		ctx.SetContextData("CaptureDevice", device)
	}
	return ctx, true
}
