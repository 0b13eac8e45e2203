package emails

import (
	"os"

	"rollcall.io/infrastructure/logger"
)

var EmailService EmailServiceType = LogService{}

func InitialiseEmailService() {
	switch os.Getenv("EMAIL_PROVIDER") {
	case "resend":
		EmailService = &ResendService{
			APIKey: os.Getenv("RESEND_API_KEY"),
			From:   os.Getenv("RESEND_DEFAULT_EMAIL"),
		}
	case "smtp":
		service, err := NewSMTPServiceFromEnv()
		if err != nil {
			logger.Error("smtp email service not configured, emails will only be logged", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
			return
		}
		EmailService = service
	default:
		logger.Warning("EMAIL_PROVIDER not set, emails will only be logged")
	}
}
