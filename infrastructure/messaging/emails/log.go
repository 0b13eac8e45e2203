package emails

import "rollcall.io/infrastructure/logger"

// LogService renders the template and logs it instead of delivering. Used
// outside production when no provider is configured.
type LogService struct{}

func (LogService) SendEmail(toEmail string, subject string, templateName string, opts interface{}) bool {
	html := loadTemplate(templateName, opts)
	if html == nil {
		return false
	}
	logger.Info("email delivery skipped, no provider configured", logger.LoggerOptions{
		Key:  "toEmail",
		Data: toEmail,
	}, logger.LoggerOptions{
		Key:  "subject",
		Data: subject,
	})
	return true
}
