package emails

import (
	"fmt"

	"github.com/resend/resend-go/v2"
	"rollcall.io/infrastructure/logger"
)

type ResendService struct {
	APIKey string
	From   string
}

func (rs *ResendService) SendEmail(toEmail string, subject string, templateName string, opts interface{}) bool {
	client := resend.NewClient(rs.APIKey)

	html := loadTemplate(templateName, opts)
	if html == nil {
		logger.Error("failed to load email template", logger.LoggerOptions{
			Key:  "templateName",
			Data: templateName,
		}, logger.LoggerOptions{
			Key:  "toEmail",
			Data: toEmail,
		})
		return false
	}

	params := &resend.SendEmailRequest{
		From:    rs.From,
		To:      []string{toEmail},
		Subject: subject,
		Html:    *html,
	}

	_, err := client.Emails.Send(params)
	if err != nil {
		logger.Error("an error occured while trying to send email using resend service", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "toEmail",
			Data: toEmail,
		}, logger.LoggerOptions{
			Key:  "templateName",
			Data: templateName,
		})
		return false
	}
	logger.Info(fmt.Sprintf("successfully sent email to %s", toEmail), logger.LoggerOptions{
		Key:  "templateName",
		Data: templateName,
	}, logger.LoggerOptions{
		Key:  "service",
		Data: "resend",
	})
	return true
}
