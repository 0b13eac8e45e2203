package emails

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/gomail.v2"
	"rollcall.io/infrastructure/env"
	"rollcall.io/infrastructure/logger"
)

type SMTPService struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewSMTPServiceFromEnv() (*SMTPService, error) {
	service := &SMTPService{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     env.GetInt("SMTP_PORT", 587),
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	missing := []string{}
	if service.Host == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if service.From == "" {
		missing = append(missing, "SMTP_FROM")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing SMTP env: %s", strings.Join(missing, ", "))
	}
	return service, nil
}

func (s *SMTPService) SendEmail(toEmail string, subject string, templateName string, opts interface{}) bool {
	html := loadTemplate(templateName, opts)
	if html == nil {
		return false
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", *html)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		logger.Error("an error occured while trying to send email over smtp", logger.LoggerOptions{
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
		Data: "smtp",
	})
	return true
}
