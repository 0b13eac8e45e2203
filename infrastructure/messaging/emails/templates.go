package emails

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"

	"rollcall.io/infrastructure/logger"
)

var rsdir, _ = os.Getwd()

// TemplateDir holds the <name>.html email templates.
var TemplateDir = filepath.Join(rsdir, "infrastructure", "messaging", "emails", "templates")

func loadTemplate(templateName string, opts interface{}) *string {
	var buffer bytes.Buffer
	templatePath := filepath.Join(TemplateDir, templateName+".html")
	tmpl, err := template.ParseFiles(templatePath)
	if err != nil {
		logger.Error("failed to parse email template", logger.LoggerOptions{
			Key:  "templateName",
			Data: templateName,
		}, logger.LoggerOptions{
			Key:  "templatePath",
			Data: templatePath,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil
	}
	err = tmpl.Execute(&buffer, opts)
	if err != nil {
		logger.Error("failed to execute email template", logger.LoggerOptions{
			Key:  "templateName",
			Data: templateName,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil
	}
	templateString := buffer.String()
	return &templateString
}
