package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"rollcall.io/infrastructure/logger"
	mq_types "rollcall.io/infrastructure/message_queue/types"
	"rollcall.io/infrastructure/messaging/emails"
)

func HandleEmailDeliveryTask(ctx context.Context, body []byte) error {
	var payload mq_types.EmailPayload
	err := json.Unmarshal(body, &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling email queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	success := emails.EmailService.SendEmail(payload.To, payload.Subject, payload.Template, payload.Opts)
	if !success {
		logger.Error("failed to send email", logger.LoggerOptions{
			Key:  "toEmail",
			Data: payload.To,
		}, logger.LoggerOptions{
			Key:  "templateName",
			Data: payload.Template,
		})
		return fmt.Errorf("failed to send email to %s", payload.To)
	}
	return nil
}
