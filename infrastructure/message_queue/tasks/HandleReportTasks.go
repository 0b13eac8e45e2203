package queue_tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	report_usecase "rollcall.io/application/usecases/report"
	"rollcall.io/infrastructure/logger"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

// reporter is swapped in tests.
var reporter = func() *report_usecase.Reporter {
	return report_usecase.NewReporter()
}

func HandleDailyReportTask(ctx context.Context, body []byte) error {
	var payload mq_types.DailyReportPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return err
		}
	}
	r := reporter()
	date := r.Clock.Now()
	if payload.Date != "" {
		parsed, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			return fmt.Errorf("date must look like 2006-01-02: %w", err)
		}
		date = parsed
	}
	sent, err := r.SendDailyReports(ctx, date)
	if err != nil {
		logger.Error("daily attendance report failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	logger.Info("daily attendance reports queued", logger.LoggerOptions{
		Key:  "date",
		Data: date.Format("2006-01-02"),
	}, logger.LoggerOptions{
		Key:  "sent",
		Data: sent,
	})
	return nil
}

func HandleMonthlyReportTask(ctx context.Context, body []byte) error {
	var payload mq_types.MonthlyReportPayload
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return err
		}
	}
	r := reporter()
	month, err := report_usecase.ParseMonth(payload.Month, r.Clock.Now())
	if err != nil {
		return err
	}
	_, err = r.GenerateMonthlyReports(ctx, month)
	return err
}
