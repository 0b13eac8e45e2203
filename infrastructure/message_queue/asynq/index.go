package asynq

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"rollcall.io/infrastructure/logger"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

// cron specs, server local time
const (
	DailyReportSchedule   = "0 18 * * *"
	MonthlyReportSchedule = "0 2 1 * *"
)

type AsynqBroker struct {
	Client    *asynq.Client
	server    *asynq.Server
	scheduler *asynq.Scheduler
}

func redisConnOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     os.Getenv("REDIS_ADDR"),
		Password: os.Getenv("REDIS_PASSWORD"),
	}
}

func (aq *AsynqBroker) Start(handlers map[mq_types.Queues]mq_types.TaskHandler) {
	aq.Client = asynq.NewClient(redisConnOpt())

	aq.server = asynq.NewServer(
		redisConnOpt(),
		asynq.Config{
			Concurrency: 50,
			Queues: map[string]int{
				string(mq_types.High):   7,
				string(mq_types.Medium): 2,
				string(mq_types.Low):    1,
			},
		},
	)

	mux := asynq.NewServeMux()
	for name, handler := range handlers {
		mux.HandleFunc(string(name), wrap(handler))
	}
	if err := aq.server.Start(mux); err != nil {
		logger.Error("asynq server failed to start", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}

	aq.scheduler = asynq.NewScheduler(redisConnOpt(), nil)
	aq.schedule(DailyReportSchedule, mq_types.DailyReportTaskName, mq_types.DailyReportPayload{})
	aq.schedule(MonthlyReportSchedule, mq_types.MonthlyReportTaskName, mq_types.MonthlyReportPayload{})
	if err := aq.scheduler.Start(); err != nil {
		logger.Error("asynq scheduler failed to start", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
	logger.Info("asynq task queue started")
}

func (aq *AsynqBroker) schedule(spec string, name mq_types.Queues, payload any) {
	body, _ := json.Marshal(payload)
	entryID, err := aq.scheduler.Register(spec, asynq.NewTask(string(name), body), asynq.Queue(string(mq_types.Low)))
	if err != nil {
		logger.Error("could not register periodic task", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "task",
			Data: name,
		})
		return
	}
	logger.Info("registered periodic task", logger.LoggerOptions{
		Key:  "task",
		Data: name,
	}, logger.LoggerOptions{
		Key:  "entryID",
		Data: entryID,
	})
}

func (aq *AsynqBroker) Enqueue(task mq_types.QueueTask) error {
	if aq.Client == nil {
		return errors.New("asynq client has not been started")
	}
	if task.TimeOut == 0 {
		task.TimeOut = 60
	}
	if task.MaxRetry == 0 {
		task.MaxRetry = 10
	}
	if task.Priority == "" {
		task.Priority = mq_types.Medium
	}
	_, err := aq.Client.Enqueue(asynq.NewTask(string(task.Name), task.Payload),
		asynq.ProcessIn(task.ProcessIn*time.Second),
		asynq.MaxRetry(task.MaxRetry),
		asynq.Timeout(time.Second*task.TimeOut),
		asynq.Queue(string(task.Priority)))
	return err
}

func (aq *AsynqBroker) Close() error {
	if aq.scheduler != nil {
		aq.scheduler.Shutdown()
	}
	if aq.server != nil {
		aq.server.Shutdown()
	}
	if aq.Client != nil {
		return aq.Client.Close()
	}
	return nil
}

func wrap(handler mq_types.TaskHandler) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, t *asynq.Task) error {
		return handler(ctx, t.Payload())
	}
}
