package mq_types

import (
	"context"
	"time"
)

type TaskQueueBroker interface {
	Start(handlers map[Queues]TaskHandler)
	Enqueue(task QueueTask) error
	Close() error
}

// TaskHandler receives the raw payload of a dequeued task.
type TaskHandler func(ctx context.Context, payload []byte) error

type Queues string

type QueueTask struct {
	Name      Queues
	Payload   []byte
	Priority  TaskPriority
	ProcessIn time.Duration // second
	TimeOut   time.Duration // seconds
	MaxRetry  int
}

type TaskPriority string

const (
	Low    TaskPriority = "low"
	Medium TaskPriority = "medium"
	High   TaskPriority = "high"
)

const (
	EmailDeliveryTaskName Queues = "send_email"
	DailyReportTaskName   Queues = "daily_attendance_report"
	MonthlyReportTaskName Queues = "monthly_attendance_report"
)

type EmailPayload struct {
	To       string
	Subject  string
	Template string
	Opts     map[string]any
}

type MonthlyReportPayload struct {
	// YYYY-MM, empty means the previous calendar month
	Month string
}

type DailyReportPayload struct {
	// YYYY-MM-DD, empty means today
	Date string
}
