package messagequeue

import (
	"os"

	"rollcall.io/infrastructure/message_queue/asynq"
	"rollcall.io/infrastructure/message_queue/inline"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

var TaskQueue mq_types.TaskQueueBroker = &asynq.AsynqBroker{}

func StartQueue(handlers map[mq_types.Queues]mq_types.TaskHandler) {
	if os.Getenv("DB_DRIVER") == "memory" {
		TaskQueue = &inline.InlineBroker{}
	}
	TaskQueue.Start(handlers)
}
