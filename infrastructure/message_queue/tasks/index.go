package queue_tasks

import mq_types "rollcall.io/infrastructure/message_queue/types"

func Handlers() map[mq_types.Queues]mq_types.TaskHandler {
	return map[mq_types.Queues]mq_types.TaskHandler{
		mq_types.EmailDeliveryTaskName: HandleEmailDeliveryTask,
		mq_types.DailyReportTaskName:   HandleDailyReportTask,
		mq_types.MonthlyReportTaskName: HandleMonthlyReportTask,
	}
}
