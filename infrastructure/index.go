package infrastructure

import (
	messagequeue "rollcall.io/infrastructure/message_queue"
	queue_tasks "rollcall.io/infrastructure/message_queue/tasks"
	startup "rollcall.io/infrastructure/startUp"
)

type serverInterface interface {
	Start()
}

func StartServer() {
	startup.StartServices()
	defer startup.CleanUpServices()

	messagequeue.StartQueue(queue_tasks.Handlers())

	var server serverInterface = &ginServer{}
	server.Start()
}
