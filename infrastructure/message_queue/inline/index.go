// Package inline runs queued tasks in-process. It backs DB_DRIVER=memory,
// where no redis is available for asynq.
package inline

import (
	"context"
	"fmt"
	"sync"

	"rollcall.io/infrastructure/logger"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

type InlineBroker struct {
	// Synchronous runs the handler before Enqueue returns.
	Synchronous bool

	mu       sync.RWMutex
	handlers map[mq_types.Queues]mq_types.TaskHandler
	wg       sync.WaitGroup
}

func (b *InlineBroker) Start(handlers map[mq_types.Queues]mq_types.TaskHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = handlers
}

func (b *InlineBroker) Enqueue(task mq_types.QueueTask) error {
	b.mu.RLock()
	handler, ok := b.handlers[task.Name]
	b.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no handler registered for task %s", task.Name)
	}
	if b.Synchronous {
		return handler(context.Background(), task.Payload)
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := handler(context.Background(), task.Payload); err != nil {
			logger.Error("inline task failed", logger.LoggerOptions{
				Key:  "task",
				Data: task.Name,
			}, logger.LoggerOptions{
				Key:  "error",
				Data: err,
			})
		}
	}()
	return nil
}

// Close waits for running tasks.
func (b *InlineBroker) Close() error {
	b.wg.Wait()
	return nil
}
