package inline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

func TestInlineBroker(t *testing.T) {
	var calls atomic.Int32
	broker := &InlineBroker{}
	broker.Start(map[mq_types.Queues]mq_types.TaskHandler{
		mq_types.EmailDeliveryTaskName: func(ctx context.Context, payload []byte) error {
			calls.Add(1)
			return nil
		},
		mq_types.DailyReportTaskName: func(ctx context.Context, payload []byte) error {
			return errors.New("boom")
		},
	})

	assert.NoError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.EmailDeliveryTaskName}))
	assert.NoError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.EmailDeliveryTaskName}))
	assert.NoError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.DailyReportTaskName}))
	assert.Error(t, broker.Enqueue(mq_types.QueueTask{Name: "unknown"}))
	assert.NoError(t, broker.Close())
	assert.Equal(t, int32(2), calls.Load())

	broker.Synchronous = true
	assert.EqualError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.DailyReportTaskName}), "boom")
}
