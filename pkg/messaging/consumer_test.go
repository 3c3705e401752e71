package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/chemstock/chemstock-backend/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAck struct {
	acked, nacked, rejected bool
	requeue                 bool
}

func (a *recordingAck) Ack(bool) error { a.acked = true; return nil }

func (a *recordingAck) Nack(_, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAck) Reject(requeue bool) error {
	a.rejected = true
	a.requeue = requeue
	return nil
}

func newTestConsumer() *Consumer {
	return &Consumer{handlers: make(map[string]MessageHandler), logger: logger.Nop()}
}

func eventBody(t *testing.T, eventType string) []byte {
	t.Helper()
	ev, err := NewEvent(eventType, "inventory-service", "req-1", DataReplacedEvent{Items: 3})
	require.NoError(t, err)
	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	return raw
}

func TestConsumer_DispatchesAndAcks(t *testing.T) {
	c := newTestConsumer()
	var got *Event
	var correlation string
	c.RegisterHandler(EventInventoryReset, func(ctx context.Context, e *Event) error {
		got = e
		correlation = getCorrelationID(ctx)
		return nil
	})

	ack := &recordingAck{}
	c.handleMessage(context.Background(), eventBody(t, EventInventoryReset), nil, ack)

	assert.True(t, ack.acked)
	require.NotNil(t, got)
	assert.Equal(t, "req-1", correlation)

	var data DataReplacedEvent
	require.NoError(t, got.UnmarshalData(&data))
	assert.Equal(t, 3, data.Items)
}

func TestConsumer_UnknownTypeIsAcked(t *testing.T) {
	ack := &recordingAck{}
	newTestConsumer().handleMessage(context.Background(), eventBody(t, EventInventoryImported), nil, ack)
	assert.True(t, ack.acked)
}

func TestConsumer_MalformedIsRejected(t *testing.T) {
	ack := &recordingAck{}
	newTestConsumer().handleMessage(context.Background(), []byte("{"), nil, ack)
	assert.True(t, ack.rejected)
	assert.False(t, ack.requeue)
}

func TestConsumer_FailureRequeuesUntilRetriesRunOut(t *testing.T) {
	c := newTestConsumer()
	c.RegisterHandler(EventInventoryReset, func(context.Context, *Event) error {
		return errors.New("boom")
	})

	ack := &recordingAck{}
	c.handleMessage(context.Background(), eventBody(t, EventInventoryReset), nil, ack)
	assert.True(t, ack.nacked)
	assert.True(t, ack.requeue)

	headers := amqp.Table{"x-death": []interface{}{amqp.Table{"count": int64(3)}}}
	ack = &recordingAck{}
	c.handleMessage(context.Background(), eventBody(t, EventInventoryReset), headers, ack)
	assert.True(t, ack.rejected)
	assert.False(t, ack.requeue)
}
