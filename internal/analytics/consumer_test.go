package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/serroba/shorturl/internal/analytics"
	"github.com/serroba/shorturl/internal/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockSubscriber struct {
	createdChan  chan *message.Message
	accessedChan chan *message.Message
	subscribeErr error
	mu           sync.Mutex
	closed       bool
}

func newMockSubscriber() *mockSubscriber {
	return &mockSubscriber{
		createdChan:  make(chan *message.Message, 10),
		accessedChan: make(chan *message.Message, 10),
	}
}

func (m *mockSubscriber) Subscribe(_ context.Context, topic string) (<-chan *message.Message, error) {
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}

	switch topic {
	case analytics.TopicURLCreated:
		return m.createdChan, nil
	case analytics.TopicURLAccessed:
		return m.accessedChan, nil
	default:
		return nil, errors.New("unknown topic")
	}
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.closed {
		m.closed = true
		close(m.createdChan)
		close(m.accessedChan)
	}

	return nil
}

type mockRecorder struct {
	createdEvents   []*analytics.URLCreatedEvent
	accessedEvents  []*analytics.URLAccessedEvent
	recordCreatedErr  error
	recordAccessedErr error
	mu              sync.Mutex
}

func (m *mockRecorder) RecordURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	if m.recordCreatedErr != nil {
		return m.recordCreatedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.createdEvents = append(m.createdEvents, event)

	return nil
}

func (m *mockRecorder) RecordURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	if m.recordAccessedErr != nil {
		return m.recordAccessedErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.accessedEvents = append(m.accessedEvents, event)

	return nil
}

func startConsumers(t *testing.T, sub *mockSubscriber, rec analytics.Recorder) *messaging.ConsumerGroup {
	t.Helper()

	group := messaging.NewConsumerGroup(sub, zap.NewNop())
	group.Add(analytics.NewConsumers(sub, rec, zap.NewNop())...)

	require.NoError(t, group.Start(context.Background()))

	return group
}

func waitAck(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		t.Fatal("message was nacked")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for ack")
	}
}

func waitNack(t *testing.T, msg *message.Message) {
	t.Helper()

	select {
	case <-msg.Nacked():
	case <-msg.Acked():
		t.Fatal("message should have been nacked")
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for nack")
	}
}

func TestNewConsumers(t *testing.T) {
	consumers := analytics.NewConsumers(newMockSubscriber(), &mockRecorder{}, zap.NewNop())

	assert.Len(t, consumers, 2)
}

func TestConsumers_Start(t *testing.T) {
	t.Run("returns error when subscription fails", func(t *testing.T) {
		sub := &mockSubscriber{subscribeErr: errors.New("subscribe error")}
		group := messaging.NewConsumerGroup(sub, zap.NewNop())
		group.Add(analytics.NewConsumers(sub, &mockRecorder{}, zap.NewNop())...)

		err := group.Start(context.Background())

		assert.Error(t, err)
	})
}

func TestConsumers_URLCreated(t *testing.T) {
	t.Run("records url created event", func(t *testing.T) {
		sub := newMockSubscriber()
		rec := &mockRecorder{}
		group := startConsumers(t, sub, rec)

		payload, _ := json.Marshal(&analytics.URLCreatedEvent{
			ShortURL:    1,
			OriginalURL: "https://example.com",
			CreatedAt:   time.Now(),
		})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.createdChan <- msg

		waitAck(t, msg)

		rec.mu.Lock()
		assert.Len(t, rec.createdEvents, 1)
		assert.Equal(t, int64(1), rec.createdEvents[0].ShortURL)
		rec.mu.Unlock()

		_ = group.Shutdown()
	})

	t.Run("acks and drops undecodable event", func(t *testing.T) {
		sub := newMockSubscriber()
		rec := &mockRecorder{}
		group := startConsumers(t, sub, rec)

		msg := message.NewMessage(uuid.NewString(), []byte("invalid json"))

		sub.createdChan <- msg

		waitAck(t, msg)

		rec.mu.Lock()
		assert.Empty(t, rec.createdEvents)
		rec.mu.Unlock()

		_ = group.Shutdown()
	})

	t.Run("nacks on recorder error", func(t *testing.T) {
		sub := newMockSubscriber()
		group := startConsumers(t, sub, &mockRecorder{recordCreatedErr: errors.New("recorder error")})

		payload, _ := json.Marshal(&analytics.URLCreatedEvent{ShortURL: 1})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.createdChan <- msg

		waitNack(t, msg)

		_ = group.Shutdown()
	})
}

func TestConsumers_URLAccessed(t *testing.T) {
	t.Run("records url accessed event", func(t *testing.T) {
		sub := newMockSubscriber()
		rec := &mockRecorder{}
		group := startConsumers(t, sub, rec)

		payload, _ := json.Marshal(&analytics.URLAccessedEvent{
			ShortURL:   2,
			AccessedAt: time.Now(),
			ClientIP:   "127.0.0.1",
		})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.accessedChan <- msg

		waitAck(t, msg)

		rec.mu.Lock()
		assert.Len(t, rec.accessedEvents, 1)
		assert.Equal(t, "127.0.0.1", rec.accessedEvents[0].ClientIP)
		rec.mu.Unlock()

		_ = group.Shutdown()
	})

	t.Run("nacks on recorder error", func(t *testing.T) {
		sub := newMockSubscriber()
		group := startConsumers(t, sub, &mockRecorder{recordAccessedErr: errors.New("recorder error")})

		payload, _ := json.Marshal(&analytics.URLAccessedEvent{ShortURL: 2})
		msg := message.NewMessage(uuid.NewString(), payload)

		sub.accessedChan <- msg

		waitNack(t, msg)

		_ = group.Shutdown()
	})
}

func TestNewConsumers_Options(t *testing.T) {
	sub := newMockSubscriber()
	topics := make(chan string, 1)

	group := messaging.NewConsumerGroup(sub, zap.NewNop())
	group.Add(analytics.NewConsumers(sub, &mockRecorder{}, zap.NewNop(),
		messaging.WithProcessedHook(func(topic string, _ error) {
			topics <- topic
		}),
	)...)
	require.NoError(t, group.Start(context.Background()))

	payload, _ := json.Marshal(&analytics.URLAccessedEvent{ShortURL: 2})
	msg := message.NewMessage(uuid.NewString(), payload)

	sub.accessedChan <- msg

	waitAck(t, msg)

	select {
	case topic := <-topics:
		assert.Equal(t, analytics.TopicURLAccessed, topic)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for processed hook")
	}

	_ = group.Shutdown()
}
