package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestNATS creates an embedded JetStream enabled NATS server
func setupTestNATS(t *testing.T) string {
	t.Helper()

	opts := &server.Options{
		Host:      "127.0.0.1",
		Port:      -1, // Random port
		JetStream: true,
		StoreDir:  t.TempDir(),
	}

	ns, err := server.NewServer(opts)
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()

	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNewNATSQueue_CreatesStream(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url, Prefix: "trendlens"})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	info, err := q.js.StreamInfo("TRENDLENS")
	require.NoError(t, err)
	assert.Equal(t, []string{"trendlens.>"}, info.Config.Subjects)

	// a second client reuses the existing stream
	q2, err := NewNATSQueue(NATSConfig{URL: url, Prefix: "trendlens"})
	require.NoError(t, err)
	_ = q2.Close()
}

func TestNewNATSQueue_InvalidURL(t *testing.T) {
	_, err := NewNATSQueue(NATSConfig{URL: "nats://127.0.0.1:1"})
	assert.Error(t, err)
}

func TestNATSQueue_PublishAndSubscribe(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url, Prefix: "trendlens"})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	subject := Subject("trendlens", SubjectAnalysisCompleted)
	require.NoError(t, q.Publish(context.Background(), subject, []byte(`{"id":"1"}`)))

	received := make(chan string, 1)
	require.NoError(t, q.Subscribe(subject, func(data []byte) error {
		received <- string(data)
		return nil
	}))

	select {
	case msg := <-received:
		assert.Equal(t, `{"id":"1"}`, msg)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	assert.Error(t, q.Subscribe(subject, func([]byte) error { return nil }))
	require.NoError(t, q.Unsubscribe(subject))
	assert.Error(t, q.Unsubscribe(subject))
}

func TestNATSQueue_PublishOutsideStream(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url, Prefix: "trendlens"})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.Error(t, q.Publish(ctx, "elsewhere.subject", []byte("x")))
}

func TestNATSQueue_PublishBatch(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url, Prefix: "batch"})
	require.NoError(t, err)
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages := make([]BatchMessage, 10)
	for i := range messages {
		messages[i] = BatchMessage{Subject: "batch.analysis.completed", Data: []byte{byte('a' + i)}}
	}

	n, err := q.PublishBatch(ctx, messages)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	info, err := q.js.StreamInfo("BATCH")
	require.NoError(t, err)
	assert.Equal(t, uint64(10), info.State.Msgs)

	n, err = q.PublishBatch(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestNATSQueue_EventPublisher(t *testing.T) {
	url := setupTestNATS(t)

	q, err := NewNATSQueue(NATSConfig{URL: url, Prefix: "trendlens"})
	require.NoError(t, err)

	pub := NewEventPublisher(q, "trendlens")
	defer func() { _ = pub.Close() }()

	var mu sync.Mutex
	var ids []string
	done := make(chan struct{})
	require.NoError(t, q.Subscribe(pub.CompletedSubject(), func(data []byte) error {
		ev, err := DecodeAnalysisEvent(data)
		if err != nil {
			return err
		}
		mu.Lock()
		ids = append(ids, ev.ID)
		if len(ids) == 2 {
			close(done)
		}
		mu.Unlock()
		return nil
	}))

	require.NoError(t, pub.PublishAnalysis(context.Background(), sampleEvent("run-1")))
	require.NoError(t, pub.PublishAnalysis(context.Background(), sampleEvent("run-2")))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for events")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.ElementsMatch(t, []string{"run-1", "run-2"}, ids)
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "trendlens_analysis_completed", sanitizeName("trendlens.analysis.completed"))
	assert.Equal(t, "MY-PREFIX", streamName("my-prefix"))
}
