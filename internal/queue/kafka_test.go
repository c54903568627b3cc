package queue

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisher_NoBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(KafkaConfig{})
	assert.Error(t, err)
}

func TestNewKafkaPublisher_Defaults(t *testing.T) {
	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	assert.Equal(t, 10*time.Millisecond, p.config.BatchTimeout)
	assert.Equal(t, 3, p.config.MaxAttempts)

	w1 := p.writer("trendlens.analysis.completed")
	w2 := p.writer("trendlens.analysis.completed")
	assert.Same(t, w1, w2)
	assert.True(t, w1.AllowAutoTopicCreation)
}

func TestKafkaPublisher_EmptyBatch(t *testing.T) {
	p, err := NewKafkaPublisher(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	n, err := p.PublishBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	if os.Getenv("KAFKA_TEST") != "1" {
		t.Skip("set KAFKA_TEST=1 and KAFKA_BROKERS to run")
	}
	brokers := strings.Split(os.Getenv("KAFKA_BROKERS"), ",")

	p, err := NewKafkaPublisher(KafkaConfig{Brokers: brokers})
	require.NoError(t, err)
	defer func() { _ = p.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, p.Publish(ctx, "trendlens-test.analysis.completed", []byte(`{"id":"1"}`)))
}
