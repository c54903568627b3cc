package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/utils"
)

func queueType(cfg config.QueueConfig) utils.QueueType {
	t := utils.QueueType(strings.ToLower(cfg.Type))
	if t == "" {
		t = utils.QueueTypeNATS
	}
	return t
}

// NewPublisher creates a Publisher for the configured backend.
// It returns nil and no error when the queue is disabled.
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	switch t := queueType(cfg); t {
	case utils.QueueTypeNATS:
		q, err := NewNATSQueue(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
			Prefix:   cfg.SubjectPrefix,
		})
		if err != nil {
			return nil, err
		}
		return q, nil

	case utils.QueueTypeRedis:
		p, err := NewRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})
		if err != nil {
			return nil, err
		}
		return p, nil

	case utils.QueueTypeKafka:
		brokers := cfg.KafkaBrokers
		if len(brokers) == 0 && cfg.URL != "" {
			brokers = strings.Split(cfg.URL, ",")
		}
		p, err := NewKafkaPublisher(KafkaConfig{Brokers: brokers})
		if err != nil {
			return nil, err
		}
		return p, nil

	case utils.QueueTypeMemory:
		return NewMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", t)
	}
}

// NewSubscriber creates a Subscriber. Only nats and memory can consume.
func NewSubscriber(cfg config.QueueConfig) (Subscriber, error) {
	switch t := queueType(cfg); t {
	case utils.QueueTypeNATS:
		q, err := NewNATSQueue(NATSConfig{
			URL:      cfg.URL,
			Username: cfg.Username,
			Password: cfg.Password,
			Prefix:   cfg.SubjectPrefix,
		})
		if err != nil {
			return nil, err
		}
		return q, nil
	case utils.QueueTypeMemory:
		return NewMemoryQueue(), nil
	default:
		return nil, fmt.Errorf("queue type %s cannot be consumed (supported: nats, memory)", t)
	}
}
