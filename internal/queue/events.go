package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/soltixdb/trendlens/internal/models"
)

// SubjectAnalysisCompleted is appended to the configured prefix
const SubjectAnalysisCompleted = "analysis.completed"

// DefaultSubjectPrefix is used when no prefix is configured
const DefaultSubjectPrefix = "trendlens"

// Subject joins a prefix and a subject suffix with a dot
func Subject(prefix, suffix string) string {
	if prefix == "" {
		return suffix
	}
	return prefix + "." + suffix
}

// EventPublisher encodes analysis events and hands them to a Publisher
type EventPublisher struct {
	pub    Publisher
	prefix string
}

// NewEventPublisher wraps a publisher; prefix defaults to DefaultSubjectPrefix
func NewEventPublisher(pub Publisher, prefix string) *EventPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &EventPublisher{pub: pub, prefix: prefix}
}

// CompletedSubject returns the analysis event subject for a prefix
func CompletedSubject(prefix string) string {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return Subject(prefix, SubjectAnalysisCompleted)
}

// CompletedSubject is the subject analysis events are published on
func (p *EventPublisher) CompletedSubject() string {
	return CompletedSubject(p.prefix)
}

// PublishAnalysis publishes one completed analysis
func (p *EventPublisher) PublishAnalysis(ctx context.Context, event models.AnalysisEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode analysis event: %w", err)
	}
	return p.pub.Publish(ctx, p.CompletedSubject(), data)
}

// PublishAnalyses publishes a batch of events, used by batch runs
func (p *EventPublisher) PublishAnalyses(ctx context.Context, events []models.AnalysisEvent) (int, error) {
	msgs := make([]BatchMessage, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return 0, fmt.Errorf("encode analysis event %s: %w", ev.ID, err)
		}
		msgs = append(msgs, BatchMessage{Subject: p.CompletedSubject(), Data: data})
	}
	return p.pub.PublishBatch(ctx, msgs)
}

// Close closes the underlying publisher
func (p *EventPublisher) Close() error {
	return p.pub.Close()
}

// DecodeAnalysisEvent parses a message published by PublishAnalysis
func DecodeAnalysisEvent(data []byte) (models.AnalysisEvent, error) {
	var ev models.AnalysisEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return ev, fmt.Errorf("decode analysis event: %w", err)
	}
	return ev, nil
}
