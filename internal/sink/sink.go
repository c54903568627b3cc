// Package sink stores analysis artifacts on the local disk or in S3.
package sink

import (
	"context"
	"fmt"

	"github.com/soltixdb/trendlens/internal/compression"
	"github.com/soltixdb/trendlens/internal/config"
	"github.com/soltixdb/trendlens/internal/utils"
)

// Sink stores named artifacts
type Sink interface {
	// Put stores data under key and returns where it ended up
	Put(ctx context.Context, key string, data []byte) (string, error)
	Close() error
}

// New builds the sink selected by the output configuration, wrapped with
// the configured compression.
func New(ctx context.Context, cfg config.OutputConfig) (Sink, error) {
	var s Sink
	switch utils.SinkType(cfg.Sink) {
	case utils.SinkTypeFile, "":
		fs, err := NewFileSink(cfg.Dir)
		if err != nil {
			return nil, err
		}
		s = fs
	case utils.SinkTypeS3:
		s3s, err := NewS3Sink(ctx, S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			UsePathStyle:    cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		s = s3s
	case utils.SinkTypeNone:
		return NopSink{}, nil
	default:
		return nil, fmt.Errorf("unsupported sink: %s", cfg.Sink)
	}

	c, err := compression.ForName(cfg.Compression)
	if err != nil {
		return nil, err
	}
	return WithCompression(s, c), nil
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) Put(_ context.Context, key string, _ []byte) (string, error) {
	return "", nil
}

func (NopSink) Close() error { return nil }

type compressedSink struct {
	next Sink
	c    compression.Compressor
}

// WithCompression compresses data before handing it to next and appends the
// compressor's extension to the key. The none compressor returns next as is.
func WithCompression(next Sink, c compression.Compressor) Sink {
	if c == nil || c.Algorithm() == compression.None {
		return next
	}
	return &compressedSink{next: next, c: c}
}

func (s *compressedSink) Put(ctx context.Context, key string, data []byte) (string, error) {
	out, err := s.c.Compress(data)
	if err != nil {
		return "", fmt.Errorf("compress %s: %w", key, err)
	}
	return s.next.Put(ctx, key+s.c.Extension(), out)
}

func (s *compressedSink) Close() error {
	return s.next.Close()
}
