package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/soltixdb/trendlens/internal/logging"
)

const defaultPattern = "*.json"

// BatchItem is the outcome for one file of a batch
type BatchItem struct {
	File    string           `json:"file"`
	Outcome *AnalysisOutcome `json:"outcome,omitempty"`
	Err     error            `json:"-"`
}

// BatchResult lists the items in file name order
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// BatchService runs AnalysisService over every matching file in a directory
type BatchService struct {
	logger   *logging.Logger
	analysis *AnalysisService
	workers  int
}

// NewBatchService creates a batch runner. workers <= 0 means 1.
func NewBatchService(logger *logging.Logger, analysis *AnalysisService, workers int) *BatchService {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &BatchService{logger: logger, analysis: analysis, workers: workers}
}

// MatchFiles returns the files in dir matching pattern, sorted by name
func MatchFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = defaultPattern
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, wrapError(CodeDatasetNotFound, err)
	}
	if !info.IsDir() {
		return nil, NewServiceError(CodeInvalidRequest, fmt.Sprintf("%s is not a directory", dir))
	}

	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, wrapError(CodeInvalidRequest, err)
	}
	sort.Strings(files)
	return files, nil
}

// AnalyzeDir analyzes every matching file in parallel. A failing file is
// recorded in its item and does not stop the others; only a bad directory or
// pattern fails the whole call.
func (b *BatchService) AnalyzeDir(ctx context.Context, dir, pattern string, opts AnalysisOptions) (*BatchResult, error) {
	files, err := MatchFiles(dir, pattern)
	if err != nil {
		return nil, err
	}

	items := make([]BatchItem, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i, file := range files {
		g.Go(func() error {
			items[i].File = file
			if err := gctx.Err(); err != nil {
				items[i].Err = err
				return nil
			}
			outcome, err := b.analysis.AnalyzeFile(gctx, file, opts)
			if err != nil {
				b.logger.Warn("Batch file failed", "file", file, "error", err)
				items[i].Err = err
				return nil
			}
			items[i].Outcome = outcome
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{Items: items}
	for _, it := range items {
		if it.Err != nil {
			res.Failed++
		} else {
			res.Succeeded++
		}
	}

	b.logger.Info("Batch analysis completed",
		"dir", dir, "files", len(files), "succeeded", res.Succeeded, "failed", res.Failed)
	return res, nil
}
