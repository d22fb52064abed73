package worker

import (
	"context"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Runner defines the interface for extracting one document
type Runner interface {
	ExtractFile(ctx context.Context, path string) (*model.ExtractionResult, error)
}

// FileJob represents one document extraction job
type FileJob struct {
	Path   string
	Runner Runner
}

// Execute executes the extraction job
func (j *FileJob) Execute(ctx context.Context) Result {
	result, err := j.Runner.ExtractFile(ctx, j.Path)
	return &FileResult{
		Path:   j.Path,
		Result: result,
		Error:  err,
	}
}

// FileResult represents the result of a document extraction job
type FileResult struct {
	Path   string
	Result *model.ExtractionResult
	Error  error
}

// GetError returns the error from the extraction result
func (r *FileResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple documents concurrently
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		runner:      runner,
		concurrency: concurrency,
	}
}

// ProcessFiles processes the documents concurrently. Results come back
// keyed by path; order follows completion.
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string) []*FileResult {
	if len(paths) == 0 {
		return []*FileResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&FileJob{Path: path, Runner: b.runner})
	}

	results := pool.Wait()

	fileResults := make([]*FileResult, len(results))
	for i, result := range results {
		fileResults[i] = result.(*FileResult)
	}

	return fileResults
}
