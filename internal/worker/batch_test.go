package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/lexgraph/lexgraph/internal/model"
)

// fakeRunner fails paths containing "bad" and succeeds otherwise.
type fakeRunner struct{}

func (f *fakeRunner) ExtractFile(ctx context.Context, path string) (*model.ExtractionResult, error) {
	if strings.Contains(path, "bad") {
		return nil, errors.New("extraction failed")
	}
	return &model.ExtractionResult{SourcePath: path, Success: true}, nil
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	b := NewBatchProcessor(&fakeRunner{}, 4)
	paths := []string{"a.txt", "bad.txt", "c.pdf", "d.html"}

	results := b.ProcessFiles(context.Background(), paths)
	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}

	var got []string
	failures := 0
	for _, r := range results {
		got = append(got, r.Path)
		if r.GetError() != nil {
			failures++
			continue
		}
		if r.Result == nil || r.Result.SourcePath != r.Path {
			t.Errorf("result for %s carries wrong payload", r.Path)
		}
	}
	sort.Strings(got)
	want := []string{"a.txt", "bad.txt", "c.pdf", "d.html"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if failures != 1 {
		t.Errorf("expected 1 failure, got %d", failures)
	}
}

func TestBatchProcessor_LargeDirectory(t *testing.T) {
	b := NewBatchProcessor(&fakeRunner{}, 2)
	var paths []string
	for i := 0; i < 40; i++ {
		paths = append(paths, fmt.Sprintf("doc_%02d.txt", i))
	}

	done := make(chan []*FileResult)
	go func() {
		done <- b.ProcessFiles(context.Background(), paths)
	}()

	select {
	case results := <-done:
		if len(results) != len(paths) {
			t.Fatalf("expected %d results, got %d", len(paths), len(results))
		}
		for _, r := range results {
			if r.GetError() != nil {
				t.Errorf("unexpected error for %s: %v", r.Path, r.GetError())
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("batch stalled on a directory larger than the pool buffers")
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	b := NewBatchProcessor(&fakeRunner{}, 2)
	if results := b.ProcessFiles(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}
