package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Renderer writes extraction results to disk and prints run summaries.
type Renderer struct {
	verbose bool
	out     io.Writer
}

// NewRenderer creates a renderer.
func NewRenderer(verbose bool) *Renderer {
	return &Renderer{verbose: verbose, out: os.Stdout}
}

// RenderJSON writes the full extraction result as indented JSON.
func (r *Renderer) RenderJSON(result *model.ExtractionResult, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	if r.verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", path)
	}
	return nil
}

// RenderSummary prints a human-readable run summary to stdout.
func (r *Renderer) RenderSummary(result *model.ExtractionResult) {
	status := "success"
	if !result.Success {
		status = "failed"
	}

	fmt.Fprintf(r.out, "Status:     %s\n", status)
	fmt.Fprintf(r.out, "Blocks:     %d\n", len(result.Blocks))
	fmt.Fprintf(r.out, "Entities:   %d\n", len(result.Entities))
	fmt.Fprintf(r.out, "Relations:  %d\n", len(result.Relations))
	if result.Quality != nil {
		fmt.Fprintf(r.out, "Quality:    %.2f\n", result.Quality.QualityScore)
	}
	fmt.Fprintf(r.out, "Backtracks: %d\n", result.BacktrackCount)

	if r.verbose {
		byType := make(map[model.EntityType]int)
		var order []model.EntityType
		for _, e := range result.Entities {
			if byType[e.Type] == 0 {
				order = append(order, e.Type)
			}
			byType[e.Type]++
		}
		for _, typ := range order {
			fmt.Fprintf(r.out, "  %-10s %d\n", typ, byType[typ])
		}
	}

	for _, msg := range result.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
	}
}
