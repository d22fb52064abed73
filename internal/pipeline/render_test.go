package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lexgraph/lexgraph/internal/model"
)

func summaryResult() *model.ExtractionResult {
	return &model.ExtractionResult{
		Blocks: []model.Block{{ID: "block_0001", Type: model.BlockCaseInfo}},
		Entities: []model.CanonicalEntity{
			{ID: "entity_0001", Type: model.EntityParty, CanonicalName: "张三"},
			{ID: "entity_0002", Type: model.EntityParty, CanonicalName: "李四"},
			{ID: "entity_0003", Type: model.EntityCourt, CanonicalName: "高等法院"},
		},
		Relations: []model.NormalizedRelation{
			{Subject: "entity_0001", Predicate: "party_against_party", Object: "entity_0002"},
		},
		Quality:        &model.QualityReport{QualityScore: 0.83},
		BacktrackCount: 1,
		Success:        true,
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(true)
	r.out = &buf

	r.RenderSummary(summaryResult())

	out := buf.String()
	for _, want := range []string{
		"Status:     success",
		"Blocks:     1",
		"Entities:   3",
		"Relations:  1",
		"Quality:    0.83",
		"Backtracks: 1",
		"Party",
		"Court",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummary_QuietFailure(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(false)
	r.out = &buf

	result := summaryResult()
	result.Success = false

	r.RenderSummary(result)

	out := buf.String()
	if !strings.Contains(out, "Status:     failed") {
		t.Errorf("summary missing failed status:\n%s", out)
	}
	// Per-type counts are verbose-only.
	if strings.Contains(out, "Party") {
		t.Errorf("quiet summary should omit entity type counts:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "judgment.json")
	r := NewRenderer(false)

	if err := r.RenderJSON(summaryResult(), path); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded model.ExtractionResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("written JSON does not parse: %v", err)
	}
	if len(decoded.Entities) != 3 || decoded.Entities[2].CanonicalName != "高等法院" {
		t.Errorf("round-tripped entities = %+v", decoded.Entities)
	}
}
