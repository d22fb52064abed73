package graphstore

import (
	"context"
	"testing"

	"github.com/lexgraph/lexgraph/internal/model"
)

func sampleResult() *model.ExtractionResult {
	return &model.ExtractionResult{
		Entities: []model.CanonicalEntity{
			{ID: "entity_0001", Type: model.EntityCase, CanonicalName: "HCMP001/2024"},
			{ID: "entity_0002", Type: model.EntityParty, CanonicalName: "张三"},
			{ID: "entity_0003", Type: model.EntityCourt, CanonicalName: "高等法院"},
		},
		Relations: []model.NormalizedRelation{
			{Subject: "entity_0001", Predicate: "case_involved_party", Object: "entity_0002", Confidence: 0.9, ValidationPassed: true},
			{Subject: "entity_0001", Predicate: "case_in_court", Object: "entity_0003", Confidence: 0.8, ValidationPassed: true},
			{Subject: "entity_0001", Predicate: "发生于", Object: "entity_0003"},      // out of schema
			{Subject: "entity_0001", Predicate: "case_involved_party", Object: "该被告"}, // dangling endpoint
		},
	}
}

func TestMemoryStore_SaveResult(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	entities, relations, err := SaveResult(ctx, s, sampleResult())
	if err != nil {
		t.Fatalf("SaveResult: %v", err)
	}
	if entities != 3 {
		t.Errorf("entities = %d, want 3", entities)
	}
	if relations != 2 {
		t.Errorf("relations = %d, want 2 (unknown predicate and dangling endpoint skipped)", relations)
	}

	stats, err := s.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats["Case"] != 1 || stats["Party"] != 1 || stats["Court"] != 1 {
		t.Errorf("node stats = %v", stats)
	}
	if stats["relation_case_involved_party"] != 1 || stats["relation_case_in_court"] != 1 {
		t.Errorf("relation stats = %v", stats)
	}
}

func TestMemoryStore_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	result := sampleResult()
	if _, _, err := SaveResult(ctx, s, result); err != nil {
		t.Fatal(err)
	}
	if _, _, err := SaveResult(ctx, s, result); err != nil {
		t.Fatal(err)
	}

	export, err := s.Export(ctx)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(export.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3 after double save", len(export.Nodes))
	}
	if len(export.Relationships) != 2 {
		t.Errorf("relationships = %d, want 2 after double save", len(export.Relationships))
	}
	if export.Nodes[0].ID != "entity_0001" {
		t.Errorf("export order not stable: first node %s", export.Nodes[0].ID)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, _, err := SaveResult(ctx, s, sampleResult()); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, _ := s.Stats(ctx)
	if len(stats) != 0 {
		t.Errorf("stats after clear = %v", stats)
	}
}
