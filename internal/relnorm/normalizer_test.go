package relnorm

import (
	"testing"

	"github.com/lexgraph/lexgraph/internal/model"
)

func TestNormalizePredicate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"case_in_court", "case_in_court"},       // already canonical
		{"涉及当事人", "case_involved_party"},        // exact alias
		{"判决日期", "case_judgment_date"},          // exact alias
		{"本案涉及当事人张三", "case_involved_party"},    // alias contained in predicate
		{"金额", "case_amount"},                   // predicate contained in alias
		{"completely_unknown", "completely_unknown"},
	}
	for _, tt := range tests {
		if got := NormalizePredicate(tt.in); got != tt.want {
			t.Errorf("NormalizePredicate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize_SchemaValidation(t *testing.T) {
	types := map[string]model.EntityType{
		"entity_0001": model.EntityCase,
		"entity_0002": model.EntityCourt,
		"entity_0003": model.EntityParty,
	}
	n := New()

	rels := n.Normalize([]model.RawRelation{
		{Subject: "entity_0001", Predicate: "case_in_court", Object: "entity_0002", Confidence: 0.9},
		{Subject: "entity_0001", Predicate: "case_in_court", Object: "entity_0003", Confidence: 0.8},
		{Subject: "entity_0001", Predicate: "unknown_predicate", Object: "entity_0002", Confidence: 0.7},
	}, types)

	if len(rels) != 3 {
		t.Fatalf("expected 3 relations, got %d", len(rels))
	}
	if !rels[0].ValidationPassed {
		t.Error("well-typed relation should pass validation")
	}
	if rels[1].ValidationPassed {
		t.Error("Party object for case_in_court should fail validation")
	}
	if rels[2].ValidationPassed {
		t.Error("unknown predicate should fail validation")
	}
	for i, r := range rels {
		if r.NeedCoref {
			t.Errorf("relation %d: endpoints are known entities, need_coref should be false", i)
		}
	}
}

func TestNormalize_FlagsUnresolvedEndpoints(t *testing.T) {
	types := map[string]model.EntityType{
		"entity_0001": model.EntityCase,
	}
	n := New()

	rels := n.Normalize([]model.RawRelation{
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "该被告", Confidence: 0.8},
	}, types)

	if len(rels) != 1 {
		t.Fatalf("expected 1 relation, got %d", len(rels))
	}
	if !rels[0].NeedCoref {
		t.Error("unmapped object endpoint should set need_coref")
	}
	if rels[0].ValidationPassed {
		t.Error("unmapped endpoint cannot satisfy the schema")
	}
}

func TestNormalize_DeduplicatesKeepingFirst(t *testing.T) {
	types := map[string]model.EntityType{
		"entity_0001": model.EntityCase,
		"entity_0002": model.EntityCourt,
	}
	n := New()

	rels := n.Normalize([]model.RawRelation{
		{Subject: "entity_0001", Predicate: "case_in_court", Object: "entity_0002", Confidence: 0.9, Evidence: "第一处"},
		{Subject: "entity_0001", Predicate: "在...法院", Object: "entity_0002", Confidence: 0.4, Evidence: "第二处"},
	}, types)

	if len(rels) != 1 {
		t.Fatalf("expected duplicate triples to collapse, got %d relations", len(rels))
	}
	if rels[0].Evidence != "第一处" {
		t.Errorf("kept relation evidence = %q, want first occurrence", rels[0].Evidence)
	}
}
