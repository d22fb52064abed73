package coref

import (
	"testing"

	"github.com/lexgraph/lexgraph/internal/model"
)

func entity(id string, typ model.EntityType, name string) model.CanonicalEntity {
	return model.CanonicalEntity{ID: id, Type: typ, CanonicalName: name}
}

func TestResolve_PronounViaCaseNeighbor(t *testing.T) {
	entities := []model.CanonicalEntity{
		entity("entity_0001", model.EntityCase, "案A"),
		entity("entity_0002", model.EntityParty, "张三"),
	}
	relations := []model.NormalizedRelation{
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "entity_0002"},
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "该被告", NeedCoref: true},
	}

	r := New(model.CorefConfig{MaxHops: 3, SimilarityThreshold: 0.5})
	resolved := r.Resolve(relations, entities)

	if resolved[0].Resolved {
		t.Error("fully resolved relation must not be touched")
	}
	got := resolved[1]
	if got.Object != "entity_0002" {
		t.Fatalf("object = %q, want entity_0002", got.Object)
	}
	if got.OriginalObject != "该被告" {
		t.Errorf("original object = %q, want 该被告", got.OriginalObject)
	}
	if !got.Resolved {
		t.Error("relation should be marked resolved")
	}
	if got.NeedCoref {
		t.Error("need_coref should clear once both endpoints name entities")
	}
}

func TestResolve_TypeCluesSteerSelection(t *testing.T) {
	entities := []model.CanonicalEntity{
		entity("entity_0001", model.EntityCase, "案A"),
		entity("entity_0002", model.EntityParty, "张三"),
		entity("entity_0003", model.EntityCourt, "高等法院"),
	}
	relations := []model.NormalizedRelation{
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "entity_0002"},
		{Subject: "entity_0001", Predicate: "case_in_court", Object: "entity_0003"},
		{Subject: "entity_0001", Predicate: "case_in_court", Object: "该法院", NeedCoref: true},
	}

	r := New(model.CorefConfig{MaxHops: 3, SimilarityThreshold: 0.5})
	resolved := r.Resolve(relations, entities)

	// Party sits one strong hop away (0.8 * 0.65 = 0.52) but the 法院
	// clue makes the Court match dominate (0.6 * 1.0 = 0.6).
	if got := resolved[2].Object; got != "entity_0003" {
		t.Errorf("object = %q, want Court entity_0003", got)
	}
}

func TestResolve_PurePronounFallsBackToTopCandidate(t *testing.T) {
	entities := []model.CanonicalEntity{
		entity("entity_0001", model.EntityCase, "案A"),
		entity("entity_0002", model.EntityParty, "张三"),
	}
	relations := []model.NormalizedRelation{
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "entity_0002"},
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "其", NeedCoref: true},
	}

	r := New(model.CorefConfig{MaxHops: 3, SimilarityThreshold: 0.5})
	resolved := r.Resolve(relations, entities)

	// 其 carries no type clue, so the best score is 0.8*0.3 = 0.24;
	// below threshold the resolver still takes the top candidate.
	if got := resolved[1].Object; got != "entity_0002" {
		t.Errorf("object = %q, want entity_0002", got)
	}
}

func TestResolve_BothEndpointsUnknownStayPut(t *testing.T) {
	entities := []model.CanonicalEntity{
		entity("entity_0001", model.EntityCase, "案A"),
	}
	relations := []model.NormalizedRelation{
		{Subject: "该被告", Predicate: "party_against_party", Object: "该原告", NeedCoref: true},
	}

	r := New(model.CorefConfig{MaxHops: 3, SimilarityThreshold: 0.5})
	resolved := r.Resolve(relations, entities)

	got := resolved[0]
	if got.Subject != "该被告" || got.Object != "该原告" {
		t.Errorf("endpoints changed: %q -> %q", got.Subject, got.Object)
	}
	if got.Resolved {
		t.Error("relation without an anchor entity must stay unresolved")
	}
	if !got.NeedCoref {
		t.Error("need_coref must survive a failed resolution")
	}
}

func TestResolve_RespectsHopBound(t *testing.T) {
	// Chain: case -> party -> amount; the pronoun hangs off the case.
	entities := []model.CanonicalEntity{
		entity("entity_0001", model.EntityCase, "案A"),
		entity("entity_0002", model.EntityParty, "张三"),
		entity("entity_0003", model.EntityAmount, "10万元"),
	}
	relations := []model.NormalizedRelation{
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "entity_0002"},
		{Subject: "entity_0002", Predicate: "party_awarded_amount", Object: "entity_0003"},
		{Subject: "entity_0001", Predicate: "case_involved_party", Object: "该被告", NeedCoref: true},
	}

	r := New(model.CorefConfig{MaxHops: 1, SimilarityThreshold: 0.5})
	resolved := r.Resolve(relations, entities)

	// With one hop only the direct neighbor is reachable.
	if got := resolved[2].Object; got != "entity_0002" {
		t.Errorf("object = %q, want entity_0002", got)
	}
}

func TestExtractClues(t *testing.T) {
	tests := []struct {
		pronoun string
		typ     model.EntityType
		pure    bool
	}{
		{"该被告", model.EntityParty, false},
		{"上述原告", model.EntityParty, false},
		{"该法院", model.EntityCourt, false},
		{"该法官", model.EntityJudge, false},
		{"该证据", model.EntityEvidence, false},
		{"其", "", true},
		{"该", "", true},
	}
	for _, tt := range tests {
		c := extractClues(tt.pronoun)
		if tt.typ == "" {
			if len(c.entityTypes) != 0 {
				t.Errorf("%q: unexpected type clues %v", tt.pronoun, c.entityTypes)
			}
		} else if len(c.entityTypes) != 1 || c.entityTypes[0] != tt.typ {
			t.Errorf("%q: clues = %v, want [%s]", tt.pronoun, c.entityTypes, tt.typ)
		}
		if c.purePronoun != tt.pure {
			t.Errorf("%q: purePronoun = %v, want %v", tt.pronoun, c.purePronoun, tt.pure)
		}
	}
}
