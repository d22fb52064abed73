package relnorm

import (
	"github.com/lexgraph/lexgraph/internal/model"
)

// Normalizer rewrites raw relations into schema-checked normalized
// relations and deduplicates them.
type Normalizer struct{}

// New creates a relation normalizer.
func New() *Normalizer {
	return &Normalizer{}
}

// Normalize maps predicates onto the schema, validates endpoint types
// against it, flags endpoints that need coreference resolution, and
// drops duplicate (subject, predicate, object) triples keeping the
// first occurrence.
func (n *Normalizer) Normalize(
	raws []model.RawRelation,
	entityTypes map[string]model.EntityType,
) []model.NormalizedRelation {
	normalized := make([]model.NormalizedRelation, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))

	for _, raw := range raws {
		rel := model.NormalizedRelation{
			Subject:       raw.Subject,
			Predicate:     NormalizePredicate(raw.Predicate),
			Object:        raw.Object,
			Confidence:    raw.Confidence,
			Evidence:      raw.Evidence,
			SourceBlockID: raw.SourceBlockID,
		}
		rel.NeedCoref = needCoref(raw.Subject, raw.Object, entityTypes)
		rel.ValidationPassed = validateSchema(rel.Predicate, raw.Subject, raw.Object, entityTypes)

		key := rel.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, rel)
	}
	return normalized
}

// validateSchema checks that the predicate is known and both endpoints
// carry the entity types the schema expects.
func validateSchema(predicate, subject, object string, entityTypes map[string]model.EntityType) bool {
	expected, ok := RelationTypes[predicate]
	if !ok {
		return false
	}
	return entityTypes[subject] == expected.Subject &&
		entityTypes[object] == expected.Object
}

// needCoref reports whether either endpoint is a non-empty token with
// no known entity behind it, typically a pronoun or a descriptive
// reference the oracle emitted verbatim.
func needCoref(subject, object string, entityTypes map[string]model.EntityType) bool {
	if subject != "" {
		if _, ok := entityTypes[subject]; !ok {
			return true
		}
	}
	if object != "" {
		if _, ok := entityTypes[object]; !ok {
			return true
		}
	}
	return false
}

// Stats summarizes a normalization run.
type Stats struct {
	Total            int
	NeedCoref        int
	ValidationPassed int
	ValidationFailed int
}

// Statistics computes summary counts over normalized relations.
func Statistics(relations []model.NormalizedRelation) Stats {
	st := Stats{Total: len(relations)}
	for _, r := range relations {
		if r.NeedCoref {
			st.NeedCoref++
		}
		if r.ValidationPassed {
			st.ValidationPassed++
		} else {
			st.ValidationFailed++
		}
	}
	return st
}
