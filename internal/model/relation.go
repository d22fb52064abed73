package model

// RawRelation is a triple as reported by the oracle. Subject and
// Object are either raw mention ids, surface tokens, or (after
// endpoint remapping) canonical entity ids.
type RawRelation struct {
	Subject       string  `json:"subject"`
	Predicate     string  `json:"predicate"`
	Object        string  `json:"object"`
	Confidence    float64 `json:"confidence"`
	Evidence      string  `json:"evidence,omitempty"`
	SourceBlockID string  `json:"source_block_id,omitempty"`
}

// NormalizedRelation is a relation after predicate normalization and
// schema validation. Relations that fail validation are kept but
// flagged, so they stay inspectable.
type NormalizedRelation struct {
	Subject       string  `json:"subject"`
	Predicate     string  `json:"predicate"`
	Object        string  `json:"object"`
	Confidence    float64 `json:"confidence"`
	Evidence      string  `json:"evidence,omitempty"`
	SourceBlockID string  `json:"source_block_id,omitempty"`

	// NeedCoref is set when an endpoint is not a known canonical
	// entity id at normalization time.
	NeedCoref bool `json:"need_coref"`
	// ValidationPassed is set when the predicate is known and both
	// endpoint types match the schema.
	ValidationPassed bool `json:"validation_passed"`

	// Original endpoint values retained when coreference resolution
	// replaces them.
	OriginalSubject string `json:"original_subject,omitempty"`
	OriginalObject  string `json:"original_object,omitempty"`
	Resolved        bool   `json:"resolved,omitempty"`
}

// Key returns the dedup key for a normalized relation.
func (r NormalizedRelation) Key() string {
	return r.Subject + "\x00" + r.Predicate + "\x00" + r.Object
}
