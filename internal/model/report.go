package model

// QualityReport is the oracle's assessment of one extraction pass.
type QualityReport struct {
	QualityScore    float64  `json:"quality_score"` // 0-1
	EntityCount     int      `json:"entity_count"`
	RelationCount   int      `json:"relation_count"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
	BacktrackStage  string   `json:"backtrack_stage,omitempty"`
}

// DefaultQualityReport is the stand-in used when the oracle's quality
// output cannot be parsed: neutral score, no backtrack.
func DefaultQualityReport(reason string) *QualityReport {
	return &QualityReport{
		QualityScore: 0.5,
		Issues:       []string{reason},
	}
}

// ExtractionResult is the JSON document written per processed file.
type ExtractionResult struct {
	SourcePath     string               `json:"source_path,omitempty"`
	Text           string               `json:"text"`
	Blocks         []Block              `json:"blocks"`
	Entities       []CanonicalEntity    `json:"entities"`
	Relations      []NormalizedRelation `json:"relations"`
	Quality        *QualityReport       `json:"quality_report,omitempty"`
	BacktrackCount int                  `json:"backtrack_count"`
	Errors         []string             `json:"error_messages,omitempty"`
	Success        bool                 `json:"success"`
}
