package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lexgraph/lexgraph/internal/model"
)

// stripCodeFence removes a markdown code fence wrapping the payload,
// which chat models add despite instructions not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// extractJSONObject pulls the outermost {...} out of surrounding prose.
func extractJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return s[start : end+1], true
}

// wireMention is the oracle's JSON shape for one recognized entity.
type wireMention struct {
	Type       string         `json:"type"`
	Text       string         `json:"text"`
	StartPos   int            `json:"start_pos"`
	EndPos     int            `json:"end_pos"`
	Confidence *float64       `json:"confidence"`
	Attributes map[string]any `json:"attributes"`
}

// ParseMentions decodes a NER response for one block. The payload may
// be an {"entities": [...]} object, a bare array, or either of those
// wrapped in prose or a code fence. Entries missing type or text, or
// carrying an unknown type, are dropped; an undecodable payload is an
// error.
func ParseMentions(content string, block model.Block) ([]model.RawMention, error) {
	payload := stripCodeFence(content)

	var wire []wireMention
	var envelope struct {
		Entities []wireMention `json:"entities"`
	}
	switch {
	case json.Unmarshal([]byte(payload), &envelope) == nil && envelope.Entities != nil:
		wire = envelope.Entities
	case json.Unmarshal([]byte(payload), &wire) == nil:
		// bare array
	default:
		blob, ok := extractJSONObject(payload)
		if !ok || json.Unmarshal([]byte(blob), &envelope) != nil || envelope.Entities == nil {
			return nil, fmt.Errorf("unparseable NER response for %s: %s", block.ID, truncate(content, 200))
		}
		wire = envelope.Entities
	}

	mentions := make([]model.RawMention, 0, len(wire))
	for _, w := range wire {
		if w.Type == "" || w.Text == "" {
			continue
		}
		typ, ok := model.NormalizeEntityType(w.Type)
		if !ok {
			continue
		}

		start, end := w.StartPos, w.EndPos
		if !(0 <= start && start < end && end <= len(block.Content)) {
			if idx := strings.Index(block.Content, w.Text); idx >= 0 {
				start, end = idx, idx+len(w.Text)
			} else {
				start, end = 0, 0
			}
		}

		confidence := 1.0
		if w.Confidence != nil {
			confidence = *w.Confidence
		}

		attrs := model.DefaultAttributes(typ)
		for k, v := range w.Attributes {
			attrs[k] = fmt.Sprint(v)
		}

		mentions = append(mentions, model.RawMention{
			Text:       w.Text,
			Type:       typ,
			BlockID:    block.ID,
			BlockType:  block.Type,
			StartPos:   start,
			EndPos:     end,
			Confidence: confidence,
			Attributes: attrs,
		})
	}
	return mentions, nil
}

// wireRelation is the oracle's JSON shape for one extracted relation.
type wireRelation struct {
	Subject    string   `json:"subject"`
	Predicate  string   `json:"predicate"`
	Object     string   `json:"object"`
	Confidence *float64 `json:"confidence"`
	Evidence   string   `json:"evidence"`
}

// ParseRelations decodes a relation extraction response. Relations
// missing any of subject, predicate or object are dropped; confidence
// defaults to 0.5 and out-of-range values reset to 0.5. Endpoint and
// predicate vocabulary checks happen downstream.
func ParseRelations(content string) ([]model.RawRelation, error) {
	payload := stripCodeFence(content)

	var wire []wireRelation
	var envelope struct {
		Relations []wireRelation `json:"relations"`
	}
	switch {
	case json.Unmarshal([]byte(payload), &envelope) == nil && envelope.Relations != nil:
		wire = envelope.Relations
	case json.Unmarshal([]byte(payload), &wire) == nil:
		// bare array
	default:
		blob, ok := extractJSONObject(payload)
		if !ok || json.Unmarshal([]byte(blob), &envelope) != nil || envelope.Relations == nil {
			return nil, fmt.Errorf("unparseable relation response: %s", truncate(content, 200))
		}
		wire = envelope.Relations
	}

	relations := make([]model.RawRelation, 0, len(wire))
	for _, w := range wire {
		if w.Subject == "" || w.Predicate == "" || w.Object == "" {
			continue
		}
		confidence := 0.5
		if w.Confidence != nil && 0 <= *w.Confidence && *w.Confidence <= 1 {
			confidence = *w.Confidence
		}
		relations = append(relations, model.RawRelation{
			Subject:    w.Subject,
			Predicate:  w.Predicate,
			Object:     w.Object,
			Confidence: confidence,
			Evidence:   w.Evidence,
		})
	}
	return relations, nil
}

// ParseQuality decodes a quality assessment response. A malformed
// payload degrades to the neutral default report instead of failing
// the run.
func ParseQuality(content string) *model.QualityReport {
	payload := stripCodeFence(content)
	if payload == "" {
		return model.DefaultQualityReport("质量检查响应为空")
	}

	var wire struct {
		QualityScore    *float64 `json:"quality_score"`
		EntityCount     int      `json:"entity_count"`
		RelationCount   int      `json:"relation_count"`
		Issues          []string `json:"issues"`
		Recommendations []string `json:"recommendations"`
		BacktrackStage  string   `json:"backtrack_stage"`
	}
	if json.Unmarshal([]byte(payload), &wire) != nil {
		blob, ok := extractJSONObject(payload)
		if !ok || json.Unmarshal([]byte(blob), &wire) != nil {
			return model.DefaultQualityReport(fmt.Sprintf("质量检查响应解析失败: %s", truncate(content, 200)))
		}
	}

	score := 0.5
	if wire.QualityScore != nil {
		score = *wire.QualityScore
	}
	return &model.QualityReport{
		QualityScore:    score,
		EntityCount:     wire.EntityCount,
		RelationCount:   wire.RelationCount,
		Issues:          wire.Issues,
		Recommendations: wire.Recommendations,
		BacktrackStage:  wire.BacktrackStage,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
