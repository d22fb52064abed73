package oracle

import (
	"strings"
	"testing"

	"github.com/lexgraph/lexgraph/internal/model"
)

var testBlock = model.Block{
	ID:      "block_0002",
	Type:    model.BlockCaseInfo,
	Content: "原告张三诉被告李四合同纠纷一案。",
}

func TestParseMentions_Envelope(t *testing.T) {
	content := `{"entities": [
		{"type": "Party", "text": "张三", "start_pos": 6, "end_pos": 12, "attributes": {"role": "plaintiff"}},
		{"type": "Party", "text": "李四"}
	]}`

	mentions, err := ParseMentions(content, testBlock)
	if err != nil {
		t.Fatalf("ParseMentions: %v", err)
	}
	if len(mentions) != 2 {
		t.Fatalf("expected 2 mentions, got %d", len(mentions))
	}

	m := mentions[0]
	if m.Type != model.EntityParty || m.Text != "张三" {
		t.Errorf("mention 0 = %+v", m)
	}
	if m.BlockID != "block_0002" || m.BlockType != model.BlockCaseInfo {
		t.Errorf("block provenance missing: %+v", m)
	}
	if m.Confidence != 1.0 {
		t.Errorf("confidence = %v, want default 1.0", m.Confidence)
	}
	if m.Attributes["role"] != "plaintiff" {
		t.Errorf("attributes = %v", m.Attributes)
	}
	if _, ok := m.Attributes["party_type"]; !ok {
		t.Errorf("default attribute keys missing: %v", m.Attributes)
	}

	// Second mention has no positions: found by searching the block.
	want := strings.Index(testBlock.Content, "李四")
	if mentions[1].StartPos != want || mentions[1].EndPos != want+len("李四") {
		t.Errorf("positions = [%d,%d), want [%d,%d)",
			mentions[1].StartPos, mentions[1].EndPos, want, want+len("李四"))
	}
}

func TestParseMentions_CodeFenceAndProse(t *testing.T) {
	content := "识别结果如下：\n```json\n{\"entities\": [{\"type\": \"当事人\", \"text\": \"张三\"}]}\n```"
	mentions, err := ParseMentions(content, testBlock)
	if err != nil {
		t.Fatalf("ParseMentions: %v", err)
	}
	if len(mentions) != 1 || mentions[0].Type != model.EntityParty {
		t.Errorf("mentions = %+v", mentions)
	}
}

func TestParseMentions_DropsInvalidEntries(t *testing.T) {
	content := `{"entities": [
		{"type": "Party", "text": "张三"},
		{"type": "Spaceship", "text": "企业号"},
		{"type": "Party"}
	]}`
	mentions, err := ParseMentions(content, testBlock)
	if err != nil {
		t.Fatalf("ParseMentions: %v", err)
	}
	if len(mentions) != 1 {
		t.Errorf("expected only the valid mention, got %d", len(mentions))
	}
}

func TestParseMentions_Unparseable(t *testing.T) {
	if _, err := ParseMentions("抱歉，我无法处理该文本。", testBlock); err == nil {
		t.Error("expected error for non-JSON response")
	}
}

func TestParseRelations(t *testing.T) {
	content := `{"relations": [
		{"subject": "entity_0001", "predicate": "case_involved_party", "object": "entity_0002", "confidence": 0.9, "evidence": "原告张三"},
		{"subject": "entity_0001", "predicate": "case_involved_party", "object": "该被告", "confidence": 7.5},
		{"subject": "entity_0001", "predicate": "case_in_court"}
	]}`

	relations, err := ParseRelations(content)
	if err != nil {
		t.Fatalf("ParseRelations: %v", err)
	}
	if len(relations) != 2 {
		t.Fatalf("expected 2 relations (one dropped for missing object), got %d", len(relations))
	}
	if relations[0].Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", relations[0].Confidence)
	}
	if relations[1].Confidence != 0.5 {
		t.Errorf("out-of-range confidence = %v, want reset to 0.5", relations[1].Confidence)
	}
	if relations[1].Object != "该被告" {
		t.Errorf("surface-form endpoints must survive parsing, got %q", relations[1].Object)
	}
}

func TestParseRelations_BareArray(t *testing.T) {
	content := `[{"subject": "a", "predicate": "case_in_court", "object": "b"}]`
	relations, err := ParseRelations(content)
	if err != nil {
		t.Fatalf("ParseRelations: %v", err)
	}
	if len(relations) != 1 {
		t.Errorf("expected 1 relation, got %d", len(relations))
	}
}

func TestParseQuality(t *testing.T) {
	content := "```json\n" + `{
		"quality_score": 0.85,
		"entity_count": 15,
		"relation_count": 20,
		"issues": ["遗漏了部分证据实体"],
		"recommendations": ["补充证据实体"],
		"backtrack_stage": "infer"
	}` + "\n```"

	report := ParseQuality(content)
	if report.QualityScore != 0.85 {
		t.Errorf("score = %v, want 0.85", report.QualityScore)
	}
	if report.BacktrackStage != "infer" {
		t.Errorf("backtrack stage = %q", report.BacktrackStage)
	}
}

func TestParseQuality_MalformedDegradesToDefault(t *testing.T) {
	report := ParseQuality("I think the extraction looks fine overall.")
	if report.QualityScore != 0.5 {
		t.Errorf("score = %v, want neutral 0.5", report.QualityScore)
	}
	if len(report.Issues) == 0 {
		t.Error("default report should carry the failure reason")
	}
	if report.BacktrackStage != "" {
		t.Errorf("default report must not request a backtrack, got %q", report.BacktrackStage)
	}
}

func TestParseQuality_MissingScoreDefaults(t *testing.T) {
	report := ParseQuality(`{"issues": ["实体过少"]}`)
	if report.QualityScore != 0.5 {
		t.Errorf("score = %v, want 0.5 when omitted", report.QualityScore)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
