package segment

import (
	"strings"
	"testing"

	"github.com/lexgraph/lexgraph/internal/model"
)

const sampleJudgment = `香港特别行政区高等法院
民事判决书

【案件基本信息】
本案编号为HCMP001/2024，原告为张三，被告为李四。

【诉讼请求】
原告请求判令被告赔偿损失。

【经审理查明】
被告于2023年签订合同后未履行义务。

【本院认为】
被告行为构成违约。

【判决如下】
被告应向原告赔偿人民币10万元。`

func TestSegment_NoHeadings(t *testing.T) {
	s := New(model.SegmentConfig{MinBlockLength: 50})

	text := "这是一段没有任何章节标题的普通文本。\n它应当作为单个块返回。"
	blocks := s.Segment(text)

	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Type != model.BlockOther {
		t.Errorf("expected OTHER, got %s", b.Type)
	}
	if b.Level != 0 || b.ParentID != "" {
		t.Errorf("expected level 0 and no parent, got level=%d parent=%q", b.Level, b.ParentID)
	}
	cleaned := Clean(text)
	if b.StartPos != 0 || b.EndPos != len(cleaned) {
		t.Errorf("expected span [0,%d), got [%d,%d)", len(cleaned), b.StartPos, b.EndPos)
	}
}

func TestSegment_EmptyText(t *testing.T) {
	s := New(model.SegmentConfig{})
	if blocks := s.Segment("   \n\n  "); len(blocks) != 0 {
		t.Errorf("expected no blocks for blank input, got %d", len(blocks))
	}
}

func TestSegment_HeadingTypes(t *testing.T) {
	s := New(model.SegmentConfig{MinBlockLength: 50})
	blocks := s.Segment(sampleJudgment)

	want := []model.BlockType{
		model.BlockOther, // court name before the first heading
		model.BlockCaseInfo,
		model.BlockClaim,
		model.BlockFact,
		model.BlockReasoning,
		model.BlockJudgment,
	}
	if len(blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %d", len(want), len(blocks))
	}
	for i, typ := range want {
		if blocks[i].Type != typ {
			t.Errorf("block %d: expected %s, got %s (%q)", i, typ, blocks[i].Type, blocks[i].Title)
		}
	}
	if !strings.Contains(blocks[3].Content, "未履行义务") {
		t.Errorf("FACT content wrong: %q", blocks[3].Content)
	}
}

// The union of block spans must reconstruct the cleaned text with no
// gaps or overlaps.
func TestSegment_SpansPartitionText(t *testing.T) {
	s := New(model.SegmentConfig{})
	cleaned := Clean(sampleJudgment)
	blocks := s.Segment(sampleJudgment)

	if blocks[0].StartPos != 0 {
		t.Errorf("first block starts at %d, want 0", blocks[0].StartPos)
	}
	for i := 0; i < len(blocks)-1; i++ {
		if blocks[i].EndPos != blocks[i+1].StartPos {
			t.Errorf("gap/overlap between block %d and %d: end=%d next start=%d",
				i, i+1, blocks[i].EndPos, blocks[i+1].StartPos)
		}
	}
	if last := blocks[len(blocks)-1]; last.EndPos != len(cleaned) {
		t.Errorf("last block ends at %d, want %d", last.EndPos, len(cleaned))
	}
}

func TestClean_CollapsesBlankRuns(t *testing.T) {
	in := "第一行  \n\n\n\n第二行\n\n第三行"
	want := "第一行\n\n第二行\n\n第三行"
	if got := Clean(in); got != want {
		t.Errorf("Clean(%q) = %q, want %q", in, got, want)
	}
}

func TestHierarchyLevel(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"一、案情概述", 1},
		{"（二）、具体事实", 2},
		{"3、赔偿金额", 3},
		{"12.程序问题", 3},
		{"(4)其他", 4},
		{"【判决理由】", 0},
		{"无编号标题", 0},
	}
	for _, tt := range tests {
		if got := hierarchyLevel(tt.title); got != tt.want {
			t.Errorf("hierarchyLevel(%q) = %d, want %d", tt.title, got, tt.want)
		}
	}
}

func TestAssignParents(t *testing.T) {
	blocks := []model.Block{
		{ID: "block_0001", Level: 1},
		{ID: "block_0002", Level: 2},
		{ID: "block_0003", Level: 3},
		{ID: "block_0004", Level: 2},
		{ID: "block_0005", Level: 1},
		{ID: "block_0006", Level: 0},
	}
	assignParents(blocks)

	want := []string{"", "block_0001", "block_0002", "block_0001", "", ""}
	for i, parent := range want {
		if blocks[i].ParentID != parent {
			t.Errorf("block %d: parent = %q, want %q", i, blocks[i].ParentID, parent)
		}
	}
}

func TestStatistics(t *testing.T) {
	s := New(model.SegmentConfig{MinBlockLength: 5})
	blocks := []model.Block{
		{ID: "block_0001", Type: model.BlockCaseInfo, Content: "本案在高等法院审理。"},
		{ID: "block_0002", Type: model.BlockFact, Content: "短。", ParentID: "block_0001"},
		{ID: "block_0003", Type: model.BlockFact, Content: "另一段。"},
	}

	st := s.Statistics(blocks)
	if st.Total != 3 {
		t.Errorf("total = %d, want 3", st.Total)
	}
	if st.ByType[model.BlockCaseInfo] != 1 || st.ByType[model.BlockFact] != 2 {
		t.Errorf("by type = %v", st.ByType)
	}
	if st.WithParent != 1 {
		t.Errorf("with parent = %d, want 1", st.WithParent)
	}
	// 短。 and 另一段。 fall under the 5-rune minimum.
	if st.ShortBlocks != 2 {
		t.Errorf("short blocks = %d, want 2", st.ShortBlocks)
	}
}
