package model

// BlockType classifies a structural section of a legal document
type BlockType string

const (
	BlockCaseInfo  BlockType = "CASE_INFO" // case number, court, parties
	BlockClaim     BlockType = "CLAIM"     // plaintiff's claims
	BlockFact      BlockType = "FACT"      // findings of fact
	BlockDefense   BlockType = "DEFENSE"   // defendant's response
	BlockEvidence  BlockType = "EVIDENCE"  // evidence listing
	BlockReasoning BlockType = "REASONING" // court's reasoning
	BlockJudgment  BlockType = "JUDGMENT"  // final judgment
	BlockProcedure BlockType = "PROCEDURE" // procedural history
	BlockCost      BlockType = "COST"      // allocation of costs
	BlockOther     BlockType = "OTHER"     // anything unrecognized
)

// Block is a contiguous, typed span of the cleaned document text.
// Blocks partition the text by position: EndPos of block i equals
// StartPos of block i+1 for contiguous structural blocks.
type Block struct {
	ID       string    `json:"block_id"`
	Type     BlockType `json:"block_type"`
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	StartPos int       `json:"start_pos"` // half-open offsets into the cleaned text
	EndPos   int       `json:"end_pos"`
	Level    int       `json:"level"`               // 0 = non-hierarchical, >0 = nesting depth
	ParentID string    `json:"parent_id,omitempty"` // earlier block with strictly smaller positive level
}
