package model

// EntityType classifies a legal entity
type EntityType string

const (
	EntityCase      EntityType = "Case"
	EntityCourt     EntityType = "Court"
	EntityJudge     EntityType = "Judge"
	EntityParty     EntityType = "Party"
	EntityLaw       EntityType = "Law"
	EntityEvidence  EntityType = "Evidence"
	EntityLegalTerm EntityType = "LegalTerm"
	EntityDate      EntityType = "Date"
	EntityAmount    EntityType = "Amount"
)

// EntityTypeOrder lists the supported types in stable prompt order.
var EntityTypeOrder = []EntityType{
	EntityCase, EntityCourt, EntityJudge, EntityParty, EntityLaw,
	EntityEvidence, EntityLegalTerm, EntityDate, EntityAmount,
}

// EntityTypes maps each supported type to a short description used in
// oracle prompts.
var EntityTypes = map[EntityType]string{
	EntityCase:      "案件信息（案件编号、标题、日期、引证）",
	EntityCourt:     "法院（名称、级别、管辖区）",
	EntityJudge:     "法官（姓名、职称）",
	EntityParty:     "当事人（姓名、类型：plaintiff/defendant、角色）",
	EntityLaw:       "法律条文（名称、类型、条款）",
	EntityEvidence:  "证据（类型、描述）",
	EntityLegalTerm: "法律术语（术语、定义）",
	EntityDate:      "日期（日期、类型：filing/hearing/judgment）",
	EntityAmount:    "金额（金额、货币）",
}

// entityTypeAliases maps common oracle-reported type spellings onto the
// canonical set.
var entityTypeAliases = map[string]EntityType{
	"案件":        EntityCase,
	"法院":        EntityCourt,
	"法官":        EntityJudge,
	"当事人":       EntityParty,
	"法律":        EntityLaw,
	"证据":        EntityEvidence,
	"法律术语":      EntityLegalTerm,
	"日期":        EntityDate,
	"金额":        EntityAmount,
	"plaintiff": EntityParty,
	"defendant": EntityParty,
}

// NormalizeEntityType maps a raw type label onto the canonical entity
// type set. Unknown labels come back unchanged and not ok.
func NormalizeEntityType(raw string) (EntityType, bool) {
	if _, known := EntityTypes[EntityType(raw)]; known {
		return EntityType(raw), true
	}
	if t, found := entityTypeAliases[raw]; found {
		return t, true
	}
	return EntityType(raw), false
}

// DefaultAttributes returns the expected attribute keys for an entity
// type, all empty. The oracle fills in what it can.
func DefaultAttributes(t EntityType) map[string]string {
	keys := map[EntityType][]string{
		EntityCase:      {"case_id", "title", "date", "citation", "court"},
		EntityCourt:     {"name", "level", "jurisdiction"},
		EntityJudge:     {"name", "title"},
		EntityParty:     {"name", "party_type", "role"},
		EntityLaw:       {"name", "law_type", "provision", "chapter"},
		EntityEvidence:  {"type", "description"},
		EntityLegalTerm: {"term", "definition"},
		EntityDate:      {"date", "date_type"},
		EntityAmount:    {"amount", "currency"},
	}
	attrs := make(map[string]string)
	for _, k := range keys[t] {
		attrs[k] = ""
	}
	if t == EntityAmount {
		attrs["currency"] = "HKD"
	}
	return attrs
}

// RawMention is a single entity occurrence reported by the oracle for
// one block, before canonicalization.
type RawMention struct {
	ID         string            `json:"id"` // oracle-local id, e.g. party_000
	Text       string            `json:"text"`
	Type       EntityType        `json:"type"`
	BlockID    string            `json:"block_id"`
	BlockType  BlockType         `json:"block_type"`
	StartPos   int               `json:"start_pos,omitempty"` // offsets into the block content
	EndPos     int               `json:"end_pos,omitempty"`
	Confidence float64           `json:"confidence"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// CanonicalEntity is the merged representation of one or more raw
// mentions believed to denote the same real-world thing. Immutable
// after canonicalization within a pipeline pass.
type CanonicalEntity struct {
	ID             string     `json:"entity_id"` // entity_0001 style, monotonic per pass
	CanonicalName  string     `json:"canonical_name"`
	Aliases        []string   `json:"aliases"`        // distinct surface forms, excludes CanonicalName
	Type           EntityType `json:"entity_type"`
	OriginalNames  []string   `json:"original_names"` // every surface form seen, in mention order
	BlockType      BlockType  `json:"block_type,omitempty"`
	Confidence     float64    `json:"confidence"`
	SourceBlockIDs []string   `json:"source_block_ids"`
}
