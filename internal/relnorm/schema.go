package relnorm

import (
	"strings"

	"github.com/lexgraph/lexgraph/internal/model"
)

// TypePair is the (subject, object) entity-type signature a predicate
// expects.
type TypePair struct {
	Subject model.EntityType
	Object  model.EntityType
}

// RelationTypes is the closed predicate schema of the legal knowledge
// graph.
var RelationTypes = map[string]TypePair{
	"case_in_court":           {model.EntityCase, model.EntityCourt},
	"case_judged_by":          {model.EntityCase, model.EntityJudge},
	"case_involved_party":     {model.EntityCase, model.EntityParty},
	"case_applied_law":        {model.EntityCase, model.EntityLaw},
	"case_evidence":           {model.EntityCase, model.EntityEvidence},
	"party_represented_by":    {model.EntityParty, model.EntityParty},
	"party_against_party":     {model.EntityParty, model.EntityParty},
	"law_cited_by_case":       {model.EntityLaw, model.EntityCase},
	"law_interpreted_by_case": {model.EntityLaw, model.EntityCase},
	"case_filed_date":         {model.EntityCase, model.EntityDate},
	"case_hearing_date":       {model.EntityCase, model.EntityDate},
	"case_judgment_date":      {model.EntityCase, model.EntityDate},
	"case_amount":             {model.EntityCase, model.EntityAmount},
	"party_awarded_amount":    {model.EntityParty, model.EntityAmount},
}

// PredicateOrder lists the schema predicates in stable prompt order.
var PredicateOrder = []string{
	"case_in_court",
	"case_judged_by",
	"case_involved_party",
	"case_applied_law",
	"case_evidence",
	"party_represented_by",
	"party_against_party",
	"law_cited_by_case",
	"law_interpreted_by_case",
	"case_filed_date",
	"case_hearing_date",
	"case_judgment_date",
	"case_amount",
	"party_awarded_amount",
}

// predicateAlias maps a Chinese surface predicate to its schema name.
// The slice is ordered so fuzzy matching is deterministic.
type predicateAlias struct {
	Alias     string
	Predicate string
}

var predicateAliases = []predicateAlias{
	{"在...法院", "case_in_court"},
	{"由...法官审理", "case_judged_by"},
	{"涉及当事人", "case_involved_party"},
	{"适用法律", "case_applied_law"},
	{"证据", "case_evidence"},
	{"当事人代表", "party_represented_by"},
	{"当事人对抗", "party_against_party"},
	{"引用法律", "law_cited_by_case"},
	{"解释法律", "law_interpreted_by_case"},
	{"立案日期", "case_filed_date"},
	{"开庭日期", "case_hearing_date"},
	{"判决日期", "case_judgment_date"},
	{"案件金额", "case_amount"},
	{"获得金额", "party_awarded_amount"},
}

// NormalizePredicate maps a raw predicate to its schema name: exact
// alias, already-canonical, then bidirectional substring match against
// the alias table. Unmappable predicates come back unchanged.
func NormalizePredicate(predicate string) string {
	for _, a := range predicateAliases {
		if a.Alias == predicate {
			return a.Predicate
		}
	}
	if _, ok := RelationTypes[predicate]; ok {
		return predicate
	}
	for _, a := range predicateAliases {
		if strings.Contains(predicate, a.Alias) || strings.Contains(a.Alias, predicate) {
			return a.Predicate
		}
	}
	return predicate
}
