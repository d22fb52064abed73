package segment

import (
	"regexp"

	"github.com/lexgraph/lexgraph/internal/model"
)

// headingRule binds a block type to the pattern recognizing its
// heading phrases. Rules are tried in order; the first match wins.
type headingRule struct {
	Type    model.BlockType
	Pattern *regexp.Regexp
}

var headingRules = []headingRule{
	{model.BlockCaseInfo, regexp.MustCompile(`^【?(?:案件|法院|当事人|审理|案号).*】?$`)},
	{model.BlockClaim, regexp.MustCompile(`^【?(?:诉讼请求|原告诉称|诉讼请求内容).*】?$`)},
	{model.BlockFact, regexp.MustCompile(`^【?(?:案件事实|事实经过|查明事实|经审理查明).*】?$`)},
	{model.BlockDefense, regexp.MustCompile(`^【?(?:被告答辩|被告辩称|答辩意见).*】?$`)},
	{model.BlockEvidence, regexp.MustCompile(`^【?(?:证据|证据认定|证据分析).*】?$`)},
	{model.BlockReasoning, regexp.MustCompile(`^【?(?:判决理由|本院认为|理由).*】?$`)},
	{model.BlockJudgment, regexp.MustCompile(`^【?(?:判决结果|判决如下|裁判结果|判决).*】?$`)},
	{model.BlockProcedure, regexp.MustCompile(`^【?(?:审理经过|审理过程|诉讼过程).*】?$`)},
	{model.BlockCost, regexp.MustCompile(`^【?(?:诉讼费用|费用承担).*】?$`)},
}

// hierarchyPatterns recognize numbered headings. A title matching
// pattern i gets level i+1; lower level means shallower nesting.
var hierarchyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[一二三四五六七八九十]+、.+$`),      // 一、标题
	regexp.MustCompile(`^（[一二三四五六七八九十]+）、.+$`),    // （一）、标题
	regexp.MustCompile(`^[1-9][0-9]*[.、].+$`),      // 1. 标题
	regexp.MustCompile(`^\([1-9][0-9]*\).+$`),      // (1) 标题
}

// matchHeading reports whether a line is a section heading and the
// block type it announces.
func matchHeading(line string) (model.BlockType, bool) {
	for _, rule := range headingRules {
		if rule.Pattern.MatchString(line) {
			return rule.Type, true
		}
	}
	return model.BlockOther, false
}

// hierarchyLevel returns the nesting level of a heading, 0 when the
// heading carries no recognized numbering.
func hierarchyLevel(title string) int {
	for i, p := range hierarchyPatterns {
		if p.MatchString(title) {
			return i + 1
		}
	}
	return 0
}
