package oracle

import (
	"fmt"
	"strings"

	"github.com/lexgraph/lexgraph/internal/model"
	"github.com/lexgraph/lexgraph/internal/relnorm"
)

// qualityGuidance renders the quality-check feedback section appended
// to NER and relation prompts during a backtracked pass.
func qualityGuidance(report *model.QualityReport, backtrackCount int) string {
	if report == nil || backtrackCount == 0 {
		return ""
	}
	if len(report.Issues) == 0 && len(report.Recommendations) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\n=== 质量检查反馈 ===\n")
	if len(report.Issues) > 0 {
		b.WriteString("上一次抽取的问题：\n")
		for _, issue := range report.Issues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
		b.WriteString("\n")
	}
	if len(report.Recommendations) > 0 {
		b.WriteString("改进建议：\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
		b.WriteString("\n")
	}
	b.WriteString("请根据以上反馈，针对性地改进本次抽取结果。\n")
	return b.String()
}

// BuildNERPrompt renders the entity recognition prompt for one block.
func BuildNERPrompt(block model.Block, report *model.QualityReport, backtrackCount int) string {
	var types strings.Builder
	for _, t := range model.EntityTypeOrder {
		fmt.Fprintf(&types, "- %s: %s\n", t, model.EntityTypes[t])
	}

	return fmt.Sprintf(`你是一个专业的法律文书实体识别专家。请从以下香港法律文书片段中识别所有相关实体。

支持的实体类型：
%s
文本块类型：%s

原文：
%s

请识别所有实体，以 JSON 格式输出，格式如下：
{
    "entities": [
        {
            "type": "实体类型",
            "text": "实体在原文中的表述",
            "start_pos": 起始位置（数字）,
            "end_pos": 结束位置（数字）,
            "attributes": {
                "具体属性": "属性值"
            }
        }
    ]
}

注意：
1. 实体类型必须从支持的类型中选择
2. 提取实体在原文中的准确位置（start_pos 和 end_pos）
3. 根据实体类型填写相应的 attributes 字段
4. 保持原文表述的准确性
5. 只输出 JSON，不要包含其他解释文本
%s
开始识别：`, types.String(), block.Type, block.Content, qualityGuidance(report, backtrackCount))
}

// BuildRelationPrompt renders the relation extraction prompt over the
// whole document with the canonical entity catalog.
func BuildRelationPrompt(
	text string,
	entities []model.CanonicalEntity,
	report *model.QualityReport,
	backtrackCount int,
) string {
	var catalog strings.Builder
	for _, e := range entities {
		fmt.Fprintf(&catalog, "- %s: %s - %s\n", e.ID, e.Type, e.CanonicalName)
	}

	var predicates strings.Builder
	for _, p := range relnorm.PredicateOrder {
		pair := relnorm.RelationTypes[p]
		fmt.Fprintf(&predicates, "- %s: %s -> %s\n", p, pair.Subject, pair.Object)
	}

	return fmt.Sprintf(`你是一个专业的法律关系抽取专家。请从文本中识别实体之间的关系。

实体列表：
%s
支持的关系类型（主语类型 -> 宾语类型）：
%s
原文：
%s

任务：
1. 识别实体之间的语义关系
2. 确定关系类型（从支持的关系类型中选择）
3. 标记关系证据（在原文中的位置或句子）

输出格式（JSON）：
{
    "relations": [
        {
            "subject": "主语实体ID",
            "predicate": "关系类型",
            "object": "宾语实体ID",
            "confidence": 0.9,
            "evidence": "支持该关系的原文片段"
        }
    ]
}

注意：
1. subject 和 object 优先使用实体列表中的 ID；指代不明时可使用原文表述
2. predicate 必须是支持的关系类型
3. confidence 范围为 0-1
4. 只抽取明确表达的关系，不要猜测
5. 只输出 JSON
%s
开始抽取：`, catalog.String(), predicates.String(), text, qualityGuidance(report, backtrackCount))
}

// BuildQualityPrompt renders the quality assessment prompt over the
// extraction summary.
func BuildQualityPrompt(
	text string,
	entities []model.CanonicalEntity,
	relations []model.NormalizedRelation,
) string {
	excerpt := text
	if len([]rune(excerpt)) > 1000 {
		excerpt = string([]rune(excerpt)[:1000]) + "..."
	}

	return fmt.Sprintf(`你是一个知识图谱质量检查专家。请评估以下抽取结果的质量。

原文摘要：
%s

抽取结果摘要：
%s

%s

检查维度：
1. 实体完整性：是否遗漏重要实体
2. 实体准确性：实体类型、属性是否正确
3. 关系合理性：关系是否符合法律逻辑
4. 一致性：实体和关系是否自洽
5. 置信度：低置信度的结果是否需要改进

输出格式（JSON）：
{
    "quality_score": 0.85,
    "entity_count": 15,
    "relation_count": 20,
    "issues": [
        "问题1：具体描述"
    ],
    "recommendations": [
        "建议1：具体改进措施"
    ],
    "backtrack_stage": "建议回溯的阶段（infer/canonicalize/normalize_relations/resolve_coref）"
}

注意：
1. quality_score 范围为 0-1
2. 如果 quality_score < 0.8，建议回溯
3. backtrack_stage 只选择一个最需要回溯的阶段
4. 只输出 JSON

开始评估：`, excerpt, entitySummary(entities), relationSummary(relations))
}

func entitySummary(entities []model.CanonicalEntity) string {
	if len(entities) == 0 {
		return "未识别到实体"
	}

	byType := make(map[model.EntityType][]model.CanonicalEntity)
	var typeOrder []model.EntityType
	for _, e := range entities {
		if _, seen := byType[e.Type]; !seen {
			typeOrder = append(typeOrder, e.Type)
		}
		byType[e.Type] = append(byType[e.Type], e)
	}

	var b strings.Builder
	b.WriteString("实体列表（按类型）：")
	for _, typ := range typeOrder {
		ents := byType[typ]
		fmt.Fprintf(&b, "\n\n%s (%d个):", typ, len(ents))
		for i, e := range ents {
			if i >= 5 {
				fmt.Fprintf(&b, "\n  ... 还有 %d 个", len(ents)-5)
				break
			}
			fmt.Fprintf(&b, "\n  - %s: %s", e.ID, e.CanonicalName)
		}
	}
	return b.String()
}

func relationSummary(relations []model.NormalizedRelation) string {
	if len(relations) == 0 {
		return "未识别到关系"
	}

	var b strings.Builder
	b.WriteString("关系列表：")
	for i, rel := range relations {
		if i >= 10 {
			fmt.Fprintf(&b, "\n  ... 还有 %d 个关系", len(relations)-10)
			break
		}
		fmt.Fprintf(&b, "\n  - %s -[%s]-> %s (置信度: %.2f)", rel.Subject, rel.Predicate, rel.Object, rel.Confidence)
	}
	return b.String()
}
