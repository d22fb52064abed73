package canon

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Canonicalizer merges raw entity mentions into canonical entities by
// dictionary pre-matching followed by greedy same-type clustering.
// Processing is deterministic: mentions are handled in input order and
// every tie breaks toward the earlier mention.
type Canonicalizer struct {
	dict      *Dictionary
	threshold float64
}

// New creates a canonicalizer from configuration.
func New(cfg model.CanonConfig) *Canonicalizer {
	return &Canonicalizer{
		dict:      NewDictionary(),
		threshold: cfg.SimilarityThreshold,
	}
}

// premention is a mention annotated with its dictionary match.
type premention struct {
	model.RawMention
	canonical   string
	dictMatched bool
}

// Canonicalize clusters the mentions and returns canonical entities in
// deterministic order: entity types by first appearance, clusters by
// their first member.
func (c *Canonicalizer) Canonicalize(mentions []model.RawMention) []model.CanonicalEntity {
	pre := c.preMatch(mentions)

	// Group by entity type, preserving first-appearance order.
	groups := make(map[model.EntityType][]premention)
	var typeOrder []model.EntityType
	for _, m := range pre {
		if _, seen := groups[m.Type]; !seen {
			typeOrder = append(typeOrder, m.Type)
		}
		groups[m.Type] = append(groups[m.Type], m)
	}

	var entities []model.CanonicalEntity
	counter := 0
	for _, typ := range typeOrder {
		for _, cluster := range c.clusterSameType(groups[typ]) {
			counter++
			entities = append(entities, c.buildEntity(cluster, counter))
		}
	}
	return entities
}

func (c *Canonicalizer) preMatch(mentions []model.RawMention) []premention {
	pre := make([]premention, 0, len(mentions))
	for _, m := range mentions {
		canonical := c.dict.CanonicalName(m.Text)
		pre = append(pre, premention{
			RawMention:  m,
			canonical:   canonical,
			dictMatched: canonical != m.Text,
		})
	}
	return pre
}

// clusterSameType greedily grows a cluster around each unused mention:
// later mentions join when their similarity to the seed meets the
// threshold.
func (c *Canonicalizer) clusterSameType(mentions []premention) [][]premention {
	var clusters [][]premention
	used := make([]bool, len(mentions))
	for i := range mentions {
		if used[i] {
			continue
		}
		cluster := []premention{mentions[i]}
		used[i] = true
		for j := i + 1; j < len(mentions); j++ {
			if used[j] {
				continue
			}
			if c.similarity(mentions[i], mentions[j]) >= c.threshold {
				cluster = append(cluster, mentions[j])
				used[j] = true
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// similarity scores two mentions: containment wins outright, then a
// shared dictionary canonical distinct from both surface forms, then
// keyword overlap.
func (c *Canonicalizer) similarity(a, b premention) float64 {
	if a.Text == "" || b.Text == "" {
		return 0
	}
	if strings.Contains(a.Text, b.Text) || strings.Contains(b.Text, a.Text) {
		return 0.9
	}
	if a.canonical == b.canonical && a.canonical != a.Text && a.canonical != b.Text {
		return 0.95
	}
	return keywordSimilarity(a.Text, b.Text)
}

func (c *Canonicalizer) buildEntity(cluster []premention, n int) model.CanonicalEntity {
	representative := selectRepresentative(cluster)

	var aliases []string
	seenAlias := make(map[string]struct{})
	for _, m := range cluster {
		if m.Text == "" || m.Text == representative {
			continue
		}
		if _, dup := seenAlias[m.Text]; dup {
			continue
		}
		seenAlias[m.Text] = struct{}{}
		aliases = append(aliases, m.Text)
	}

	originals := make([]string, 0, len(cluster))
	for _, m := range cluster {
		originals = append(originals, m.Text)
	}

	var blockIDs []string
	seenBlock := make(map[string]struct{})
	for _, m := range cluster {
		if m.BlockID == "" {
			continue
		}
		if _, dup := seenBlock[m.BlockID]; dup {
			continue
		}
		seenBlock[m.BlockID] = struct{}{}
		blockIDs = append(blockIDs, m.BlockID)
	}

	return model.CanonicalEntity{
		ID:             fmt.Sprintf("entity_%04d", n),
		CanonicalName:  representative,
		Aliases:        aliases,
		Type:           cluster[0].Type,
		OriginalNames:  originals,
		BlockType:      cluster[0].BlockType,
		Confidence:     clusterConfidence(cluster),
		SourceBlockIDs: blockIDs,
	}
}

// selectRepresentative prefers the first dictionary-matched canonical
// name, falling back to the longest surface form (first wins on ties).
func selectRepresentative(cluster []premention) string {
	for _, m := range cluster {
		if m.dictMatched {
			return m.canonical
		}
	}
	best := ""
	bestLen := -1
	for _, m := range cluster {
		if l := utf8.RuneCountInString(m.Text); l > bestLen {
			best = m.Text
			bestLen = l
		}
	}
	return best
}

// clusterConfidence scores a cluster: dictionary hits dominate,
// otherwise larger clusters score higher.
func clusterConfidence(cluster []premention) float64 {
	if len(cluster) == 0 {
		return 0
	}
	matched := 0
	for _, m := range cluster {
		if m.dictMatched {
			matched++
		}
	}
	if matched > 0 {
		conf := 0.7 + 0.2*float64(matched)/float64(len(cluster))
		if conf > 0.9 {
			conf = 0.9
		}
		return conf
	}
	size := float64(len(cluster)) / 3.0
	if size > 1 {
		size = 1
	}
	return 0.5 + 0.3*size
}

// AliasIndex maps every surface form and mention id of the canonical
// entities back to the owning entity, so downstream stages can rewrite
// relation endpoints.
type AliasIndex struct {
	byName map[string]*model.CanonicalEntity
	byID   map[string]*model.CanonicalEntity
}

// BuildAliasIndex indexes entities by canonical name, every original
// surface form, and mention id. First writer wins on collisions.
func BuildAliasIndex(entities []model.CanonicalEntity, mentions []model.RawMention) *AliasIndex {
	idx := &AliasIndex{
		byName: make(map[string]*model.CanonicalEntity),
		byID:   make(map[string]*model.CanonicalEntity),
	}
	for i := range entities {
		e := &entities[i]
		idx.putName(e.CanonicalName, e)
		for _, name := range e.OriginalNames {
			idx.putName(name, e)
		}
		for _, alias := range e.Aliases {
			idx.putName(alias, e)
		}
		idx.byID[e.ID] = e
	}
	// Mention ids resolve through the surface form they carried.
	for _, m := range mentions {
		if m.ID == "" {
			continue
		}
		if e, ok := idx.byName[m.Text]; ok {
			if _, taken := idx.byID[m.ID]; !taken {
				idx.byID[m.ID] = e
			}
		}
	}
	return idx
}

func (idx *AliasIndex) putName(name string, e *model.CanonicalEntity) {
	if name == "" {
		return
	}
	if _, taken := idx.byName[name]; !taken {
		idx.byName[name] = e
	}
}

// Resolve maps a relation endpoint (mention id or surface form) to its
// canonical entity.
func (idx *AliasIndex) Resolve(endpoint string) (*model.CanonicalEntity, bool) {
	if e, ok := idx.byID[endpoint]; ok {
		return e, true
	}
	if e, ok := idx.byName[endpoint]; ok {
		return e, true
	}
	return nil, false
}
