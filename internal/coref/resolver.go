package coref

import (
	"sort"
	"strings"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Resolver replaces pronoun-like relation endpoints with canonical
// entity ids by bounded breadth-first reasoning over the relation
// graph. Entities themselves are never modified; only endpoint
// references inside relations change.
type Resolver struct {
	maxHops   int
	threshold float64
}

// New creates a resolver from configuration.
func New(cfg model.CorefConfig) *Resolver {
	return &Resolver{
		maxHops:   cfg.MaxHops,
		threshold: cfg.SimilarityThreshold,
	}
}

// edge is one direction of a relation in the adjacency list.
type edge struct {
	target    string
	predicate string
}

// strongPredicates decay slower during graph traversal because they
// bind parties directly to the case narrative.
var strongPredicates = map[string]bool{
	"case_involved_party": true,
	"party_against_party": true,
}

// clues carries what the surface form of a pronoun reveals about its
// referent.
type clues struct {
	text        string
	entityTypes []model.EntityType
	purePronoun bool
}

var purePronouns = map[string]bool{
	"他": true, "她": true, "它": true,
	"其": true, "该": true, "此": true,
}

// extractClues reads type hints out of a pronoun-like token, e.g.
// 该被告 points at a Party.
func extractClues(pronoun string) clues {
	c := clues{text: pronoun, purePronoun: purePronouns[pronoun]}
	switch {
	case strings.Contains(pronoun, "被告"):
		c.entityTypes = append(c.entityTypes, model.EntityParty)
	case strings.Contains(pronoun, "原告"):
		c.entityTypes = append(c.entityTypes, model.EntityParty)
	case strings.Contains(pronoun, "法院"):
		c.entityTypes = append(c.entityTypes, model.EntityCourt)
	case strings.Contains(pronoun, "法官"):
		c.entityTypes = append(c.entityTypes, model.EntityJudge)
	case strings.Contains(pronoun, "证据"):
		c.entityTypes = append(c.entityTypes, model.EntityEvidence)
	}
	return c
}

// Resolve rewrites unresolved endpoints across the relation list.
// Relations keep their input order; resolved endpoints record the
// original token.
func (r *Resolver) Resolve(
	relations []model.NormalizedRelation,
	entities []model.CanonicalEntity,
) []model.NormalizedRelation {
	if len(relations) == 0 || len(entities) == 0 {
		return relations
	}

	graph := buildGraph(relations)
	entityTypes := make(map[string]model.EntityType, len(entities))
	for _, e := range entities {
		entityTypes[e.ID] = e.Type
	}

	resolved := make([]model.NormalizedRelation, len(relations))
	for i, rel := range relations {
		resolved[i] = r.resolveRelation(rel, graph, entityTypes)
	}
	return resolved
}

// buildGraph constructs the undirected adjacency list: every relation
// with two non-empty endpoints contributes an edge in both directions.
func buildGraph(relations []model.NormalizedRelation) map[string][]edge {
	graph := make(map[string][]edge)
	for _, rel := range relations {
		if rel.Subject == "" || rel.Object == "" {
			continue
		}
		graph[rel.Subject] = append(graph[rel.Subject], edge{target: rel.Object, predicate: rel.Predicate})
		graph[rel.Object] = append(graph[rel.Object], edge{target: rel.Subject, predicate: rel.Predicate})
	}
	return graph
}

func (r *Resolver) resolveRelation(
	rel model.NormalizedRelation,
	graph map[string][]edge,
	entityTypes map[string]model.EntityType,
) model.NormalizedRelation {
	out := rel

	if s := r.resolveEndpoint(rel.Subject, rel, graph, entityTypes); s != rel.Subject {
		out.OriginalSubject = rel.Subject
		out.Subject = s
		out.Resolved = true
	}
	if o := r.resolveEndpoint(rel.Object, rel, graph, entityTypes); o != rel.Object {
		out.OriginalObject = rel.Object
		out.Object = o
		out.Resolved = true
	}
	if out.Resolved {
		out.NeedCoref = stillUnresolved(out.Subject, out.Object, entityTypes)
	}
	return out
}

func stillUnresolved(subject, object string, entityTypes map[string]model.EntityType) bool {
	if subject != "" {
		if _, ok := entityTypes[subject]; !ok {
			return true
		}
	}
	if object != "" {
		if _, ok := entityTypes[object]; !ok {
			return true
		}
	}
	return false
}

// resolveEndpoint maps one endpoint token to an entity id, returning
// the token unchanged when it already names an entity or no candidate
// can be found.
func (r *Resolver) resolveEndpoint(
	token string,
	rel model.NormalizedRelation,
	graph map[string][]edge,
	entityTypes map[string]model.EntityType,
) string {
	if token == "" {
		return token
	}
	if _, known := entityTypes[token]; known {
		return token
	}

	anchor, ok := anchorEntity(rel, entityTypes)
	if !ok {
		// Both endpoints unresolved, nothing to reason from.
		return token
	}

	candidates := r.search(anchor, extractClues(token), graph, entityTypes)
	if len(candidates) == 0 {
		return token
	}
	for _, c := range candidates {
		if c.score >= r.threshold {
			return c.id
		}
	}
	// Nothing clears the threshold: take the top-scored candidate.
	return candidates[0].id
}

// anchorEntity picks the relation endpoint the traversal starts from:
// the one that already names a known entity, provided the other one
// does not.
func anchorEntity(rel model.NormalizedRelation, entityTypes map[string]model.EntityType) (string, bool) {
	_, subjectKnown := entityTypes[rel.Subject]
	_, objectKnown := entityTypes[rel.Object]
	switch {
	case rel.Subject != "" && subjectKnown && rel.Object != "" && !objectKnown:
		return rel.Subject, true
	case rel.Object != "" && objectKnown && rel.Subject != "" && !subjectKnown:
		return rel.Object, true
	default:
		return "", false
	}
}

type candidate struct {
	id    string
	score float64
}

// search runs a bounded BFS from the anchor. Path similarity decays
// per hop, faster over weak predicates; each known entity reached
// scores pathSimilarity * (0.3 + 0.7*typeMatch). Candidates come back
// sorted by score, ties keeping traversal order.
func (r *Resolver) search(
	start string,
	c clues,
	graph map[string][]edge,
	entityTypes map[string]model.EntityType,
) []candidate {
	type item struct {
		id         string
		hops       int
		similarity float64
	}

	var candidates []candidate
	visited := map[string]bool{start: true}
	queue := []item{{id: start, hops: 0, similarity: 1.0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id != start {
			if typ, known := entityTypes[cur.id]; known {
				typeScore := 0.0
				if len(c.entityTypes) > 0 {
					typeScore = 0.5
					for _, want := range c.entityTypes {
						if typ == want {
							typeScore = 1.0
							break
						}
					}
				}
				candidates = append(candidates, candidate{
					id:    cur.id,
					score: cur.similarity * (0.3 + 0.7*typeScore),
				})
			}
		}

		if cur.hops >= r.maxHops {
			continue
		}
		for _, e := range graph[cur.id] {
			if visited[e.target] {
				continue
			}
			visited[e.target] = true
			decay := 0.6
			if strongPredicates[e.predicate] {
				decay = 0.8
			}
			queue = append(queue, item{
				id:         e.target,
				hops:       cur.hops + 1,
				similarity: cur.similarity * decay,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	return candidates
}
