package graphstore

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/lexgraph/lexgraph/internal/model"
	"github.com/lexgraph/lexgraph/internal/relnorm"
)

// Neo4jStore persists the knowledge graph in a Neo4j database
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to Neo4j, verifies connectivity and ensures
// the per-label uniqueness constraints exist.
func NewNeo4jStore(ctx context.Context, cfg model.GraphConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.User, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("init neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	s := &Neo4jStore{driver: driver, database: cfg.Database}
	if err := s.createConstraints(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	return s, nil
}

// Close releases the underlying connection
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func (s *Neo4jStore) run(ctx context.Context, cypher string, params map[string]any) (*neo4j.EagerResult, error) {
	return neo4j.ExecuteQuery(ctx, s.driver, cypher, params,
		neo4j.EagerResultTransformer, neo4j.ExecuteQueryWithDatabase(s.database))
}

func (s *Neo4jStore) createConstraints(ctx context.Context) error {
	for _, typ := range model.EntityTypeOrder {
		cypher := fmt.Sprintf(
			"CREATE CONSTRAINT IF NOT EXISTS FOR (n:%s) REQUIRE n.id IS UNIQUE", typ)
		if _, err := s.run(ctx, cypher, nil); err != nil {
			return fmt.Errorf("create constraint for %s: %w", typ, err)
		}
	}
	return nil
}

// UpsertEntities merges the entities as nodes, keyed by entity id
func (s *Neo4jStore) UpsertEntities(ctx context.Context, entities []model.CanonicalEntity) (int, error) {
	count := 0
	for _, e := range entities {
		// Label interpolation is safe: Type comes from the closed
		// entity type set, never from oracle output.
		cypher := fmt.Sprintf("MERGE (n:%s {id: $id}) SET n = $properties", e.Type)
		_, err := s.run(ctx, cypher, map[string]any{
			"id":         e.ID,
			"properties": entityProperties(e),
		})
		if err != nil {
			return count, fmt.Errorf("upsert entity %s: %w", e.ID, err)
		}
		count++
	}
	return count, nil
}

// UpsertRelations merges the relations as typed edges. Only schema
// predicates become edge types (anything else cannot be interpolated
// into Cypher safely); relations whose endpoints match no stored node
// merge nothing and are not counted.
func (s *Neo4jStore) UpsertRelations(ctx context.Context, relations []model.NormalizedRelation) (int, error) {
	count := 0
	for _, r := range relations {
		if _, known := relnorm.RelationTypes[r.Predicate]; !known {
			continue
		}
		cypher := fmt.Sprintf(`
			MATCH (a {id: $subject})
			MATCH (b {id: $object})
			MERGE (a)-[r:%s]->(b)
			SET r = $properties
			RETURN count(r) as merged`, r.Predicate)
		result, err := s.run(ctx, cypher, map[string]any{
			"subject":    r.Subject,
			"object":     r.Object,
			"properties": relationProperties(r),
		})
		if err != nil {
			return count, fmt.Errorf("upsert relation %s-[%s]->%s: %w", r.Subject, r.Predicate, r.Object, err)
		}
		if len(result.Records) > 0 {
			if merged, ok := result.Records[0].Get("merged"); ok {
				if n, ok := merged.(int64); ok && n > 0 {
					count++
				}
			}
		}
	}
	return count, nil
}

// Stats counts nodes by label and relationships by type
func (s *Neo4jStore) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)

	result, err := s.run(ctx, "MATCH (n) RETURN labels(n) as label, count(n) as count", nil)
	if err != nil {
		return nil, fmt.Errorf("node stats: %w", err)
	}
	for _, record := range result.Records {
		label := "Unknown"
		if v, ok := record.Get("label"); ok {
			if labels, ok := v.([]any); ok && len(labels) > 0 {
				label = fmt.Sprint(labels[0])
			}
		}
		if v, ok := record.Get("count"); ok {
			if n, ok := v.(int64); ok {
				stats[label] += int(n)
			}
		}
	}

	result, err = s.run(ctx, "MATCH ()-[r]->() RETURN type(r) as relation, count(r) as count", nil)
	if err != nil {
		return nil, fmt.Errorf("relation stats: %w", err)
	}
	for _, record := range result.Records {
		relation := ""
		if v, ok := record.Get("relation"); ok {
			relation = fmt.Sprint(v)
		}
		if v, ok := record.Get("count"); ok {
			if n, ok := v.(int64); ok {
				stats["relation_"+relation] += int(n)
			}
		}
	}

	return stats, nil
}

// Export snapshots the whole graph
func (s *Neo4jStore) Export(ctx context.Context) (*Export, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	export := &Export{
		ExportTime: time.Now(),
		Stats:      stats,
	}

	result, err := s.run(ctx, `
		MATCH (n)
		RETURN n.id as id, labels(n) as labels, properties(n) as properties`, nil)
	if err != nil {
		return nil, fmt.Errorf("export nodes: %w", err)
	}
	for _, record := range result.Records {
		node := Node{}
		if v, ok := record.Get("id"); ok {
			node.ID = fmt.Sprint(v)
		}
		if v, ok := record.Get("labels"); ok {
			if labels, ok := v.([]any); ok {
				for _, l := range labels {
					node.Labels = append(node.Labels, fmt.Sprint(l))
				}
			}
		}
		if v, ok := record.Get("properties"); ok {
			if props, ok := v.(map[string]any); ok {
				node.Properties = props
			}
		}
		export.Nodes = append(export.Nodes, node)
	}

	result, err = s.run(ctx, `
		MATCH (a)-[r]->(b)
		RETURN a.id as source, b.id as target, type(r) as type, properties(r) as properties`, nil)
	if err != nil {
		return nil, fmt.Errorf("export relationships: %w", err)
	}
	for _, record := range result.Records {
		rel := Relationship{}
		if v, ok := record.Get("source"); ok {
			rel.Source = fmt.Sprint(v)
		}
		if v, ok := record.Get("target"); ok {
			rel.Target = fmt.Sprint(v)
		}
		if v, ok := record.Get("type"); ok {
			rel.Type = fmt.Sprint(v)
		}
		if v, ok := record.Get("properties"); ok {
			if props, ok := v.(map[string]any); ok {
				rel.Properties = props
			}
		}
		export.Relationships = append(export.Relationships, rel)
	}

	return export, nil
}

// Clear removes every node and relationship
func (s *Neo4jStore) Clear(ctx context.Context) error {
	if _, err := s.run(ctx, "MATCH (n) DETACH DELETE n", nil); err != nil {
		return fmt.Errorf("clear graph: %w", err)
	}
	return nil
}
