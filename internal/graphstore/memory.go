package graphstore

import (
	"context"
	"sync"
	"time"

	"github.com/lexgraph/lexgraph/internal/model"
	"github.com/lexgraph/lexgraph/internal/relnorm"
)

// MemoryStore keeps the graph in process memory. It backs runs where
// Neo4j is disabled and the graph only exists to be exported as JSON.
type MemoryStore struct {
	mu        sync.RWMutex
	nodes     map[string]Node         // entity id -> node
	nodeOrder []string                // insertion order for stable export
	edges     map[string]Relationship // subject\x00type\x00object -> edge
	edgeOrder []string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]Node),
		edges: make(map[string]Relationship),
	}
}

// UpsertEntities merges the entities as nodes, keyed by entity id
func (s *MemoryStore) UpsertEntities(ctx context.Context, entities []model.CanonicalEntity) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		if _, exists := s.nodes[e.ID]; !exists {
			s.nodeOrder = append(s.nodeOrder, e.ID)
		}
		s.nodes[e.ID] = Node{
			ID:         e.ID,
			Labels:     []string{string(e.Type)},
			Properties: entityProperties(e),
		}
	}
	return len(entities), nil
}

// UpsertRelations merges the relations as typed edges, mirroring the
// Neo4j store: out-of-schema predicates and dangling endpoints are
// skipped.
func (s *MemoryStore) UpsertRelations(ctx context.Context, relations []model.NormalizedRelation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, r := range relations {
		if _, known := relnorm.RelationTypes[r.Predicate]; !known {
			continue
		}
		if _, ok := s.nodes[r.Subject]; !ok {
			continue
		}
		if _, ok := s.nodes[r.Object]; !ok {
			continue
		}
		key := r.Subject + "\x00" + r.Predicate + "\x00" + r.Object
		if _, exists := s.edges[key]; !exists {
			s.edgeOrder = append(s.edgeOrder, key)
		}
		s.edges[key] = Relationship{
			Source:     r.Subject,
			Target:     r.Object,
			Type:       r.Predicate,
			Properties: relationProperties(r),
		}
		count++
	}
	return count, nil
}

// Stats counts nodes by label and relationships by type
func (s *MemoryStore) Stats(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := make(map[string]int)
	for _, n := range s.nodes {
		label := "Unknown"
		if len(n.Labels) > 0 {
			label = n.Labels[0]
		}
		stats[label]++
	}
	for _, e := range s.edges {
		stats["relation_"+e.Type]++
	}
	return stats, nil
}

// Export snapshots the whole graph in insertion order
func (s *MemoryStore) Export(ctx context.Context) (*Export, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	export := &Export{
		ExportTime: time.Now(),
		Stats:      stats,
	}
	for _, id := range s.nodeOrder {
		export.Nodes = append(export.Nodes, s.nodes[id])
	}
	for _, key := range s.edgeOrder {
		export.Relationships = append(export.Relationships, s.edges[key])
	}
	return export, nil
}

// Clear removes every node and relationship
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nodes = make(map[string]Node)
	s.nodeOrder = nil
	s.edges = make(map[string]Relationship)
	s.edgeOrder = nil
	return nil
}

// Close releases nothing for the in-memory store
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
