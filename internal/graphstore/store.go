package graphstore

import (
	"context"
	"time"

	"github.com/lexgraph/lexgraph/internal/model"
)

// Store defines the interface for knowledge-graph persistence
type Store interface {
	// UpsertEntities merges the entities as nodes, keyed by entity id
	UpsertEntities(ctx context.Context, entities []model.CanonicalEntity) (int, error)

	// UpsertRelations merges the relations as typed edges between
	// existing nodes. Relations with unresolved endpoints or
	// out-of-schema predicates are skipped, not errors.
	UpsertRelations(ctx context.Context, relations []model.NormalizedRelation) (int, error)

	// Stats counts nodes by label and relationships by type
	Stats(ctx context.Context) (map[string]int, error)

	// Export snapshots the whole graph
	Export(ctx context.Context) (*Export, error)

	// Clear removes every node and relationship
	Clear(ctx context.Context) error

	// Close releases the underlying connection
	Close(ctx context.Context) error
}

// Export is the JSON snapshot of the stored graph
type Export struct {
	ExportTime    time.Time      `json:"export_time"`
	Stats         map[string]int `json:"stats"`
	Nodes         []Node         `json:"nodes"`
	Relationships []Relationship `json:"relationships"`
}

// Node is one exported graph node
type Node struct {
	ID         string         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Relationship is one exported graph edge
type Relationship struct {
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// SaveResult persists one extraction result: entities first so the
// relation MATCH clauses can find both endpoints.
func SaveResult(ctx context.Context, s Store, result *model.ExtractionResult) (entities, relations int, err error) {
	entities, err = s.UpsertEntities(ctx, result.Entities)
	if err != nil {
		return entities, 0, err
	}
	relations, err = s.UpsertRelations(ctx, result.Relations)
	return entities, relations, err
}

// entityProperties flattens a canonical entity into node properties.
func entityProperties(e model.CanonicalEntity) map[string]any {
	return map[string]any{
		"id":               e.ID,
		"name":             e.CanonicalName,
		"aliases":          e.Aliases,
		"entity_type":      string(e.Type),
		"original_names":   e.OriginalNames,
		"block_type":       string(e.BlockType),
		"confidence":       e.Confidence,
		"source_block_ids": e.SourceBlockIDs,
	}
}

// relationProperties flattens a normalized relation into edge
// properties.
func relationProperties(r model.NormalizedRelation) map[string]any {
	props := map[string]any{
		"confidence":        r.Confidence,
		"evidence":          r.Evidence,
		"source_block_id":   r.SourceBlockID,
		"validation_passed": r.ValidationPassed,
	}
	if r.Resolved {
		props["resolved"] = true
		if r.OriginalSubject != "" {
			props["original_subject"] = r.OriginalSubject
		}
		if r.OriginalObject != "" {
			props["original_object"] = r.OriginalObject
		}
	}
	return props
}
