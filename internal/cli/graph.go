package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/lexgraph/lexgraph/internal/graphstore"
	"github.com/lexgraph/lexgraph/internal/model"
)

var (
	graphURI      string
	graphUser     string
	graphPassword string
	graphDatabase string
	graphTimeout  time.Duration
	exportPath    string
	clearForce    bool
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Inspect and manage the stored knowledge graph",
	Long: `Graph operates on the Neo4j knowledge graph built by extract:
- stats prints node and relationship counts by type
- export writes the whole graph as JSON
- clear removes every node and relationship

Example:
  lexgraph graph stats
  lexgraph graph export --out graph.json
  lexgraph graph clear --force`,
}

var graphStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print node and relationship counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), graphTimeout)
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		stats, err := store.Stats(ctx)
		if err != nil {
			return fmt.Errorf("graph stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("Graph is empty")
			return nil
		}

		keys := make([]string, 0, len(stats))
		for k := range stats {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("%-40s %d\n", k, stats[k])
		}
		return nil
	},
}

var graphExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the whole graph as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(context.Background(), graphTimeout)
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		export, err := store.Export(ctx)
		if err != nil {
			return fmt.Errorf("graph export: %w", err)
		}
		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal export: %w", err)
		}
		if err := os.WriteFile(exportPath, data, 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}

		fmt.Printf("✓ Exported %d nodes and %d relationships to %s\n",
			len(export.Nodes), len(export.Relationships), exportPath)
		return nil
	},
}

var graphClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every node and relationship",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce {
			return fmt.Errorf("refusing to clear the graph without --force")
		}

		ctx, cancel := context.WithTimeout(context.Background(), graphTimeout)
		defer cancel()

		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(ctx) }()

		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("graph clear: %w", err)
		}
		fmt.Println("✓ Graph cleared")
		return nil
	},
}

// openStore connects to Neo4j using the configuration plus any
// connection flags given on the command line.
func openStore(ctx context.Context) (graphstore.Store, error) {
	cfg := loadConfig()
	applyGraphFlags(&cfg.Graph)

	store, err := graphstore.NewNeo4jStore(ctx, cfg.Graph)
	if err != nil {
		return nil, fmt.Errorf("connect to graph store: %w", err)
	}
	return store, nil
}

func applyGraphFlags(cfg *model.GraphConfig) {
	if graphURI != "" {
		cfg.URI = graphURI
	}
	if graphUser != "" {
		cfg.User = graphUser
	}
	if graphPassword != "" {
		cfg.Password = graphPassword
	}
	if graphDatabase != "" {
		cfg.Database = graphDatabase
	}
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphStatsCmd)
	graphCmd.AddCommand(graphExportCmd)
	graphCmd.AddCommand(graphClearCmd)

	graphCmd.PersistentFlags().StringVar(&graphURI, "uri", "", "Neo4j URI (default from config)")
	graphCmd.PersistentFlags().StringVar(&graphUser, "user", "", "Neo4j user")
	graphCmd.PersistentFlags().StringVar(&graphPassword, "password", "", "Neo4j password")
	graphCmd.PersistentFlags().StringVar(&graphDatabase, "database", "", "Neo4j database name")
	graphCmd.PersistentFlags().DurationVar(&graphTimeout, "timeout", 2*time.Minute, "timeout for graph operations")

	graphExportCmd.Flags().StringVar(&exportPath, "out", "graph.json", "output path for the JSON export")
	graphClearCmd.Flags().BoolVar(&clearForce, "force", false, "actually clear the graph")
}
