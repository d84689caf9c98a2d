package main

import (
	"codegraph/internal/config"
	"codegraph/internal/crawler"
	"codegraph/internal/extractor"
	"codegraph/internal/pipeline"
	"codegraph/internal/storage"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "codegraph",
		Short: "Deterministic structural code graph extractor",
	}
	dbPath     string
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the graph database (SQLite); overrides storage.db_path")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML configuration file")

	extractCmd.Flags().Bool("json", false, "Print the extraction result as JSON")
	extractCmd.Flags().Bool("save", false, "Replace the file's rows in the database")
	syncCmd.Flags().Bool("full", false, "Re-extract every file regardless of stored checksums")
	syncCmd.Flags().Int("workers", 0, "Number of files extracted concurrently; overrides sync.workers")
	syncCmd.Flags().Bool("json", false, "Print the sync result as JSON")
	watchCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address; overrides watch.metrics_addr")
	showCmd.Flags().Bool("json", false, "Print nodes and edges as JSON")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(showCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg
}

// initStore initializes the SQLite store.
func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

func initEngine(cfg *config.Config, workers int) *pipeline.Engine {
	if workers <= 0 {
		workers = cfg.Sync.Workers
	}
	engine, err := pipeline.NewEngine(pipeline.Options{
		Workers: workers,
		Crawler: crawler.Options{
			IgnoredDirs:  cfg.Project.IgnoredDirs,
			Exclude:      cfg.Project.Exclude,
			UseGitignore: cfg.Project.UseGitignore,
		},
	})
	if err != nil {
		log.Fatalf("Failed to create sync engine: %v", err)
	}
	return engine
}

func projectRoot(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Project.Root
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("Failed to encode output: %v", err)
	}
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract nodes and edges from a single file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		save, _ := cmd.Flags().GetBool("save")

		res := extractor.ExtractFile(args[0])
		if asJSON {
			printJSON(res)
		} else {
			fmt.Printf("📄 %s (%s): %d nodes, %d edges\n", res.FilePath, res.Language, len(res.Nodes), len(res.Edges))
			for _, n := range res.Nodes {
				fmt.Printf("  %-10s %-40s %d-%d %s\n", n.Kind, n.Name, n.LineStart, n.LineEnd, n.Signature)
			}
			for _, e := range res.Edges {
				fmt.Printf("  %s (%.1f, %s)\n", e.Key(), e.Confidence, e.Resolution)
			}
		}
		for _, e := range res.Errors {
			log.Printf("⚠️ %s", e)
		}
		if !res.OK() {
			os.Exit(1)
		}

		if save {
			cfg := loadConfig()
			store := initStore(cfg)
			defer store.Close()
			if err := store.ReplaceFile(context.Background(), res); err != nil {
				log.Fatalf("Failed to save file: %v", err)
			}
			if !asJSON {
				fmt.Printf("💾 Saved to %s\n", cfg.Storage.DBPath)
			}
		}
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync [path]",
	Short: "Extract the project and update the graph database incrementally",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		full, _ := cmd.Flags().GetBool("full")
		workers, _ := cmd.Flags().GetInt("workers")
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := loadConfig()
		root := projectRoot(cfg, args)
		store := initStore(cfg)
		defer store.Close()

		s := pipeline.NewIncrementalSync(store, initEngine(cfg, workers), root)
		if asJSON {
			s.Out = io.Discard
		} else {
			fmt.Printf("📂 Syncing directory: %s\n", root)
		}

		res, err := s.Run(context.Background(), full)
		if asJSON && res != nil {
			printJSON(res)
		}
		if err != nil {
			log.Fatalf("Sync failed: %v", err)
		}
		if !asJSON {
			fmt.Printf("🎉 Sync complete! Database: %s\n", cfg.Storage.DBPath)
		}
	},
}

var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show the stored nodes and edges of a file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		ctx := context.Background()
		g, err := store.LoadGraph(ctx)
		if err != nil {
			log.Fatalf("Failed to load graph: %v", err)
		}

		nodes, err := store.FindNodesByFile(ctx, args[0])
		if err != nil {
			log.Fatalf("Failed to query nodes: %v", err)
		}
		if len(nodes) == 0 {
			log.Fatalf("No nodes stored for %s; run sync first", args[0])
		}

		var edges []extractor.Edge
		for _, n := range nodes {
			edges = append(edges, g.GetDependencies(n.ID)...)
		}

		if asJSON {
			printJSON(struct {
				Nodes []extractor.Node `json:"nodes"`
				Edges []extractor.Edge `json:"edges"`
			}{nodes, edges})
			return
		}

		hash, _ := g.FileHash(args[0])
		fmt.Printf("📄 %s (checksum %s)\n", args[0], hash)
		for _, n := range nodes {
			if n.Kind == extractor.KindFile {
				continue
			}
			fmt.Printf("  %-10s %-40s %d-%d %s\n", n.Kind, n.Name, n.LineStart, n.LineEnd, n.Visibility)
		}
		for _, e := range edges {
			line := fmt.Sprintf("  %s", e.Key())
			if e.IsGuess() {
				var names []string
				for _, c := range g.Candidates(e) {
					names = append(names, c.ID)
				}
				line += fmt.Sprintf(" (guess, candidates: %v)", names)
			}
			fmt.Println(line)
		}
	},
}
