package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nickaggarwal/git-timeline-analysis/internal/config"
	"github.com/nickaggarwal/git-timeline-analysis/internal/graph"
	"github.com/nickaggarwal/git-timeline-analysis/internal/jobs"
	"github.com/nickaggarwal/git-timeline-analysis/internal/llm"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gta",
	Short: "Git timeline analysis - repository history as a queryable graph",
	Long: `gta ingests a git repository's history into a Neo4j property graph
(commits, developers, files, branches and business milestones) and answers
questions about the repository's evolution on top of it.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .gta/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`gta {{.Version}}
Build time: ` + BuildTime + `
`)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(statusCmd)
}

// newGraphClient connects to Neo4j using the loaded configuration.
func newGraphClient(ctx context.Context) (*graph.Client, error) {
	return graph.NewClient(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password, cfg.Neo4j.Database, logger)
}

// newCompleter builds the configured completion service, or nil when
// none is configured.
func newCompleter() llm.Completer {
	completer, err := llm.NewCompleter(cfg, logger)
	if err != nil {
		logger.WithError(err).Warn("Completion service unavailable, continuing without enrichment")
		return nil
	}
	return completer
}

// newJobStore opens the persistent job store, falling back to memory when
// the bbolt file cannot be opened.
func newJobStore() jobs.Store {
	store, err := jobs.NewBoltStore(cfg.Jobs.StorePath)
	if err != nil {
		logger.WithError(err).Warn("Failed to open job store, using in-memory store")
		return jobs.NewMemoryStore()
	}
	return store
}
