// NewsBrief — company news sentiment analysis with Hindi audio summaries.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/newsbriefhq/newsbrief/api"
	"github.com/newsbriefhq/newsbrief/internal/config"
	"github.com/newsbriefhq/newsbrief/internal/datasource"
	"github.com/newsbriefhq/newsbrief/internal/pipeline"
	"github.com/newsbriefhq/newsbrief/internal/tts"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "newsbrief",
	Short: "NewsBrief — company news sentiment analysis with audio summaries",
	Long: `NewsBrief fetches recent news coverage for a company, classifies each
article's sentiment, compares how the articles cover the company, and
can read the result out as a Hindi audio summary.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newsCmd)
	rootCmd.AddCommand(audioCmd)
	rootCmd.AddCommand(companiesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
}

// clampArticles keeps a --max-articles value within [1, max], matching
// the range the flag help documents.
func clampArticles(n, max int) int {
	if n < 1 {
		return 1
	}
	if n > max {
		return max
	}
	return n
}

// newPipeline builds the analysis pipeline from the loaded config.
func newPipeline(withAudio bool) (*pipeline.Pipeline, error) {
	disk, err := datasource.NewDiskCache(cfg.Cache.Dir, time.Duration(cfg.Cache.TTL)*time.Second)
	if err != nil {
		return nil, err
	}

	opts := []datasource.FetcherOption{datasource.WithDiskCache(disk)}
	if cfg.News.ExtractContent {
		opts = append(opts, datasource.WithExtractor(
			datasource.NewExtractor(time.Duration(cfg.News.ExtractTimeout)*time.Second)))
	}
	fetcher := datasource.NewFetcher(cfg.News.NewsAPIKey, opts...)

	var engine *tts.Engine
	if withAudio {
		engine, err = tts.NewEngine(cfg.TTS.OutputDir)
		if err != nil {
			return nil, err
		}
	}

	return pipeline.New(fetcher, engine), nil
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("NewsBrief %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- News Command ---

var newsCmd = &cobra.Command{
	Use:   "news [company]",
	Short: "Fetch and analyze news coverage for a company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company := args[0]
		max, _ := cmd.Flags().GetInt("max-articles")
		max = clampArticles(max, 20)
		asJSON, _ := cmd.Flags().GetBool("json")

		p, err := newPipeline(false)
		if err != nil {
			return err
		}

		report, err := p.CompanyNews(cmd.Context(), company, max)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		dist := report.ComparativeScore.SentimentDistribution
		fmt.Printf("📰 News analysis: %s (%d articles)\n\n", report.Company, len(report.Articles))
		for i, a := range report.Articles {
			fmt.Printf("  %d. [%s] %s\n", i+1, a.Sentiment, a.Title)
		}
		fmt.Printf("\n  Positive: %d  Negative: %d  Neutral: %d\n", dist.Positive, dist.Negative, dist.Neutral)
		fmt.Printf("\n  %s\n", report.FinalSentimentAnalysis)
		return nil
	},
}

func init() {
	newsCmd.Flags().Int("max-articles", 10, "maximum number of articles to analyze (1-20)")
	newsCmd.Flags().Bool("json", false, "print the full report as JSON")
}

// --- Audio Command ---

var audioCmd = &cobra.Command{
	Use:   "audio [company]",
	Short: "Generate a Hindi audio summary of a company's news coverage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		company := args[0]
		max, _ := cmd.Flags().GetInt("max-articles")
		max = clampArticles(max, 10)

		p, err := newPipeline(true)
		if err != nil {
			return err
		}

		fmt.Printf("🔊 Generating audio summary for %s...\n", company)
		report, err := p.CompanyAudio(cmd.Context(), company, max)
		if err != nil {
			return err
		}

		fmt.Printf("  Verdict: %s\n", report.FinalSentimentAnalysis)
		fmt.Printf("  Audio:   %s\n", report.AudioPath)
		return nil
	},
}

func init() {
	audioCmd.Flags().Int("max-articles", 5, "maximum number of articles to analyze (1-10)")
}

// --- Companies Command ---

var companiesCmd = &cobra.Command{
	Use:   "companies",
	Short: "List sample companies",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range api.SampleCompanies() {
			fmt.Println(c)
		}
		return nil
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := api.NewServer(cfg)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		fmt.Printf("🌐 Starting NewsBrief API server on %s\n", addr)
		return srv.ListenAndServe(addr)
	},
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  NewsBrief — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    Max Articles:  %d\n", cfg.News.MaxArticles)
		fmt.Printf("    Cache Dir:     %s (TTL %ds)\n", cfg.Cache.Dir, cfg.Cache.TTL)
		fmt.Printf("    Audio Dir:     %s\n", cfg.TTS.OutputDir)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		keys := config.CheckAPIKeys(cfg)
		for _, k := range keys {
			status := "❌ not set (Google News RSS fallback will be used)"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
