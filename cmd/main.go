// Command finsight is the entrypoint for the CFG Ukraine financial-analytics
// agent: an HTTP server, an MCP stdio server, and one-shot CLI commands for
// chat, classification, and telemetry stats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agrovista/finsight/agent"
	"github.com/agrovista/finsight/config"
	"github.com/agrovista/finsight/llm"
	"github.com/agrovista/finsight/mcp"
	"github.com/agrovista/finsight/memory"
	"github.com/agrovista/finsight/server"
	"github.com/agrovista/finsight/telemetry"
	"github.com/agrovista/finsight/warehouse"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries everything the subcommands need after wiring.
type app struct {
	cfg       *config.Config
	agent     *agent.Agent
	store     *memory.SQLiteStore
	warehouse *warehouse.SQLiteWarehouse
	telemetry *telemetry.Collector
}

func (a *app) close() {
	if a.telemetry != nil {
		a.telemetry.Close()
	}
	a.store.Close()
	a.warehouse.Close()
}

// buildApp loads config and wires the agent. The LLM is attached only when an
// API key is available; without one the agent still answers from SQL
// templates and the knowledge base.
func buildApp(configDir, dataDir, apiKey, model string) (*app, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configDir, err)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	wh, err := warehouse.Open(filepath.Join(dataDir, "warehouse.db"))
	if err != nil {
		return nil, fmt.Errorf("opening warehouse: %w", err)
	}

	store, err := memory.NewSQLiteStore(filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}

	tel, err := telemetry.NewCollector(filepath.Join(dataDir, "telemetry.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
		tel = nil
	}

	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	deps := agent.Deps{
		Config:   cfg,
		Executor: wh,
		Store:    store,
	}
	if tel != nil {
		deps.Recorder = tel
	}
	if apiKey != "" {
		client := llm.NewClient(llm.ClientConfig{APIKey: apiKey, Model: model})
		deps.Oracle = client
		deps.Responder = client
		deps.SQLGen = warehouse.NewGenerator(client)
	} else {
		deps.SQLGen = warehouse.NewGenerator(nil)
	}

	return &app{
		cfg:       cfg,
		agent:     agent.New(deps),
		store:     store,
		warehouse: wh,
		telemetry: tel,
	}, nil
}

func newRootCmd() *cobra.Command {
	var (
		configDir string
		dataDir   string
		apiKey    string
		model     string
	)

	rootCmd := &cobra.Command{
		Use:   "finsight",
		Short: "Financial analytics agent for CFG Ukraine",
		Long:  "Answers descriptive, diagnostic, predictive, and prescriptive questions over warehouse data and a value-driver knowledge base.",
	}
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "config", "Directory containing knowledge.yaml and patterns.yaml")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "Directory for SQLite databases")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Anthropic API key (defaults to ANTHROPIC_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "Model override for LLM calls")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, _ := cmd.Flags().GetString("port")
			a, err := buildApp(configDir, dataDir, apiKey, model)
			if err != nil {
				return err
			}
			defer a.close()
			return server.New(a.agent, a.store, a.telemetry, port).Start()
		},
	}
	serveCmd.Flags().String("port", "8080", "Port to listen on")

	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run the MCP server over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configDir, dataDir, apiKey, model)
			if err != nil {
				return err
			}
			defer a.close()
			return mcp.NewMCPServer(a.agent, a.telemetry).Start()
		},
	}

	chatCmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Answer one question and print the response",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, _ := cmd.Flags().GetString("session")
			a, err := buildApp(configDir, dataDir, apiKey, model)
			if err != nil {
				return err
			}
			defer a.close()

			result := a.agent.ChatSmart(cmd.Context(), session, strings.Join(args, " "))

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, result.Response)
			if len(result.Individual) > 0 {
				last := result.Individual[len(result.Individual)-1]
				if len(last.Suggestions) > 0 {
					fmt.Fprintln(out, "\nSuggested follow-ups:")
					for _, s := range last.Suggestions {
						fmt.Fprintf(out, "  - %s\n", s)
					}
				}
			}
			fmt.Fprintf(out, "\nSession: %s\n", result.SessionID)
			return nil
		},
	}
	chatCmd.Flags().String("session", "", "Session id for follow-up context")

	classifyCmd := &cobra.Command{
		Use:   "classify <query>",
		Short: "Classify a query without answering it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configDir, dataDir, apiKey, model)
			if err != nil {
				return err
			}
			defer a.close()

			res := a.agent.Classify(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Category:   %s (%s)\n", res.Category, res.Category.Description())
			fmt.Fprintf(out, "Confidence: %s\n", res.Confidence)
			fmt.Fprintf(out, "Method:     %s\n", res.Method)
			fmt.Fprintf(out, "Reasoning:  %s\n", res.Reasoning)
			return nil
		},
	}

	knowledgeCmd := &cobra.Command{
		Use:   "knowledge",
		Short: "Print the knowledge-base summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configDir, dataDir, apiKey, model)
			if err != nil {
				return err
			}
			defer a.close()
			fmt.Fprintln(cmd.OutOrStdout(), agent.KnowledgeSummary(a.agent.Knowledge()))
			return nil
		},
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print aggregate query statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(configDir, dataDir, apiKey, model)
			if err != nil {
				return err
			}
			defer a.close()

			if a.telemetry == nil {
				return fmt.Errorf("telemetry not available")
			}
			stats, err := a.telemetry.GetStats("")
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total queries: %d\n", stats.TotalQueries)
			fmt.Fprintf(out, "Avg latency:   %.1f ms\n", stats.AvgLatencyMS)
			fmt.Fprintf(out, "Errors:        %d\n", stats.ErrorCount)
			fmt.Fprintln(out, "By category:")
			for cat, n := range stats.ByCategory {
				fmt.Fprintf(out, "  %-14s %d\n", cat, n)
			}
			fmt.Fprintln(out, "By data source:")
			for src, n := range stats.ByDataSource {
				fmt.Fprintf(out, "  %-24s %d\n", src, n)
			}
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, mcpCmd, chatCmd, classifyCmd, knowledgeCmd, statsCmd)
	return rootCmd
}
