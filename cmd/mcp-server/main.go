package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/fintrack-go/internal/config"
	"github.com/eshaffer321/fintrack-go/internal/log"
	"github.com/eshaffer321/fintrack-go/pkg/fintrack"
	"github.com/getsentry/sentry-go"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	// Load .env file for local development
	cfg := config.LoadWithDotEnv()
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("invalid configuration: %v", err)
	}

	// stdout carries the MCP protocol, so logs go to stderr
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentMCP,
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
	})

	client, err := openClient(context.Background(), cfg, logger)
	if err != nil {
		stdlog.Fatalf("failed to open finance state: %v", err)
	}
	defer client.Close()

	// Create MCP server with v1.0.0 API
	impl := &mcp.Implementation{
		Name:    "fintrack",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	// Register all tools
	registerTools(server, client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Serving MCP over stdio", log.FieldBackend, cfg.StorageBackend, log.FieldPath, cfg.DataPath)

	// Run server over stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("Server stopped", log.FieldError, err)
	}
}

// openClient builds a client from process configuration and loads its state
func openClient(ctx context.Context, cfg *config.Config, logger *log.Logger) (*fintrack.Client, error) {
	slot, err := fintrack.OpenSlot(cfg.StorageBackend, cfg.DataPath)
	if err != nil {
		return nil, err
	}

	opts := &fintrack.ClientOptions{
		Slot:      slot,
		RatesURL:  cfg.RatesURL,
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
		Logger:    logger,
		SentryDSN: cfg.SentryDSN,
	}

	if cfg.RatesRetries > 0 {
		opts.RetryConfig = &fintrack.RetryConfig{
			MaxRetries: cfg.RatesRetries,
			RetryWait:  1 * time.Second,
			MaxWait:    10 * time.Second,
		}
	}

	if cfg.SentryDSN != "" {
		opts.SentryOptions = &sentry.ClientOptions{
			Environment: cfg.SentryEnvironment,
		}
	}

	client, err := fintrack.Open(ctx, opts)
	if err != nil {
		slot.Close()
		return nil, err
	}
	return client, nil
}

func registerTools(server *mcp.Server, client *fintrack.Client) {
	// Create tools instance with client
	tools := &financeTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_summary",
		Description: "Get total income, total expenses, balance, display currency and spending per category.",
	}, tools.GetSummary)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transactions",
		Description: "Query transactions with optional filters for date range, type, category, description search and limit. Results are newest first.",
	}, tools.GetTransactions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_transaction",
		Description: "Record a new income or expense transaction. Amount must be positive; the type decides the direction.",
	}, tools.AddTransaction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_budgets",
		Description: "Get budget consumption for budgeted expense categories, most consumed first, plus suggested budgets and unbudgeted categories.",
	}, tools.GetBudgets)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_goals",
		Description: "Get savings goals with percent complete, remaining amount and days left to the target date.",
	}, tools.GetGoals)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_categories",
		Description: "Get all transaction categories with their type and color.",
	}, tools.GetCategories)
}
