package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"golang-invest-reporter/internal/analyzer/config"
	"golang-invest-reporter/internal/analyzer/report"
	"golang-invest-reporter/internal/analyzer/repository"
	"golang-invest-reporter/internal/analyzer/service"
	"golang-invest-reporter/pkg/logger"
	"golang-invest-reporter/pkg/telegram"
	"golang-invest-reporter/pkg/utils"

	"google.golang.org/genai"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	tickersArg string
	sectorName string
	indicator  string
	threshold  float64
	schedule   string
)

var defaultTickers = []string{"AAPL", "MSFT", "GOOGL"}

// app bundles everything the subcommands share.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	aiRepo    repository.AIRepository
	finData   repository.FinancialDataRepository
	econData  repository.EconomicDataRepository
	articles  repository.ArticleRepository
	outputs   repository.StageOutputRepository
	charts    *report.ChartGenerator
	renderer  *report.Renderer
	notifier  telegram.Notifier
	pipeline  service.StockPipeline
	portfolio service.PortfolioService
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger.Info("Starting Analyzer Service", zap.String("name", cfg.App.Name))

	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "gemini":
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Gemini AI repository: %w", err)
		}
	case "openai":
		aiRepo = repository.NewOpenAIRepository(cfg, appLogger)
	default:
		return nil, fmt.Errorf("invalid AI provider specified in config: %q", cfg.AI.Provider)
	}

	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Telegram notifier: %w", err)
		}
	}

	outputs, err := repository.NewStageOutputRepository(cfg.Output.Dir, appLogger)
	if err != nil {
		return nil, err
	}
	charts, err := report.NewChartGenerator(cfg.Output.ChartsDir, appLogger)
	if err != nil {
		return nil, err
	}
	renderer, err := report.NewRenderer(cfg.Output.ReportsDir, cfg.Output.ChartsDir, appLogger)
	if err != nil {
		return nil, err
	}

	finData := repository.NewFinDataRepository(cfg, appLogger)
	yahooFinance := repository.NewYahooFinanceRepository(cfg, appLogger)
	econData := repository.NewFredRepository(cfg, appLogger)
	articles := repository.NewArticleRepository(cfg, appLogger)

	pipeline := service.NewStockPipeline(cfg, appLogger, aiRepo, finData, yahooFinance, econData, articles, outputs)
	portfolio := service.NewPortfolioService(cfg, appLogger, pipeline, aiRepo, outputs, charts, renderer, notifier)

	return &app{
		cfg:       cfg,
		log:       appLogger,
		aiRepo:    aiRepo,
		finData:   finData,
		econData:  econData,
		articles:  articles,
		outputs:   outputs,
		charts:    charts,
		renderer:  renderer,
		notifier:  notifier,
		pipeline:  pipeline,
		portfolio: portfolio,
	}, nil
}

// parseTickers resolves the ticker list from the flag, the TEST_TICKER env
// override, or the defaults.
func parseTickers() []string {
	if test := os.Getenv("TEST_TICKER"); test != "" {
		return splitTickers(test)
	}
	if tickersArg != "" {
		return splitTickers(tickersArg)
	}
	return defaultTickers
}

func splitTickers(s string) []string {
	parts := strings.Split(s, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()
	return ctx, cancel
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the multi-stock analysis pipeline and generate the PDF report",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.log.Sync() }()

		result, err := a.portfolio.Run(ctx, parseTickers())
		if err != nil {
			return err
		}
		a.log.Info("Analysis complete", zap.String("pdf", result.PDFPath))
		fmt.Println(result.PDFPath)
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare and rank multiple stocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.log.Sync() }()

		compareSvc := service.NewCompareService(a.cfg, a.log, a.pipeline, a.aiRepo)
		comparison, err := compareSvc.Compare(ctx, parseTickers())
		if err != nil {
			return err
		}
		fmt.Println(comparison)
		return nil
	},
}

var sectorCmd = &cobra.Command{
	Use:   "sector",
	Short: "Analyze a whole sector from its top constituents",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.log.Sync() }()

		sectorSvc := service.NewSectorService(a.cfg, a.log, a.pipeline, a.aiRepo)
		analysis, err := sectorSvc.Analyze(ctx, sectorName)
		if err != nil {
			return err
		}
		fmt.Println(analysis)
		return nil
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch an economic indicator against a threshold",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = a.log.Sync() }()

		impactSvc := service.NewEconomicImpactService(a.cfg, a.log, a.econData, a.aiRepo, a.notifier)

		check := func() {
			result, err := impactSvc.Check(ctx, indicator, threshold)
			if err != nil {
				a.log.Error("Threshold check failed", zap.Error(err))
				return
			}
			fmt.Println(result.Analysis)
		}

		if schedule == "" {
			check()
			return nil
		}

		c := cron.New()
		// cron does not recover panics; a failing check must not take the
		// monitor down.
		if _, err := c.AddFunc(schedule, func() { utils.GoSafe(check) }); err != nil {
			return fmt.Errorf("invalid cron schedule %q: %w", schedule, err)
		}
		c.Start()
		a.log.Info("Monitor started", zap.String("indicator", indicator), zap.String("schedule", schedule))

		<-ctx.Done()
		cronCtx := c.Stop()
		<-cronCtx.Done()
		a.log.Info("Monitor stopped")
		return nil
	},
}

func main() {
	rootCmd := &cobra.Command{Use: "analyzer-service"}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	analyzeCmd.Flags().StringVarP(&tickersArg, "tickers", "t", "", "Comma-separated list of stock tickers to analyze (e.g., AAPL,MSFT,GOOGL)")
	compareCmd.Flags().StringVarP(&tickersArg, "tickers", "t", "", "Comma-separated list of stock tickers to compare")
	sectorCmd.Flags().StringVar(&sectorName, "name", "Technology", "Sector to analyze")
	monitorCmd.Flags().StringVar(&indicator, "indicator", "GDP", "FRED series ID to watch")
	monitorCmd.Flags().Float64Var(&threshold, "threshold", 0, "Threshold value to watch for crossings")
	monitorCmd.Flags().StringVar(&schedule, "schedule", "", "Optional cron schedule; empty runs a single check")
	_ = monitorCmd.MarkFlagRequired("threshold")

	rootCmd.AddCommand(analyzeCmd, compareCmd, sectorCmd, monitorCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing analyzer-service CLI: %s\n", err)
		os.Exit(1)
	}
}
