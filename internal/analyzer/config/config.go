package config

import (
	"time"

	"golang-invest-reporter/pkg/config"
)

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// OpenAI holds the configuration for the OpenAI API.
type OpenAI struct {
	APIKey              string  `mapstructure:"api_key"`
	Model               string  `mapstructure:"model"`
	Temperature         float64 `mapstructure:"temperature"`
	MaxRequestPerMinute int     `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int     `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// FinData holds the configuration for the Financial Datasets API.
type FinData struct {
	APIKey              string `mapstructure:"api_key"`
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	NewsLimit           int    `mapstructure:"news_limit"`
	HistoryDays         int    `mapstructure:"history_days"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Fred holds the configuration for the FRED economic data API.
type Fred struct {
	APIKey              string   `mapstructure:"api_key"`
	BaseURL             string   `mapstructure:"base_url"`
	MaxRequestPerMinute int      `mapstructure:"max_request_per_minute"`
	Series              []string `mapstructure:"series"`
}

// News holds the configuration for news article enrichment.
type News struct {
	RSSBaseURL    string `mapstructure:"rss_base_url"`
	FetchArticles bool   `mapstructure:"fetch_articles"`
	MaxArticles   int    `mapstructure:"max_articles"`
}

// Pipeline holds agent pipeline tuning knobs.
type Pipeline struct {
	TickerDelay     time.Duration `mapstructure:"ticker_delay"`
	MaxContextChars int           `mapstructure:"max_context_chars"`
}

// Output holds output artifact locations.
type Output struct {
	Dir        string `mapstructure:"dir"`
	ChartsDir  string `mapstructure:"charts_dir"`
	ReportsDir string `mapstructure:"reports_dir"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the analyzer service.
type Config struct {
	App          config.App    `mapstructure:"app"`
	Logger       config.Logger `mapstructure:"logger"`
	AI           AI            `mapstructure:"ai"`
	OpenAI       OpenAI        `mapstructure:"openai"`
	Gemini       Gemini        `mapstructure:"gemini"`
	FinData      FinData       `mapstructure:"findata"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Fred         Fred          `mapstructure:"fred"`
	News         News          `mapstructure:"news"`
	Pipeline     Pipeline      `mapstructure:"pipeline"`
	Output       Output        `mapstructure:"output"`
	Telegram     Telegram      `mapstructure:"telegram"`
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.FinData.BaseURL == "" {
		c.FinData.BaseURL = "https://api.financialdatasets.ai"
	}
	if c.FinData.MaxRequestPerMinute == 0 {
		c.FinData.MaxRequestPerMinute = 5
	}
	if c.FinData.NewsLimit == 0 {
		c.FinData.NewsLimit = 5
	}
	if c.FinData.HistoryDays == 0 {
		c.FinData.HistoryDays = 30
	}
	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.YahooFinance.MaxRequestPerMinute == 0 {
		c.YahooFinance.MaxRequestPerMinute = 30
	}
	if c.Fred.BaseURL == "" {
		c.Fred.BaseURL = "https://api.stlouisfed.org/fred"
	}
	if c.Fred.MaxRequestPerMinute == 0 {
		c.Fred.MaxRequestPerMinute = 120
	}
	if len(c.Fred.Series) == 0 {
		c.Fred.Series = []string{"GDP", "UNRATE", "CPIAUCSL"}
	}
	if c.News.RSSBaseURL == "" {
		c.News.RSSBaseURL = "https://news.google.com/rss"
	}
	if c.News.MaxArticles == 0 {
		c.News.MaxArticles = 3
	}
	if c.Pipeline.TickerDelay == 0 {
		c.Pipeline.TickerDelay = 3 * time.Second
	}
	if c.Pipeline.MaxContextChars == 0 {
		c.Pipeline.MaxContextChars = 4000
	}
	if c.Output.Dir == "" {
		c.Output.Dir = "outputs"
	}
	if c.Output.ChartsDir == "" {
		c.Output.ChartsDir = "outputs/charts"
	}
	if c.Output.ReportsDir == "" {
		c.Output.ReportsDir = "outputs/reports"
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.OpenAI.MaxRequestPerMinute == 0 {
		c.OpenAI.MaxRequestPerMinute = 5
	}
	if c.Gemini.BaseURL == "" {
		c.Gemini.BaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	}
	if c.Gemini.MaxRequestPerMinute == 0 {
		c.Gemini.MaxRequestPerMinute = 5
	}
}
