package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every validation failure so callers can
// distinguish configuration errors from I/O errors with errors.Is.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	TargetHandle string `yaml:"target_handle"`
	PostLimit    int    `yaml:"post_limit"`
	DataSource   string `yaml:"data_source"` // API, SCRAPE or DEMO

	MinConfidence float64 `yaml:"min_confidence"`

	Analysis struct {
		PositiveThreshold    float64 `yaml:"positive_threshold"`
		NegativeThreshold    float64 `yaml:"negative_threshold"`
		BurstSensitivity     float64 `yaml:"burst_sensitivity"`
		BurstWindowMinutes   int     `yaml:"burst_window_minutes"`
		TrendWindow          int     `yaml:"trend_window"`
		ShiftThreshold       float64 `yaml:"shift_threshold"`
		EngagementPercentile float64 `yaml:"engagement_percentile"`
		TopThemes            int     `yaml:"top_themes"`
	} `yaml:"analysis"`

	Trading struct {
		CryptoKeywords []string `yaml:"crypto_keywords"`
		StockKeywords  []string `yaml:"stock_keywords"`
	} `yaml:"trading"`

	Report struct {
		Output string `yaml:"output"` // optional JSON report path
	} `yaml:"report"`
}

func (c *Config) Validate() error {
	if c.TargetHandle == "" {
		return fmt.Errorf("%w: target_handle cannot be empty", ErrInvalidConfig)
	}
	if c.DataSource != "API" && c.DataSource != "SCRAPE" && c.DataSource != "DEMO" {
		return fmt.Errorf("%w: data_source must be 'API', 'SCRAPE' or 'DEMO', got '%s'", ErrInvalidConfig, c.DataSource)
	}
	if c.PostLimit <= 0 {
		return fmt.Errorf("%w: post_limit must be positive, got %d", ErrInvalidConfig, c.PostLimit)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence must be between 0 and 1, got %.2f", ErrInvalidConfig, c.MinConfidence)
	}
	if c.Analysis.PositiveThreshold <= 0 || c.Analysis.PositiveThreshold > 1 {
		return fmt.Errorf("%w: analysis.positive_threshold must be in (0,1], got %.2f", ErrInvalidConfig, c.Analysis.PositiveThreshold)
	}
	if c.Analysis.NegativeThreshold >= 0 || c.Analysis.NegativeThreshold < -1 {
		return fmt.Errorf("%w: analysis.negative_threshold must be in [-1,0), got %.2f", ErrInvalidConfig, c.Analysis.NegativeThreshold)
	}
	if c.Analysis.BurstSensitivity < 0 {
		return fmt.Errorf("%w: analysis.burst_sensitivity cannot be negative, got %.2f", ErrInvalidConfig, c.Analysis.BurstSensitivity)
	}
	if c.Analysis.BurstWindowMinutes <= 0 {
		return fmt.Errorf("%w: analysis.burst_window_minutes must be positive, got %d", ErrInvalidConfig, c.Analysis.BurstWindowMinutes)
	}
	if c.Analysis.TrendWindow <= 0 {
		return fmt.Errorf("%w: analysis.trend_window must be positive, got %d", ErrInvalidConfig, c.Analysis.TrendWindow)
	}
	if c.Analysis.ShiftThreshold <= 0 {
		return fmt.Errorf("%w: analysis.shift_threshold must be positive, got %.2f", ErrInvalidConfig, c.Analysis.ShiftThreshold)
	}
	if c.Analysis.TopThemes <= 0 {
		return fmt.Errorf("%w: analysis.top_themes must be positive, got %d", ErrInvalidConfig, c.Analysis.TopThemes)
	}
	if c.Analysis.EngagementPercentile <= 0 || c.Analysis.EngagementPercentile >= 1 {
		return fmt.Errorf("%w: analysis.engagement_percentile must be in (0,1), got %.2f", ErrInvalidConfig, c.Analysis.EngagementPercentile)
	}
	if len(c.Trading.CryptoKeywords) == 0 && len(c.Trading.StockKeywords) == 0 {
		return fmt.Errorf("%w: at least one of trading.crypto_keywords or trading.stock_keywords must be set", ErrInvalidConfig)
	}
	return nil
}

// applyDefaults fills zero values before validation.
func (c *Config) applyDefaults() {
	if c.TargetHandle == "" {
		c.TargetHandle = "elonmusk"
	}
	if c.PostLimit == 0 {
		c.PostLimit = 200
	}
	if c.DataSource == "" {
		c.DataSource = "DEMO"
	}
	if c.MinConfidence == 0 {
		c.MinConfidence = 0.7
	}
	if c.Analysis.PositiveThreshold == 0 {
		c.Analysis.PositiveThreshold = 0.3
	}
	if c.Analysis.NegativeThreshold == 0 {
		c.Analysis.NegativeThreshold = -0.3
	}
	if c.Analysis.BurstSensitivity == 0 {
		c.Analysis.BurstSensitivity = 2.0
	}
	if c.Analysis.BurstWindowMinutes == 0 {
		c.Analysis.BurstWindowMinutes = 60
	}
	if c.Analysis.TrendWindow == 0 {
		c.Analysis.TrendWindow = 10
	}
	if c.Analysis.ShiftThreshold == 0 {
		c.Analysis.ShiftThreshold = 0.5
	}
	if c.Analysis.EngagementPercentile == 0 {
		c.Analysis.EngagementPercentile = 0.75
	}
	if c.Analysis.TopThemes == 0 {
		c.Analysis.TopThemes = 10
	}
	if len(c.Trading.CryptoKeywords) == 0 {
		c.Trading.CryptoKeywords = []string{"bitcoin", "btc", "ethereum", "eth", "dogecoin", "doge", "crypto"}
	}
	if len(c.Trading.StockKeywords) == 0 {
		c.Trading.StockKeywords = []string{"tesla", "tsla", "stock", "shares"}
	}
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

// Default returns a fully-defaulted configuration, used when no config file
// is present (demo runs).
func Default() *Config {
	var c Config
	c.applyDefaults()
	return &c
}
