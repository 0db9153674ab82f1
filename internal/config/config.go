package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/flipforge/dealshield/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	API      APIConfig      `yaml:"api" mapstructure:"api"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Feedback FeedbackConfig `yaml:"feedback" mapstructure:"feedback"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
	Defaults DefaultsConfig `yaml:"defaults" mapstructure:"defaults"`
}

// APIConfig configures the analysis service client.
type APIConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int     `yaml:"burst" mapstructure:"burst"`
}

// Timeout returns the per-request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// ExportConfig configures exported documents.
type ExportConfig struct {
	LenderReportFilename string `yaml:"lender_report_filename" mapstructure:"lender_report_filename"`
}

// FeedbackConfig sets how long copy feedback stays visible.
type FeedbackConfig struct {
	CopiedTTLMs int `yaml:"copied_ttl_ms" mapstructure:"copied_ttl_ms"`
	MetricTTLMs int `yaml:"metric_ttl_ms" mapstructure:"metric_ttl_ms"`
}

// CopiedTTL is the feedback duration for the summary copy action.
func (c FeedbackConfig) CopiedTTL() time.Duration {
	return time.Duration(c.CopiedTTLMs) * time.Millisecond
}

// MetricTTL is the feedback duration for single-metric copy actions.
func (c FeedbackConfig) MetricTTL() time.Duration {
	return time.Duration(c.MetricTTLMs) * time.Millisecond
}

// ServerConfig configures the local view server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultsConfig holds the prefilled values of the manual analysis form.
type DefaultsConfig struct {
	PurchasePrice      float64 `yaml:"purchase_price" mapstructure:"purchase_price"`
	ARV                float64 `yaml:"arv" mapstructure:"arv"`
	RehabBudget        float64 `yaml:"rehab_budget" mapstructure:"rehab_budget"`
	EstMonthlyRent     float64 `yaml:"est_monthly_rent" mapstructure:"est_monthly_rent"`
	HoldingMonths      int     `yaml:"holding_months" mapstructure:"holding_months"`
	AnnualInterestRate float64 `yaml:"annual_interest_rate" mapstructure:"annual_interest_rate"`
	LoanToCostPct      float64 `yaml:"loan_to_cost_pct" mapstructure:"loan_to_cost_pct"`
}

// Financing returns the financing assumptions shown on exports.
func (d DefaultsConfig) Financing() model.Financing {
	return model.Financing{
		HoldingMonths:      d.HoldingMonths,
		AnnualInterestRate: d.AnnualInterestRate,
		LoanToCostPct:      d.LoanToCostPct,
	}
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DEALSHIELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("api.base_url", "http://127.0.0.1:8000")
	v.SetDefault("api.timeout_secs", 60)
	v.SetDefault("api.rate_per_sec", 2)
	v.SetDefault("api.burst", 1)
	v.SetDefault("export.lender_report_filename", "flipforge_lender_report_v0.pdf")
	v.SetDefault("feedback.copied_ttl_ms", 1200)
	v.SetDefault("feedback.metric_ttl_ms", 900)
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("defaults.purchase_price", 120000)
	v.SetDefault("defaults.arv", 220000)
	v.SetDefault("defaults.rehab_budget", 35000)
	v.SetDefault("defaults.est_monthly_rent", 1800)
	v.SetDefault("defaults.holding_months", 6)
	v.SetDefault("defaults.annual_interest_rate", 10)
	v.SetDefault("defaults.loan_to_cost_pct", 80)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings every command depends on.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, "api.base_url is required")
	}
	if c.API.TimeoutSecs <= 0 {
		errs = append(errs, "api.timeout_secs must be > 0")
	}
	if c.API.RatePerSec <= 0 {
		errs = append(errs, "api.rate_per_sec must be > 0")
	}
	if c.API.Burst < 1 {
		errs = append(errs, "api.burst must be >= 1")
	}
	if c.Server.Port <= 0 {
		errs = append(errs, "server.port must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
