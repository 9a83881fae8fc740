package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Analysis     AnalysisConfig     `yaml:"analysis" mapstructure:"analysis"`
	Completeness CompletenessConfig `yaml:"completeness" mapstructure:"completeness"`
	Resolver     ResolverConfig     `yaml:"resolver" mapstructure:"resolver"`
	Audit        AuditConfig        `yaml:"audit" mapstructure:"audit"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ServerConfig configures the read-only JSON API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// AnalysisConfig holds the tenant-mix scoring policy. The weights and
// thresholds are untuned defaults, not validated business constants.
type AnalysisConfig struct {
	VarianceThreshold   float64 `yaml:"variance_threshold" mapstructure:"variance_threshold"`
	ImportanceWeight    float64 `yaml:"importance_weight" mapstructure:"importance_weight"`
	CoverageWeight      float64 `yaml:"coverage_weight" mapstructure:"coverage_weight"`
	PercentageWeight    float64 `yaml:"percentage_weight" mapstructure:"percentage_weight"`
	HighPriorityScore   float64 `yaml:"high_priority_score" mapstructure:"high_priority_score"`
	MediumPriorityScore float64 `yaml:"medium_priority_score" mapstructure:"medium_priority_score"`
	PolicyFile          string  `yaml:"policy_file" mapstructure:"policy_file"`
}

// CompletenessConfig holds the percentage cut-offs for completeness priorities.
type CompletenessConfig struct {
	HighThreshold   float64 `yaml:"high_threshold" mapstructure:"high_threshold"`
	MediumThreshold float64 `yaml:"medium_threshold" mapstructure:"medium_threshold"`
}

// ResolverConfig configures fuzzy location name resolution.
type ResolverConfig struct {
	MinConfidence       float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	SearchMinConfidence float64 `yaml:"search_min_confidence" mapstructure:"search_min_confidence"`
	AmbiguityMargin     float64 `yaml:"ambiguity_margin" mapstructure:"ambiguity_margin"`
	ContainsBoost       float64 `yaml:"contains_boost" mapstructure:"contains_boost"`
	CityBoost           float64 `yaml:"city_boost" mapstructure:"city_boost"`
	MaxSuggestions      int     `yaml:"max_suggestions" mapstructure:"max_suggestions"`
}

// AuditConfig configures the batch portfolio audit.
type AuditConfig struct {
	Concurrency    int      `yaml:"concurrency" mapstructure:"concurrency"`
	ReadsPerSecond float64  `yaml:"reads_per_second" mapstructure:"reads_per_second"`
	RadiusKM       float64  `yaml:"radius_km" mapstructure:"radius_km"`
	Competitors    int      `yaml:"competitors" mapstructure:"competitors"`
	PropertyTypes  []string `yaml:"property_types" mapstructure:"property_types"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "postgres")
	v.SetDefault("store.sqlite_path", "portfolio.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("analysis.variance_threshold", 5.0)
	v.SetDefault("analysis.importance_weight", 0.4)
	v.SetDefault("analysis.coverage_weight", 0.3)
	v.SetDefault("analysis.percentage_weight", 0.3)
	v.SetDefault("analysis.high_priority_score", 8.0)
	v.SetDefault("analysis.medium_priority_score", 5.0)
	v.SetDefault("completeness.high_threshold", 90.0)
	v.SetDefault("completeness.medium_threshold", 70.0)
	v.SetDefault("resolver.min_confidence", 0.6)
	v.SetDefault("resolver.search_min_confidence", 0.3)
	v.SetDefault("resolver.ambiguity_margin", 0.15)
	v.SetDefault("resolver.contains_boost", 0.2)
	v.SetDefault("resolver.city_boost", 0.3)
	v.SetDefault("resolver.max_suggestions", 5)
	v.SetDefault("audit.concurrency", 4)
	v.SetDefault("audit.reads_per_second", 20.0)
	v.SetDefault("audit.radius_km", 25.0)
	v.SetDefault("audit.competitors", 5)
	v.SetDefault("audit.property_types", []string{"shopping_centre", "retail_park"})

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

// Validate checks that the configuration is internally consistent. All
// problems are reported together.
func (c *Config) Validate() error {
	var errs []string

	switch c.Store.Driver {
	case "postgres":
		if c.Store.DatabaseURL == "" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	case "sqlite":
		if c.Store.SQLitePath == "" {
			errs = append(errs, "store.sqlite_path is required for the sqlite driver")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be postgres or sqlite (got %q)", c.Store.Driver))
	}

	weights := []struct {
		name  string
		value float64
	}{
		{"analysis.importance_weight", c.Analysis.ImportanceWeight},
		{"analysis.coverage_weight", c.Analysis.CoverageWeight},
		{"analysis.percentage_weight", c.Analysis.PercentageWeight},
	}
	for _, w := range weights {
		if w.value < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", w.name))
		}
	}
	if c.Analysis.VarianceThreshold < 0 {
		errs = append(errs, "analysis.variance_threshold must be >= 0")
	}
	if c.Analysis.MediumPriorityScore > c.Analysis.HighPriorityScore {
		errs = append(errs, "analysis.medium_priority_score must be <= high_priority_score")
	}

	if c.Completeness.HighThreshold < 0 || c.Completeness.HighThreshold > 100 {
		errs = append(errs, "completeness.high_threshold must be between 0 and 100")
	}
	if c.Completeness.MediumThreshold < 0 || c.Completeness.MediumThreshold > 100 {
		errs = append(errs, "completeness.medium_threshold must be between 0 and 100")
	}

	if c.Resolver.MinConfidence <= 0 || c.Resolver.MinConfidence > 1 {
		errs = append(errs, "resolver.min_confidence must be in (0, 1]")
	}
	if c.Resolver.SearchMinConfidence < 0 || c.Resolver.SearchMinConfidence > c.Resolver.MinConfidence {
		errs = append(errs, "resolver.search_min_confidence must be in [0, min_confidence]")
	}
	if c.Resolver.AmbiguityMargin < 0 {
		errs = append(errs, "resolver.ambiguity_margin must be >= 0")
	}

	if c.Audit.Concurrency < 1 {
		errs = append(errs, "audit.concurrency must be >= 1")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
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
