package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds every tunable for the core: one record passed to
// constructors, no process-wide mutable globals.
type Config struct {
	Env      string
	Database DatabaseConfig
	Analysis AnalysisConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds PostgreSQL/PostGIS connection configuration.
type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string `validate:"required"`
	Name     string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`
	PoolMin  int    `validate:"gte=0"`
	PoolMax  int    `validate:"gte=1"`
}

// FairnessThresholds holds the fairness-score cutoffs driving the
// recommendation rule.
type FairnessThresholds struct {
	AppealStrong   int `validate:"gte=0,lte=100"`
	AppealModerate int `validate:"gte=0,lte=100"`
	Monitor        int `validate:"gte=0,lte=100"`
}

// SavingsThresholds holds the annual-savings cutoffs, in cents, driving
// the recommendation rule.
type SavingsThresholds struct {
	StrongCents   int64 `validate:"gte=0"`
	ModerateCents int64 `validate:"gte=0"`
}

// AnalysisConfig holds every tunable consumed by the comparable,
// fairness, savings, and orchestrator packages.
type AnalysisConfig struct {
	ValueWindowRatio      float64 `validate:"gt=0,lte=1"`
	AcreWindowRatio       float64 `validate:"gt=0,lte=1"`
	ProximityMiles        float64 `validate:"gt=0"`
	MaxComparables        int     `validate:"gte=1"`
	MinSubdivisionMatches int     `validate:"gte=1"`
	MillRateEffective     float64 `validate:"gte=0"`
	AnalysisBatchSize     int     `validate:"gte=1"`
	WorkerCount           int     `validate:"gte=1"`
	FairnessThresholds    FairnessThresholds
	SavingsThresholds     SavingsThresholds
	ModelVersion          string `validate:"required"`
}

// IngestConfig holds the tunables for the ingest pipeline.
type IngestConfig struct {
	ErrorBudgetFraction float64 `validate:"gte=0,lte=1"`
}

// Load reads configuration from environment variables and an optional
// .env file. Priority: shell environment overrides .env, which
// overrides the documented defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("ENV", "development")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "taxdown")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)

	v.SetDefault("ANALYSIS_VALUE_WINDOW_RATIO", 0.20)
	v.SetDefault("ANALYSIS_ACRE_WINDOW_RATIO", 0.25)
	v.SetDefault("ANALYSIS_PROXIMITY_MILES", 0.5)
	v.SetDefault("ANALYSIS_MAX_COMPARABLES", 20)
	v.SetDefault("ANALYSIS_MIN_SUBDIVISION_MATCHES", 5)
	v.SetDefault("ANALYSIS_MILL_RATE_EFFECTIVE", 0.02)
	v.SetDefault("ANALYSIS_BATCH_SIZE", 100)
	v.SetDefault("ANALYSIS_WORKER_COUNT", 4)
	v.SetDefault("ANALYSIS_FAIRNESS_APPEAL_STRONG", 70)
	v.SetDefault("ANALYSIS_FAIRNESS_APPEAL_MODERATE", 60)
	v.SetDefault("ANALYSIS_FAIRNESS_MONITOR", 50)
	v.SetDefault("ANALYSIS_SAVINGS_STRONG_CENTS", 50000)
	v.SetDefault("ANALYSIS_SAVINGS_MODERATE_CENTS", 25000)
	v.SetDefault("ANALYSIS_MODEL_VERSION", "statistical-v1")

	v.SetDefault("INGEST_ERROR_BUDGET_FRACTION", 0.01)

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./cmd/taxdown")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	cfg := &Config{
		Env: v.GetString("ENV"),
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Analysis: AnalysisConfig{
			ValueWindowRatio:      v.GetFloat64("ANALYSIS_VALUE_WINDOW_RATIO"),
			AcreWindowRatio:       v.GetFloat64("ANALYSIS_ACRE_WINDOW_RATIO"),
			ProximityMiles:        v.GetFloat64("ANALYSIS_PROXIMITY_MILES"),
			MaxComparables:        v.GetInt("ANALYSIS_MAX_COMPARABLES"),
			MinSubdivisionMatches: v.GetInt("ANALYSIS_MIN_SUBDIVISION_MATCHES"),
			MillRateEffective:     v.GetFloat64("ANALYSIS_MILL_RATE_EFFECTIVE"),
			AnalysisBatchSize:     v.GetInt("ANALYSIS_BATCH_SIZE"),
			WorkerCount:           v.GetInt("ANALYSIS_WORKER_COUNT"),
			FairnessThresholds: FairnessThresholds{
				AppealStrong:   v.GetInt("ANALYSIS_FAIRNESS_APPEAL_STRONG"),
				AppealModerate: v.GetInt("ANALYSIS_FAIRNESS_APPEAL_MODERATE"),
				Monitor:        v.GetInt("ANALYSIS_FAIRNESS_MONITOR"),
			},
			SavingsThresholds: SavingsThresholds{
				StrongCents:   v.GetInt64("ANALYSIS_SAVINGS_STRONG_CENTS"),
				ModerateCents: v.GetInt64("ANALYSIS_SAVINGS_MODERATE_CENTS"),
			},
			ModelVersion: v.GetString("ANALYSIS_MODEL_VERSION"),
		},
		Ingest: IngestConfig{
			ErrorBudgetFraction: v.GetFloat64("INGEST_ERROR_BUDGET_FRACTION"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

var validate = validator.New()

// Validate checks struct-tag range constraints, then the cross-field
// rules a single tag cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	a := c.Analysis
	if a.FairnessThresholds.Monitor > a.FairnessThresholds.AppealModerate ||
		a.FairnessThresholds.AppealModerate > a.FairnessThresholds.AppealStrong {
		return fmt.Errorf("fairness thresholds must satisfy monitor <= appeal_moderate <= appeal_strong")
	}
	if a.SavingsThresholds.ModerateCents > a.SavingsThresholds.StrongCents {
		return fmt.Errorf("savings thresholds must satisfy moderate <= strong")
	}

	return nil
}
