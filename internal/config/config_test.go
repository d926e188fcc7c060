package config

import (
	"os"
	"testing"
)

func TestLoad_WithDefaults(t *testing.T) {
	clearConfigEnvVars()

	// Password has no default.
	os.Setenv("DB_PASSWORD", "testpass")
	defer os.Unsetenv("DB_PASSWORD")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected env development, got %s", cfg.Env)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Expected host localhost, got %s", cfg.Database.Host)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("Expected port 5432, got %s", cfg.Database.Port)
	}
	if cfg.Database.Name != "taxdown" {
		t.Errorf("Expected db name taxdown, got %s", cfg.Database.Name)
	}
	if cfg.Database.PoolMin != 2 {
		t.Errorf("Expected pool min 2, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 10 {
		t.Errorf("Expected pool max 10, got %d", cfg.Database.PoolMax)
	}
	if cfg.Analysis.ValueWindowRatio != 0.20 {
		t.Errorf("Expected value window ratio 0.20, got %f", cfg.Analysis.ValueWindowRatio)
	}
	if cfg.Analysis.MaxComparables != 20 {
		t.Errorf("Expected max comparables 20, got %d", cfg.Analysis.MaxComparables)
	}
	if cfg.Analysis.FairnessThresholds.AppealStrong != 70 {
		t.Errorf("Expected appeal_strong 70, got %d", cfg.Analysis.FairnessThresholds.AppealStrong)
	}
	if cfg.Ingest.ErrorBudgetFraction != 0.01 {
		t.Errorf("Expected error budget fraction 0.01, got %f", cfg.Ingest.ErrorBudgetFraction)
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Setenv("ENV", "production")
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PORT", "5433")
	os.Setenv("DB_NAME", "testdb")
	os.Setenv("DB_USER", "testuser")
	os.Setenv("DB_PASSWORD", "testpass")
	os.Setenv("DB_POOL_MIN", "5")
	os.Setenv("DB_POOL_MAX", "20")
	os.Setenv("ANALYSIS_MAX_COMPARABLES", "15")
	os.Setenv("ANALYSIS_MILL_RATE_EFFECTIVE", "0.025")
	defer clearConfigEnvVars()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected env production, got %s", cfg.Env)
	}
	if cfg.Database.Host != "db.internal" {
		t.Errorf("Expected host db.internal, got %s", cfg.Database.Host)
	}
	if cfg.Database.Password != "testpass" {
		t.Errorf("Expected password testpass, got %s", cfg.Database.Password)
	}
	if cfg.Database.PoolMin != 5 {
		t.Errorf("Expected pool min 5, got %d", cfg.Database.PoolMin)
	}
	if cfg.Database.PoolMax != 20 {
		t.Errorf("Expected pool max 20, got %d", cfg.Database.PoolMax)
	}
	if cfg.Analysis.MaxComparables != 15 {
		t.Errorf("Expected max comparables 15, got %d", cfg.Analysis.MaxComparables)
	}
	if cfg.Analysis.MillRateEffective != 0.025 {
		t.Errorf("Expected mill rate 0.025, got %f", cfg.Analysis.MillRateEffective)
	}
}

func TestLoad_MissingPassword(t *testing.T) {
	clearConfigEnvVars()

	_, err := Load()
	if err == nil {
		t.Error("Expected error when DB_PASSWORD is missing")
	}
}

func TestValidate_InvalidPoolSizes(t *testing.T) {
	tests := []struct {
		name    string
		poolMin int
		poolMax int
		wantErr bool
	}{
		{name: "negative pool min", poolMin: -1, poolMax: 10, wantErr: true},
		{name: "zero pool max", poolMin: 0, poolMax: 0, wantErr: true},
		{name: "pool min greater than max", poolMin: 15, poolMax: 10, wantErr: true},
		{name: "valid pool sizes", poolMin: 2, poolMax: 10, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseValidConfig()
			cfg.Database.PoolMin = tt.poolMin
			cfg.Database.PoolMax = tt.poolMax

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MissingRequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
	}{
		{name: "missing db host", mutate: func(c *Config) { c.Database.Host = "" }},
		{name: "missing db password", mutate: func(c *Config) { c.Database.Password = "" }},
		{name: "missing model version", mutate: func(c *Config) { c.Analysis.ModelVersion = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseValidConfig()
			tt.mutate(cfg)

			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error but got none")
			}
		})
	}
}

func TestValidate_ThresholdOrdering(t *testing.T) {
	cfg := baseValidConfig()
	cfg.Analysis.FairnessThresholds.Monitor = 80

	if err := cfg.Validate(); err == nil {
		t.Error("Expected error when monitor threshold exceeds appeal thresholds")
	}
}

func baseValidConfig() *Config {
	return &Config{
		Env: "development",
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "taxdown",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		Analysis: AnalysisConfig{
			ValueWindowRatio:      0.20,
			AcreWindowRatio:       0.25,
			ProximityMiles:        0.5,
			MaxComparables:        20,
			MinSubdivisionMatches: 5,
			MillRateEffective:     0.02,
			AnalysisBatchSize:     100,
			WorkerCount:           4,
			FairnessThresholds:    FairnessThresholds{AppealStrong: 70, AppealModerate: 60, Monitor: 50},
			SavingsThresholds:     SavingsThresholds{StrongCents: 50000, ModerateCents: 25000},
			ModelVersion:          "statistical-v1",
		},
		Ingest: IngestConfig{ErrorBudgetFraction: 0.01},
	}
}

func clearConfigEnvVars() {
	os.Unsetenv("ENV")
	os.Unsetenv("DB_HOST")
	os.Unsetenv("DB_PORT")
	os.Unsetenv("DB_NAME")
	os.Unsetenv("DB_USER")
	os.Unsetenv("DB_PASSWORD")
	os.Unsetenv("DB_POOL_MIN")
	os.Unsetenv("DB_POOL_MAX")
	os.Unsetenv("ANALYSIS_MAX_COMPARABLES")
	os.Unsetenv("ANALYSIS_MILL_RATE_EFFECTIVE")
}
