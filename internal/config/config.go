package config

import (
	"os"
	"strconv"

	"gocalib/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig
	Scoring  ScoringConfig
	Analysis AnalysisConfig
}

// DataConfig holds input/output paths and the sheet layout of the workbook
type DataConfig struct {
	RawPath         string
	ProcessedPath   string
	ControlSheet    string
	ExperimentSheet string
	ControlLabel    string
	ExperimentLabel string
}

// ScoringConfig holds the scoring pipeline settings
type ScoringConfig struct {
	NQuestions int
	UseABS     bool
	UseCWS     bool
}

// AnalysisConfig holds group comparison settings
type AnalysisConfig struct {
	DefaultDV   string
	GroupColumn string
	ReportPath  string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:     loadDataConfig(),
		Scoring:  loadScoringConfig(),
		Analysis: loadAnalysisConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() DataConfig {
	return DataConfig{
		RawPath:         getEnvOrDefault("RAW_DATA_PATH", "data/raw/Psychology Study Results.xlsx"),
		ProcessedPath:   getEnvOrDefault("PROCESSED_DATA_PATH", "data/processed/study_results_clean.csv"),
		ControlSheet:    getEnvOrDefault("CONTROL_SHEET", "Psychology Study - CG"),
		ExperimentSheet: getEnvOrDefault("EXPERIMENT_SHEET", "Psychology Study - EG"),
		ControlLabel:    getEnvOrDefault("CONTROL_LABEL", "CG"),
		ExperimentLabel: getEnvOrDefault("EXPERIMENT_LABEL", "EG"),
	}
}

func loadScoringConfig() ScoringConfig {
	return ScoringConfig{
		NQuestions: getEnvIntOrDefault("N_QUESTIONS", 20),
		UseABS:     getEnvBoolOrDefault("USE_ABS", true),
		UseCWS:     getEnvBoolOrDefault("USE_CWS", true),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		DefaultDV:   getEnvOrDefault("DEFAULT_DV", "total_cws"),
		GroupColumn: getEnvOrDefault("GROUP_COLUMN", "group"),
		ReportPath:  getEnvOrDefault("REPORT_PATH", "data/processed/study_report.md"),
	}
}

func validateConfig(config *Config) error {
	if config.Data.RawPath == "" {
		return errors.ConfigInvalid("raw data path is required")
	}
	if config.Data.ProcessedPath == "" {
		return errors.ConfigInvalid("processed data path is required")
	}
	if config.Scoring.NQuestions < 1 {
		return errors.ConfigInvalid("N_QUESTIONS must be at least 1")
	}
	if config.Data.ControlLabel == "" || config.Data.ExperimentLabel == "" {
		return errors.ConfigInvalid("group labels must be non-empty")
	}
	if config.Data.ControlLabel == config.Data.ExperimentLabel {
		return errors.ConfigInvalid("group labels must be distinct")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
