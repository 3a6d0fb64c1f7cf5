// Package config provides run configuration for the equity binning tool.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources, later ones winning:
//
//	1. Default values (Default)
//	2. YAML file (--config, or config.yaml / configs/config.yaml when present)
//	3. Environment variables, after applying an optional .env file
//	4. Command-line flags, applied by the caller
//
// # Environment Variables
//
// All environment variables follow the pattern EQB_<SECTION>_<FIELD>:
//
//	EQB_DATA_DIR=data
//	EQB_DATA_FILE_NAME=equity_data.csv
//	EQB_ANALYSIS_FACTOR="Mkt Cap"
//	EQB_ANALYSIS_BINS=5
//	EQB_LOGGING_LEVEL=debug
//	EQB_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/equitybins.prom
//
// # Path Management
//
// Input paths are resolved against the current working directory:
//
//	paths, err := config.GetPaths(cfg.Data)
//	// paths.InputFile == <cwd>/data/equity_data.csv
//
// # Validation
//
// Load validates the merged result with go-playground/validator struct tags
// and reports failures as CONFIG errors.
package config
