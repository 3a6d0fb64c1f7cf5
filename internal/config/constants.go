package config

// Application constants
const (
	AppName    = "equitybins"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces environment variables, e.g. EQB_ANALYSIS_BINS
	EnvPrefix = "EQB"

	// Input defaults, resolved against the working directory
	DefaultDataDir  = "data"
	DefaultFileName = "equity_data.csv"

	// Selection defaults
	DefaultFactor = "Mkt Cap"
	DefaultBins   = 5

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)
