package config

import "salescli/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "deptreport"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. SALES_REPORT_WRITE_MODE
	EnvPrefix = "SALES"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/deptreport.log"

	// DefaultMaxLoggedRowErrors caps per-row WARN lines; the remainder is summarized
	DefaultMaxLoggedRowErrors = 20
)
