// Package config provides centralized configuration management for the
// department report tool. It handles loading configuration from multiple
// sources, validation, and provides a type-safe API for accessing
// configuration values throughout the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (YAML)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_<SECTION>_<FIELD>:
//
//	SALES_LOGGING_LEVEL=debug
//	SALES_INPUT_EXTRACTION=digits
//	SALES_REPORT_WRITE_MODE=append
//	SALES_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/deptreport.prom
//
// SALES_CONFIG_FILE points at an explicit YAML file; otherwise config.yaml
// and configs/config.yaml are tried.
//
// # Validation
//
// Enumerated fields are validated with go-playground/validator struct tags
// at load time, so an unknown write mode or extraction strategy fails fast.
package config
