package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format      string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// InputConfig controls how the two datasets are read and classified
type InputConfig struct {
	// DetectSchema sniffs each dataset's header instead of trusting the slot it was passed in
	DetectSchema       bool   `yaml:"detect_schema" envconfig:"DETECT_SCHEMA"`
	Extraction         string `yaml:"extraction" envconfig:"EXTRACTION" validate:"oneof=columns digits"`
	Strict             bool   `yaml:"strict" envconfig:"STRICT"`
	MaxLoggedRowErrors int    `yaml:"max_logged_row_errors" envconfig:"MAX_LOGGED_ROW_ERRORS" validate:"gte=0"`
}

// ReportConfig controls how the department report is written
type ReportConfig struct {
	WriteMode    string `yaml:"write_mode" envconfig:"WRITE_MODE" validate:"oneof=overwrite append fail"`
	Format       string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	IncludeEmpty bool   `yaml:"include_empty" envconfig:"INCLUDE_EMPTY"`
	BOMPrefix    bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file and
// SALES_* environment variables, in increasing order of precedence.
// An empty filePath searches the usual locations.
func Load(filePath string) (*Config, error) {
	cfg := Default()

	if filePath == "" {
		filePath = getConfigFilePath()
	}
	if filePath != "" {
		if err := loadFromFile(filePath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Environment only touches fields whose variables are set
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// normalize lower-cases enumerated values so validation is case-insensitive
func (c *Config) normalize() {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	c.Input.Extraction = strings.ToLower(c.Input.Extraction)
	c.Report.WriteMode = strings.ToLower(c.Report.WriteMode)
	c.Report.Format = strings.ToLower(c.Report.Format)
	c.Telemetry.TraceExporter = strings.ToLower(c.Telemetry.TraceExporter)

	// Always JSON logs
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("%s", strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG_FILE"); p != "" {
		return p
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
		"../configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Input: InputConfig{
			DetectSchema:       false,
			Extraction:         "columns",
			MaxLoggedRowErrors: DefaultMaxLoggedRowErrors,
		},
		Report: ReportConfig{
			WriteMode: "overwrite",
			Format:    "csv",
		},
		Telemetry: TelemetryConfig{
			TraceExporter: "none",
			EnableMetrics: true,
			Environment:   "development",
			SampleRatio:   1.0,
		},
	}
}
