// =============================================================================
// EDI 834 Generator - Configuration Module
// =============================================================================
//
// This module is responsible for loading the application configuration.
//
// CONFIGURATION FILE:
//   config.yaml holds directory settings, logging, the HTTP port, the
//   generation ledger location, CSV parsing settings, field default overrides,
//   per-column transformation rules and S3 delivery settings.
//
// PRECEDENCE:
//   Built-in defaults < config.yaml < EDI834_* environment < CLI flags.
//   This package handles the first two. The cmd package layers environment
//   and flags on top with viper.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned by the process command for .csv and .xlsx files.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives generated documents when no explicit output path is
	// given.
	// Default: "./generated"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives input files the process command converted
	// successfully. Empty leaves inputs in place.
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputFileFormat names generated files. Placeholders:
	//   {timestamp} - Unix milliseconds
	//   {uuid}      - A random UUID
	//   {control}   - The document control number
	// Default: "enrollment_{timestamp}.edi"
	OutputFileFormat string `yaml:"output_file_format"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel controls verbosity: "debug", "info", "warn", "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat selects "json" (production) or "console" (development).
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// SERVER SETTINGS
	// =========================================================================

	// Port is the HTTP listen port for the serve command.
	// Default: 3000
	Port int `yaml:"port"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency bounds how many files the process command converts at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// HistoryDB is the SQLite ledger of generated documents. "off" disables it.
	// Default: "./generated/history.db"
	HistoryDB string `yaml:"history_db"`

	// CSVSettings controls delimited-text parsing.
	CSVSettings CSVSettings `yaml:"csv_settings"`

	// FieldDefaults overrides entries of the built-in defaults table.
	// Key is the input column name.
	FieldDefaults map[string]string `yaml:"field_defaults"`

	// TransformationRules rewrite column values before validation.
	TransformationRules []TransformationRule `yaml:"transformation_rules"`

	// S3 configures delivery to s3:// destinations.
	S3 S3Config `yaml:"s3"`
}

// =============================================================================
// CSV SETTINGS STRUCTURE
// =============================================================================

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// LazyQuotes tolerates stray quotes inside unquoted fields.
	// Default: false
	LazyQuotes bool `yaml:"lazy_quotes"`
}

// Comma returns the rune the CSV reader splits fields on. Named delimiters
// ("tab", "pipe", "semicolon") map to their character; empty means comma.
func (s CSVSettings) Comma() rune {
	switch s.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon", "SEMICOLON":
		return ';'
	case "":
		return ','
	default:
		r, _ := utf8.DecodeRuneInString(s.Delimiter)
		return r
	}
}

// validate rejects delimiters encoding/csv cannot split on.
func (s CSVSettings) validate() error {
	switch s.Delimiter {
	case "", "\\t", "tab", "TAB", "pipe", "PIPE", "semicolon", "SEMICOLON":
		return nil
	}
	if utf8.RuneCountInString(s.Delimiter) != 1 {
		return fmt.Errorf("csv_settings.delimiter must be one character or tab, pipe, semicolon; got %q", s.Delimiter)
	}
	switch r := s.Comma(); r {
	case 0, '"', '\r', '\n', utf8.RuneError:
		return fmt.Errorf("csv_settings.delimiter %q cannot separate fields", s.Delimiter)
	}
	return nil
}

// =============================================================================
// TRANSFORMATION RULE STRUCTURE
// =============================================================================

// TransformationRule defines a transformation to apply to a specific column.
type TransformationRule struct {
	// Field is the input column header.
	Field string `yaml:"field"`

	// Actions are applied in order.
	Actions []TransformationAction `yaml:"actions"`
}

// TransformationAction defines a single transformation action.
type TransformationAction struct {
	// Type is one of:
	//   - "trim"                : Remove leading and trailing whitespace
	//   - "uppercase"           : Convert to uppercase
	//   - "lowercase"           : Convert to lowercase
	//   - "prepend_string"      : Add Value to the beginning
	//   - "append_string"       : Add Value to the end
	//   - "pad_zeros_to_length" : Left pad with zeros to Value characters
	//   - "replace"             : Replace Find with Value
	//   - "regex_replace"       : Replace matches of Find with Value
	//   - "lookup"              : Replace using LookupTable
	//   - "default"             : Use Value when the cell is empty
	Type string `yaml:"type"`

	// Value is the parameter for the transformation.
	Value string `yaml:"value"`

	// Find is used by "replace" and "regex_replace".
	Find string `yaml:"find,omitempty"`

	// LookupTable maps input values to output values for "lookup".
	LookupTable map[string]string `yaml:"lookup_table,omitempty"`
}

// =============================================================================
// S3 SETTINGS STRUCTURE
// =============================================================================

// S3Config holds the settings for s3:// output destinations.
type S3Config struct {
	// Region is the AWS region. Default: "us-east-1"
	Region string `yaml:"region"`

	// Endpoint overrides the service endpoint (MinIO, LocalStack).
	Endpoint string `yaml:"endpoint"`

	// AccessKeyID and SecretAccessKey set static credentials. Empty uses the
	// SDK default credential chain.
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`

	// UsePathStyle addresses buckets by path instead of virtual host.
	UsePathStyle bool `yaml:"use_path_style"`
}

// Configured reports whether any s3 setting is present. S3 delivery is only
// set up when it is; region alone is enough to use the SDK credential chain.
func (s S3Config) Configured() bool {
	return s.Region != "" || s.Endpoint != "" || s.AccessKeyID != "" ||
		s.SecretAccessKey != "" || s.UsePathStyle
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *MainConfig {
	cfg := &MainConfig{}
	applyMainConfigDefaults(cfg)
	return cfg
}

// LoadMainConfig loads the main configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the main configuration file.
//
// RETURNS:
//   - A pointer to the MainConfig struct. A missing file yields the defaults.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration bytes, applies defaults and validates.
func Parse(data []byte) (*MainConfig, error) {
	var cfg MainConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(cfg *MainConfig) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./generated"
	}
	if cfg.OutputFileFormat == "" {
		cfg.OutputFileFormat = "enrollment_{timestamp}.edi"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.HistoryDB == "" {
		cfg.HistoryDB = "./generated/history.db"
	}
	if cfg.CSVSettings.Delimiter == "" {
		cfg.CSVSettings.Delimiter = ","
	}
}

// genderColumn is the input column whose default lands in DMG03.
const genderColumn = "Gender"

// validGenderDefaults are the DMG gender codes a configured default may use.
var validGenderDefaults = map[string]bool{"M": true, "F": true, "U": true}

// Validate checks values that defaults cannot fix.
func Validate(cfg *MainConfig) error {
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn or error, got %q", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log_format must be json or console, got %q", cfg.LogFormat)
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port out of range: %d", cfg.Port)
	}

	if cfg.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be at least 1, got %d", cfg.MaxConcurrency)
	}

	if err := cfg.CSVSettings.validate(); err != nil {
		return err
	}

	if gender, ok := cfg.FieldDefaults[genderColumn]; ok && !validGenderDefaults[gender] {
		return fmt.Errorf("field_defaults[%q] must be M, F or U, got %q", genderColumn, gender)
	}

	for i, rule := range cfg.TransformationRules {
		if rule.Field == "" {
			return fmt.Errorf("transformation_rules[%d]: field is required", i)
		}
		for j, action := range rule.Actions {
			if err := validateAction(action); err != nil {
				return fmt.Errorf("transformation_rules[%d].actions[%d]: %w", i, j, err)
			}
		}
	}

	return nil
}

// validateAction rejects unknown action types and bad regular expressions.
func validateAction(action TransformationAction) error {
	switch action.Type {
	case "trim", "uppercase", "lowercase", "prepend_string", "append_string",
		"replace", "lookup", "default":
		return nil
	case "pad_zeros_to_length":
		if n, err := strconv.Atoi(action.Value); err != nil || n < 0 {
			return fmt.Errorf("pad_zeros_to_length needs a non-negative length, got %q", action.Value)
		}
		return nil
	case "regex_replace":
		if _, err := regexp.Compile(action.Find); err != nil {
			return fmt.Errorf("invalid regex pattern: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}
