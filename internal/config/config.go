// =============================================================================
// Portfolio Import - Configuration Module
// =============================================================================
//
// This module loads the YAML configuration of the import tool.
//
// CONFIGURATION FILE (config.yaml):
//   input_dir: ./input
//   output_dir: ./output
//   export_format: json
//   import:
//     sheet_marker: synth
//     regional_offices: [EP]
//     two_digit_year: pivot
//     columns:
//       reference: ["Famille"]
//     csv:
//       delimiter: ";"
//       encoding: windows-1252
//
// Every key is optional. A missing file at the default location yields the
// defaults; a missing file given explicitly is an error.
//
// =============================================================================

package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the configuration file looked up when none is given.
const DefaultPath = "config.yaml"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned for workbooks when no file is given on the command
	// line.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives exports, diagnostics logs and run summaries.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives imported workbooks when ArchiveOnSuccess is set.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of each export when ArchiveOnSuccess
	// is set.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// ArchiveOnSuccess moves imported inputs out of InputDir.
	// Default: false
	ArchiveOnSuccess bool `yaml:"archive_on_success"`

	// ArchiveByDate files archives under year/month/day subdirectories.
	// Default: false
	ArchiveByDate bool `yaml:"archive_by_date"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogFile is the path of the log file. Empty logs to stderr.
	LogFile string `yaml:"log_file"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// ExportFormat is the format of the normalized export.
	// Valid values: "json", "xml", "xlsx"
	// Default: "json"
	ExportFormat string `yaml:"export_format"`

	// OutputNameFormat defines export file names.
	// Placeholders:
	//   {name}      - Input file name without extension
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	// Default: "{name}_{timestamp}_{uuid}"
	OutputNameFormat string `yaml:"output_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files imported at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// Import holds the spreadsheet interpretation settings.
	Import ImportConfig `yaml:"import"`
}

// =============================================================================
// IMPORT SETTINGS
// =============================================================================

// ImportConfig controls how portfolio sheets are interpreted.
type ImportConfig struct {
	// SheetMarker selects the sheet whose name contains it.
	// Default: "synth"
	SheetMarker string `yaml:"sheet_marker"`

	// RegionalOffices are filing prefixes that do not identify a country.
	// For those the country is taken from the country name column.
	// Default: ["EP"]
	RegionalOffices []string `yaml:"regional_offices"`

	// TwoDigitYear is the century rule for dates such as 01/02/85.
	// Valid values: "pivot" (00-49 -> 20xx, 50-99 -> 19xx), "century21"
	// Default: "pivot"
	TwoDigitYear string `yaml:"two_digit_year"`

	// Columns adds header aliases per field, tried before the built-in ones.
	// Keys: reference, title, publicationNumber, depositNumber, status,
	// depositDate, publicationDate, grantNumber, grantDate, inventors,
	// depositor, client, countryCompound.
	Columns map[string][]string `yaml:"columns"`

	// CSV holds settings for .csv inputs.
	CSV CSVSettings `yaml:"csv"`
}

// CSVSettings contains settings for parsing CSV exports of a portfolio.
type CSVSettings struct {
	// Delimiter separates fields.
	// Common values: "," ";" "|" "\t"
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character set of the file. Any WHATWG label works
	// ("utf-8", "windows-1252", "iso-8859-1", "utf-16le"...). A byte order
	// mark always wins.
	// Default: "utf-8"
	Encoding string `yaml:"encoding"`
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
//   - A pointer to the MainConfig struct.
//   - An error if the file cannot be read, parsed or validated.
func LoadMainConfig(configPath string) (*MainConfig, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && configPath == DefaultPath {
			return Default(), nil
		}
		return nil, eris.Wrapf(err, "failed to read config file %s", configPath)
	}

	return Parse(data)
}

// Parse decodes, defaults and validates a YAML configuration document.
func Parse(data []byte) (*MainConfig, error) {
	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, eris.Wrap(err, "failed to parse config file")
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, eris.Wrap(err, "invalid configuration")
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for any unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.OutputArchiveDir == "" {
		config.OutputArchiveDir = "./output_archive"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.ExportFormat == "" {
		config.ExportFormat = "json"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{name}_{timestamp}_{uuid}"
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 4
	}

	imp := &config.Import
	if imp.SheetMarker == "" {
		imp.SheetMarker = "synth"
	}
	if len(imp.RegionalOffices) == 0 {
		imp.RegionalOffices = []string{"EP"}
	}
	if imp.TwoDigitYear == "" {
		imp.TwoDigitYear = "pivot"
	}
	if imp.CSV.Delimiter == "" {
		imp.CSV.Delimiter = ","
	}
	if imp.CSV.Encoding == "" {
		imp.CSV.Encoding = "utf-8"
	}
}

// validateMainConfig checks enumerated settings.
func validateMainConfig(config *MainConfig) error {
	config.LogLevel = strings.ToLower(config.LogLevel)
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return eris.Errorf("log_level %q must be one of debug, info, warn, error", config.LogLevel)
	}

	config.ExportFormat = strings.ToLower(config.ExportFormat)
	switch config.ExportFormat {
	case "json", "xml", "xlsx":
	default:
		return eris.Errorf("export_format %q must be one of json, xml, xlsx", config.ExportFormat)
	}

	switch strings.ToLower(config.Import.TwoDigitYear) {
	case "pivot", "century21":
	default:
		return eris.Errorf("import.two_digit_year %q must be pivot or century21", config.Import.TwoDigitYear)
	}

	for _, office := range config.Import.RegionalOffices {
		if len(strings.TrimSpace(office)) != 2 {
			return eris.Errorf("import.regional_offices entry %q is not a two-letter prefix", office)
		}
	}

	return nil
}
