package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "atscli/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Loader    LoaderConfig    `yaml:"loader" envconfig:"LOADER"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output      string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// PathsConfig contains file system paths configuration. Relative entries are
// resolved against the project root.
type PathsConfig struct {
	ProjectRoot   string   `yaml:"project_root" envconfig:"PROJECT_ROOT"`
	Markers       []string `yaml:"markers" envconfig:"MARKERS" validate:"min=1,dive,required"`
	DocumentsDir  string   `yaml:"documents_dir" envconfig:"DOCUMENTS_DIR" validate:"required"`
	DocumentsFile string   `yaml:"documents_file" envconfig:"DOCUMENTS_FILE" validate:"required"`
	MeasuresFile  string   `yaml:"measures_file" envconfig:"MEASURES_FILE" validate:"required"`
	ReportsDir    string   `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir       string   `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// LoaderConfig controls how delimited text is parsed into tables
type LoaderConfig struct {
	Delimiter     string            `yaml:"delimiter" envconfig:"DELIMITER" validate:"delimiter"`
	Comment       string            `yaml:"comment" envconfig:"COMMENT" validate:"omitempty,delimiter,nefield=Delimiter"`
	Encoding      string            `yaml:"encoding" envconfig:"ENCODING" validate:"required"`
	MissingFields string            `yaml:"missing_fields" envconfig:"MISSING_FIELDS" validate:"oneof=error fill"`
	NullValues    []string          `yaml:"null_values" envconfig:"NULL_VALUES"`
	TrimSpace     bool              `yaml:"trim_space" envconfig:"TRIM_SPACE"`
	InferTypes    bool              `yaml:"infer_types" envconfig:"INFER_TYPES"`
	ColumnTypes   map[string]string `yaml:"column_types" envconfig:"COLUMN_TYPES" validate:"dive,keys,required,endkeys,oneof=string int64 float64 bool"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name" envconfig:"SERVICE_NAME" validate:"required"`
	Tracing     string `yaml:"tracing" envconfig:"TRACING" validate:"oneof=none stdout"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// Load builds the configuration from defaults, an optional YAML file and
// ATS_* environment variables, in increasing order of precedence.
// An empty configFile falls back to the well-known locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg. Keys absent from the file
// keep their current values.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		ConfigFileName,
		filepath.Join("configs", ConfigFileName),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// LogFilePath returns the configured log file, defaulting to the logs
// directory of the resolved paths.
func (c *Config) LogFilePath(paths *Paths) string {
	if c.Logging.FilePath == "" {
		return paths.GetLogPath(DefaultLogFile)
	}
	if filepath.IsAbs(c.Logging.FilePath) {
		return c.Logging.FilePath
	}
	return ResolvePath(paths.ProjectRoot, c.Logging.FilePath)
}

// withDefaults fills empty path entries with their defaults
func (p PathsConfig) withDefaults() PathsConfig {
	if len(p.Markers) == 0 {
		p.Markers = DefaultMarkers
	}
	if p.DocumentsDir == "" {
		p.DocumentsDir = DefaultDocumentsDir
	}
	if p.DocumentsFile == "" {
		p.DocumentsFile = DefaultDocumentsCSV
	}
	if p.MeasuresFile == "" {
		p.MeasuresFile = DefaultMeasuresCSV
	}
	if p.ReportsDir == "" {
		p.ReportsDir = DefaultReportsDir
	}
	if p.LogsDir == "" {
		p.LogsDir = DefaultLogsDir
	}
	return p
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Output: DefaultLogOutput,
		},
		Paths: PathsConfig{
			Markers:       append([]string(nil), DefaultMarkers...),
			DocumentsDir:  DefaultDocumentsDir,
			DocumentsFile: DefaultDocumentsCSV,
			MeasuresFile:  DefaultMeasuresCSV,
			ReportsDir:    DefaultReportsDir,
			LogsDir:       DefaultLogsDir,
		},
		Loader: LoaderConfig{
			Delimiter:     DefaultDelimiter,
			Encoding:      DefaultEncoding,
			MissingFields: DefaultMissingFields,
			NullValues:    append([]string(nil), DefaultNullValues...),
			InferTypes:    true,
		},
		Telemetry: TelemetryConfig{
			ServiceName: DefaultServiceName,
			Tracing:     TracingNone,
		},
	}
}

// String renders the configuration for diagnostics.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(out)
}
