package config

// Application constants
const (
	// Application Info
	AppName    = "atsreport"
	AppVersion = "1.0.0"

	// Environment prefix for envconfig (ATS_LOGGING_LEVEL, ATS_PATHS_PROJECT_ROOT, ...)
	EnvPrefix = "ATS"

	// File Paths (relative to the project root)
	DefaultDataDir      = "data"
	DefaultDocumentsDir = "data/processed/documents"
	DefaultDocumentsCSV = "ats_documents.csv"
	DefaultMeasuresCSV  = "ats_measures.csv"
	DefaultReportsDir   = "reports"
	DefaultLogsDir      = "logs"
	DefaultLogFile      = "atsreport.log"

	// Config file names searched in the working directory
	ConfigFileName = "atscli.yaml"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogOutput = "both"

	// Loader defaults
	DefaultDelimiter     = ","
	DefaultEncoding      = "utf-8"
	MissingFieldsError   = "error"
	MissingFieldsFill    = "fill"
	DefaultMissingFields = MissingFieldsError

	// Telemetry
	DefaultServiceName = "atscli"
	TracingNone        = "none"
	TracingStdout      = "stdout"
)

// DefaultMarkers are the files or directories that identify a project root,
// checked in order in every directory on the way up.
var DefaultMarkers = []string{".git", ".env", "setup.py", "pyproject.toml", "go.mod"}

// DefaultNullValues are the cell values read as null.
var DefaultNullValues = []string{
	"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan",
	"NULL", "null", "None", "#N/A", "<NA>",
}
