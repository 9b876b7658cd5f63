// Package config provides centralized configuration and path management for
// atscli.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. Configuration file (atscli.yaml or configs/atscli.yaml)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ATS_* for namespacing:
//
//	ATS_PATHS_PROJECT_ROOT=/srv/ats
//	ATS_LOGGING_LEVEL=debug
//	ATS_LOADER_DELIMITER=;
//	ATS_LOADER_MISSING_FIELDS=fill
//	ATS_TELEMETRY_METRICS_FILE=/var/lib/node_exporter/atsreport.prom
//
// # Path Management
//
// Every dataset location is resolved against the project root, which is
// either configured or found by walking upward from the working directory
// until a marker such as .git or .env is present:
//
//	paths, err := config.GetPaths(cfg.Paths)
//	documents := paths.DocumentsCSV // <root>/data/processed/documents/ats_documents.csv
//
// ResolvePath is the underlying join:
//
//	config.ResolvePath("/proj", "data", "processed", "documents", "ats_documents.csv")
package config
