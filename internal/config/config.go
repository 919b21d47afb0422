package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath     string
	LogDir       string
	CacheDir     string
	ScenariosDir string
	ReportsDir   string

	EnableMermaidCharts bool
	OpenReports         bool

	DefaultIterations int
	DefaultSamples    int
	Workers           int
	CacheTTLHours     int
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve Data Paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	cacheDir := filepath.Join(dataPath, "cache")
	scenariosDir := getEnv("SCENARIOS_FOLDER", filepath.Join(dataPath, "scenarios"))
	reportsDir := getEnv("REPORTS_FOLDER", filepath.Join(dataPath, "reports"))

	// Ensure directories exist
	for _, dir := range []string{logDir, cacheDir, scenariosDir, reportsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Warn().Err(err).Str("path", dir).Msg("Failed to create directory")
		}
	}

	cfg := &AppConfig{
		DataPath:            dataPath,
		LogDir:              logDir,
		CacheDir:            cacheDir,
		ScenariosDir:        scenariosDir,
		ReportsDir:          reportsDir,
		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", true),
		OpenReports:         getEnvBool("OPEN_REPORTS", false),
		DefaultIterations:   getEnvInt("MC_ITERATIONS", 10000),
		DefaultSamples:      getEnvInt("SENSITIVITY_SAMPLES", 1024),
		Workers:             getEnvInt("WORKERS", 0),
		CacheTTLHours:       getEnvInt("CACHE_TTL_HOURS", 24),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
