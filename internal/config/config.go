package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port                 string
	Environment          string
	SimulationServiceURL string
	Locale               string
	CurrencySymbol       string
	FirestoreProject     string
	DemoScenarioPath     string
	MaxSimulations       int
	MaxWorkers           int
	RequestTimeout       time.Duration
	AssessmentTTL        time.Duration
	ChartWidth           int
	ChartHeight          int
	LogLevel             string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, using environment variables")
	}

	port := getEnv("PORT", "8080")

	cfg := &Config{
		Port:                 port,
		Environment:          getEnv("ENVIRONMENT", "development"),
		SimulationServiceURL: getEnv("SIMULATION_SERVICE_URL", "http://127.0.0.1:"+port),
		Locale:               getEnv("LOCALE", "de-DE"),
		CurrencySymbol:       getEnv("CURRENCY_SYMBOL", "€"),
		FirestoreProject:     getEnv("FIRESTORE_PROJECT_ID", ""),
		DemoScenarioPath:     getEnv("DEMO_SCENARIO_PATH", ""),
		MaxSimulations:       getEnvInt("MAX_SIMULATIONS", 100000),
		MaxWorkers:           getEnvInt("MAX_WORKERS", 8),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		AssessmentTTL:        getEnvDuration("ASSESSMENT_TTL", time.Hour),
		ChartWidth:           getEnvInt("CHART_WIDTH", 800),
		ChartHeight:          getEnvInt("CHART_HEIGHT", 400),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}

	if cfg.FirestoreProject == "" {
		logrus.Info("FIRESTORE_PROJECT_ID not set, assessments are kept in memory only")
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logrus.Warnf("Invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		logrus.Warnf("Invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
