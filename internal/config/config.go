package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	Database                  DatabaseConfig
	OpenAI                    OpenAIConfig
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	ProfileSeed               int64
	ReportFontPath            string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
	DSN      string
}

// OpenAIConfig holds the chat completion backend settings
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	openAIConfig := OpenAIConfig{
		APIKey:  getEnv("OPENAI_API_KEY", ""),
		Model:   getEnv("OPENAI_MODEL", "gpt-4-turbo"),
		BaseURL: getEnv("OPENAI_BASE_URL", ""),
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	// 0 seeds from the clock
	profileSeed, err := strconv.ParseInt(getEnv("PROFILE_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid PROFILE_SEED: %w", err)
	}

	return &Config{
		Port:                      getEnv("PORT", "3001"),
		Origin:                    getEnv("ORIGIN", "http://localhost:4200"),
		Environment:               getEnv("NODE_ENV", "development"),
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		Database:                  dbConfig,
		OpenAI:                    openAIConfig,
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		ProfileSeed:               profileSeed,
		ReportFontPath:            getEnv("REPORT_FONT_PATH", ""),
	}, nil
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	driver := getEnv("DB_DRIVER", "mysql")

	defaultPort := "3306"
	if driver == "postgres" {
		defaultPort = "5432"
	}

	db := DatabaseConfig{
		Driver:   driver,
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", defaultPort),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "virtual_patient"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	switch driver {
	case "mysql":
		db.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			db.Username, db.Password, db.Host, db.Port, db.Name)
	case "postgres":
		db.DSN = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			db.Host, db.Port, db.Username, db.Password, db.Name, db.SSLMode)
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DB_DRIVER %q: want mysql or postgres", driver)
	}
	return db, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
