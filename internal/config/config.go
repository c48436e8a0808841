package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers understood by StoreConfig.Driver.
const (
	DriverCSV    = "csv"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Password storage modes understood by Config.PasswordHashing.
const (
	HashingPlain  = "plain"
	HashingBcrypt = "bcrypt"
)

// Config holds all configuration for our application
type Config struct {
	Port                 string
	Origin               string
	Environment          string
	LogLevel             string
	JWTSecret            string
	JWTExpirationMinutes int
	PasswordHashing      string
	Store                StoreConfig
}

// StoreConfig selects and configures the record store backend
type StoreConfig struct {
	Driver     string
	DataDir    string
	SQLitePath string
	Database   DatabaseConfig
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "booking"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	storeConfig := StoreConfig{
		Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverCSV)),
		DataDir:    getEnv("DATA_DIR", "."),
		SQLitePath: getEnv("SQLITE_PATH", "booking.db"),
		Database:   dbConfig,
	}
	switch storeConfig.Driver {
	case DriverCSV, DriverMySQL, DriverSQLite:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER: %q", storeConfig.Driver)
	}

	hashing := strings.ToLower(getEnv("PASSWORD_HASHING", HashingPlain))
	if hashing != HashingPlain && hashing != HashingBcrypt {
		return nil, fmt.Errorf("invalid PASSWORD_HASHING: %q", hashing)
	}

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	return &Config{
		Port:                 getEnv("PORT", "3001"),
		Origin:               getEnv("ORIGIN", "http://localhost:4200"),
		Environment:          getEnv("APP_ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		JWTSecret:            getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTExpirationMinutes: jwtExpMinutes,
		PasswordHashing:      hashing,
		Store:                storeConfig,
	}, nil
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
