package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environments recognised by APP_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Storage drivers recognised by STORAGE_DRIVER.
const (
	DriverSheets   = "sheets"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// DefaultSecret is the development signing secret; production refuses to start with it.
const DefaultSecret = "dev-secret-change-me"

// Config structure represents the application configuration
type Config struct {
	App struct {
		SiteName          string `yaml:"site_name" env:"SITE_NAME"`
		Env               string `yaml:"env" env:"APP_ENV,FLASK_ENV"`
		SecretKey         string `yaml:"secret_key" env:"SECRET_KEY"`
		GAMeasurementID   string `yaml:"ga_measurement_id" env:"GA_MEASUREMENT_ID"`
		AddMaterialURL    string `yaml:"add_material_sheet_url" env:"ADD_MATERIAL_SHEET_URL"`
		AddOpportunityURL string `yaml:"add_opportunity_sheet_url" env:"ADD_OPPORTUNITY_SHEET_URL"`
		VerificationEmail string `yaml:"verification_email" env:"VERIFICATION_EMAIL"`
	} `yaml:"app"`

	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
	} `yaml:"server"`

	Google struct {
		SheetID         string `yaml:"sheet_id" env:"GOOGLE_SHEET_ID"`
		CredentialsFile string `yaml:"credentials_file" env:"GOOGLE_CREDENTIALS_FILE"`
		RetryAttempts   int    `yaml:"retry_attempts" env:"GOOGLE_RETRY_ATTEMPTS"`
		RetryDelay      string `yaml:"retry_delay" env:"GOOGLE_RETRY_DELAY"`
	} `yaml:"google"`

	Worksheets struct {
		Courses       string `yaml:"courses" env:"COURSES_SHEET_NAME"`
		Materials     string `yaml:"materials" env:"MATERIALS_SHEET_NAME"`
		Opportunities string `yaml:"opportunities" env:"OPPORTUNITIES_SHEET_NAME"`
		Jobs          string `yaml:"jobs" env:"JOBS_SHEET_NAME"`
		Events        string `yaml:"events" env:"EVENTS_SHEET_NAME"`
		Timetable     string `yaml:"timetable" env:"TIMETABLE_SHEET_NAME"`
		Users         string `yaml:"users" env:"USERS_SHEET_NAME"`
		Comments      string `yaml:"comments" env:"COMMENTS_SHEET_NAME"`
	} `yaml:"worksheets"`

	Storage struct {
		Driver     string `yaml:"driver" env:"STORAGE_DRIVER"`
		SQLitePath string `yaml:"sqlite_path" env:"SQLITE_PATH"`
		Seed       bool   `yaml:"seed" env:"STORAGE_SEED"`
	} `yaml:"storage"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
		CookieSecure          bool   `yaml:"cookie_secure" env:"JWT_COOKIE_SECURE"`
	} `yaml:"jwt"`

	SMTP struct {
		Host     string `yaml:"host" env:"SMTP_HOST"`
		Port     int    `yaml:"port" env:"SMTP_PORT"`
		Username string `yaml:"username" env:"SMTP_USERNAME"`
		Password string `yaml:"password" env:"SMTP_PASSWORD"`
		From     string `yaml:"from" env:"SMTP_FROM"`
	} `yaml:"smtp"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from defaults, an optional YAML file, an optional
// .env file in the working directory and finally the process environment.
func LoadConfig(configPath string) (*Config, error) {
	return load(configPath, ".env")
}

func load(configPath, dotenvPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			file, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(file, config); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	// Variables already present in the environment win over the .env file.
	if dotenvPath != "" {
		if err := godotenv.Load(dotenvPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", dotenvPath, err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	config.App.Env = strings.ToLower(strings.TrimSpace(config.App.Env))
	config.Storage.Driver = strings.ToLower(strings.TrimSpace(config.Storage.Driver))

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Shared workbook tabs where new material and opportunity rows are entered.
const (
	DefaultAddMaterialURL    = "https://docs.google.com/spreadsheets/d/1-bH05NhyJ1WFOcrmX0BtVVuvd4wWX4jx8VB-AYrOdQY/edit?gid=935728683#gid=935728683"
	DefaultAddOpportunityURL = "https://docs.google.com/spreadsheets/d/1-bH05NhyJ1WFOcrmX0BtVVuvd4wWX4jx8VB-AYrOdQY/edit?gid=998865460#gid=998865460"
)

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.App.SiteName = "UniVerse"
	config.App.Env = EnvDevelopment
	config.App.SecretKey = DefaultSecret
	config.App.AddMaterialURL = DefaultAddMaterialURL
	config.App.AddOpportunityURL = DefaultAddOpportunityURL

	config.Server.Port = "8080"

	config.Google.CredentialsFile = "credentials.json"
	config.Google.RetryAttempts = 3
	config.Google.RetryDelay = "500ms"

	config.Worksheets.Courses = "Courses"
	config.Worksheets.Materials = "Materials"
	config.Worksheets.Opportunities = "Opportunities"
	config.Worksheets.Jobs = "Jobs"
	config.Worksheets.Events = "Events"
	config.Worksheets.Timetable = "Timetable"
	config.Worksheets.Users = "Users"
	config.Worksheets.Comments = "Comments"

	config.Storage.Driver = DriverSheets
	config.Storage.SQLitePath = "universe.db"
	config.Storage.Seed = true

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "universe"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "universe"

	config.SMTP.Port = 587

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.App.Env {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return fmt.Errorf("unknown environment %q", config.App.Env)
	}

	if config.App.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required")
	}
	if config.IsProduction() && config.App.SecretKey == DefaultSecret {
		return fmt.Errorf("SECRET_KEY must be changed in production")
	}

	switch config.Storage.Driver {
	case DriverSheets, DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if config.Storage.Driver == DriverPostgres && config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Storage.Driver == DriverSQLite && config.Storage.SQLitePath == "" {
		return fmt.Errorf("SQLITE_PATH is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}
	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime format: %w", err)
	}
	if _, err := time.ParseDuration(config.Google.RetryDelay); err != nil {
		return fmt.Errorf("invalid retry delay format: %w", err)
	}

	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.App.Env == EnvProduction
}

// AccessTokenTTL returns the parsed session lifetime.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// RetryDelay returns the parsed base delay between spreadsheet retries.
func (c *Config) RetryDelay() time.Duration {
	d, _ := time.ParseDuration(c.Google.RetryDelay)
	return d
}

// ConnMaxLifetime returns the parsed pool connection lifetime.
func (c *Config) ConnMaxLifetime() time.Duration {
	d, _ := time.ParseDuration(c.Database.ConnMaxLifetime)
	return d
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
