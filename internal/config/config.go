package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Attendance AttendanceConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT verification configuration. Tokens are issued by
// the external auth service with the same secret.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// SMTPConfig holds outgoing mail configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
}

// AttendanceConfig holds attendance processing settings
type AttendanceConfig struct {
	// GraceSeconds is the tolerance before a clock-in counts as late or
	// a clock-out counts as leaving early
	GraceSeconds int
	// MinOvertimeSeconds is the shortest overtime stretch shown on the
	// pending approval list
	MinOvertimeSeconds int
	// StaleOpenHours is how long an attendance may stay open before the
	// sweep job force-closes it at the scheduled end time
	StaleOpenHours int
}

func Load() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, reading from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:      getEnv("SMTP_HOST", ""),
		Port:      smtpPort,
		Username:  getEnv("SMTP_USERNAME", ""),
		Password:  getEnv("SMTP_PASSWORD", ""),
		FromEmail: getEnv("SMTP_FROM_EMAIL", ""),
		FromName:  getEnv("SMTP_FROM_NAME", "Attendance"),
	}

	// Attendance configuration
	graceSeconds, err := strconv.Atoi(getEnv("ATTENDANCE_GRACE_SECONDS", "300"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_GRACE_SECONDS: %w", err)
	}

	minOvertime, err := strconv.Atoi(getEnv("ATTENDANCE_MIN_OVERTIME_SECONDS", "1800"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_MIN_OVERTIME_SECONDS: %w", err)
	}

	staleOpenHours, err := strconv.Atoi(getEnv("ATTENDANCE_STALE_OPEN_HOURS", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_STALE_OPEN_HOURS: %w", err)
	}

	config.Attendance = AttendanceConfig{
		GraceSeconds:       graceSeconds,
		MinOvertimeSeconds: minOvertime,
		StaleOpenHours:     staleOpenHours,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Attendance.GraceSeconds < 0 {
		return fmt.Errorf("ATTENDANCE_GRACE_SECONDS must not be negative")
	}
	if c.Attendance.MinOvertimeSeconds < 0 {
		return fmt.Errorf("ATTENDANCE_MIN_OVERTIME_SECONDS must not be negative")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
