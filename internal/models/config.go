package models

import "time"

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Analytics AnalyticsConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedFile        string
}

// ServerConfig holds HTTP transport settings
type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

// AnalyticsConfig holds tunables for derived analytics. The recurring-issue
// threshold has no documented derivation, so it stays configurable rather
// than hard-coded.
type AnalyticsConfig struct {
	RecurringIssueThreshold float64 `yaml:"recurring_issue_threshold"`
	TopCustomersLimit       int     `yaml:"top_customers_limit"`
}
