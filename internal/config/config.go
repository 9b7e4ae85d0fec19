package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/zahwaarafaalia/ujicoba-seeddms-01/internal/application/participant"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// WorkflowConfig holds the document workflow settings
type WorkflowConfig struct {
	// Mode selects the traditional review-then-approval workflow or the
	// approval-only variant.
	Mode string `mapstructure:"mode"`

	// AllowReviewerOnly permits versions that have reviewers but no
	// approvers.
	AllowReviewerOnly bool `mapstructure:"allow_reviewer_only"`

	// RevisionOneVoteReject rejects a version as soon as a single revisor
	// votes against it instead of waiting for all votes.
	RevisionOneVoteReject bool `mapstructure:"revision_one_vote_reject"`

	// VoteLogLimit caps the number of entries returned by the log endpoints.
	VoteLogLimit int `mapstructure:"vote_log_limit"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/documents.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Workflow defaults
	viper.SetDefault("workflow.mode", string(participant.ModeTraditional))
	viper.SetDefault("workflow.allow_reviewer_only", true)
	viper.SetDefault("workflow.revision_one_vote_reject", false)
	viper.SetDefault("workflow.vote_log_limit", 50)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	viper.BindEnv("database.path", "DATABASE_PATH")
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("workflow.mode", "WORKFLOW_MODE")
	viper.BindEnv("workflow.revision_one_vote_reject", "WORKFLOW_ONE_VOTE_REJECT")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	mode := participant.WorkflowMode(c.Workflow.Mode)
	if mode != participant.ModeTraditional && mode != participant.ModeTraditionalOnlyApproval {
		return fmt.Errorf("workflow.mode must be %q or %q",
			participant.ModeTraditional, participant.ModeTraditionalOnlyApproval)
	}

	if c.Workflow.VoteLogLimit <= 0 {
		return fmt.Errorf("workflow.vote_log_limit must be positive")
	}

	return nil
}

// WorkflowMode returns the configured mode as its typed value.
func (c *Config) WorkflowMode() participant.WorkflowMode {
	return participant.WorkflowMode(c.Workflow.Mode)
}
