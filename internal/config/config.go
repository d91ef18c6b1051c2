// Package config loads the service configuration from file, environment and
// defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/ayberkarici/fucom/internal/fucom"
	"github.com/ayberkarici/fucom/internal/storage"
)

const envPrefix = "FUCOM"

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Survey  SurveyConfig  `mapstructure:"survey"`
	Storage StorageConfig `mapstructure:"storage"`
	Drive   DriveConfig   `mapstructure:"drive"`
	Records RecordsConfig `mapstructure:"records"`
	Tracing TracingConfig `mapstructure:"tracing"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	WebDir            string        `mapstructure:"web_dir"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type SurveyConfig struct {
	CatalogFile      string        `mapstructure:"catalog_file"`
	StrictValidation bool          `mapstructure:"strict_validation"`
	AppendTimestamp  bool          `mapstructure:"append_timestamp"`
	RegeneratePolicy string        `mapstructure:"regenerate_policy"`
	SessionTTL       time.Duration `mapstructure:"session_ttl"`
}

type StorageConfig struct {
	// Backend is "drive" or "local".
	Backend       string        `mapstructure:"backend"`
	LocalDir      string        `mapstructure:"local_dir"`
	UploadTimeout time.Duration `mapstructure:"upload_timeout"`
}

type DriveConfig struct {
	ClientEmail     string `mapstructure:"client_email"`
	PrivateKey      string `mapstructure:"private_key"`
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`
}

type RecordsConfig struct {
	// Path of the sqlite database. Empty keeps records in memory.
	Path string `mapstructure:"path"`
}

type TracingConfig struct {
	// Endpoint is an OTLP/HTTP host:port. Empty disables export.
	Endpoint    string `mapstructure:"endpoint"`
	Insecure    bool   `mapstructure:"insecure"`
	ServiceName string `mapstructure:"service_name"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configPath, or fucom.yaml from the working directory and
// ~/.config/fucom when configPath is empty. Environment variables with the
// FUCOM_ prefix override file values; the Drive settings also accept
// GOOGLE_CLIENT_EMAIL, GOOGLE_PRIVATE_KEY, GOOGLE_APPLICATION_CREDENTIALS and
// DRIVE_FOLDER_ID.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("fucom")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "fucom"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.web_dir", "")
	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("survey.catalog_file", "")
	v.SetDefault("survey.strict_validation", false)
	v.SetDefault("survey.append_timestamp", false)
	v.SetDefault("survey.regenerate_policy", "preserve")
	v.SetDefault("survey.session_ttl", 24*time.Hour)

	v.SetDefault("storage.backend", "drive")
	v.SetDefault("storage.local_dir", "./submissions")
	v.SetDefault("storage.upload_timeout", 60*time.Second)

	v.SetDefault("drive.client_email", "")
	v.SetDefault("drive.private_key", "")
	v.SetDefault("drive.credentials_file", "")
	v.SetDefault("drive.folder_id", "")

	v.SetDefault("records.path", "")

	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.service_name", "fucom")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// bindLegacyEnv accepts the variable names existing deployments already set.
// The prefixed names take precedence.
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("drive.client_email", "FUCOM_DRIVE_CLIENT_EMAIL", "GOOGLE_CLIENT_EMAIL")
	_ = v.BindEnv("drive.private_key", "FUCOM_DRIVE_PRIVATE_KEY", "GOOGLE_PRIVATE_KEY")
	_ = v.BindEnv("drive.credentials_file", "FUCOM_DRIVE_CREDENTIALS_FILE", "GOOGLE_APPLICATION_CREDENTIALS")
	_ = v.BindEnv("drive.folder_id", "FUCOM_DRIVE_FOLDER_ID", "DRIVE_FOLDER_ID")
}

func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if _, err := fucom.ParseRegeneratePolicy(c.Survey.RegeneratePolicy); err != nil {
		return fmt.Errorf("survey.regenerate_policy: %w", err)
	}
	if c.Survey.SessionTTL < 0 {
		return fmt.Errorf("survey.session_ttl must not be negative")
	}

	switch c.Storage.Backend {
	case "drive":
		if err := c.DriveSettings().Validate(); err != nil {
			return fmt.Errorf("drive: %w", err)
		}
	case "local":
		if c.Storage.LocalDir == "" {
			return fmt.Errorf("storage.local_dir is required for the local backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of: drive, local")
	}
	if c.Storage.UploadTimeout <= 0 {
		return fmt.Errorf("storage.upload_timeout must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: console, json")
	}
	return nil
}

// DriveSettings returns the Drive uploader configuration with the private key
// escapes expanded.
func (c *Config) DriveSettings() storage.DriveConfig {
	return storage.DriveConfig{
		ClientEmail:     strings.TrimSpace(c.Drive.ClientEmail),
		PrivateKey:      storage.NormalizePrivateKey(c.Drive.PrivateKey),
		CredentialsFile: c.Drive.CredentialsFile,
		FolderID:        strings.TrimSpace(c.Drive.FolderID),
	}
}

func (c *Config) RegeneratePolicy() fucom.RegeneratePolicy {
	p, _ := fucom.ParseRegeneratePolicy(c.Survey.RegeneratePolicy)
	return p
}

func (c *Config) GetLogLevel() zerolog.Level {
	switch c.Logging.Level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func (c *Config) IsJSONFormat() bool {
	return c.Logging.Format == "json"
}
