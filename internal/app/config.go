package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/volcano-status-backend/internal/db"
	"github.com/yungbote/volcano-status-backend/internal/pkg/logger"
	"github.com/yungbote/volcano-status-backend/internal/utils"
)

type Config struct {
	Port             string
	RequestTimeout   time.Duration
	CORSAllowOrigins []string
	MetricsEnabled   bool
	Database         db.Config
}

// fileConfig mirrors the optional YAML config file. Environment variables
// override whatever the file sets.
type fileConfig struct {
	Server struct {
		Port                  string   `yaml:"port"`
		RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
		CORSAllowOrigins      []string `yaml:"cors_allow_origins"`
	} `yaml:"server"`
	Database struct {
		Host        string `yaml:"host"`
		Port        string `yaml:"port"`
		User        string `yaml:"user"`
		Password    string `yaml:"password"`
		Name        string `yaml:"name"`
		SSLMode     string `yaml:"sslmode"`
		PoolSize    int    `yaml:"pool_size"`
		MaxOverflow int    `yaml:"max_overflow"`
	} `yaml:"database"`
	Metrics struct {
		Enabled *bool `yaml:"enabled"`
	} `yaml:"metrics"`
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:           "8080",
		RequestTimeout: 10 * time.Second,
		MetricsEnabled: true,
		Database: db.Config{
			Host:        "localhost",
			Port:        "5432",
			User:        "postgres",
			Password:    "",
			Name:        "volcano",
			SSLMode:     "disable",
			PoolSize:    5,
			MaxOverflow: 10,
		},
	}

	if path := strings.TrimSpace(os.Getenv("CONFIG_PATH")); path != "" {
		fc, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		applyFileConfig(&cfg, fc)
		log.Info("Loaded config file", "path", path)
	}

	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	timeoutSeconds := utils.GetEnvAsInt("REQUEST_TIMEOUT_SECONDS", int(cfg.RequestTimeout/time.Second), log)
	cfg.RequestTimeout = time.Duration(timeoutSeconds) * time.Second

	cfg.Database.Host = utils.GetEnv("POSTGRES_HOST", cfg.Database.Host, log)
	cfg.Database.Port = utils.GetEnv("POSTGRES_PORT", cfg.Database.Port, log)
	cfg.Database.User = utils.GetEnv("POSTGRES_USER", cfg.Database.User, log)
	cfg.Database.Password = utils.GetEnv("POSTGRES_PASSWORD", cfg.Database.Password, log)
	cfg.Database.Name = utils.GetEnv("POSTGRES_NAME", cfg.Database.Name, log)
	cfg.Database.SSLMode = utils.GetEnv("POSTGRES_SSLMODE", cfg.Database.SSLMode, log)
	cfg.Database.PoolSize = utils.GetEnvAsInt("POSTGRES_POOL_SIZE", cfg.Database.PoolSize, log)
	cfg.Database.MaxOverflow = utils.GetEnvAsInt("POSTGRES_MAX_OVERFLOW", cfg.Database.MaxOverflow, log)

	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOW_ORIGINS")); origins != "" {
		cfg.CORSAllowOrigins = splitAndTrim(origins)
	}
	if v := strings.TrimSpace(strings.ToLower(os.Getenv("METRICS_ENABLED"))); v != "" {
		cfg.MetricsEnabled = v != "0" && v != "false" && v != "off"
	}

	return cfg, nil
}

func loadConfigFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &fc, nil
}

func applyFileConfig(cfg *Config, fc *fileConfig) {
	if fc.Server.Port != "" {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(fc.Server.RequestTimeoutSeconds) * time.Second
	}
	if len(fc.Server.CORSAllowOrigins) > 0 {
		cfg.CORSAllowOrigins = fc.Server.CORSAllowOrigins
	}
	if fc.Database.Host != "" {
		cfg.Database.Host = fc.Database.Host
	}
	if fc.Database.Port != "" {
		cfg.Database.Port = fc.Database.Port
	}
	if fc.Database.User != "" {
		cfg.Database.User = fc.Database.User
	}
	if fc.Database.Password != "" {
		cfg.Database.Password = fc.Database.Password
	}
	if fc.Database.Name != "" {
		cfg.Database.Name = fc.Database.Name
	}
	if fc.Database.SSLMode != "" {
		cfg.Database.SSLMode = fc.Database.SSLMode
	}
	if fc.Database.PoolSize > 0 {
		cfg.Database.PoolSize = fc.Database.PoolSize
	}
	if fc.Database.MaxOverflow > 0 {
		cfg.Database.MaxOverflow = fc.Database.MaxOverflow
	}
	if fc.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *fc.Metrics.Enabled
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
