// Package config loads host configuration from file and environment.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// StoreConfig is the configuration surface for one registered store, keyed by
// its uri scheme.
type StoreConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Prefix        string `mapstructure:"prefix"`
	Key           string `mapstructure:"key"`
	Secret        string `mapstructure:"secret"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	CNAME         string `mapstructure:"cname"`
	CNAMEIsBucket *bool  `mapstructure:"cname_is_bucket"` // unset means true
	Public        bool   `mapstructure:"public"`
	Protocol      string `mapstructure:"protocol"`
	PathStyle     bool   `mapstructure:"path_style"`
	RoleARN       string `mapstructure:"role_arn"`
}

// Config is the full host configuration.
type Config struct {
	Server struct {
		Addr           string   `mapstructure:"addr"`
		MetricsAddr    string   `mapstructure:"metrics_addr"`
		JWTSecret      string   `mapstructure:"jwt_secret"`
		AllowAnonymous bool     `mapstructure:"allow_anonymous"`
		CORSOrigins    []string `mapstructure:"cors_origins"`
		LogLevel       string   `mapstructure:"log_level"`
	} `mapstructure:"server"`
	Database struct {
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
	} `mapstructure:"database"`
	Stores map[string]StoreConfig `mapstructure:"stores"`
}

// Load reads configuration from s3vfs.yaml (working directory or /etc/s3vfs)
// and the S3VFS_* environment, environment winning.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("s3vfs")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/s3vfs")

	v.SetEnvPrefix("S3VFS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.metrics_addr", ":9091")
	v.SetDefault("server.allow_anonymous", false)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "s3vfs.db")

	if err := v.ReadInConfig(); err != nil {
		// config file is optional; env and defaults may be enough
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
