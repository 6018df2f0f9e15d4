package config

import (
	"time"

	"github.com/kotechile/trend-analisys-sub006/pkg/api"
	"github.com/kotechile/trend-analisys-sub006/pkg/cache"
)

type Config struct {
	Server     ServerConfig         `mapstructure:"server"`
	Provider   api.ClientConfig     `mapstructure:"provider"`
	Resilience api.ResilienceConfig `mapstructure:"resilience"`
	Cache      cache.Config         `mapstructure:"cache"`
	Research   ResearchConfig       `mapstructure:"research"`
	Logger     LoggerConfig         `mapstructure:"logger"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// ResearchConfig bounds the research services' cache write-back policy.
type ResearchConfig struct {
	KeywordTTL time.Duration `mapstructure:"keyword_ttl"`
	TrendTTL   time.Duration `mapstructure:"trend_ttl"`
}

// KeywordCacheTTL returns the keyword write-back TTL, falling back to the
// cache-wide default when the research section leaves it unset.
func (c *Config) KeywordCacheTTL() time.Duration {
	if c.Research.KeywordTTL > 0 {
		return c.Research.KeywordTTL
	}
	return c.Cache.DefaultTTL
}

// TrendCacheTTL returns the trend write-back TTL, falling back to the
// cache-wide default when the research section leaves it unset.
func (c *Config) TrendCacheTTL() time.Duration {
	if c.Research.TrendTTL > 0 {
		return c.Research.TrendTTL
	}
	return c.Cache.DefaultTTL
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	TimeFormat string `mapstructure:"time_format"`
}

type Manager interface {
	Load(configPath string) (*Config, error)
	Reload() error
	GetConfig() *Config
}
