package configuration

import (
	"time"
)

type Config struct {
	Service      ServiceConfig      `yaml:"service"`
	Database     DatabaseConfig     `yaml:"database"`
	Redis        RedisConfig        `yaml:"redis"`
	Telegram     TelegramConfig     `yaml:"telegram"`
	Statistics   StatisticsConfig   `yaml:"statistics"`
	Wikidata     WikidataConfig     `yaml:"wikidata"`
	Broadcast    BroadcastConfig    `yaml:"broadcast"`
	Network      NetworkConfig      `yaml:"network"`
	Throttler    ThrottlerConfig    `yaml:"throttler"`
	Features     FeaturesConfig     `yaml:"features"`
	Localization LocalizationConfig `yaml:"localization"`
}

type ServiceConfig struct {
	StartupPort int `yaml:"startup_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"time_zone"`
}

type RedisConfig struct {
	Host        string        `yaml:"host"`
	Port        int           `yaml:"port"`
	Password    string        `yaml:"password"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
}

type TelegramConfig struct {
	BotToken          string   `yaml:"bot_token"`
	APIEndpoint       string   `yaml:"api_endpoint"`
	PollerTimeout     int      `yaml:"poller_timeout"`
	AllowedUpdates    []string `yaml:"allowed_updates"`
	DiplomatChunkSize int      `yaml:"diplomat_chunk_size"`
	InlineResultLimit int      `yaml:"inline_result_limit"`
}

type StatisticsConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	DefaultDays    int    `yaml:"default_days"`
}

type WikidataConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	WorldMapURL string        `yaml:"world_map_url"`
	UserAgent   string        `yaml:"user_agent"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

type BroadcastConfig struct {
	Time      string        `yaml:"time"`
	TimeZone  string        `yaml:"time_zone"`
	SendDelay time.Duration `yaml:"send_delay"`
}

type NetworkConfig struct {
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ProxyAddress   string `yaml:"proxy_address"`
	ProxyUser      string `yaml:"proxy_user"`
	ProxyPass      string `yaml:"proxy_pass"`
}

type ThrottlerConfig struct {
	Limit time.Duration `yaml:"limit"`
}

type FeaturesConfig struct {
	UnleashAPIURL     string `yaml:"unleash_api_url"`
	UnleashAppName    string `yaml:"unleash_app_name"`
	UnleashInstanceID string `yaml:"unleash_instance_id"`
	RefreshInterval   int    `yaml:"refresh_interval"`
}

type LocalizationConfig struct {
	DefaultLanguage    string   `yaml:"default_language"`
	SupportedLanguages []string `yaml:"supported_languages"`
}
