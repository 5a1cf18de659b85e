package config

import (
	"errors"
	"fmt"
	"levguard/pkg/types"
	"levguard/pkg/utils"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSymbol          = "BTC/USDT"
	DefaultSpotAsset       = "BTC"
	DefaultTargetLeverage  = 1.5
	DefaultActionThreshold = 10.0 // in quote currency (USDT)
	DefaultFeeBuffer       = 0.01
	DefaultPollInterval    = 60 * time.Second
	DefaultCacheTTL        = 20 * time.Second
	DefaultEnvPrefix       = "BINANCE_READ"
	DefaultAppName         = "levguard"
	DefaultS3Region        = "ap-southeast-1"
	DefaultAwsEnvPrefix    = "AWS"
	DefaultDiscordEnvKey   = "DISCORD_WEBHOOK_URL"
)

type Config struct {
	Server        *ServerConfig       `yaml:"server"`
	Exchange      *ExchangeConfig     `yaml:"exchange"`
	Monitor       *MonitorConfig      `yaml:"monitor"`
	Notifications *NotificationConfig `yaml:"notifications"`
	Persistence   *PersistenceConfig  `yaml:"persistence"`
}

type ServerConfig struct {
	AppName string `yaml:"appName"`
	Host    string `yaml:"host"`
}

type ExchangeConfig struct {
	ExchangeName types.ExchangeName `yaml:"exchange"`
	EnvPrefix    string             `yaml:"envPrefix"`
	PriceSource  types.PriceSource  `yaml:"priceSource"`
	Testnet      *bool              `yaml:"testnet"` // optional, defaults to true outside prod
	Dummy        *DummyConfig       `yaml:"dummy"`
}

// DummyConfig is the fixed account state served by the dummy exchange.
type DummyConfig struct {
	MarginBalance float64 `yaml:"marginBalance"`
	PositionQty   float64 `yaml:"positionQty"`
	EntryPrice    float64 `yaml:"entryPrice"`
	Price         float64 `yaml:"price"`
	SpotBalance   float64 `yaml:"spotBalance"`
	NoPosition    bool    `yaml:"noPosition"`
}

type MonitorConfig struct {
	Symbol          string        `yaml:"symbol"`
	SpotAsset       string        `yaml:"spotAsset"`
	TargetLeverage  float64       `yaml:"targetLeverage"`
	ActionThreshold *float64      `yaml:"actionThreshold"` // 0 is a valid threshold, nil means default
	FeeBuffer       *float64      `yaml:"feeBuffer"`
	PollInterval    time.Duration `yaml:"pollInterval"`
	CacheTTL        time.Duration `yaml:"cacheTTL"`
	PollEnabled     *bool         `yaml:"pollEnabled"`
}

type NotificationConfig struct {
	Discord *DiscordConfig `yaml:"discord"`
}

type DiscordConfig struct {
	EnvKey   string `yaml:"envKey"` // env var holding the webhook url
	Username string `yaml:"username"`
}

type PersistenceConfig struct {
	S3 *S3Config `yaml:"s3"`
}

type S3Config struct {
	Enabled   bool   `yaml:"enabled"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	EnvPrefix string `yaml:"envPrefix"`
}

func LoadConfig(envName types.EnvName) (*Config, error) {
	yamlFiles := map[types.EnvName]string{
		types.EnvLocal: "levguard.yaml",
		types.EnvDev:   "levguard.dev.yaml",
		types.EnvProd:  "levguard.prod.yaml",
	}
	fileName := utils.LoadEnvWithDefault("LEVGUARD_CONFIG", yamlFiles[envName])
	return Load(fileName, envName)
}

// Load reads the yaml file at path; a missing file yields the defaults.
func Load(path string, envName types.EnvName) (*Config, error) {
	var config Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warnf("config file '%s' not found, using defaults", path)
	case err != nil:
		return nil, fmt.Errorf("fail to load config file '%s': %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("fail to decode config file '%s': %w", path, err)
		}
	}

	config.applyDefaults(envName)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Default returns a config with every field at its default value.
func Default(envName types.EnvName) *Config {
	var config Config
	config.applyDefaults(envName)
	return &config
}

func (c *Config) applyDefaults(envName types.EnvName) {
	if c.Server == nil {
		c.Server = &ServerConfig{}
	}
	if c.Server.AppName == "" {
		c.Server.AppName = DefaultAppName
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}

	if c.Exchange == nil {
		c.Exchange = &ExchangeConfig{}
	}
	if c.Exchange.ExchangeName == "" {
		c.Exchange.ExchangeName = types.ExchangeBnf
	}
	if c.Exchange.EnvPrefix == "" {
		c.Exchange.EnvPrefix = DefaultEnvPrefix
	}
	if c.Exchange.PriceSource == "" {
		c.Exchange.PriceSource = types.PriceSourceLast
	}
	if c.Exchange.Testnet == nil {
		testnet := envName != types.EnvProd
		c.Exchange.Testnet = &testnet
	}
	if c.Exchange.Dummy == nil {
		c.Exchange.Dummy = &DummyConfig{}
	}

	if c.Monitor == nil {
		c.Monitor = &MonitorConfig{}
	}
	m := c.Monitor
	if m.Symbol == "" {
		m.Symbol = DefaultSymbol
	}
	if m.SpotAsset == "" {
		m.SpotAsset = DefaultSpotAsset
	}
	if m.TargetLeverage == 0 {
		m.TargetLeverage = DefaultTargetLeverage
	}
	if m.ActionThreshold == nil {
		threshold := DefaultActionThreshold
		m.ActionThreshold = &threshold
	}
	if m.FeeBuffer == nil {
		feeBuffer := DefaultFeeBuffer
		m.FeeBuffer = &feeBuffer
	}
	if m.PollInterval == 0 {
		m.PollInterval = DefaultPollInterval
	}
	if m.CacheTTL == 0 {
		m.CacheTTL = DefaultCacheTTL
	}
	if m.PollEnabled == nil {
		enabled := true
		m.PollEnabled = &enabled
	}

	if c.Notifications == nil {
		c.Notifications = &NotificationConfig{}
	}
	if c.Notifications.Discord == nil {
		c.Notifications.Discord = &DiscordConfig{}
	}
	if c.Notifications.Discord.EnvKey == "" {
		c.Notifications.Discord.EnvKey = DefaultDiscordEnvKey
	}
	if c.Notifications.Discord.Username == "" {
		c.Notifications.Discord.Username = c.Server.AppName
	}

	if c.Persistence == nil {
		c.Persistence = &PersistenceConfig{}
	}
	if c.Persistence.S3 == nil {
		c.Persistence.S3 = &S3Config{}
	}
	if c.Persistence.S3.Region == "" {
		c.Persistence.S3.Region = DefaultS3Region
	}
	if c.Persistence.S3.EnvPrefix == "" {
		c.Persistence.S3.EnvPrefix = DefaultAwsEnvPrefix
	}
}

func (c *Config) Validate() error {
	switch c.Exchange.ExchangeName {
	case types.ExchangeBnf, types.ExchangeDummy:
	default:
		return fmt.Errorf("unsupported exchange: %v", c.Exchange.ExchangeName)
	}
	switch c.Exchange.PriceSource {
	case types.PriceSourceLast, types.PriceSourceMark:
	default:
		return fmt.Errorf("unsupported price source: %v", c.Exchange.PriceSource)
	}

	m := c.Monitor
	if m.TargetLeverage <= 0 {
		return fmt.Errorf("target leverage must be positive: %v", m.TargetLeverage)
	}
	if *m.ActionThreshold < 0 {
		return fmt.Errorf("action threshold must not be negative: %v", *m.ActionThreshold)
	}
	if *m.FeeBuffer < 0 {
		return fmt.Errorf("fee buffer must not be negative: %v", *m.FeeBuffer)
	}
	if m.PollInterval < 0 || m.CacheTTL < 0 {
		return fmt.Errorf("poll interval and cache ttl must be positive: %v, %v", m.PollInterval, m.CacheTTL)
	}

	if s3 := c.Persistence.S3; s3.Enabled && s3.Bucket == "" {
		return errors.New("s3 persistence enabled without a bucket")
	}
	return nil
}
