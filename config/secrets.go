package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// ExchangeCredentials are read from <envPrefix>_API_KEY / <envPrefix>_API_SECRET,
// falling back to <envPrefix>_KEY / <envPrefix>_SECRET. No envconfig tags:
// a tag would also make envconfig read the bare, unprefixed variable.
type ExchangeCredentials struct {
	ApiKey    string `split_words:"true"`
	ApiSecret string `split_words:"true"`
	Key       string
	Secret    string
}

func (c ExchangeCredentials) Pair() (key string, secret string) {
	key, secret = c.ApiKey, c.ApiSecret
	if key == "" {
		key = c.Key
	}
	if secret == "" {
		secret = c.Secret
	}
	return key, secret
}

// AwsCredentials are read from <envPrefix>_ACCESS_KEY / <envPrefix>_SECRET_KEY.
type AwsCredentials struct {
	AccessKey string `split_words:"true"`
	SecretKey string `split_words:"true"`
}

type ServerEnv struct {
	Port int `envconfig:"PORT" default:"10000"`
}

func LoadExchangeCredentials(envPrefix string) (string, string, error) {
	var creds ExchangeCredentials
	if err := envconfig.Process(envPrefix, &creds); err != nil {
		return "", "", fmt.Errorf("fail to process exchange credentials: %w", err)
	}
	key, secret := creds.Pair()
	if key == "" || secret == "" {
		return "", "", fmt.Errorf("API key or secret is not set: prefix %v", envPrefix)
	}
	return key, secret, nil
}

func LoadAwsCredentials(envPrefix string) (*AwsCredentials, error) {
	var creds AwsCredentials
	if err := envconfig.Process(envPrefix, &creds); err != nil {
		return nil, fmt.Errorf("fail to process aws credentials: %w", err)
	}
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return nil, fmt.Errorf("%[1]v_ACCESS_KEY and %[1]v_SECRET_KEY must be set", envPrefix)
	}
	return &creds, nil
}

func LoadServerEnv() (*ServerEnv, error) {
	var env ServerEnv
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("fail to process server env: %w", err)
	}
	return &env, nil
}
