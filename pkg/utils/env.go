package utils

import (
	"os"
)

func LoadEnvWithDefault(key string, fallback string) string {
	value, valid := os.LookupEnv(key)
	if !valid || value == "" {
		return fallback
	}
	return value
}
