package config

import (
	"os"
)

const (
	appNameVar    = "APP_NAME"
	envVar        = "ENV"
	cookieFileVar = "AUTOPASS_COOKIE_FILE"
	portVar       = "PORT"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "AutoPass Console")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv(envVar)
	if env == "" {
		return "DEV"
	}
	return env
}

// GetCookieFile returns the path of the file-backed cookie jar. Empty means
// the jar lives in memory only and the session ends with the process.
func (EnvVars) GetCookieFile() string {
	return GetEnv(cookieFileVar, "")
}

// GetPort returns the listen address for server binaries.
func (EnvVars) GetPort() string {
	return GetEnv(portVar, ":8081")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
