package config

import "time"

type Config interface {
	EnvConfig
	APIConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetCookieFile() string
	GetPort() string
}

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
	GetVerboseHTTP() bool
	GetFailSoftLoaders() bool
	GetCoalescedRefresh() bool
}

type mainConfig struct {
	EnvVars
	API
}

func New() Config {
	return mainConfig{}
}
