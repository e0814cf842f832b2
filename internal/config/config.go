package config

import "time"

type Config interface {
	GetAppName() string
	GetAPIBaseURL() string
	GetSessionFile() string
	GetRedisAddr() string
	GetRequestTimeout() time.Duration
	GetEnv() string
}

type mainConfig struct {
	EnvVars
}

func New() Config {
	return mainConfig{}
}
