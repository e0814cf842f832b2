package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	apiURLEnvVar      = "NISMART_API_URL"
	sessionFileEnvVar = "NISMART_SESSION_FILE"
	redisAddrEnvVar   = "NISMART_REDIS_ADDR"
	timeoutEnvVar     = "NISMART_TIMEOUT"
	appNameVar        = "APP_NAME"
)

type EnvVars struct{}

var _ Config = mainConfig{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Nismart")
}

// GetAPIBaseURL returns the base URL of the banking API, including the /api
// prefix all endpoints hang off.
func (EnvVars) GetAPIBaseURL() string {
	return GetEnv(apiURLEnvVar, "http://localhost:8000/api")
}

// GetSessionFile returns the path of the on-disk session file. Defaults to
// ~/.nismart/session.json.
func (EnvVars) GetSessionFile() string {
	if path := os.Getenv(sessionFileEnvVar); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".nismart-session.json"
	}
	return filepath.Join(home, ".nismart", "session.json")
}

// GetRedisAddr returns the Redis address for a shared session store. Empty
// means the file store is used instead.
func (EnvVars) GetRedisAddr() string {
	return GetEnv(redisAddrEnvVar, "")
}

func (EnvVars) GetRequestTimeout() time.Duration {
	raw := GetEnv(timeoutEnvVar, "30s")
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
