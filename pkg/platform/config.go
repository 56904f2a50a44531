package platform

import (
	"os"
	"strconv"
)

// Environment variable names read by the CLI and API.
const (
	EnvLogLevel    = "PCBUILD_LOG_LEVEL"
	EnvPolicyFile  = "PCBUILD_POLICY"
	EnvDatabaseURL = "PCBUILD_DATABASE_URL"
	EnvPort        = "PCBUILD_PORT"
	EnvAPIKey      = "PCBUILD_API_KEY"
)

func GetEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func GetEnvInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
