package env

import (
	"os"

	"github.com/spf13/viper"
)

// PodName example: marketapi-api-6868d88fbd-bz8zv
func PodName() string {
	return os.Getenv("PODNAME")
}

// EnvName falls back to the env_name config key when ENV_NAME is unset
func EnvName() string {
	if v := os.Getenv("ENV_NAME"); v != "" {
		return v
	}
	return viper.GetString("env_name")
}

// AppName falls back to the app_name config key when APP_NAME is unset
func AppName() string {
	if v := os.Getenv("APP_NAME"); v != "" {
		return v
	}
	return viper.GetString("app_name")
}
