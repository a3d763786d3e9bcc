package env

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNamesFallBackToConfig(t *testing.T) {
	t.Setenv("ENV_NAME", "")
	t.Setenv("APP_NAME", "")
	viper.Set("env_name", "staging")
	viper.Set("app_name", "api")
	defer viper.Reset()

	assert.Equal(t, "staging", EnvName())
	assert.Equal(t, "api", AppName())

	t.Setenv("APP_NAME", "listings")
	assert.Equal(t, "listings", AppName())
}
