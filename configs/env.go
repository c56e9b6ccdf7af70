package configs

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvConfig holds the process-level settings read from the environment
type EnvConfig struct {
	ApplicationName string
	ContextPath     string
	Port            string
}

var Env *EnvConfig

func init() {
	env := viper.New()
	env.AutomaticEnv()
	env.SetDefault("APPLICATION_NAME", "weather-api")
	env.SetDefault("CONTEXT_PATH", "/weather-api")
	env.SetDefault("PORT", "8080")

	Env = loadEnv(env)
}

func loadEnv(env *viper.Viper) *EnvConfig {
	return &EnvConfig{
		ApplicationName: env.GetString("APPLICATION_NAME"),
		ContextPath:     normalizeContextPath(env.GetString("CONTEXT_PATH")),
		Port:            env.GetString("PORT"),
	}
}

// normalizeContextPath returns "" for the root, otherwise the path with one leading and no
// trailing slash
func normalizeContextPath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	return "/" + path
}
