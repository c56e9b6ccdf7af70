package resource

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"weather-api/pkg/log"
)

var (
	mu         sync.RWMutex
	props      = viper.New()
	envPattern = regexp.MustCompile(`\$\{([^:}]+)(?::([^}]*))?}`)
)

// init loads application properties from YAML. A missing file leaves the store empty so
// packages depending on it stay usable in tests; callers fall back to their defaults.
func init() {
	value, ok := os.LookupEnv("PROPERTIES_FILE_PATH")
	if !ok {
		value = "configs/application.yml"
	}
	if err := Init(value); err != nil {
		log.Warn("properties not loaded", zap.String("path", value), zap.Error(err))
	}
}

// Init (re)loads the properties file at filepath, replacing any previously loaded values.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("fail to read properties: %w", err)
	}

	resolved := make(map[string]any)
	parsePropertiesMap("", v.AllSettings(), resolved)

	next := viper.New()
	for key, value := range resolved {
		next.Set(key, value)
	}

	mu.Lock()
	props = next
	mu.Unlock()
	return nil
}

// Set overrides a single property. Intended for bootstrap overrides and tests.
func Set(key string, value any) {
	mu.Lock()
	defer mu.Unlock()
	props.Set(key, value)
}

// parsePropertiesMap reads recursively the YAML file
func parsePropertiesMap(prefix string, data map[string]any, result map[string]any) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			if resolved, ok := resolveEnvVariable(v); ok {
				result[fullKey] = resolved
			}
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, bool:
			result[fullKey] = v
		case []any:
			result[fullKey] = v
		case map[string]any:
			parsePropertiesMap(fullKey, v, result)
		default:
			log.Debugf("Ignoring key '%s' with unsupported type.", fullKey)
		}
	}
}

// resolveEnvVariable expands every ${ENV:default} placeholder found in value.
// It reports false when a placeholder has neither an env value nor a default.
func resolveEnvVariable(value string) (string, bool) {
	if !envPattern.MatchString(value) {
		return value, true
	}

	missing := false
	out := envPattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := envPattern.FindStringSubmatch(match)
		if env, exists := os.LookupEnv(groups[1]); exists {
			return env
		}
		if len(groups) > 2 && groups[2] != "" {
			return groups[2]
		}
		missing = true
		return ""
	})
	if missing && strings.TrimSpace(out) == "" {
		return "", false
	}
	return out, true
}

func store() *viper.Viper {
	mu.RLock()
	defer mu.RUnlock()
	return props
}

func IsSet(key string) bool {
	return store().IsSet(key)
}

func Get(key string) any {
	return store().Get(key)
}

func GetString(key string) string {
	return store().GetString(key)
}

// GetStringOrDefault returns the property or def when it is unset or blank.
func GetStringOrDefault(key, def string) string {
	if value := strings.TrimSpace(GetString(key)); value != "" {
		return value
	}
	return def
}

func GetBool(key string) bool {
	return store().GetBool(key)
}

func GetDuration(key string) time.Duration {
	return store().GetDuration(key)
}

// GetDurationOrDefault returns the property or def when it is unset or not positive.
func GetDurationOrDefault(key string, def time.Duration) time.Duration {
	if !IsSet(key) {
		return def
	}
	if value := GetDuration(key); value > 0 {
		return value
	}
	return def
}

func GetInt(key string) int {
	return store().GetInt(key)
}

// GetIntOrDefault returns the property or def when it is unset.
func GetIntOrDefault(key string, def int) int {
	if !IsSet(key) {
		return def
	}
	return GetInt(key)
}

func GetInt64(key string) int64 {
	return store().GetInt64(key)
}

func GetFloat64(key string) float64 {
	return store().GetFloat64(key)
}

func GetStringSlice(key string) []string {
	return store().GetStringSlice(key)
}
