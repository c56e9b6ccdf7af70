package dotenv_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weather-api/pkg/dotenv"
	"weather-api/pkg/resource"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func unsetAfter(t *testing.T, keys ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, key := range keys {
			_ = os.Unsetenv(key)
		}
	})
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, dotenv.Load(filepath.Join(t.TempDir(), ".env")))
}

func TestLoad_KeepsExistingVariables(t *testing.T) {
	t.Setenv("DOTENV_TEST_REGION", "eu-west-1")
	unsetAfter(t, "DOTENV_TEST_QUEUE")
	path := writeFile(t, ".env", "DOTENV_TEST_REGION=us-east-1\nDOTENV_TEST_QUEUE=refresh\n")

	require.NoError(t, dotenv.Load(path))

	assert.Equal(t, "eu-west-1", os.Getenv("DOTENV_TEST_REGION"))
	assert.Equal(t, "refresh", os.Getenv("DOTENV_TEST_QUEUE"))
}

func TestLoad_VariablesResolveInProperties(t *testing.T) {
	unsetAfter(t, "DOTENV_TEST_API_KEY")
	envPath := writeFile(t, ".env", "DOTENV_TEST_API_KEY=from-dotenv\n")
	propsPath := writeFile(t, "application.yml", "app:\n  weather:\n    api-key: ${DOTENV_TEST_API_KEY:}\n")

	require.NoError(t, dotenv.Load(envPath))
	require.NoError(t, resource.Init(propsPath))

	assert.Equal(t, "from-dotenv", resource.GetString("app.weather.api-key"))
}
