package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpd/internal/structures"
)

const testYAML = `
webServer:
  host: 0.0.0.0
  port: 9090
logger:
  level: debug
  dir: /tmp
collaborator:
  baseURL: http://api.local:8000
  timeout: 3s
storage:
  driver: file
  filePath: /tmp/cpd.dat
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_ReadsYAML(t *testing.T) {
	path := writeConfig(t, testYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, AppName, conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, 9090, conf.WebServer.Port)
	assert.Equal(t, "http://api.local:8000", conf.Collaborator.BaseURL)
	assert.Equal(t, 3*time.Second, conf.Collaborator.Timeout)
	assert.Equal(t, "/api/leetcode/stats", conf.Collaborator.Endpoints["leetcode"])
	assert.Equal(t, "/api/gfg/stats", conf.Collaborator.Endpoints["gfg"])
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, testYAML)
	t.Setenv("CPD_API_URL", "http://override:1234")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://override:1234", conf.Collaborator.BaseURL)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yml"})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
webServer:
  host: ""
  port: 0
logger:
  level: loud
  dir: /tmp
`)
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestNewConfigProvider_MissingEnvFileIsIgnored(t *testing.T) {
	path := writeConfig(t, testYAML)
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, EnvFile: "/nonexistent/.env"})
	assert.NoError(t, err)
}
