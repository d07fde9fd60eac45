package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

const testConfig = `
process:
  name: dolphin-emu-nogui
watch:
  interval: 500ms
  read_size: 2048
  suppression: 30s
  print_all: true
generation:
  base_url: http://localhost:8080/v1
  api_key: ${DOLPHINTALK_TEST_KEY:-fallback-key}
  model: test-model
  timeout: 90s
gossip:
  enabled: true
  state_path: /tmp/gossip.bin
  topic: The lighthouse keeper has not been seen in days.
villagers:
  path: villagers.json
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "dolphintalk.yaml")
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	settings, err := Load(writeConfig(t, testConfig))
	assert.NoError(t, err)

	assert.Equal(t, "dolphin-emu-nogui", settings.Process.Name)
	assert.Equal(t, 500*time.Millisecond, settings.Watch.Interval.Duration)
	assert.Equal(t, 2048, settings.Watch.ReadSize)
	assert.Equal(t, 30*time.Second, settings.Watch.Suppression.Duration)
	assert.True(t, settings.Watch.PrintAll)
	assert.Equal(t, "http://localhost:8080/v1", settings.Generation.BaseURL)
	assert.Equal(t, "fallback-key", settings.Generation.APIKey)
	assert.Equal(t, "test-model", settings.Generation.Model)
	assert.True(t, settings.Gossip.Enabled)
	assert.Equal(t, "The lighthouse keeper has not been seen in days.", settings.Gossip.Topic)
	assert.Equal(t, "villagers.json", settings.Villagers.Path)
}

func TestLoadEnvExpansion(t *testing.T) {
	t.Setenv("DOLPHINTALK_TEST_KEY", "from-env")

	settings, err := Load(writeConfig(t, testConfig))
	assert.NoError(t, err)
	assert.Equal(t, "from-env", settings.Generation.APIKey)
}

func TestLoadKeepsDefaults(t *testing.T) {
	settings, err := Load(writeConfig(t, "watch:\n  print_all: true\n"))
	assert.NoError(t, err)

	// unset values keep their defaults
	assert.Equal(t, defaultProcessName, settings.Process.Name)
	assert.Equal(t, "gpt-4o-mini", settings.Generation.Model)
	assert.True(t, settings.Watch.PrintAll)
}

func TestDefaultProcessName(t *testing.T) {
	t.Parallel()

	// the emulator binary is dolphin-emu on Linux and Dolphin elsewhere
	name := Default().Process.Name
	if runtime.GOOS == "linux" {
		assert.Equal(t, "dolphin-emu", name)
	} else {
		assert.Equal(t, "Dolphin", name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "watch:\n  interval: soon\n"))
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, CreateLogger(false, false))
	assert.NotNil(t, CreateLogger(true, false))
	assert.NotNil(t, CreateLogger(false, true))
}
