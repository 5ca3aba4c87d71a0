package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	opts, err := Load(nil, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "localhost:8080", opts.Port)
	assert.Equal(t, "data", opts.DataDir)
	assert.Equal(t, "file", opts.Storage)
	assert.Equal(t, "Info", opts.LogLevel)
	assert.Equal(t, 12*time.Hour, opts.SessionTTL)
	assert.Empty(t, opts.DatabaseDSN)
}

func TestLoad_Flags(t *testing.T) {
	t.Chdir(t.TempDir())

	opts, err := Load([]string{
		"-a", ":9090", "-data", "/tmp/board", "-storage", "sqlite",
		"-log-level", "Debug", "-session-ttl", "30m",
	}, env(nil))
	require.NoError(t, err)
	assert.Equal(t, ":9090", opts.Port)
	assert.Equal(t, "/tmp/board", opts.DataDir)
	assert.Equal(t, "sqlite", opts.Storage)
	assert.Equal(t, "Debug", opts.LogLevel)
	assert.Equal(t, 30*time.Minute, opts.SessionTTL)
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, "board.json", `{
		"server_address": ":7000",
		"storage": "postgres",
		"database_dsn": "postgres://localhost/board",
		"session_ttl": "1h"
	}`)

	opts, err := Load([]string{"-c", path}, env(nil))
	require.NoError(t, err)
	assert.Equal(t, ":7000", opts.Port)
	assert.Equal(t, "postgres", opts.Storage)
	assert.Equal(t, "postgres://localhost/board", opts.DatabaseDSN)
	assert.Equal(t, time.Hour, opts.SessionTTL)
	assert.Equal(t, "data", opts.DataDir, "unset keys keep defaults")
}

func TestLoad_YAMLFile(t *testing.T) {
	path := writeFile(t, "board.yaml", "storage: sqlite\ndata_dir: /var/lib/board\nlog_level: Warn\n")

	opts, err := Load(nil, env(map[string]string{"CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", opts.Storage)
	assert.Equal(t, "/var/lib/board", opts.DataDir)
	assert.Equal(t, "Warn", opts.LogLevel)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, "board.json", `{"server_address": ":1111", "data_dir": "from-file"}`)

	opts, err := Load([]string{"-c", path, "-a", ":2222", "-data", "from-flag"},
		env(map[string]string{"SERVER_ADDRESS": ":3333"}))
	require.NoError(t, err)
	assert.Equal(t, ":3333", opts.Port, "environment wins")
	assert.Equal(t, "from-flag", opts.DataDir, "flags beat the file")
}

func TestLoad_Errors(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "unknown storage", args: []string{"-storage", "s3"}},
		{name: "postgres without dsn", env: map[string]string{"STORAGE": "postgres"}},
		{name: "missing explicit config", args: []string{"-c", "/nonexistent/board.json"}},
		{name: "bad flag", args: []string{"-nope"}},
		{name: "zero ttl", args: []string{"-session-ttl", "0s"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args, env(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, "board.json", `{"storage":`)
	_, err := Load([]string{"-c", path}, env(nil))
	assert.Error(t, err)

	path = writeFile(t, "board.yml", "session_ttl: forever\n")
	_, err = Load([]string{"-c", path}, env(nil))
	assert.Error(t, err)
}
