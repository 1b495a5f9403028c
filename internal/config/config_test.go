package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "skipdemo.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Redis(t *testing.T) {
	path := writeConfig(t, `
version: "1.0"
tracker:
  backend: redis
  redis:
    addr: redis:6380
    ttl: 30s
pipeline:
  workers: 8
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Tracker.Backend)
	assert.Equal(t, "redis:6380", cfg.Tracker.Redis.Addr)
	assert.Equal(t, defaultRedisPrefix, cfg.Tracker.Redis.Prefix)
	assert.Equal(t, 30*time.Second, cfg.Tracker.Redis.TTL)
	assert.Equal(t, 8, cfg.Pipeline.Workers)
	assert.Equal(t, "json", cfg.Log.Format)

	level, err := cfg.Log.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `version: "1.0"`))
	require.NoError(t, err)

	assert.Equal(t, BackendMemory, cfg.Tracker.Backend)
	assert.Nil(t, cfg.Tracker.Redis)
	assert.Equal(t, defaultWorkers, cfg.Pipeline.Workers)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	assert.Equal(t, cfg, Default())
}

func TestLoad_RedisDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
version: "1.0"
tracker:
  backend: redis
`))
	require.NoError(t, err)
	require.NotNil(t, cfg.Tracker.Redis)
	assert.Equal(t, defaultRedisAddr, cfg.Tracker.Redis.Addr)
	assert.Equal(t, time.Duration(0), cfg.Tracker.Redis.TTL)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]struct {
		content string
		want    string
	}{
		"version": {
			content: `version: "2.0"`,
			want:    "unsupported version",
		},
		"backend": {
			content: "version: \"1.0\"\ntracker:\n  backend: etcd\n",
			want:    "invalid tracker.backend",
		},
		"workers": {
			content: "version: \"1.0\"\npipeline:\n  workers: -1\n",
			want:    "pipeline.workers must be >= 1",
		},
		"ttl": {
			content: "version: \"1.0\"\ntracker:\n  backend: redis\n  redis:\n    ttl: -1s\n",
			want:    "tracker.redis.ttl must be >= 0",
		},
		"log level": {
			content: "version: \"1.0\"\nlog:\n  level: loud\n",
			want:    "invalid log.level",
		},
		"log format": {
			content: "version: \"1.0\"\nlog:\n  format: xml\n",
			want:    "invalid log.format",
		},
		"yaml": {
			content: "version: [",
			want:    "failed to parse YAML",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}
