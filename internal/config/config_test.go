package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(databaseDSNEnv, "")
	t.Setenv(logLevelEnv, "")
	t.Setenv(httpAddrEnv, "")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.CacheTTL)
	require.Len(t, cfg.Agencies, 4)
	assert.Equal(t, "CRISIL", cfg.Agencies[0].Name)
	assert.True(t, cfg.Agencies[2].Disabled)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	yamlDoc := `
logging:
  level: debug
scheduler:
  interval: 5m
  timezone: Asia/Kolkata
http:
  timeout: 3s
agencies:
  - name: CARE
    scanner: rss
    url: https://care.example/rss
    limit: 10
`
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(databaseDSNEnv, ":memory:")
	t.Setenv(logLevelEnv, "")
	t.Setenv(httpAddrEnv, "127.0.0.1:9090")

	cfg := Load()
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":memory:", cfg.Database.DSN)
	assert.Equal(t, "127.0.0.1:9090", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.Interval)
	assert.Equal(t, 15*time.Minute, cfg.Scheduler.CacheTTL)
	assert.Equal(t, 3*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.Retries)
	require.Len(t, cfg.Agencies, 1)
	assert.Equal(t, 10, cfg.Agencies[0].Limit)
}

func TestLoadBadFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("agencies: [oops"), 0o600))
	t.Setenv(configPathEnv, path)

	cfg := Load()
	assert.Len(t, cfg.Agencies, 4)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		agency  []AgencyConfig
		wantErr string
	}{
		{name: "missing name", agency: []AgencyConfig{{Scanner: "rss", URL: "u"}}, wantErr: "agency #0: name is required"},
		{name: "missing url", agency: []AgencyConfig{{Name: "CARE", Scanner: "rss"}}, wantErr: "agency CARE: url is required"},
		{name: "duplicate", agency: []AgencyConfig{
			{Name: "CARE", Scanner: "rss", URL: "u"},
			{Name: "CARE", Scanner: "rss", URL: "v"},
		}, wantErr: "agency CARE: duplicate name"},
		{name: "ok", agency: []AgencyConfig{{Name: "CARE", Scanner: "rss", URL: "u"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := Config{Agencies: tt.agency}.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}
