package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "sfa-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "sfa", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, 5*time.Minute, cfg.Report.CacheTTL)
		assert.Equal(t, 366, cfg.Report.MaxPeriodDays)
		assert.Equal(t, 30*time.Second, cfg.Bulk.LockTTL)
		assert.Equal(t, 1000, cfg.Bulk.MaxSelection)
		assert.Equal(t, "sfa-backend", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with SFA prefix", func(t *testing.T) {
		t.Setenv("SFA_APP_PORT", "9000")
		t.Setenv("SFA_DATABASE_HOST", "testdb.local")
		t.Setenv("SFA_DATABASE_PORT", "5433")
		t.Setenv("SFA_REDIS_ENABLED", "true")
		t.Setenv("SFA_REPORT_TIMEZONE", "Asia/Manila")
		t.Setenv("SFA_BULK_MAX_SELECTION", "250")
		t.Setenv("SFA_REPORT_MAX_PERIOD_DAYS", "731")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.True(t, cfg.Redis.Enabled)
		assert.Equal(t, "Asia/Manila", cfg.Report.Location().String())
		assert.Equal(t, 250, cfg.Bulk.MaxSelection)
		assert.Equal(t, 731, cfg.Report.MaxPeriodDays)
	})

	t.Run("rejects production without secrets", func(t *testing.T) {
		t.Setenv("SFA_APP_ENV", "production")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("rejects invalid timezone", func(t *testing.T) {
		t.Setenv("SFA_REPORT_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("requires bucket when storage is enabled", func(t *testing.T) {
		t.Setenv("SFA_STORAGE_ENABLED", "true")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "idle exceeds open",
			mutate:  func(c *Config) { c.Database.MaxIdleConns = 100 },
			wantErr: "cannot exceed",
		},
		{
			name:    "sampling ratio out of range",
			mutate:  func(c *Config) { c.Telemetry.SamplingRatio = 2 },
			wantErr: "sampling_ratio",
		},
		{
			name:    "required jwt without secret",
			mutate:  func(c *Config) { c.JWT.Required = true },
			wantErr: "jwt.secret",
		},
		{
			name:    "report period limit too large",
			mutate:  func(c *Config) { c.Report.MaxPeriodDays = 100000 },
			wantErr: "report.max_period_days",
		},
		{
			name:    "negative report period limit",
			mutate:  func(c *Config) { c.Report.MaxPeriodDays = -1 },
			wantErr: "report.max_period_days",
		},
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss#1", DBName: "sfa", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%231@db:5432/sfa?sslmode=disable", d.DSN())
}

func TestReportConfig_Location(t *testing.T) {
	assert.Equal(t, time.UTC, ReportConfig{Timezone: "nowhere"}.Location())
}
