package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every bound variable; viper treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range envBindings {
		t.Setenv(env, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, "./uploads", cfg.Storage.UploadDir)
	assert.Equal(t, int64(100*1024*1024), cfg.Storage.MaxUploadSize)
	assert.Equal(t, MailAuto, cfg.Mail.Provider)
	assert.Equal(t, 587, cfg.Mail.SMTPPort)
	assert.Equal(t, 12*time.Hour, cfg.Admin.TokenTTL)
	assert.Empty(t, cfg.Admin.Password)
	assert.Len(t, cfg.Admin.TokenSecret, 64, "a random secret is generated when none is configured")
	assert.True(t, cfg.Throttle.Enabled)
	assert.Equal(t, 5, cfg.Throttle.Limit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_RandomSecretDiffersPerLoad(t *testing.T) {
	clearEnv(t)

	a, err := Load("")
	require.NoError(t, err)
	b, err := Load("")
	require.NoError(t, err)

	assert.NotEqual(t, a.Admin.TokenSecret, b.Admin.TokenSecret)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_UPLOAD_SIZE", "2048")
	t.Setenv("EMAIL_USER", "owner@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_TOKEN_SECRET", "fixed")
	t.Setenv("ADMIN_TOKEN_TTL", "45m")
	t.Setenv("THROTTLE_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, int64(2048), cfg.Storage.MaxUploadSize)
	assert.True(t, cfg.Mail.HasSMTPCredentials())
	assert.Equal(t, "hunter2", cfg.Admin.Password)
	assert.Equal(t, "fixed", cfg.Admin.TokenSecret)
	assert.Equal(t, 45*time.Minute, cfg.Admin.TokenTTL)
	assert.False(t, cfg.Throttle.Enabled)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "leadsite.yaml")
	content := `
server:
  port: "7070"
mail:
  provider: console
  subject_tag: Acme Homes
throttle:
  limit: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port)
	assert.Equal(t, MailConsole, cfg.Mail.Provider)
	assert.Equal(t, "Acme Homes", cfg.Mail.SubjectTag)
	assert.Equal(t, 3, cfg.Throttle.Limit)

	t.Run("env wins over file", func(t *testing.T) {
		t.Setenv("PORT", "6060")
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "6060", cfg.Server.Port)
	})
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			ShutdownTimeout: time.Second,
		},
		Storage: StorageConfig{
			Driver:        DriverJSON,
			UploadDir:     "./uploads",
			MaxUploadSize: 1024,
		},
		Mail:  MailConfig{Provider: MailAuto},
		Admin: AdminConfig{TokenTTL: time.Hour},
		Log:   LogConfig{Level: "info", Format: "json"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name: "postgres without host",
			mutate: func(c *Config) {
				c.Storage.Driver = DriverPostgres
				c.Database.Name = "leadsite"
			},
			wantErr: "DB_HOST",
		},
		{
			name: "postgres without name",
			mutate: func(c *Config) {
				c.Storage.Driver = DriverPostgres
				c.Database.Host = "db"
			},
			wantErr: "DB_NAME",
		},
		{
			name:    "ses without region",
			mutate:  func(c *Config) { c.Mail.Provider = MailSES },
			wantErr: "SES_REGION",
		},
		{
			name:    "smtp without host",
			mutate:  func(c *Config) { c.Mail.Provider = MailSMTP },
			wantErr: "SMTP_HOST",
		},
		{
			name: "throttle without limit",
			mutate: func(c *Config) {
				c.Throttle = ThrottleConfig{Enabled: true, Window: time.Minute}
			},
			wantErr: "throttle",
		},
		{
			name:   "disabled throttle ignores limit",
			mutate: func(c *Config) { c.Throttle = ThrottleConfig{Enabled: false} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMailConfig_Recipients(t *testing.T) {
	m := &MailConfig{To: " a@example.com, ,b@example.com"}
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, m.Recipients())

	m = &MailConfig{Username: "owner@example.com"}
	assert.Equal(t, []string{"owner@example.com"}, m.Recipients(), "falls back to the SMTP user")

	m = &MailConfig{}
	assert.Empty(t, m.Recipients())
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := &DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "leadsite", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=leadsite sslmode=disable", c.GetDSN())
}
