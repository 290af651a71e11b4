package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.LogLevel)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, false, cfg.HTTP.EnableHTTPS)
	assert.Equal(t, "cert.pem", cfg.HTTP.CertFileName)
	assert.Equal(t, "key.pem", cfg.HTTP.PrivateKeyFileName)
	assert.Equal(t, "devsecret", cfg.JWT.Secret)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "https://tmeduca.org/investigacion", cfg.JWT.Issuer)
	assert.Equal(t, "data/users", cfg.Data.UsersDir)
	assert.Equal(t, "data/profiles", cfg.Data.ProfilesDir)
	assert.Equal(t, "data/account-requests", cfg.Data.RequestsDir)
	assert.Equal(t, "etmp2026", cfg.Users.DefaultPassword)
	assert.Equal(t, false, cfg.Users.SeedDefaults)
	assert.Equal(t, "587", cfg.SMTP.Port)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name: "log level override",
			envVars: map[string]string{
				"LOG_LEVEL": "2",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, 2, cfg.LogLevel)
			},
		},
		{
			name: "http config override",
			envVars: map[string]string{
				"HTTP_PORT":                  "9090",
				"HTTP_ENABLE_HTTPS":          "true",
				"HTTP_CERT_FILE_NAME":        "custom.pem",
				"HTTP_PRIVATE_KEY_FILE_NAME": "custom-key.pem",
				"HTTP_ALLOWED_ORIGINS":       "https://tmeduca.org",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "9090", cfg.HTTP.Port)
				assert.Equal(t, true, cfg.HTTP.EnableHTTPS)
				assert.Equal(t, "custom.pem", cfg.HTTP.CertFileName)
				assert.Equal(t, "custom-key.pem", cfg.HTTP.PrivateKeyFileName)
				assert.Equal(t, []string{"https://tmeduca.org"}, cfg.HTTP.AllowedOrigins)
			},
		},
		{
			name: "jwt config override",
			envVars: map[string]string{
				"JWT_SECRET": "customsecret",
				"JWT_TTL":    "1h",
				"JWT_ISSUER": "https://example.org",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "customsecret", cfg.JWT.Secret)
				assert.Equal(t, time.Hour, cfg.JWT.TTL)
				assert.Equal(t, "https://example.org", cfg.JWT.Issuer)
			},
		},
		{
			name: "data dirs override",
			envVars: map[string]string{
				"DATA_USERS_DIR":    "/var/lib/portal/users",
				"DATA_PROFILES_DIR": "/var/lib/portal/profiles",
				"DATA_REQUESTS_DIR": "/var/lib/portal/requests",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "/var/lib/portal/users", cfg.Data.UsersDir)
				assert.Equal(t, "/var/lib/portal/profiles", cfg.Data.ProfilesDir)
				assert.Equal(t, "/var/lib/portal/requests", cfg.Data.RequestsDir)
			},
		},
		{
			name: "smtp config override",
			envVars: map[string]string{
				"SMTP_HOST":         "smtp.example.org",
				"SMTP_PORT":         "2525",
				"SMTP_ADMIN_EMAIL":  "admin@uach.cl",
				"SMTP_SYSTEM_EMAIL": "noreply@uach.cl",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "smtp.example.org", cfg.SMTP.Host)
				assert.Equal(t, "2525", cfg.SMTP.Port)
				assert.Equal(t, "admin@uach.cl", cfg.SMTP.AdminEmail)
				assert.Equal(t, "noreply@uach.cl", cfg.SMTP.SystemEmail)
			},
		},
		{
			name: "users config override",
			envVars: map[string]string{
				"USERS_DEFAULT_PASSWORD": "temporal1",
				"USERS_SEED_DEFAULTS":    "true",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, "temporal1", cfg.Users.DefaultPassword)
				assert.Equal(t, true, cfg.Users.SeedDefaults)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.envVars {
				os.Setenv(key, value)
				defer os.Unsetenv(key)
			}

			cfg, err := NewConfig()
			require.NoError(t, err)

			tt.expected(cfg)
		})
	}
}
