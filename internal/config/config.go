package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel int    `env:"LOG_LEVEL" envDefault:"0"`
	AppName  string `env:"APP_NAME" envDefault:"Portal de Investigación UACH"`
	HTTP     HTTP   `envPrefix:"HTTP_"`
	JWT      JWT    `envPrefix:"JWT_"`
	Data     Data   `envPrefix:"DATA_"`
	Users    Users  `envPrefix:"USERS_"`
	SMTP     SMTP   `envPrefix:"SMTP_"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string   `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool     `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string   `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string   `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
	AllowedOrigins     []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://127.0.0.1:3000"`
}

// JWT contains token issuance parameters. The secret is supplied by the
// environment and never baked into code.
type JWT struct {
	Secret string        `env:"SECRET" envDefault:"devsecret"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
	Issuer string        `env:"ISSUER" envDefault:"https://tmeduca.org/investigacion"`
}

// Data contains the flat-file store locations.
type Data struct {
	UsersDir    string `env:"USERS_DIR" envDefault:"data/users"`
	ProfilesDir string `env:"PROFILES_DIR" envDefault:"data/profiles"`
	RequestsDir string `env:"REQUESTS_DIR" envDefault:"data/account-requests"`
}

// Users contains user-provisioning parameters.
type Users struct {
	DefaultPassword string `env:"DEFAULT_PASSWORD" envDefault:"etmp2026"`
	SeedDefaults    bool   `env:"SEED_DEFAULTS" envDefault:"false"`
}

// SMTP contains notification mail parameters. An empty host disables
// outgoing mail; notifications are then only logged.
type SMTP struct {
	Host        string `env:"HOST"`
	Port        string `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	AdminEmail  string `env:"ADMIN_EMAIL" envDefault:"admin@tudominio.com"`
	SystemEmail string `env:"SYSTEM_EMAIL" envDefault:"sistema@tudominio.com"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
