package auth

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig is the gateway configuration resolved from the environment.
// Every key has a documented fallback-or-fail behavior: a missing DSN pins
// the store to the fallback tier, a missing signing key makes login fail with
// a server configuration error, and a missing admin key disables the admin
// surface entirely.
type EnvConfig struct {
	Port        string `env:"PORT" envDefault:"5000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Debug       bool   `env:"DEBUG"`

	Mode        Mode   `env:"AUTH_MODE" envDefault:"open"`
	DatabaseDSN string `env:"DATABASE_DSN"`
	SigningKey  string `env:"JWT_SECRET"`
	AdminKey    string `env:"ADMIN_KEY"`
	Issuer      string `env:"TOKEN_ISSUER" envDefault:"holord-auth"`

	OpenTokenTTL       time.Duration `env:"TOKEN_TTL_OPEN" envDefault:"168h"`
	InvitationTokenTTL time.Duration `env:"TOKEN_TTL_INVITATION" envDefault:"720h"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	UploadsDir     string   `env:"UPLOADS_DIR" envDefault:"./uploads"`
	FrontendDir    string   `env:"FRONTEND_DIR" envDefault:"../frontend"`
}

// LoadConfig parses the process environment.
func LoadConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.Mode != ModeInvitationOnly {
		cfg.Mode = ModeOpenSignup
	}

	return cfg, nil
}

func (c *EnvConfig) GetMode() Mode {
	return c.Mode
}

func (c *EnvConfig) GetSigningKey() string {
	return c.SigningKey
}

func (c *EnvConfig) GetAdminKey() string {
	return c.AdminKey
}

// GetTokenTTL is mode dependent: 7 days for open signup, 30 for invitation.
func (c *EnvConfig) GetTokenTTL() time.Duration {
	if c.Mode == ModeInvitationOnly {
		return c.InvitationTokenTTL
	}
	return c.OpenTokenTTL
}

var _ Config = (*EnvConfig)(nil)
