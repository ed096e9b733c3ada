package config

import (
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/form-service/internal/auth"
)

const (
	AuthProviderLocal   = "local"
	AuthProviderCasdoor = "casdoor"
)

// AuthConfig selects who issues bearer tokens
type AuthConfig struct {
	Provider string // local or casdoor

	CasdoorEndpoint     string
	CasdoorClientID     string
	CasdoorClientSecret string
	CasdoorCertificate  string
	CasdoorOrganization string
	CasdoorApplication  string
}

func (c *AuthConfig) Validate() error {
	switch c.Provider {
	case AuthProviderLocal:
		return nil
	case AuthProviderCasdoor:
		if c.CasdoorEndpoint == "" || c.CasdoorCertificate == "" {
			return fmt.Errorf("casdoor auth requires CASDOOR_ENDPOINT and CASDOOR_CERTIFICATE")
		}
		return nil
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Provider)
	}
}

// CreateTokenServices returns the verifier for protected routes and, for the
// local provider, the issuer used by register and login. The issuer is nil
// when tokens come from Casdoor.
func (c *Config) CreateTokenServices(logger *slog.Logger) (auth.TokenVerifier, auth.TokenIssuer) {
	if c.Auth.Provider == AuthProviderCasdoor {
		logger.Info("Using Casdoor token verification", "endpoint", c.Auth.CasdoorEndpoint)
		return auth.NewCasdoorVerifier(auth.CasdoorConfig{
			Endpoint:         c.Auth.CasdoorEndpoint,
			ClientID:         c.Auth.CasdoorClientID,
			ClientSecret:     c.Auth.CasdoorClientSecret,
			Certificate:      c.Auth.CasdoorCertificate,
			OrganizationName: c.Auth.CasdoorOrganization,
			ApplicationName:  c.Auth.CasdoorApplication,
		}), nil
	}

	logger.Info("Using local JWT authentication", "ttl", c.JWTTTL)
	manager := auth.NewJWTManager(c.JWTSecret, c.JWTTTL)
	return manager, manager
}
