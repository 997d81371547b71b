package config

import (
	"strings"
	"testing"
)

func validConfig() *AppConfig {
	return &AppConfig{
		App:     AppSettings{Name: "secrets", Env: "development"},
		Mongo:   MongoSettings{URI: "mongodb://localhost:27017", Database: "userDB"},
		Session: SessionSettings{Secret: "session-signing-secret"},
		Auth:    AuthSettings{Strategy: "bcrypt", BcryptCost: 10},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{
			name:   "valid bcrypt config",
			mutate: func(*AppConfig) {},
		},
		{
			name:    "missing session secret",
			mutate:  func(c *AppConfig) { c.Session.Secret = "   " },
			wantErr: "session.secret",
		},
		{
			name: "cipher strategy without key",
			mutate: func(c *AppConfig) {
				c.Auth.Strategy = "aes-gcm"
			},
			wantErr: "cipher_key",
		},
		{
			name: "cipher strategy with short key",
			mutate: func(c *AppConfig) {
				c.Auth.Strategy = "aes-gcm"
				c.Auth.CipherKey = "too-short"
			},
			wantErr: "32 bytes",
		},
		{
			name: "cipher strategy with full key",
			mutate: func(c *AppConfig) {
				c.Auth.Strategy = "aes-gcm"
				c.Auth.CipherKey = strings.Repeat("k", 32)
			},
		},
		{
			name: "partial google config",
			mutate: func(c *AppConfig) {
				c.Google.ClientID = "client-id"
			},
			wantErr: "google.client_secret",
		},
		{
			name: "full google config",
			mutate: func(c *AppConfig) {
				c.Google.ClientID = "client-id"
				c.Google.ClientSecret = "client-secret"
				c.Google.CallbackURL = "http://localhost:3000/auth/google/callback"
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestGoogleEnabled(t *testing.T) {
	var g GoogleSettings
	if g.Enabled() {
		t.Fatal("zero settings must not enable federated login")
	}

	g.ClientID = "client-id"
	if !g.Enabled() {
		t.Fatal("any supplied value must mark federated login as configured")
	}
}
