package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App     AppSettings     `mapstructure:"app"`
	Mongo   MongoSettings   `mapstructure:"mongo"`
	Session SessionSettings `mapstructure:"session"`
	Auth    AuthSettings    `mapstructure:"auth"`
	Google  GoogleSettings  `mapstructure:"google"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type MongoSettings struct {
	URI            string        `mapstructure:"uri"`
	Database       string        `mapstructure:"database"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// SessionSettings configures the signed session cookie layer.
type SessionSettings struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
}

// AuthSettings selects the credential strategy and its parameters.
type AuthSettings struct {
	Strategy   string `mapstructure:"strategy"`
	CipherKey  string `mapstructure:"cipher_key"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

// GoogleSettings configures the federated login routes. The routes are only
// mounted when all three values are present.
type GoogleSettings struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	CallbackURL  string `mapstructure:"callback_url"`
}

// Enabled reports whether any federated configuration was supplied.
func (g GoogleSettings) Enabled() bool {
	return g.ClientID != "" || g.ClientSecret != "" || g.CallbackURL != ""
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("SECRETS")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"mongo.uri",
		"mongo.database",
		"mongo.connect_timeout",
		"session.secret",
		"session.ttl",
		"auth.strategy",
		"auth.cipher_key",
		"auth.bcrypt_cost",
		"google.client_id",
		"google.client_secret",
		"google.callback_url",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate fails fast on missing required secrets. Degrading to a default
// signing secret or cipher key would silently weaken every credential in the
// store, so startup aborts instead.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Session.Secret) == "" {
		return fmt.Errorf("config: session.secret is required")
	}

	if c.Auth.Strategy == "aes-gcm" {
		if c.Auth.CipherKey == "" {
			return fmt.Errorf("config: auth.cipher_key is required for the aes-gcm strategy")
		}
		if len(c.Auth.CipherKey) != 32 {
			return fmt.Errorf("config: auth.cipher_key must be exactly 32 bytes, got %d", len(c.Auth.CipherKey))
		}
	}

	if c.Google.Enabled() {
		if c.Google.ClientID == "" {
			return fmt.Errorf("config: google.client_id is required when federated login is configured")
		}
		if c.Google.ClientSecret == "" {
			return fmt.Errorf("config: google.client_secret is required when federated login is configured")
		}
		if c.Google.CallbackURL == "" {
			return fmt.Errorf("config: google.callback_url is required when federated login is configured")
		}
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "secrets")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 3000)

	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "userDB")
	v.SetDefault("mongo.connect_timeout", "10s")

	v.SetDefault("session.ttl", "24h")

	v.SetDefault("auth.strategy", "bcrypt")
	v.SetDefault("auth.bcrypt_cost", 10)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "SECRETS_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
