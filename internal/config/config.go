// Package config reads the service configuration from the environment.
package config

import "time"

const (
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

type Config struct {
	App     AppConfig     `env-prefix:"APP_"`
	HTTP    HTTPConfig    `env-prefix:"HTTP_"`
	Store   StoreConfig
	Auth    AuthConfig
	Secrets SecretsConfig `env-prefix:"SECRET_"`
	DevMode bool          `env:"DEV_MODE" env-default:"false"`
}

type AppConfig struct {
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	Pretty   bool   `env:"PRETTY" env-default:"false"`
}

type HTTPConfig struct {
	Addr            string        `env:"ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type StoreConfig struct {
	Backend  string `env:"STORE_BACKEND" env-default:"dynamodb"`
	Table    string `env:"NOTES_TABLE" env-default:"Notes"`
	KMSKeyID string `env:"NOTES_KMS_KEY_ID"`
}

type AuthConfig struct {
	JWTSecretParam string `env:"JWT_SECRET_PARAM"`
}

type SecretsConfig struct {
	Attempts uint          `env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `env:"RETRY_DELAY" env-default:"200ms"`
}
