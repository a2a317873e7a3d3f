package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Load reads the configuration file and fills unset fields with defaults.
// Secrets (database password, token secret) may be overridden by env vars
// so they never land in the file.
func Load(path string) (Configs, error) {
	var cfg Configs
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return Configs{}, fmt.Errorf("cannot decode config file: %w", err)
			}
		}
	}

	overrideString(&cfg.Env, "ENV")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideString(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.Database, "DB_DATABASE")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.ApiServer.Port, "PORT")
	overrideString(&cfg.Auth.TokenSecret, "TOKEN_SECRET")
	overrideString(&cfg.Kafka.Addr, "KAFKA_ADDR")
	overrideString(&cfg.Eth.RPC, "ETH_RPC")

	if cfg.Sale.FeePercent == 0 {
		cfg.Sale.FeePercent = 10
	}

	if cfg.Sale.Duration.Duration == 0 {
		cfg.Sale.Duration.Duration = 7 * 24 * time.Hour
	}

	if cfg.Auth.AccessToken.Expiration == 0 {
		cfg.Auth.AccessToken.Expiration = 24 * time.Hour
	}

	if cfg.Auth.AccessToken.Name == "" {
		cfg.Auth.AccessToken.Name = "access_token"
	}

	return cfg, nil
}

func overrideString(field *string, env string) {
	if v, ok := os.LookupEnv(env); ok {
		*field = v
	}
}
