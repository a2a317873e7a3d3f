package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sampleConfig = `
env = "local"

[Database]
host = "localhost"
port = "3306"
database = "ticketx"
user = "root"
password = "file-password"

[ApiServer]
host = "0.0.0.0"
port = "8080"

[Sale]
ticket_price = "20000000000000000"
duration = "168h"
max_supply = 100
operator_address = "0x00000000000000000000000000000000000000bb"

[Authorization]
domain_name = "TicketSale"
domain_version = "1"
chain_id = 1337
issuer_address = "0x00000000000000000000000000000000000000cc"
`

func Test_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o600))

	t.Setenv("DB_PASSWORD", "env-password")
	t.Setenv("TOKEN_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "local", cfg.Env)
	require.Equal(t, "20000000000000000", cfg.Sale.TicketPrice)
	require.Equal(t, 7*24*time.Hour, cfg.Sale.Duration.Duration)
	require.Equal(t, int64(100), cfg.Sale.MaxSupply)
	require.Equal(t, "TicketSale", cfg.Authorization.DomainName)
	require.Equal(t, int64(1337), cfg.Authorization.ChainID)

	// Environment overrides beat the file, and defaults fill the gaps.
	require.Equal(t, "env-password", cfg.Database.Password)
	require.Equal(t, "env-secret", cfg.Auth.TokenSecret)
	require.Equal(t, int64(10), cfg.Sale.FeePercent)
	require.Equal(t, "access_token", cfg.Auth.AccessToken.Name)

	require.Equal(t,
		"root:env-password@tcp(localhost:3306)/ticketx?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.ConnectionString())
}
