package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database      DatabaseConfigs
	ApiServer     ServerConfigs
	Auth          AuthConfigs
	Kafka         KafkaConfigs
	Eth           EthConfigs
	Sale          SaleConfigs
	Authorization AuthorizationConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string
}

// Duration decodes "168h"-style strings from the toml file.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

type AuthConfigs struct {
	TokenSecret string
	AccessToken TokenConfigs
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type KafkaConfigs struct {
	Addr string
}

type EthConfigs struct {
	RPC string `toml:"rpc"`
}

// SaleConfigs fixes the sale parameters of a lottery event at creation
// time. TicketPrice is the reference price in the smallest native unit.
type SaleConfigs struct {
	TicketPrice     string   `toml:"ticket_price"`
	Duration        Duration `toml:"duration"`
	MaxSupply       int64    `toml:"max_supply"`
	FeePercent      int64    `toml:"fee_percent"`
	OperatorAddress string   `toml:"operator_address"`
}

// AuthorizationConfigs describe the typed-data domain of purchase
// authorizations and the issuer whose signature is trusted.
type AuthorizationConfigs struct {
	DomainName        string `toml:"domain_name"`
	DomainVersion     string `toml:"domain_version"`
	ChainID           int64  `toml:"chain_id"`
	VerifyingContract string `toml:"verifying_contract"`
	IssuerAddress     string `toml:"issuer_address"`
}
