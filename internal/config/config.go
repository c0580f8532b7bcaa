package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	Kafka    *KafkaConfig    `mapstructure:"kafka"`
	Services *ServicesConfig `mapstructure:"services"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	VerifyCacheTTL time.Duration `mapstructure:"verify_cache_ttl"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
}

// ServicesConfig holds the base addresses of the backend collaborators the
// gateway forwards to, plus the outbound timeouts it applies per target.
type ServicesConfig struct {
	AuthURL      string `mapstructure:"auth_url"`
	OrdersURL    string `mapstructure:"orders_url"`
	InventoryURL string `mapstructure:"inventory_url"`
	InvoiceURL   string `mapstructure:"invoice_url"`

	VerifyTimeout  time.Duration `mapstructure:"verify_timeout"`
	ForwardTimeout time.Duration `mapstructure:"forward_timeout"`
	InvoiceTimeout time.Duration `mapstructure:"invoice_timeout"`
}

func Load(configPath string) (*AppConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("viper.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := viper.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("viper.Unmarshal -> %w", err)
	}

	return conf, nil
}
