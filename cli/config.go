package cli

type Config struct {
	Production      bool   `env:"PRODUCTION"`
	Profile         string `env:"PROFILE" envDefault:"development"`
	ConfigFile      string `env:"CONFIG_FILE"`
	Host            string `env:"HOST" envDefault:"0.0.0.0"`
	Port            string `env:"PORT" envDefault:"3000"`
	VaultAddr       string `env:"VAULT_ADDR"`
	VaultToken      string `env:"VAULT_TOKEN"`
	SecretsCacheTTL string `env:"SECRETS_CACHE_TTL" envDefault:"5m"`
}
