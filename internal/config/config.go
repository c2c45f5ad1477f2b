package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config captures all runtime configuration derived from environment variables
// and, when CONFIG_PATH is set, a YAML file.
type Config struct {
	Port             string `yaml:"port"               env:"PORT"                 env-default:"8080"`
	LogLevel         string `yaml:"log_level"          env:"LOG_LEVEL"            env-default:"info"`
	JWTSecret        string `yaml:"jwt_secret"         env:"AUTH_JWT_SECRET"`
	JWTIssuer        string `yaml:"jwt_issuer"         env:"AUTH_JWT_ISSUER"      env-default:"watchmate"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"  env:"SERVER_READ_TIMEOUT"  env-default:"15"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs" env:"SERVER_WRITE_TIMEOUT" env-default:"15"`
	IdleTimeoutSecs  int    `yaml:"idle_timeout_secs"  env:"SERVER_IDLE_TIMEOUT"  env-default:"60"`

	DBURL             string `yaml:"db_url"                     env:"DB_URL"`
	DBAutoMigrate     bool   `yaml:"db_auto_migrate"            env:"DB_AUTO_MIGRATE"             env-default:"true"`
	DBMaxConns        int    `yaml:"db_max_conns"               env:"DB_MAX_CONNS"                env-default:"20"`
	DBMinConns        int    `yaml:"db_min_conns"               env:"DB_MIN_CONNS"                env-default:"2"`
	DBMaxIdleSecs     int    `yaml:"db_max_conn_idle_secs"      env:"DB_MAX_CONN_IDLE_SECS"       env-default:"300"`
	DBMaxLifeSecs     int    `yaml:"db_max_conn_lifetime_secs"  env:"DB_MAX_CONN_LIFETIME_SECS"   env-default:"3600"`
	DBConnTimeoutSecs int    `yaml:"db_conn_timeout_secs"       env:"DB_CONN_TIMEOUT_SECS"        env-default:"10"`
	DBStatementCache  int    `yaml:"db_statement_cache_capacity" env:"DB_STATEMENT_CACHE_CAPACITY" env-default:"256"`
}

const minJWTSecretLen = 32

// Load reads configuration, applying defaults and validation.
// Environment variables override values from the optional CONFIG_PATH file.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces required values and sane pool/timeouts.
func (c Config) Validate() error {
	if c.DBURL == "" {
		return fmt.Errorf("DB_URL is required")
	}
	if len(c.JWTSecret) < minJWTSecretLen {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least %d characters", minJWTSecretLen)
	}
	if c.JWTIssuer == "" {
		return fmt.Errorf("AUTH_JWT_ISSUER is required")
	}
	if c.ReadTimeoutSecs <= 0 || c.WriteTimeoutSecs <= 0 || c.IdleTimeoutSecs <= 0 {
		return fmt.Errorf("SERVER_*_TIMEOUT values must be positive")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if c.DBConnTimeoutSecs <= 0 {
		return fmt.Errorf("DB_CONN_TIMEOUT_SECS must be positive")
	}
	if c.DBStatementCache < 0 {
		return fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}
	return nil
}
