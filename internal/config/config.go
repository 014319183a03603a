package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the well-known development signing secret used when
// QNA_JWT_SECRET is not set. Running with it in production is unsafe; main
// logs a warning when it is in effect.
const DefaultJWTSecret = "development_secret"

// Config holds application level configuration aggregated from env/config files.
// It is built once at startup and passed down; nothing reads the environment
// after Load returns.
type Config struct {
	Server struct {
		Addr string
	}
	Database struct {
		Dialect      string // "postgres" or "sqlite"
		URL          string // full DSN; wins over the individual fields when set
		Host         string
		Port         int
		Name         string
		User         string
		Password     string
		Path         string // sqlite database file
		MaxOpenConns int
		MaxIdleConns int
	}
	JWT struct {
		Secret    string
		ExpSecond int
	}
	CORS struct {
		Origins string // comma-separated allow-list; empty allows any origin
	}
	Log struct {
		Level string
	}
}

// Load reads configuration from an optional dotenv file, the environment and
// an optional "config" file in the working directory.
func Load(envFile string) (Config, error) {
	_ = godotenv.Load(envFile)

	v := viper.New()
	v.SetEnvPrefix("QNA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":3001")
	v.SetDefault("database.dialect", "sqlite")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "qnaboard")
	v.SetDefault("database.user", "qnaboard")
	v.SetDefault("database.password", "")
	v.SetDefault("database.path", "database.sqlite")
	v.SetDefault("database.maxopenconns", 16)
	v.SetDefault("database.maxidleconns", 8)
	v.SetDefault("jwt.secret", DefaultJWTSecret)
	v.SetDefault("jwt.expsecond", 3600)
	v.SetDefault("cors.origins", "")
	v.SetDefault("log.level", "info")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Database.Dialect != "postgres" && cfg.Database.Dialect != "sqlite" {
		return Config{}, fmt.Errorf("unsupported database dialect %q", cfg.Database.Dialect)
	}

	return cfg, nil
}

// DSN returns the connection string for the configured dialect.
func (c Config) DSN() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	if c.Database.Dialect == "sqlite" {
		return c.Database.Path
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

// JWTExpiration returns the token lifetime as a duration.
func (c Config) JWTExpiration() time.Duration {
	return time.Duration(c.JWT.ExpSecond) * time.Second
}

// CORSOrigins returns the configured allow-list, empty when any origin is allowed.
func (c Config) CORSOrigins() []string {
	if strings.TrimSpace(c.CORS.Origins) == "" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(c.CORS.Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// UsingDefaultSecret reports whether the development fallback secret is in effect.
func (c Config) UsingDefaultSecret() bool {
	return c.JWT.Secret == DefaultJWTSecret
}
