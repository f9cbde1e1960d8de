package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	PostgresDB PostgresDB `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	TokenCache TokenCache `yaml:"rdb"`
	CORS       CORS       `yaml:"cors"`
}

type Server struct {
	Addr         string        `yaml:"addr"`
	BaseURL      string        `env-default:"/v1" yaml:"baseURL"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	// TrustedProxies lists proxy addresses or CIDRs whose X-Forwarded-For is
	// believed when resolving the client IP.
	TrustedProxies []string `yaml:"trustedProxies"`
}

type Logger struct {
	Level     string   `env-default:"info" yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type PostgresDB struct {
	Addr       string `yaml:"addr"`
	Username   string `env:"POSTGRES_USER"     env-required:"true" yaml:"username"`
	Password   string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB         string `env:"POSTGRES_DB"       env-required:"true" yaml:"db"`
	SSLmode    string `env-default:"disable"   yaml:"sslmode"`
	MaxConns   string `env-default:"10"        yaml:"maxConns"`
	Migrations string `env-default:"./migrations" yaml:"migrations"`
	Reload     bool   `yaml:"reload"`
	Version    int    `yaml:"version"`
}

// ConnString is the pgx pool DSN.
func (p PostgresDB) ConnString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" +
		p.Addr + "/" + p.DB + "?" + "sslmode=" + p.SSLmode + "&pool_max_conns=" + p.MaxConns
}

type Auth struct {
	MinPasswordLen int     `env-default:"5"  yaml:"minPasswordLen"`
	RPS            float64 `env-default:"5"  yaml:"rps"`
	Burst          int     `env-default:"10" yaml:"burst"`
	// LimiterIdleTTL is how long an idle client keeps its rate limit bucket.
	LimiterIdleTTL time.Duration `env-default:"10m" yaml:"limiterIdleTTL"`
}

type TokenCache struct {
	Addr     string        `yaml:"addr"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `yaml:"db"`
	ExpTime  time.Duration `env-default:"10m"    yaml:"exp"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

func New(configPath string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	return cfg, nil
}
