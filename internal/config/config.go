package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Server struct {
	Port int `yaml:"port"`
}

type Database struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type Redis struct {
	Enabled bool     `yaml:"enabled"`
	Addr    string   `yaml:"addr"`
	MenuTTL Duration `yaml:"menu_ttl"`
}

type RabbitMQ struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// Realtime tunes the order change-detection loop. Lookback bounds the first
// query for a restaurant that has no checkpoint yet.
type Realtime struct {
	PollInterval  Duration `yaml:"poll_interval"`
	RetryInterval Duration `yaml:"retry_interval"`
	Lookback      Duration `yaml:"lookback"`
}

type App struct {
	Server   Server   `yaml:"server"`
	Database Database `yaml:"database"`
	Redis    Redis    `yaml:"redis"`
	Rabbit   RabbitMQ `yaml:"rabbitmq"`
	Auth     Auth     `yaml:"auth"`
	Realtime Realtime `yaml:"realtime"`
}

// Duration lets config values be written as "2s" / "5m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func Load(path string) (App, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return App{}, fmt.Errorf("read config: %w", err)
	}
	a := defaults()
	if err := yaml.Unmarshal(b, &a); err != nil {
		return App{}, fmt.Errorf("parse config: %w", err)
	}
	applyEnv(&a)
	if a.Database.Host == "" {
		return App{}, errors.New("invalid config: missing database host")
	}
	if a.Auth.JWTSecret == "" {
		return App{}, errors.New("invalid config: missing auth jwt_secret")
	}
	return a, nil
}

func defaults() App {
	return App{
		Server: Server{Port: 8080},
		Redis:  Redis{MenuTTL: Duration(60 * time.Second)},
		Realtime: Realtime{
			PollInterval:  Duration(2 * time.Second),
			RetryInterval: Duration(5 * time.Second),
			Lookback:      Duration(5 * time.Minute),
		},
	}
}

// applyEnv lets deployments override secrets without editing config.yaml.
func applyEnv(a *App) {
	if v := os.Getenv("DB_HOST"); v != "" {
		a.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		a.Database.Port = atoiSafe(v)
	}
	if v := os.Getenv("DB_USER"); v != "" {
		a.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		a.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		a.Database.Database = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		a.Auth.JWTSecret = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		a.Redis.Addr = v
		a.Redis.Enabled = true
	}
	if v := os.Getenv("PORT"); v != "" {
		a.Server.Port = atoiSafe(v)
	}
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}
