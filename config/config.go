// Package config loads service configuration and opens the shared backends.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
	} `mapstructure:"app"`
	Database struct {
		Driver       string `mapstructure:"driver"`
		Host         string `mapstructure:"host"`
		Port         string `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		Name         string `mapstructure:"name"`
		Sslmode      string `mapstructure:"sslmode"`
		Path         string `mapstructure:"path"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
	} `mapstructure:"database"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		ListTTL  time.Duration `mapstructure:"list_ttl"`
	} `mapstructure:"redis"`
	Scraper struct {
		PageURL      string        `mapstructure:"page_url"`
		BaseURL      string        `mapstructure:"base_url"`
		Selector     string        `mapstructure:"selector"`
		Timeout      time.Duration `mapstructure:"timeout"`
		PollInterval time.Duration `mapstructure:"poll_interval"`
	} `mapstructure:"scraper"`
	Firebase struct {
		CredentialsFile string `mapstructure:"credentials_file"`
		Topic           string `mapstructure:"topic"`
	} `mapstructure:"firebase"`
	Auth struct {
		JWTSecret string        `mapstructure:"jwt_secret"`
		TokenTTL  time.Duration `mapstructure:"token_ttl"`
	} `mapstructure:"auth"`
}

// Load reads config.yaml from path, with EXAMNOTIFY_* env overrides. A
// missing file is fine; defaults and env carry a minimal deployment.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.SetEnvPrefix("EXAMNOTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.name", "examnotify")
	v.SetDefault("app.port", "8000")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "notifications.db")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("redis.list_ttl", 5*time.Minute)
	v.SetDefault("scraper.page_url", "https://mrec.ac.in/ExamsDashboard")
	v.SetDefault("scraper.base_url", "https://mrec.ac.in")
	v.SetDefault("scraper.selector", "li.news-item a")
	v.SetDefault("scraper.timeout", 10*time.Second)
	v.SetDefault("firebase.topic", "all")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
