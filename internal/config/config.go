// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Telegram                `yaml:"telegram"`
	Notifier                `yaml:"notifier"`
	Limits                  `yaml:"limits"`
}

// HTTPServer структура для настройки сервера mini-app API
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"5s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis"`
	Password     string        `yaml:"password"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Telegram структура для настройки телеграм-бота
type Telegram struct {
	Token    string  `yaml:"token" env:"BOT_TOKEN"`
	AdminIDs []int64 `yaml:"admin_ids"`
}

// Notifier структура для настройки сервиса уведомлений
type Notifier struct {
	PollInterval time.Duration `yaml:"poll_interval" env-default:"5m"`
}

// Limits лимиты бесплатной версии и параметры premium
type Limits struct {
	FreeSubscriptions int           `yaml:"free_subscriptions" env-default:"5"`
	NotificationDays  int           `yaml:"notification_days" env-default:"3"`
	PremiumTrialDays  int           `yaml:"premium_trial_days" env-default:"7"`
	FormTTL           time.Duration `yaml:"form_ttl" env-default:"30m"`
}

// MustLoad функция для загрузки конфига, путь берется из переменной окружения CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return &cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"StorageConnectionString: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"  MaxRetries: %d\n"+
			"  DialTimeout: %s\n"+
			"  Timeout: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"Telegram:\n"+
			"  AdminIDs: %v\n"+
			"Notifier:\n"+
			"  PollInterval: %s\n"+
			"Limits:\n"+
			"  FreeSubscriptions: %d\n"+
			"  NotificationDays: %d\n"+
			"  PremiumTrialDays: %d\n"+
			"  FormTTL: %s\n",
		c.Env,
		c.StorageConnectionString,
		c.AddressRedis,
		c.DB,
		c.MaxRetries,
		c.DialTimeout,
		c.TimeoutRedis,
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.AdminIDs,
		c.PollInterval,
		c.FreeSubscriptions,
		c.NotificationDays,
		c.PremiumTrialDays,
		c.FormTTL,
	)
}
