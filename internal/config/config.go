// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	// EnvProduction — окружение, в котором отключается суффикс /TEST и бейдж TEST.
	EnvProduction = "production"
	// EnvTest — окружение по умолчанию.
	EnvTest = "test"
)

// Config общая структура для хранения настроек
type Config struct {
	Env        string          `yaml:"env" env:"ENVIRONMENT" env-default:"test"`
	APIURL     string          `yaml:"api_url" env:"API_URL" env-required:"true"`
	APITimeout time.Duration   `yaml:"api_timeout" env:"API_TIMEOUT" env-default:"30s"`
	HTTPServer HTTPServer      `yaml:"http_server"`
	Redis      RedisConnection `yaml:"redis_connection"`
	Session    Session         `yaml:"session"`
	QuickStart QuickStart      `yaml:"quick_start"`
	Geo        Geo             `yaml:"geo"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"60s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"120s"`
	// RateLimit — допустимое число запросов в секунду к открытым эндпоинтам авторизации.
	RateLimit float64 `yaml:"rate_limit" env-default:"5"`
	RateBurst int     `yaml:"rate_burst" env-default:"10"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	Address     string        `yaml:"address" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password    string        `yaml:"password" env:"REDIS_PASSWORD"`
	User        string        `yaml:"user"`
	DB          int           `yaml:"db"`
	MaxRetries  int           `yaml:"max_retries"`
	DialTimeout time.Duration `yaml:"dial_timeout"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Session структура для настроек пользовательской сессии и подписи cookie
type Session struct {
	SecretKey    string        `yaml:"secret_key" env:"SESSION_SECRET" env-required:"true"`
	TTL          time.Duration `yaml:"ttl" env-default:"12h"`
	CookieName   string        `yaml:"cookie_name" env-default:"fastvisa_session"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// QuickStart настройки сценария быстрого старта
type QuickStart struct {
	BasicRoleName string        `yaml:"basic_role_name" env-default:"basic"`
	BasicRoleID   int           `yaml:"basic_role_id" env-default:"3"`
	SearchWindow  time.Duration `yaml:"search_window" env-default:"2880h"`
	TrackerTTL    time.Duration `yaml:"tracker_ttl" env-default:"1h"`
	TrialPeriod   time.Duration `yaml:"trial_period" env-default:"720h"`
}

// Geo настройки определения страны по IP
type Geo struct {
	// URL — шаблон адреса, {ip} заменяется на IP посетителя.
	URL     string        `yaml:"url" env:"GEO_URL" env-default:"https://ipapi.co/{ip}/json/"`
	Timeout time.Duration `yaml:"timeout" env-default:"8s"`
}

// IsProduction сообщает, запущено ли приложение в боевом окружении.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load читает конфиг по указанному пути и переменным окружения.
func Load(configPath string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, configPath)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad функция для загрузки конфига, путь берётся из переменной CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"APIURL: %s\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"RedisConnection:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Session:\n"+
			"  TTL: %s\n"+
			"  CookieName: %s\n",
		c.Env,
		c.APIURL,
		c.HTTPServer.Address,
		c.HTTPServer.Timeout,
		c.HTTPServer.IdleTimeout,
		c.Redis.Address,
		c.Redis.DB,
		c.Session.TTL,
		c.Session.CookieName,
	)
}
