package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

// PiholeConfig - один бэкенд; enabled по умолчанию true, link - false
type PiholeConfig struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Enabled  *bool  `yaml:"enabled"`
	Link     bool   `yaml:"link"`
}

func (p PiholeConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type HTTPConfig struct {
	// Timeout - таймаут одного запроса к бэкенду (логин или чтение)
	Timeout      time.Duration `yaml:"timeout"`
	MaxWorkers   int           `yaml:"max_workers"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

type SessionsConfig struct {
	Store        string        `yaml:"store"` // memory, redis
	WarmInterval time.Duration `yaml:"warm_interval"`
	Redis        RedisConfig   `yaml:"redis"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Config struct {
	ListenAddress   string         `yaml:"listen_address"`
	BasePath        string         `yaml:"base_path"`
	RefreshInterval int            `yaml:"refresh_interval"` // миллисекунды, уходит клиенту как есть
	ShowQueries     bool           `yaml:"show_queries"`
	Piholes         []PiholeConfig `yaml:"piholes"`
	Log             LogConfig      `yaml:"log"`
	HTTP            HTTPConfig     `yaml:"http"`
	Sessions        SessionsConfig `yaml:"sessions"`
	CORS            CORSConfig     `yaml:"cors"`
}

// EnabledPiholes возвращает включенные бэкенды в порядке конфигурации
func (c *Config) EnabledPiholes() []PiholeConfig {
	out := make([]PiholeConfig, 0, len(c.Piholes))
	for _, p := range c.Piholes {
		if p.IsEnabled() {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		ListenAddress:   ":5001",
		BasePath:        "/",
		RefreshInterval: 5000,
		Log:             LogConfig{Level: "info", Format: "text"},
		HTTP: HTTPConfig{
			Timeout:      10 * time.Second,
			MaxWorkers:   10,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Sessions: SessionsConfig{
			Store: SessionStoreMemory,
			Redis: RedisConfig{
				KeyPrefix: "pidash:session:",
				TTL:       30 * time.Minute,
			},
		},
		CORS: CORSConfig{AllowedOrigins: []string{"*"}},
	}
}

// LoadConfig читает YAML (JSON тоже подходит, он валидный YAML) и валидирует его
func LoadConfig(configPath string) (*Config, error) {
	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла конфигурации %s: %w", configPath, err)
	}
	conf, err := Parse(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("конфигурация %s: %w", configPath, err)
	}
	return conf, nil
}

// Parse разбирает содержимое конфига поверх значений по умолчанию
func Parse(data []byte) (*Config, error) {
	conf := defaultConfig()
	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}
	conf.normalize()
	if err := conf.validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) normalize() {
	c.Log.Level = strings.ToLower(c.Log.Level)
	c.Log.Format = strings.ToLower(c.Log.Format)
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	c.Sessions.Store = strings.ToLower(strings.TrimSpace(c.Sessions.Store))
	if c.Sessions.Store == "" {
		c.Sessions.Store = SessionStoreMemory
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 5000
	}
	c.BasePath = NormalizeBasePath(c.BasePath)

	for i := range c.Piholes {
		c.Piholes[i].Name = strings.TrimSpace(c.Piholes[i].Name)
		c.Piholes[i].Address = strings.TrimRight(strings.TrimSpace(c.Piholes[i].Address), "/")
	}
}

func (c *Config) validate() error {
	if len(c.Piholes) == 0 {
		return fmt.Errorf("не указаны бэкенды ('piholes')")
	}
	if c.ListenAddress == "" {
		return fmt.Errorf("не указан адрес для прослушивания ('listen_address')")
	}

	seen := make(map[string]bool, len(c.Piholes))
	for i, p := range c.Piholes {
		if p.Name == "" {
			return fmt.Errorf("piholes[%d]: не указано имя", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("обнаружено дублирующееся имя бэкенда: %s", p.Name)
		}
		seen[p.Name] = true

		if _, err := ParseAddress(p.Address); err != nil {
			return fmt.Errorf("piholes[%d] (%s): %w", i, p.Name, err)
		}
	}

	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout должен быть положительным значением")
	}
	if c.HTTP.MaxWorkers <= 0 {
		return fmt.Errorf("http.max_workers должен быть положительным значением")
	}

	switch c.Sessions.Store {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Sessions.Redis.Addr == "" {
			return fmt.Errorf("sessions.redis.addr обязателен для хранилища redis")
		}
	default:
		return fmt.Errorf("неподдерживаемое хранилище сессий: %s", c.Sessions.Store)
	}
	if c.Sessions.WarmInterval < 0 {
		return fmt.Errorf("sessions.warm_interval не может быть отрицательным")
	}
	return nil
}

// ParseAddress проверяет, что адрес бэкенда - абсолютный http(s) URL с хостом
func ParseAddress(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("невалидный адрес %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("адрес %q должен начинаться с http:// или https://", raw)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("в адресе %q не указан хост", raw)
	}
	return u, nil
}

// NormalizeBasePath приводит путь к виду "/" или "/prefix" без завершающего слеша
func NormalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if p = strings.TrimRight(p, "/"); p == "" {
		return "/"
	}
	return p
}
