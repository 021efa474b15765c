// Package config loads compcal settings from an optional YAML file overlaid by
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/compcal/internal/logger"
	"github.com/pfrederiksen/compcal/internal/scraper"
	"github.com/pfrederiksen/compcal/internal/store"
	"github.com/pfrederiksen/compcal/internal/wca"
)

const (
	DefaultDataDir  = "~/.compcal"
	DefaultMaxPages = 400
	DefaultHTTPAddr = ":8080"

	NotifyLog      = "log"
	NotifyTelegram = "telegram"
	NotifyTwitter  = "twitter"
)

var (
	ErrMissingTable       = errors.New("store table is required (TABLE_NAME)")
	ErrMissingDSN         = errors.New("store DSN is required (STORE_DSN)")
	ErrMissingCredentials = errors.New("missing credentials")
)

type Store struct {
	Driver      string `yaml:"driver"`
	Table       string `yaml:"table"`
	DSN         string `yaml:"dsn"`
	GistID      string `yaml:"gist_id"`
	GitHubToken string `yaml:"github_token"`
}

type Twitter struct {
	APIKey       string `yaml:"api_key"`
	APISecret    string `yaml:"api_secret"`
	AccessToken  string `yaml:"access_token"`
	AccessSecret string `yaml:"access_secret"`
}

type Notify struct {
	Driver           string  `yaml:"driver"`
	Topic            string  `yaml:"topic"`
	TelegramBotToken string  `yaml:"telegram_bot_token"`
	TelegramChatID   string  `yaml:"telegram_chat_id"`
	Twitter          Twitter `yaml:"twitter"`
}

type WCA struct {
	APIURL string `yaml:"api_url"`
	// MaxPages caps pagination. Nil selects DefaultMaxPages, 0 disables the cap.
	MaxPages *int `yaml:"max_pages"`
}

type Enrich struct {
	Policy string `yaml:"policy"`
}

type Metrics struct {
	PushgatewayURL string `yaml:"pushgateway_url"`
}

// Config is the full process configuration
type Config struct {
	Store    Store   `yaml:"store"`
	Notify   Notify  `yaml:"notify"`
	WCA      WCA     `yaml:"wca"`
	Enrich   Enrich  `yaml:"enrich"`
	Metrics  Metrics `yaml:"metrics"`
	LogLevel string  `yaml:"log_level"`
	HTTPAddr string  `yaml:"http_addr"`
}

// Load reads path when it is not empty, applies environment overrides and fills defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"TABLE_NAME":            &c.Store.Table,
		"STORE_DRIVER":          &c.Store.Driver,
		"STORE_DSN":             &c.Store.DSN,
		"GIST_ID":               &c.Store.GistID,
		"GITHUB_TOKEN":          &c.Store.GitHubToken,
		"TOPIC_ARN":             &c.Notify.Topic,
		"NOTIFY_DRIVER":         &c.Notify.Driver,
		"TELEGRAM_BOT_TOKEN":    &c.Notify.TelegramBotToken,
		"TELEGRAM_CHAT_ID":      &c.Notify.TelegramChatID,
		"TWITTER_API_KEY":       &c.Notify.Twitter.APIKey,
		"TWITTER_API_SECRET":    &c.Notify.Twitter.APISecret,
		"TWITTER_ACCESS_TOKEN":  &c.Notify.Twitter.AccessToken,
		"TWITTER_ACCESS_SECRET": &c.Notify.Twitter.AccessSecret,
		"WCA_API_URL":           &c.WCA.APIURL,
		"ENRICH_POLICY":         &c.Enrich.Policy,
		"PUSHGATEWAY_URL":       &c.Metrics.PushgatewayURL,
		"LOG_LEVEL":             &c.LogLevel,
		"HTTP_ADDR":             &c.HTTPAddr,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid MAX_PAGES: %q", v)
		}
		c.WCA.MaxPages = &n
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = string(store.DriverFile)
	}
	if c.Store.Driver == string(store.DriverFile) && c.Store.DSN == "" {
		c.Store.DSN = DefaultDataDir
	}
	if c.Notify.Driver == "" {
		c.Notify.Driver = NotifyLog
	}
	if c.WCA.APIURL == "" {
		c.WCA.APIURL = wca.CompetitionsURL
	}
	if c.Enrich.Policy == "" {
		c.Enrich.Policy = string(scraper.PolicyLegacy)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
}

// PageLimit returns the effective pagination cap.
func (c *Config) PageLimit() int {
	if c.WCA.MaxPages == nil {
		return DefaultMaxPages
	}
	return *c.WCA.MaxPages
}

// StoreOptions converts the store section for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Driver:      store.Driver(c.Store.Driver),
		Table:       c.Store.Table,
		DSN:         c.Store.DSN,
		GistID:      c.Store.GistID,
		GitHubToken: c.Store.GitHubToken,
	}
}

// Validate checks that the selected drivers have what they need.
func (c *Config) Validate() error {
	if c.Store.Table == "" {
		return ErrMissingTable
	}

	switch store.Driver(strings.ToLower(c.Store.Driver)) {
	case store.DriverFile:
	case store.DriverRedis, store.DriverPostgres, store.DriverMySQL:
		if c.Store.DSN == "" {
			return fmt.Errorf("%s store: %w", c.Store.Driver, ErrMissingDSN)
		}
	case store.DriverGist:
		if c.Store.GistID == "" || c.Store.GitHubToken == "" {
			return fmt.Errorf("gist store needs GIST_ID and GITHUB_TOKEN: %w", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("unknown store driver: %s", c.Store.Driver)
	}

	switch strings.ToLower(c.Notify.Driver) {
	case NotifyLog:
	case NotifyTelegram:
		if c.Notify.TelegramBotToken == "" {
			return fmt.Errorf("telegram notifier needs TELEGRAM_BOT_TOKEN: %w", ErrMissingCredentials)
		}
	case NotifyTwitter:
		t := c.Notify.Twitter
		if t.APIKey == "" || t.APISecret == "" || t.AccessToken == "" || t.AccessSecret == "" {
			return fmt.Errorf("twitter notifier needs TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET: %w", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("unknown notify driver: %s", c.Notify.Driver)
	}

	if _, err := scraper.ParsePolicy(c.Enrich.Policy); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.WCA.MaxPages != nil && *c.WCA.MaxPages < 0 {
		return fmt.Errorf("max_pages must not be negative: %d", *c.WCA.MaxPages)
	}
	return nil
}
