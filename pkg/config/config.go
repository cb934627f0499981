package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// WatcherConfig holds the settings for the scrape cycle itself.
type WatcherConfig struct {
	ListingURL   string `yaml:"listing_url"`
	IntervalSecs int    `yaml:"interval_seconds"`
	TimeoutSecs  int    `yaml:"request_timeout_seconds"`
	StorePath    string `yaml:"store_path"`
	AssetDir     string `yaml:"asset_dir"`
	HistoryPath  string `yaml:"history_path"`
	UseBrowser   bool   `yaml:"use_browser"` // render the listing with a headless browser
	Headless     bool   `yaml:"headless"`
}

// AdapterConfig holds the CSS selectors for the storefront listing page.
// These are the only site-specific knobs; everything downstream works on
// the extracted fields.
type AdapterConfig struct {
	BaseURL           string `yaml:"base_url"`
	ContainerSelector string `yaml:"container_selector"`
	ItemSelector      string `yaml:"item_selector"`
	NameSelector      string `yaml:"name_selector"`
	LinkSelector      string `yaml:"link_selector"`
	ImageSelector     string `yaml:"image_selector"`
	PriceSelector     string `yaml:"price_selector"`
}

// TelegramConfig holds the notification sink credentials. Enabled=false or
// a missing token makes delivery a no-op, not an error.
type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Watcher  WatcherConfig  `yaml:"watcher"`
	Adapter  AdapterConfig  `yaml:"adapter"`
	Telegram TelegramConfig `yaml:"telegram"`
	Server   struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// LoadConfig reads and parses the YAML config file, applying defaults for
// optional fields. Startup cannot proceed without a config, so failures
// are fatal.
func LoadConfig(filepath string) *Config {
	data, err := os.ReadFile(filepath)
	if err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}
	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Fatalf("Error unmarshalling config YAML: %v", err)
	}
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.Watcher.IntervalSecs <= 0 {
		c.Watcher.IntervalSecs = 120
	}
	if c.Watcher.TimeoutSecs <= 0 {
		c.Watcher.TimeoutSecs = 30
	}
	if c.Watcher.StorePath == "" {
		c.Watcher.StorePath = "products.json"
	}
	if c.Watcher.AssetDir == "" {
		c.Watcher.AssetDir = "assets"
	}
	if c.Watcher.HistoryPath == "" {
		c.Watcher.HistoryPath = "history.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
}
