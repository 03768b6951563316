package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// DefaultLicenseURL is the master license registry consulted by the HTTP
// license oracle. Overridable for self-hosted deployments.
const DefaultLicenseURL = "https://gist.githubusercontent.com/jmsalim/d0968ab09f347be10c671ace248e9140/raw/licenses.json"

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

type InventoryConfig struct {
	// BackupMax is the snapshot retention window; oldest archives beyond
	// this count are evicted.
	BackupMax  int    `yaml:"backup_max" json:"backup_max"`
	BackupCron string `yaml:"backup_cron" json:"backup_cron"`
	Currency   string `yaml:"currency" json:"currency"`
}

type LicenseConfig struct {
	URL     string `yaml:"url" json:"url"`
	Timeout int    `yaml:"timeout" json:"timeout"` // seconds
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System    SystemConfig    `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Inventory InventoryConfig `yaml:"inventory" json:"inventory"`
	License   LicenseConfig   `yaml:"license" json:"license"`
	Logger    LoggerConfig    `yaml:"logger" json:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Appid:    "quantix",
			Location: "America/Sao_Paulo",
			Workdir:  "/var/quantix",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8501,
		},
		Inventory: InventoryConfig{
			BackupMax:  10,
			BackupCron: "@hourly",
			Currency:   "R$",
		},
		License: LicenseConfig{
			URL:     DefaultLicenseURL,
			Timeout: 5,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/quantix/quantix.log",
		},
	}
}

// LoadConfig reads the YAML application config, falling back to defaults for
// a missing file and for any section left empty.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *AppConfig) applyDefaults() {
	def := DefaultAppConfig()
	if c.System.Workdir == "" {
		c.System.Workdir = def.System.Workdir
	}
	if c.System.Location == "" {
		c.System.Location = def.System.Location
	}
	if c.Web.Port == 0 {
		c.Web.Port = def.Web.Port
	}
	if c.Inventory.BackupMax <= 0 {
		c.Inventory.BackupMax = def.Inventory.BackupMax
	}
	if c.Inventory.BackupCron == "" {
		c.Inventory.BackupCron = def.Inventory.BackupCron
	}
	if c.License.URL == "" {
		c.License.URL = def.License.URL
	}
	if c.License.Timeout <= 0 {
		c.License.Timeout = def.License.Timeout
	}
	if c.Logger.Filename == "" {
		c.Logger.Filename = filepath.Join(c.System.Workdir, "quantix.log")
	}
}

// SaveConfig writes the config back as YAML, used by the initcfg bootstrap.
func SaveConfig(path string, cfg *AppConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return os.WriteFile(path, data, 0o644)
}
