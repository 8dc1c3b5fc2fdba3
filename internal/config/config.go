package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`
}

type repositoryConfig struct {
	DefaultRemote   string        `koanf:"default_remote"`
	HistoryLimit    int           `koanf:"history_limit"`
	MonitorInterval time.Duration `koanf:"monitor_interval"`
	IdentityName    string        `koanf:"identity_name"`
	IdentityEmail   string        `koanf:"identity_email"`
}

type analyticsConfig struct {
	StalenessWindow time.Duration `koanf:"staleness_window"`
}

type vaultConfig struct {
	Backend string `koanf:"backend"`
	DataDir string `koanf:"data_dir"`
	Service string `koanf:"service"`
}

type githubConfig struct {
	Owner      string `koanf:"owner"`
	Repository string `koanf:"repository"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Repository repositoryConfig `koanf:"repository"`
	Analytics  analyticsConfig  `koanf:"analytics"`
	Vault      vaultConfig      `koanf:"vault"`
	GitHub     githubConfig     `koanf:"github"`
}

func Default() Config {
	//nolint:exhaustruct,mnd //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
		},

		Repository: repositoryConfig{
			DefaultRemote:   "origin",
			HistoryLimit:    50,
			MonitorInterval: 2 * time.Second,
			IdentityName:    "RepoCore",
			IdentityEmail:   "repocore@local",
		},

		Analytics: analyticsConfig{
			StalenessWindow: 5 * time.Minute,
		},

		Vault: vaultConfig{
			Backend: "keyring",
			DataDir: "./data/vault",
			Service: "repocore",
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
