// Package config содержит логику чтения конфигурации маркетплейс-бота.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации маркетплейс-бота.
type Config struct {
	RunAddress          string `env:"RUN_ADDRESS"`
	DatabaseURI         string `env:"DATABASE_URI"`
	FileStoragePath     string `env:"FILE_STORAGE_PATH"`
	BotToken            string `env:"BOT_TOKEN"`
	AdminToken          string `env:"ADMIN_TOKEN"`
	PublicDir           string `env:"PUBLIC_DIR"`
	StrictInvoiceStatus bool   `env:"STRICT_INVOICE_STATUS"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных
// окружения; окружение имеет приоритет. Токены бота и оператора обязательны.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envFileStoragePath := cfg.FileStoragePath
	envPublicDir := cfg.PublicDir
	envStrict := cfg.StrictInvoiceStatus
	// Для булевого поля нулевое значение неотличимо от незаданного, поэтому
	// приоритет окружения определяется по наличию непустой переменной.
	strictRaw, strictSet := os.LookupEnv("STRICT_INVOICE_STATUS")
	strictSet = strictSet && strictRaw != ""

	flag.StringVar(&cfg.RunAddress, "a", ":3000", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI (empty means JSON file storage)")
	flag.StringVar(&cfg.FileStoragePath, "f", "db.json", "path to JSON storage file")
	flag.StringVar(&cfg.PublicDir, "p", "public", "directory with static web-app assets")
	flag.BoolVar(&cfg.StrictInvoiceStatus, "s", false, "forbid status changes of finalized invoices")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envFileStoragePath != "" {
		cfg.FileStoragePath = envFileStoragePath
	}
	if envPublicDir != "" {
		cfg.PublicDir = envPublicDir
	}
	if strictSet {
		cfg.StrictInvoiceStatus = envStrict
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = ":3000"
	}

	if cfg.BotToken == "" {
		return nil, errors.New("BOT_TOKEN is required")
	}
	if cfg.AdminToken == "" {
		return nil, errors.New("ADMIN_TOKEN is required")
	}

	return cfg, nil
}
