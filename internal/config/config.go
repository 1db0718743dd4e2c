package config

import (
	"flag"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/dustin/go-humanize"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server settings
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseDSN string `env:"DATABASE_URI"`

	// Attachment limits
	AssetsBaseURL            string `env:"ASSETS_BASE_URL"`
	AttachmentMaxCount       int    `env:"ATTACHMENT_MAX_COUNT"`
	AttachmentMaxSize        string `env:"ATTACHMENT_MAX_SIZE"`
	AttachmentSupportedTypes string `env:"ATTACHMENT_SUPPORTED_TYPES"`

	// Object storage (S3-compatible)
	StorageEndpoint  string `env:"STORAGE_ENDPOINT"`
	StorageBucket    string `env:"STORAGE_BUCKET"`
	StorageKeyID     string `env:"STORAGE_ACCESS_KEY_ID"`
	StorageKeySecret string `env:"STORAGE_ACCESS_KEY_SECRET"`

	// Вычисляются в NewConfig
	AttachmentMaxSizeBytes int64    `env:"-"`
	AttachmentTypes        []string `env:"-"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "адрес и порт сервера")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AssetsBaseURL, "assets-base-url", cfg.AssetsBaseURL, "базовый URL раздачи загруженных файлов")
	flag.StringVar(&cfg.StorageBucket, "storage-bucket", cfg.StorageBucket, "бакет объектного хранилища")
	flag.Parse()

	// Defaults
	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.AttachmentMaxCount == 0 {
		cfg.AttachmentMaxCount = 3
	}
	if cfg.AttachmentMaxSize == "" {
		cfg.AttachmentMaxSize = "100KB"
	}
	if cfg.AttachmentSupportedTypes == "" {
		cfg.AttachmentSupportedTypes = "image/gif,image/jpeg,image/png,image/webp"
	}
	if cfg.StorageBucket == "" {
		cfg.StorageBucket = "pinboard"
	}

	size, err := humanize.ParseBytes(cfg.AttachmentMaxSize)
	if err != nil {
		size = 100 * 1000
	}
	cfg.AttachmentMaxSizeBytes = int64(size)
	cfg.AttachmentTypes = strings.Split(cfg.AttachmentSupportedTypes, ",")
	for i, t := range cfg.AttachmentTypes {
		cfg.AttachmentTypes[i] = strings.TrimSpace(t)
	}

	return cfg
}
