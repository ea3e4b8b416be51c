package config

import (
	"os"
	"strconv"

	apiconfig "imageResizer/api/config"
)

type Config struct {
	Env         string                     `yaml:"env"`
	RedisAddr   string                     `yaml:"redis_addr"`
	WorkerCount int                        `yaml:"worker_count"`
	Storage     apiconfig.StorageConfig    `yaml:"storage"`
	Kafka       apiconfig.KafkaConfig      `yaml:"kafka"`
	Processing  apiconfig.ProcessingConfig `yaml:"processing"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads the same file and environment keys as the API so both
// processes agree on storage and processing settings.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Env:         "development",
		WorkerCount: 5,
		Storage:     apiconfig.DefaultStorage(),
		Kafka:       apiconfig.DefaultKafka(),
		Processing:  apiconfig.DefaultProcessing(),
	}

	if err := apiconfig.ReadFile(path, cfg); err != nil {
		return nil, err
	}

	cfg.Env = getEnv("ENV", cfg.Env)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.WorkerCount = getEnvAsInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.Storage.ApplyEnv()
	cfg.Kafka.ApplyEnv()
	cfg.Processing.ApplyEnv()

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Processing.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
