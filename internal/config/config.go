package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"brainrot-quiz-service/internal/game"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Game    game.Config `yaml:"game"`
	Fortune struct {
		DailyPulls int `yaml:"dailyPulls"`
	} `yaml:"fortune"`
	Audio struct {
		Dir              string `yaml:"dir"`
		ElevenLabsKey    string `yaml:"-"`
		ElevenLabsVoice  string `yaml:"elevenLabsVoice"`
		ElevenLabsModel  string `yaml:"elevenLabsModel"`
		ElevenLabsAPIURL string `yaml:"elevenLabsApiUrl"`
	} `yaml:"audio"`
}

// Load reads YAML config from path, then secrets from the environment (and a .env file
// next to the working directory, if present).
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := loadDotEnv(); err != nil {
		return cfg, err
	}
	applyEnv(&cfg)
	cfg.Game = cfg.Game.WithDefaults()
	if cfg.Fortune.DailyPulls == 0 {
		cfg.Fortune.DailyPulls = 3
	}
	return cfg, nil
}

func loadDotEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ELEVENLABS_API_KEY"); v != "" {
		cfg.Audio.ElevenLabsKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
