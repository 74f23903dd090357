package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type HTTPServerConfig struct {
	Port            string        `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	TimeoutGraceful time.Duration `yaml:"timeout_graceful_shutdown" env:"HTTP_TIMEOUT_GRACEFUL" env-default:"15s"`
}

type MongoDBConfig struct {
	URI      string `yaml:"uri" env:"MONGO_URI" env-default:"mongodb://localhost:27017"`
	User     string `yaml:"user" env:"MONGO_USER"`
	Password string `yaml:"password" env:"MONGO_PASSWORD"`
	Database string `yaml:"database" env:"MONGO_DATABASE" env-default:"immodirect"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type NATSConfig struct {
	URL string `yaml:"url" env:"NATS_URL" env-default:"nats://localhost:4222"`
}

type LoggerConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Encoding   string `yaml:"encoding" env:"LOG_ENCODING" env-default:"json"`
	TimeFormat string `yaml:"time_format" env:"LOG_TIME_FORMAT" env-default:"2006-01-02T15:04:05.000Z07:00"`
}

type CampayConfig struct {
	BaseURL  string        `yaml:"base_url" env:"CAMPAY_BASE_URL" env-default:"https://www.campay.net/api"`
	Username string        `yaml:"username" env:"CAMPAY_USERNAME" env-required:"true"`
	Password string        `yaml:"password" env:"CAMPAY_PASSWORD" env-required:"true"`
	Timeout  time.Duration `yaml:"timeout" env:"CAMPAY_TIMEOUT" env-default:"30s"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"JWT_TOKEN_TTL" env-default:"72h"`
	Issuer    string        `yaml:"issuer" env:"JWT_ISSUER" env-default:"immodirect"`
}

type RateLimitConfig struct {
	Window      time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	MaxRequests int           `yaml:"max_requests" env:"RATE_LIMIT_MAX_REQUESTS" env-default:"10"`
}

type PricingCacheConfig struct {
	TTL time.Duration `yaml:"ttl" env:"PRICING_CACHE_TTL" env-default:"5m"`
}

type Config struct {
	Env          string             `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer   HTTPServerConfig   `yaml:"http_server"`
	MongoDB      MongoDBConfig      `yaml:"mongo"`
	Redis        RedisConfig        `yaml:"redis"`
	NATS         NATSConfig         `yaml:"nats"`
	Logger       LoggerConfig       `yaml:"logger"`
	Campay       CampayConfig       `yaml:"campay"`
	Auth         AuthConfig         `yaml:"auth"`
	RateLimit    RateLimitConfig    `yaml:"rate_limit"`
	PricingCache PricingCacheConfig `yaml:"pricing_cache"`
}

func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path == "" {
		err := cleanenv.ReadEnv(&cfg)
		if err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if err != nil {
		if _, ok := err.(*os.PathError); ok && path != "" {
			log.Printf("Warning: Config file not found at %s, attempting to load from environment variables only.", path)
			errEnv := cleanenv.ReadEnv(&cfg)
			if errEnv != nil {
				return nil, errEnv
			}
			return &cfg, nil
		}
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}
	return cfg
}
