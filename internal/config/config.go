package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	App struct {
		Env     string `mapstructure:"env"`
		Port    string `mapstructure:"port"`
		BaseURL string `mapstructure:"base_url"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Storage struct {
		Driver  string        `mapstructure:"driver"`
		Latency time.Duration `mapstructure:"latency"`
	} `mapstructure:"storage"`
	Redis struct {
		Addr       string        `mapstructure:"addr"`
		Password   string        `mapstructure:"password"`
		DB         int           `mapstructure:"db"`
		ListingTTL time.Duration `mapstructure:"listing_ttl"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		GroupID string   `mapstructure:"group_id"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
	Gallery struct {
		RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	} `mapstructure:"gallery"`
	Vote struct {
		RateLimit  int           `mapstructure:"rate_limit"`
		RateWindow time.Duration `mapstructure:"rate_window"`
	} `mapstructure:"vote"`
	Share struct {
		QRSize int `mapstructure:"qr_size"`
	} `mapstructure:"share"`
}

// LoadConfig reads .env, then config.yaml from the given paths (default "."),
// then environment overrides.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	v := viper.New()

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.base_url", "APP_BASE_URL")
	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("storage.driver", "STORAGE_DRIVER")
	v.BindEnv("storage.latency", "STORAGE_LATENCY")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.group_id", "KAFKA_GROUP_ID")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("jaeger.otlp_endpoint", "OTLP_ENDPOINT")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	err = v.Unmarshal(&cfg)
	if err != nil {
		return
	}

	// KAFKA_BROKERS arrives as one comma separated string.
	if len(cfg.Kafka.Brokers) == 1 && strings.Contains(cfg.Kafka.Brokers[0], ",") {
		cfg.Kafka.Brokers = strings.Split(cfg.Kafka.Brokers[0], ",")
	}
	return
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.base_url", "http://localhost:3000")
	v.SetDefault("storage.driver", StorageDriverPostgres)
	v.SetDefault("storage.latency", "0s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.listing_ttl", "5m")
	v.SetDefault("kafka.group_id", "portfolio-processor-group")
	v.SetDefault("auth.token_lifespan", "24h")
	v.SetDefault("gallery.refresh_interval", "30s")
	v.SetDefault("vote.rate_limit", 20)
	v.SetDefault("vote.rate_window", "1m")
	v.SetDefault("share.qr_size", 256)
}
