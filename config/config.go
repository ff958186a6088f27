package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server Server
	Bot    Bot
	Sheets Sheets
	Redis  Redis
	Kafka  Kafka
	Observ Observability
	Limits Limits
}

type Server struct {
	Port string
	Env  string
}

type Bot struct {
	Token string
}

type Sheets struct {
	SpreadsheetID   string
	CredentialsFile string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

// Kafka configures the optional event mirror. Empty Brokers disables it.
type Kafka struct {
	Brokers []string
	Topic   string
}

type Observability struct {
	JaegerEndpoint string
}

// Limits holds the validation thresholds and interface tunables. They are
// read once at startup and passed into the model constructors.
type Limits struct {
	DOMin            float64
	DOMax            float64
	TempMin          float64
	TempMax          float64
	MaxFeedingMassKg float64
	MaxAvgWeightG    float64
	MaxStockMassKg   float64
	CacheTTL         time.Duration
	PageSize         int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_SECONDS", "60"))
	pageSize, _ := strconv.Atoi(getEnv("PAGINATION_PAGE_SIZE", "5"))

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); raw != "" {
		brokers = strings.Split(raw, ",")
	}

	cfg := &Config{
		Server: Server{
			Port: getEnv("OPS_PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Bot: Bot{
			Token: getEnv("BOT_TOKEN", ""),
		},
		Sheets: Sheets{
			SpreadsheetID:   getEnv("GOOGLE_SHEETS_ID", ""),
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		},
		Redis: Redis{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: Kafka{
			Brokers: brokers,
			Topic:   getEnv("KAFKA_TOPIC_FARM_EVENTS", "farm-events"),
		},
		Observ: Observability{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Limits: Limits{
			DOMin:            getEnvFloat("DO_MIN", 4.0),
			DOMax:            getEnvFloat("DO_MAX", 20.0),
			TempMin:          getEnvFloat("TEMP_MIN", -2.0),
			TempMax:          getEnvFloat("TEMP_MAX", 35.0),
			MaxFeedingMassKg: getEnvFloat("MAX_FEEDING_MASS_KG", 500),
			MaxAvgWeightG:    getEnvFloat("MAX_AVG_FISH_WEIGHT_G", 10000),
			MaxStockMassKg:   getEnvFloat("MAX_STOCK_MASS_KG", 10000),
			CacheTTL:         time.Duration(cacheTTL) * time.Second,
			PageSize:         pageSize,
		},
	}

	log.Printf("Config loaded: env=%s, ops_port=%s", cfg.Server.Env, cfg.Server.Port)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
