package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Mongo    MongoConfig
	Cors     CorsConfig
	Quiz     QuizServiceConfig
	Rabbit   RabbitConfig
	Consul   ConsulConfig
	Matching MatchingConfig
}

type ServerConfig struct {
	Port string
}

type MongoConfig struct {
	URI      string
	Database string
}

type CorsConfig struct {
	Origin string
}

// QuizServiceConfig configures the outbound call to the quiz-orchestration
// collaborator. BaseURL is used directly unless Consul discovery is enabled.
type QuizServiceConfig struct {
	BaseURL     string
	Name        string
	CallTimeout time.Duration
}

type RabbitConfig struct {
	URI      string
	Exchange string
}

type ConsulConfig struct {
	Address        string
	ServiceName    string
	ServiceAddress string
}

type MatchingConfig struct {
	// CategoryInsensitive switches category lookups to case-insensitive
	// matching. Default is exact match.
	CategoryInsensitive bool
}

// Load reads .env (if present) and builds the config from environment
// variables. MONGO_URI is the only required setting.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Mongo: MongoConfig{
			URI:      os.Getenv("MONGO_URI"),
			Database: getEnv("MONGO_DB", "question_service"),
		},
		Cors: CorsConfig{
			Origin: getEnv("CORS_ORIGIN", "http://localhost:5173"),
		},
		Quiz: QuizServiceConfig{
			BaseURL:     getEnv("QUIZ_SERVICE_URL", "http://localhost:8081"),
			Name:        getEnv("QUIZ_SERVICE_NAME", "quiz-service"),
			CallTimeout: getDuration("QUIZ_CALL_TIMEOUT", 5*time.Second),
		},
		Rabbit: RabbitConfig{
			URI:      os.Getenv("RABBITMQ_URI"),
			Exchange: os.Getenv("RABBITMQ_EXCHANGE"),
		},
		Consul: ConsulConfig{
			Address:        os.Getenv("CONSUL_ADDR"),
			ServiceName:    getEnv("SERVICE_NAME", "question-service"),
			ServiceAddress: getEnv("SERVICE_ADDRESS", "localhost"),
		},
		Matching: MatchingConfig{
			CategoryInsensitive: getEnv("CATEGORY_MATCH_INSENSITIVE", "false") == "true",
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default %v", key, v, fallback)
		return fallback
	}
	return d
}
