package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr     string
	APIBaseURL     string
	SessionSecret  string
	SessionBackend string // "cookie" or "redis"
	RedisHost      string
	RedisPort      int
	HTTPTimeout    time.Duration
}

func LoadConfig() Config {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Only log outside of test mode
		if os.Getenv("GO_ENV") != "test" {
			log.Println("No .env file found, using default values")
		}
	}

	listenAddr := os.Getenv("LISTEN_ADDR")
	if listenAddr == "" {
		listenAddr = ":3004"
	}

	apiBaseURL := os.Getenv("API_BASE_URL")
	if apiBaseURL == "" {
		apiBaseURL = "http://localhost:8000"
	}

	backend := os.Getenv("SESSION_BACKEND")
	if backend != "redis" {
		backend = "cookie"
	}

	redisPort, err := strconv.Atoi(os.Getenv("REDIS_PORT"))
	if err != nil {
		redisPort = 6379
	}

	timeoutSec, err := strconv.Atoi(os.Getenv("HTTP_TIMEOUT_SECONDS"))
	if err != nil {
		timeoutSec = 10
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret"
	}

	return Config{
		ListenAddr:     listenAddr,
		APIBaseURL:     apiBaseURL,
		SessionSecret:  secret,
		SessionBackend: backend,
		RedisHost:      os.Getenv("REDIS_HOST"),
		RedisPort:      redisPort,
		HTTPTimeout:    time.Duration(timeoutSec) * time.Second,
	}
}
