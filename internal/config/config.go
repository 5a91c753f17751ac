package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort    string
	TelegramToken string
	BotAPIKey     string
	QuestionsFile string

	MaxPlayers    int
	MinPlayers    int
	AnswerTimeout time.Duration
	GameTTL       time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment")
	}

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		TelegramToken: getEnv("TELEGRAM_TOKEN", ""),
		BotAPIKey:     getEnv("BOT_API_KEY", "bot-api-key-change-me"),
		QuestionsFile: getEnv("QUESTIONS_FILE", ""),
		MaxPlayers:    getEnvInt("MAX_PLAYERS", 6),
		MinPlayers:    getEnvInt("MIN_PLAYERS", 2),
		AnswerTimeout: getEnvSeconds("ANSWER_TIMEOUT", 30*time.Second),
		GameTTL:       getEnvSeconds("GAME_TTL", 2*time.Hour),
		DBHost:        getEnv("DB_HOST", ""),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "kinokviz"),
	}
}

// HistoryEnabled reports whether the optional game history store is
// configured.
func (c *Config) HistoryEnabled() bool {
	return c.DBHost != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
		log.Printf("config: invalid %s=%q, using %d", key, val, fallback)
	}
	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		log.Printf("config: invalid %s=%q, using %s", key, val, fallback)
	}
	return fallback
}
