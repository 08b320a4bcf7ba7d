// Package config provides centralized default values for DrinkMate
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// Legacy commerce backend
	BackendURL            string
	BackendRequestTimeout time.Duration

	// Security
	JWTSecret         string
	AESKey            string
	AdminPasswordHash string
	SessionTokenTTL   time.Duration

	// Cart Configuration
	CartStoreBackend string
	CartDBDriver     string
	CartDBPath       string
	RedisAddr        string
	CartTTL          time.Duration
	MaxCartsInMemory int

	// Promotion Configuration (amounts in SAR)
	FreeShippingThreshold float64
	FreeGiftThreshold     float64
	FreeGiftUpperBound    float64

	// Chat Configuration
	ChatHistoryTTL     time.Duration
	MaxChatMessages    int
	ChatSendBufferSize int

	// Email
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	StorefrontURL string

	// Media
	MediaDirectory string

	// Cleanup Intervals
	CartCleanupInterval time.Duration
	CartCleanupVerbose  bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// Legacy commerce backend
	BackendURL = getEnvString("BACKEND_URL", "http://localhost:5000")
	BackendRequestTimeout = getEnvDuration("BACKEND_REQUEST_TIMEOUT", 10*time.Second)

	// Security
	JWTSecret = getEnvString("JWT_SECRET", "")
	AESKey = getEnvString("AES_KEY", "")
	AdminPasswordHash = getEnvString("ADMIN_PASSWORD_HASH", "")
	SessionTokenTTL = time.Duration(getEnvInt("SESSION_TOKEN_TTL_HOURS", 720)) * time.Hour

	// Cart
	CartStoreBackend = getEnvString("CART_STORE_BACKEND", "sqlite")
	CartDBDriver = getEnvString("CART_DB_DRIVER", "sqlite3")
	CartDBPath = getEnvString("CART_DB_PATH", "drinkmate.db")
	RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	CartTTL = time.Duration(getEnvInt("CART_TTL_HOURS", 168)) * time.Hour
	MaxCartsInMemory = getEnvInt("MAX_CARTS_IN_MEMORY", 10000)

	// Promotions
	FreeShippingThreshold = getEnvFloat("FREE_SHIPPING_THRESHOLD", 250)
	FreeGiftThreshold = getEnvFloat("FREE_GIFT_THRESHOLD", 100)
	FreeGiftUpperBound = getEnvFloat("FREE_GIFT_UPPER_BOUND", 150)

	// Chat
	ChatHistoryTTL = time.Duration(getEnvInt("CHAT_HISTORY_TTL_HOURS", 24)) * time.Hour
	MaxChatMessages = getEnvInt("MAX_CHAT_MESSAGES", 200)
	ChatSendBufferSize = getEnvInt("CHAT_SEND_BUFFER_SIZE", 32)

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "orders@drinkmate.sa")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "DrinkMate")
	StorefrontURL = getEnvString("STOREFRONT_URL", "https://drinkmate.sa")

	// Media
	MediaDirectory = getEnvString("MEDIA_DIRECTORY", "media")

	// Cleanup Intervals
	CartCleanupInterval = time.Duration(getEnvInt("CART_CLEANUP_INTERVAL_MINUTES", 30)) * time.Minute
	CartCleanupVerbose = getEnvString("CART_CLEANUP_VERBOSE", "true") == "true"
}
