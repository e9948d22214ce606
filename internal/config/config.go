// Package config loads the storefront settings from .env and the environment.
package config

import (
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Where customers are sent to claim an order.
const (
	DefaultDiscordTicketURL = "https://discord.com/channels/1431137964544491533/1431137965211385900"
	DefaultWhatsAppNumber   = "918089153924"
)

type AppConfig struct {
	Port string
	Env  string

	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	RedisAddr     string
	KafkaBrokers  []string
	OrderTopic    string
	ActivityTopic string

	DiscordTicketURL  string
	WhatsAppNumber    string
	CurrencySymbol    string
	PaymentQRURL      string
	FeedbackAvatarURL string

	ActivityEnabled bool
	AdminJWTSecret  string

	RateLimit   float64
	RateBurst   int
	SessionTTL  time.Duration
	CORSOrigins []string
}

// Load reads .env when present, then the environment.
func Load() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := &AppConfig{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "3306"),
		DBUser: getEnv("DB_USER", "root"),
		DBPass: getEnv("DB_PASS", ""),
		DBName: getEnv("DB_NAME", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers:  splitList(getEnv("KAFKA_BROKERS", "localhost:9092")),
		OrderTopic:    getEnv("ORDER_TOPIC", "order-topic"),
		ActivityTopic: getEnv("ACTIVITY_TOPIC", "activity-topic"),

		DiscordTicketURL:  getEnv("DISCORD_TICKET_URL", DefaultDiscordTicketURL),
		WhatsAppNumber:    getEnv("WHATSAPP_NUMBER", DefaultWhatsAppNumber),
		CurrencySymbol:    getEnv("CURRENCY_SYMBOL", "₹"),
		PaymentQRURL:      getEnv("PAYMENT_QR_URL", ""),
		FeedbackAvatarURL: getEnv("FEEDBACK_AVATAR_URL", ""),

		ActivityEnabled: getBool("ACTIVITY_ENABLED", false),
		AdminJWTSecret:  getEnv("ADMIN_JWT_SECRET", ""),

		RateLimit:   getFloat("RATE_LIMIT", 5),
		RateBurst:   getInt("RATE_BURST", 10),
		SessionTTL:  getDuration("SESSION_TTL", 30*time.Minute),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}
	if cfg.DiscordTicketURL == "" || cfg.WhatsAppNumber == "" {
		log.Warn().Msg("DISCORD_TICKET_URL or WHATSAPP_NUMBER is empty, order hand-off links will not work")
	}
	return cfg
}

// DSN builds the MySQL data source name. Times are parsed into time.Time and
// UPDATE reports matched rather than changed rows.
func (c *AppConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = c.DBUser
	cfg.Passwd = c.DBPass
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
	cfg.DBName = c.DBName
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return defaultValue
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
