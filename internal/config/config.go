package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// LowStockThreshold is the stock level at or below which sellers
	// get a restock alert.
	LowStockThreshold int

	// SessionCookie is the name of the session id cookie.
	SessionCookie string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string

	EmailTemplateDir string
}

func Load() Config {
	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		DBDSN:             getenv("DB_DSN", "lapak.db"),
		LogFile:           getenv("LOG_FILE", "./lapak.log"),
		LowStockThreshold: getenvInt("LOW_STOCK_THRESHOLD", 10),
		SessionCookie:     getenv("SESSION_COOKIE", "sid"),
		SMTPHost:          os.Getenv("MAIL_HOST"),
		SMTPPort:          getenv("MAIL_PORT", "587"),
		SMTPUser:          os.Getenv("MAIL_USER"),
		SMTPPass:          os.Getenv("MAIL_PASS"),
		MailFrom:          getenv("MAIL_FROM", "noreply@lapak.test"),
		EmailTemplateDir:  getenv("EMAIL_TEMPLATE_DIR", "./web/templates/email"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOW_STOCK_THRESHOLD=%d MAIL_HOST=%s",
		cfg.Port, cfg.DBDSN, cfg.LowStockThreshold, cfg.SMTPHost)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] bad %s=%q, using %d", key, v, def)
		return def
	}
	return n
}
