package config

import (
	"log"
	"os"
)

type Config struct {
	Port      string
	MySQLDSN  string
	JWTSecret string
	APIToken  string
}

func Load() Config {
	cfg := Config{
		Port:      getenv("PORT", "8080"),
		MySQLDSN:  getenv("MYSQL_DSN", "forms:forms@tcp(127.0.0.1:3306)/forms"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		APIToken:  os.Getenv("API_TOKEN"),
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if cfg.APIToken == "" {
		log.Fatal("API_TOKEN is not set")
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
