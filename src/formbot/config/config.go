package config

import (
	"log"
	"os"

	"github.com/stake-plus/discord-forms/src/shared/data"
	"gorm.io/gorm"
)

type Config struct {
	Token      string
	GuildsFile string
	MySQLDSN   string
	RedisURL   string
}

func Load(db *gorm.DB) Config {
	// Load settings from database
	if err := data.LoadSettings(db); err != nil {
		log.Printf("Failed to load settings: %v", err)
	}

	// Get values from database with env fallbacks
	discordToken := data.GetSetting("discord_token")
	if discordToken == "" {
		discordToken = os.Getenv("DISCORD_TOKEN")
	}

	return Config{
		Token:      discordToken,
		GuildsFile: getenv("GUILDS_FILE", "guilds.yml"),
		MySQLDSN:   getenv("MYSQL_DSN", "forms:forms@tcp(127.0.0.1:3306)/forms"),
		RedisURL:   getenv("REDIS_URL", "redis://127.0.0.1:6379/0"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
