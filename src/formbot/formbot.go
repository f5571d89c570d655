package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/stake-plus/discord-forms/src/formbot/bot"
	"github.com/stake-plus/discord-forms/src/formbot/components/permission"
	"github.com/stake-plus/discord-forms/src/formbot/config"
	"github.com/stake-plus/discord-forms/src/shared/data"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		dsn = "forms:forms@tcp(127.0.0.1:3306)/forms"
	}
	db := data.MustMySQL(dsn)

	if err := data.Migrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	if err := data.SeedSettings(db); err != nil {
		log.Fatalf("seed settings: %v", err)
	}

	cfg := config.Load(db)
	if cfg.Token == "" {
		log.Fatal("DISCORD_TOKEN not configured")
	}

	rdb := data.MustRedis(cfg.RedisURL)

	perms, err := permission.Load(cfg.GuildsFile)
	if err != nil {
		log.Fatalf("permissions: %v", err)
	}

	b, err := bot.New(bot.Config{
		Token: cfg.Token,
		DB:    db,
		Redis: rdb,
		Perms: perms,
	})
	if err != nil {
		log.Fatalf("create bot: %v", err)
	}

	if err := b.Start(); err != nil {
		log.Fatalf("start bot: %v", err)
	}
	log.Println("Forms bot running. Press CTRL-C to exit.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	b.Stop()
	log.Println("Forms bot stopped")
}
