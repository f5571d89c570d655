package data

import (
	"log"

	"github.com/stake-plus/discord-forms/src/shared/types"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func MustMySQL(dsn string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	return db
}

// Migrate creates or updates the forms schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.FormTemplate{},
		&types.SubmittedForm{},
		&types.FormVote{},
		&types.Setting{},
	)
}
