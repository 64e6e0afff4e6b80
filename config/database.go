package config

import (
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey, which the
	// quote controllers rely on to report numbering conflicts as 409.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		panic("Failed to connect database")
	}

	DB = db
}
