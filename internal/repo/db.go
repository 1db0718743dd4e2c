package repo

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pinboard/internal/model"
)

// InitDB открывает подключение к Postgres и прогоняет миграции схемы.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт таблицы users/pins/comments/attachments с внешними ключами.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Pin{},
		&model.Comment{},
		&model.Attachment{},
	)
}
