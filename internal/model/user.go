package model

// User — пользователь в рамках приложения (тенанта).
// Внешний идентификатор приходит от клиента и уникален внутри app_id.
type User struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"column:_id;not null;uniqueIndex:idx_users_ext_app" json:"-"`
	AppID      string `gorm:"not null;uniqueIndex:idx_users_ext_app" json:"-"`
	Name       string `gorm:"not null" json:"name"`
}
