package model

import "time"

// Pin — позиционная аннотация, привязанная к пути внутри приложения.
// Колонки с подчёркиванием (_path, _x, _y) — «относительная» половина
// двойных координат, исторические имена из схемы виджета.
type Pin struct {
	ID     int64  `gorm:"primaryKey" json:"id"`
	AppID  string `gorm:"not null;index" json:"-"`
	UserID int64  `gorm:"not null" json:"-"`
	User   *User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`

	LogicalPath string  `gorm:"column:_path;not null" json:"-"`
	Path        string  `gorm:"not null" json:"path"`
	W           float64 `gorm:"not null" json:"w"`
	RelX        float64 `gorm:"column:_x;not null" json:"_x"`
	X           float64 `gorm:"not null" json:"x"`
	RelY        float64 `gorm:"column:_y;not null" json:"_y"`
	Y           float64 `gorm:"not null" json:"y"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`

	// Оба поля либо установлены, либо NULL.
	CompletedAt   *time.Time `json:"completed_at"`
	CompletedByID *int64     `json:"-"`

	// Заполняются при выдаче списков, в БД не хранятся.
	Comment      *Comment `gorm:"-" json:"comment"`
	TotalReplies int64    `gorm:"->;-:migration" json:"total_replies"`
}
