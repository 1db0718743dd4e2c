package model

import "time"

// Comment — комментарий пина. Хронологически первый комментарий пина
// является его телом («корневым»), все последующие — ответы.
type Comment struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	PinID  int64 `gorm:"not null;index" json:"-"`
	Pin    *Pin  `gorm:"foreignKey:PinID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	UserID int64 `gorm:"not null" json:"-"`

	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Заполняются при выдаче списков, в БД не хранятся.
	User        *User         `gorm:"-" json:"user,omitempty"`
	Attachments []*Attachment `gorm:"-" json:"attachments,omitempty"`
}
