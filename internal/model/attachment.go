package model

// Attachment — загруженный файл, принадлежащий комментарию.
// RawData хранит метаданные как JSON-текст; Data — распакованное
// представление для ответа API.
type Attachment struct {
	ID        int64    `gorm:"primaryKey" json:"id"`
	CommentID int64    `gorm:"not null;index" json:"-"`
	Comment   *Comment `gorm:"foreignKey:CommentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	URL     string `gorm:"not null" json:"url"`
	RawData string `gorm:"column:data;type:text" json:"-"`

	Data map[string]any `gorm:"-" json:"data"`
}
