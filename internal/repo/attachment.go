package repo

import (
	"context"

	"gorm.io/gorm"

	"pinboard/internal/model"
)

// AttachmentRepository — доступ к вложениям.
type AttachmentRepository interface {
	// GetByCommentIDs возвращает вложения картой по id комментария,
	// внутри списка — в порядке вставки.
	GetByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64][]*model.Attachment, error)

	// URLsByCommentID возвращает URL всех вложений комментария.
	URLsByCommentID(ctx context.Context, commentID int64) ([]string, error)
}

type attachmentRepo struct {
	db *gorm.DB
}

// NewAttachmentRepository создаёт реализацию репозитория для Attachment.
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepo{db: db}
}

func (r *attachmentRepo) GetByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64][]*model.Attachment, error) {
	if len(commentIDs) == 0 {
		return map[int64][]*model.Attachment{}, nil
	}

	var attachments []*model.Attachment
	err := r.db.WithContext(ctx).
		Where("comment_id IN ?", commentIDs).
		Order("id ASC").
		Find(&attachments).Error
	if err != nil {
		return nil, err
	}

	m := make(map[int64][]*model.Attachment, len(commentIDs))
	for _, a := range attachments {
		m[a.CommentID] = append(m[a.CommentID], a)
	}
	return m, nil
}

func (r *attachmentRepo) URLsByCommentID(ctx context.Context, commentID int64) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).
		Model(&model.Attachment{}).
		Where("comment_id = ?", commentID).
		Pluck("url", &urls).Error
	if err != nil {
		return nil, err
	}
	return urls, nil
}
