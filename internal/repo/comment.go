package repo

import (
	"context"

	"gorm.io/gorm"

	"pinboard/internal/model"
)

// CommentRepository — доступ к комментариям.
type CommentRepository interface {
	// ListReplies возвращает ответы пина по возрастанию id,
	// пропуская корневой (первый) комментарий.
	ListReplies(ctx context.Context, pinID int64) ([]*model.Comment, error)

	// Create атомарно создаёт комментарий и его вложения.
	Create(ctx context.Context, comment *model.Comment, attach AttachFunc) error

	// UpdateText меняет текст комментария владельца; чужой — ноль строк.
	UpdateText(ctx context.Context, commentID, userID int64, text string) (int64, error)

	// Delete удаляет комментарий владельца; чужой — ноль строк.
	Delete(ctx context.Context, commentID, userID int64) (int64, error)

	// RootByPinIDs возвращает корневой комментарий каждого пина:
	// самый ранний по created_at, при равенстве — с меньшим id.
	RootByPinIDs(ctx context.Context, pinIDs []int64) (map[int64]*model.Comment, error)
}

type commentRepo struct {
	db *gorm.DB
}

// NewCommentRepository создаёт реализацию репозитория для Comment.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepo{db: db}
}

func (r *commentRepo) ListReplies(ctx context.Context, pinID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := r.db.WithContext(ctx).
		Select("id", "user_id", "text", "created_at", "updated_at").
		Where("pin_id = ?", pinID).
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return comments, nil
	}
	// первая строка — корневой комментарий, в ответы не входит
	return comments[1:], nil
}

func (r *commentRepo) Create(ctx context.Context, comment *model.Comment, attach AttachFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if attach == nil {
			return nil
		}
		attachments, err := attach(ctx, comment.ID)
		if err != nil {
			return err
		}
		if len(attachments) == 0 {
			return nil
		}
		for _, a := range attachments {
			a.CommentID = comment.ID
		}
		return tx.Create(attachments).Error
	})
}

func (r *commentRepo) UpdateText(ctx context.Context, commentID, userID int64, text string) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ? AND user_id = ?", commentID, userID).
		Update("text", text)
	return tx.RowsAffected, tx.Error
}

func (r *commentRepo) Delete(ctx context.Context, commentID, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", commentID, userID).
		Delete(&model.Comment{})
	return tx.RowsAffected, tx.Error
}

func (r *commentRepo) RootByPinIDs(ctx context.Context, pinIDs []int64) (map[int64]*model.Comment, error) {
	if len(pinIDs) == 0 {
		return map[int64]*model.Comment{}, nil
	}

	var comments []*model.Comment
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, pin_id, text, created_at, updated_at
		FROM (
			SELECT c.*, ROW_NUMBER() OVER (PARTITION BY c.pin_id ORDER BY c.created_at ASC, c.id ASC) AS rn
			FROM comments c
			WHERE c.pin_id IN ?
		) roots
		WHERE roots.rn = 1
	`, pinIDs).Scan(&comments).Error
	if err != nil {
		return nil, err
	}

	m := make(map[int64]*model.Comment, len(comments))
	for _, c := range comments {
		m[c.PinID] = c
	}
	return m, nil
}
