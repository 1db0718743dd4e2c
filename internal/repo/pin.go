package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"pinboard/internal/model"
)

// AttachFunc вызывается внутри транзакции создания и возвращает записи
// вложений для только что созданного комментария. Ошибка откатывает
// транзакцию целиком.
type AttachFunc func(ctx context.Context, commentID int64) ([]*model.Attachment, error)

// PinRepository — доступ к пинам.
type PinRepository interface {
	// List возвращает пины приложения, новые первыми, с числом ответов.
	// userID=0 и path="" отключают соответствующие фильтры.
	List(ctx context.Context, appID string, userID int64, path string) ([]*model.Pin, error)

	// Create атомарно создаёт пин, его корневой комментарий и вложения.
	Create(ctx context.Context, pin *model.Pin, text string, attach AttachFunc) error

	// Complete проставляет отметку завершения, если пин ещё открыт.
	Complete(ctx context.Context, pinID, userID int64) (int64, error)

	// Uncomplete снимает отметку завершения, если она стоит.
	Uncomplete(ctx context.Context, pinID int64) (int64, error)

	// Delete удаляет пин владельца; чужой или несуществующий — ноль строк.
	Delete(ctx context.Context, pinID, userID int64) (int64, error)
}

type pinRepo struct {
	db *gorm.DB
}

// NewPinRepository создаёт реализацию репозитория для Pin.
func NewPinRepository(db *gorm.DB) PinRepository {
	return &pinRepo{db: db}
}

func (r *pinRepo) List(ctx context.Context, appID string, userID int64, path string) ([]*model.Pin, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Pin{}).
		Select("pins.*, (SELECT COUNT(c.id)-1 FROM comments c WHERE c.pin_id = pins.id) AS total_replies").
		Where("app_id = ?", appID)
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if path != "" {
		q = q.Where(`"_path" = ?`, path)
	}

	var pins []*model.Pin
	if err := q.Order("id DESC").Find(&pins).Error; err != nil {
		return nil, err
	}
	return pins, nil
}

func (r *pinRepo) Create(ctx context.Context, pin *model.Pin, text string, attach AttachFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(pin).Error; err != nil {
			return err
		}

		comment := &model.Comment{PinID: pin.ID, UserID: pin.UserID, Text: text}
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

func (r *pinRepo) Complete(ctx context.Context, pinID, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Pin{}).
		Where("id = ? AND completed_at IS NULL", pinID).
		Updates(map[string]any{
			"completed_at":    time.Now().UTC(),
			"completed_by_id": userID,
		})
	return tx.RowsAffected, tx.Error
}

func (r *pinRepo) Uncomplete(ctx context.Context, pinID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Pin{}).
		Where("id = ? AND completed_at IS NOT NULL", pinID).
		Updates(map[string]any{
			"completed_at":    nil,
			"completed_by_id": nil,
		})
	return tx.RowsAffected, tx.Error
}

func (r *pinRepo) Delete(ctx context.Context, pinID, userID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", pinID, userID).
		Delete(&model.Pin{})
	return tx.RowsAffected, tx.Error
}
