package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pinboard/internal/model"
)

// UserRepository — доступ к пользователям.
type UserRepository interface {
	// Upsert создаёт пользователя или, при совпадении (_id, app_id),
	// обновляет имя. Возвращает внутренний id.
	Upsert(ctx context.Context, user *model.User) (int64, error)

	// GetByIDs возвращает пользователей картой по внутреннему id.
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error)
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) Upsert(ctx context.Context, user *model.User) (int64, error) {
	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "_id"}, {Name: "app_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name"}),
	}).Create(user)
	if tx.Error != nil {
		return 0, tx.Error
	}

	// На конфликтном пути некоторые диалекты не возвращают id —
	// дочитываем его по уникальной паре.
	if user.ID == 0 {
		var existing model.User
		err := r.db.WithContext(ctx).
			Where(`"_id" = ? AND app_id = ?`, user.ExternalID, user.AppID).
			First(&existing).Error
		if err != nil {
			return 0, err
		}
		user.ID = existing.ID
	}
	return user.ID, nil
}

func (r *userRepo) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.User, error) {
	if len(ids) == 0 {
		return map[int64]*model.User{}, nil
	}

	var users []*model.User
	err := r.db.WithContext(ctx).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	m := make(map[int64]*model.User, len(users))
	for _, u := range users {
		m[u.ID] = u
	}
	return m, nil
}
