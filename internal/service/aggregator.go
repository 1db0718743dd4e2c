package service

import (
	"context"
	"encoding/json"
	"sync/atomic"

	"go.uber.org/zap"

	"pinboard/internal/model"
	"pinboard/internal/repo"
)

// Aggregator выполняет пакетные выборки связанных сущностей для операций
// листинга. Неудачная выборка деградирует до пустой карты: вызывающий код
// не различает «ничего не найдено» и «выборка упала». Количество падений
// копится во внутреннем счётчике.
type Aggregator struct {
	users       repo.UserRepository
	comments    repo.CommentRepository
	attachments repo.AttachmentRepository
	logger      *zap.SugaredLogger

	failures atomic.Int64
}

// NewAggregator создаёт агрегатор поверх репозиториев.
func NewAggregator(
	users repo.UserRepository,
	comments repo.CommentRepository,
	attachments repo.AttachmentRepository,
	logger *zap.SugaredLogger,
) *Aggregator {
	return &Aggregator{users: users, comments: comments, attachments: attachments, logger: logger}
}

// Failures возвращает число выборок, деградировавших до пустого результата.
func (a *Aggregator) Failures() int64 {
	return a.failures.Load()
}

// Users возвращает пользователей картой по id.
func (a *Aggregator) Users(ctx context.Context, ids []int64) map[int64]*model.User {
	m, err := a.users.GetByIDs(ctx, ids)
	if err != nil {
		a.failures.Add(1)
		a.logger.Errorw("aggregator: users lookup failed", "ids", len(ids), "error", err)
		return map[int64]*model.User{}
	}
	return m
}

// RootComments возвращает корневые комментарии картой по id пина.
func (a *Aggregator) RootComments(ctx context.Context, pinIDs []int64) map[int64]*model.Comment {
	m, err := a.comments.RootByPinIDs(ctx, pinIDs)
	if err != nil {
		a.failures.Add(1)
		a.logger.Errorw("aggregator: root comments lookup failed", "pins", len(pinIDs), "error", err)
		return map[int64]*model.Comment{}
	}
	return m
}

// Attachments возвращает вложения картой по id комментария.
// Метаданные распаковываются из JSON; пустые остаются отсутствующими.
func (a *Aggregator) Attachments(ctx context.Context, commentIDs []int64) map[int64][]*model.Attachment {
	m, err := a.attachments.GetByCommentIDs(ctx, commentIDs)
	if err != nil {
		a.failures.Add(1)
		a.logger.Errorw("aggregator: attachments lookup failed", "comments", len(commentIDs), "error", err)
		return map[int64][]*model.Attachment{}
	}

	for _, list := range m {
		for _, att := range list {
			if att.RawData == "" {
				continue
			}
			if err := json.Unmarshal([]byte(att.RawData), &att.Data); err != nil {
				a.logger.Warnw("aggregator: bad attachment metadata", "attachment_id", att.ID, "error", err)
			}
		}
	}
	return m
}
