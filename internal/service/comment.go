package service

import (
	"context"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pinboard/internal/model"
	"pinboard/internal/repo"
	"pinboard/internal/storage"
)

// CommentService — операции над ответами: листинг, создание с вложениями,
// правка и удаление с зачисткой объектов в хранилище.
type CommentService struct {
	comments    repo.CommentRepository
	attachments repo.AttachmentRepository
	agg         *Aggregator
	uploader    *Uploader
	storage     storage.Storage
	logger      *zap.SugaredLogger
}

// NewCommentService создаёт сервис комментариев.
func NewCommentService(
	comments repo.CommentRepository,
	attachments repo.AttachmentRepository,
	agg *Aggregator,
	uploader *Uploader,
	s storage.Storage,
	logger *zap.SugaredLogger,
) *CommentService {
	return &CommentService{
		comments:    comments,
		attachments: attachments,
		agg:         agg,
		uploader:    uploader,
		storage:     s,
		logger:      logger,
	}
}

// ListReplies возвращает ответы пина с пользователем и вложениями каждого
// ответа; выборки связей идут параллельно и деградируют независимо.
func (s *CommentService) ListReplies(ctx context.Context, pinID int64) ([]*model.Comment, error) {
	replies, err := s.comments.ListReplies(ctx, pinID)
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return replies, nil
	}

	commentIDs := make([]int64, 0, len(replies))
	userIDs := make([]int64, 0, len(replies))
	for _, c := range replies {
		commentIDs = append(commentIDs, c.ID)
		userIDs = append(userIDs, c.UserID)
	}

	var (
		users       map[int64]*model.User
		attachments map[int64][]*model.Attachment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users = s.agg.Users(gctx, userIDs)
		return nil
	})
	g.Go(func() error {
		attachments = s.agg.Attachments(gctx, commentIDs)
		return nil
	})
	_ = g.Wait()

	for _, c := range replies {
		c.User = users[c.UserID]
		c.Attachments = attachments[c.ID]
	}
	return replies, nil
}

// Create атомарно создаёт ответ и записи его вложений; файлы загружаются
// до коммита транзакции.
func (s *CommentService) Create(ctx context.Context, comment *model.Comment, files []*multipart.FileHeader) error {
	return s.comments.Create(ctx, comment, func(ctx context.Context, commentID int64) ([]*model.Attachment, error) {
		uploaded, err := s.uploader.Upload(ctx, files)
		if err != nil {
			return nil, err
		}
		attachments := make([]*model.Attachment, 0, len(uploaded))
		for _, u := range uploaded {
			attachments = append(attachments, &model.Attachment{URL: u.URL, RawData: u.MarshalData()})
		}
		return attachments, nil
	})
}

// UpdateText меняет текст комментария владельца; чужой — тихий no-op.
func (s *CommentService) UpdateText(ctx context.Context, commentID, userID int64, text string) error {
	_, err := s.comments.UpdateText(ctx, commentID, userID, text)
	return err
}

// Delete удаляет комментарий владельца вместе с объектами его вложений
// в хранилище. Если строка не удалена (чужой/нет), ключи не трогаются.
func (s *CommentService) Delete(ctx context.Context, commentID, userID int64) error {
	urls, err := s.attachments.URLsByCommentID(ctx, commentID)
	if err != nil {
		return err
	}

	n, err := s.comments.Delete(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if n == 0 || len(urls) == 0 {
		return nil
	}

	keys := make([]string, 0, len(urls))
	for _, u := range urls {
		keys = append(keys, strings.TrimPrefix(u, s.uploader.BaseURL()+"/"))
	}
	if err := s.storage.DeleteObjects(ctx, keys); err != nil {
		// записи уже удалены; осиротевшие объекты остаются в хранилище
		s.logger.Errorw("comment: storage cleanup failed", "comment_id", commentID, "keys", len(keys), "error", err)
	}
	return nil
}
