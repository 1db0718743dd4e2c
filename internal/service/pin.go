package service

import (
	"context"
	"mime/multipart"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pinboard/internal/model"
	"pinboard/internal/repo"
)

// PinService — операции над пинами: листинг с агрегацией связей,
// создание с корневым комментарием и вложениями, завершение, удаление.
type PinService struct {
	pins     repo.PinRepository
	agg      *Aggregator
	uploader *Uploader
	logger   *zap.SugaredLogger
}

// NewPinService создаёт сервис пинов.
func NewPinService(pins repo.PinRepository, agg *Aggregator, uploader *Uploader, logger *zap.SugaredLogger) *PinService {
	return &PinService{pins: pins, agg: agg, uploader: uploader, logger: logger}
}

// List возвращает пины приложения с пользователем и корневым комментарием
// (включая его вложения). Независимые выборки выполняются параллельно;
// неудачные деградируют до отсутствующих связей, а не до ошибки списка.
func (s *PinService) List(ctx context.Context, appID string, userID int64, path string) ([]*model.Pin, error) {
	pins, err := s.pins.List(ctx, appID, userID, path)
	if err != nil {
		return nil, err
	}
	if len(pins) == 0 {
		return pins, nil
	}

	pinIDs := make([]int64, 0, len(pins))
	userIDs := make([]int64, 0, len(pins))
	for _, p := range pins {
		pinIDs = append(pinIDs, p.ID)
		userIDs = append(userIDs, p.UserID)
	}

	var (
		users       map[int64]*model.User
		roots       map[int64]*model.Comment
		attachments map[int64][]*model.Attachment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users = s.agg.Users(gctx, userIDs)
		return nil
	})
	g.Go(func() error {
		roots = s.agg.RootComments(gctx, pinIDs)
		commentIDs := make([]int64, 0, len(roots))
		for _, c := range roots {
			commentIDs = append(commentIDs, c.ID)
		}
		attachments = s.agg.Attachments(gctx, commentIDs)
		return nil
	})
	_ = g.Wait()

	for _, p := range pins {
		p.User = users[p.UserID]
		if root, ok := roots[p.ID]; ok {
			root.Attachments = attachments[root.ID]
			p.Comment = root
		}
	}
	return pins, nil
}

// Create атомарно создаёт пин с корневым комментарием; вложения загружаются
// до коммита, их записи входят в ту же транзакцию.
func (s *PinService) Create(ctx context.Context, pin *model.Pin, text string, files []*multipart.FileHeader) error {
	return s.pins.Create(ctx, pin, text, func(ctx context.Context, commentID int64) ([]*model.Attachment, error) {
		return s.uploadAll(ctx, files)
	})
}

// Complete переключает отметку завершения: тело ровно "1" (после обрезки
// пробелов) завершает пин, любое другое — снимает отметку. Операция
// намеренно не ограничена владельцем.
func (s *PinService) Complete(ctx context.Context, pinID, userID int64, raw string) error {
	var err error
	if strings.TrimSpace(raw) == "1" {
		_, err = s.pins.Complete(ctx, pinID, userID)
	} else {
		_, err = s.pins.Uncomplete(ctx, pinID)
	}
	return err
}

// Delete удаляет пин владельца; чужой или несуществующий — тихий no-op.
// Объекты вложений в хранилище при этом не трогаются.
func (s *PinService) Delete(ctx context.Context, pinID, userID int64) error {
	_, err := s.pins.Delete(ctx, pinID, userID)
	return err
}

func (s *PinService) uploadAll(ctx context.Context, files []*multipart.FileHeader) ([]*model.Attachment, error) {
	uploaded, err := s.uploader.Upload(ctx, files)
	if err != nil {
		return nil, err
	}
	attachments := make([]*model.Attachment, 0, len(uploaded))
	for _, u := range uploaded {
		attachments = append(attachments, &model.Attachment{URL: u.URL, RawData: u.MarshalData()})
	}
	return attachments, nil
}
