package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"path/filepath"
	"slices"
	"time"

	"github.com/galdor/go-thumbhash"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"

	"pinboard/internal/config"
	"pinboard/internal/errs"
	"pinboard/internal/storage"
)

// Uploader проверяет и загружает вложения в объектное хранилище.
// Валидация — отдельным проходом до первой загрузки: при любой ошибке
// в хранилище не уходит ни один файл.
type Uploader struct {
	storage storage.Storage
	logger  *zap.SugaredLogger

	baseURL  string
	maxCount int
	maxSize  int64
	types    []string
}

// Uploaded — принятое вложение: публичный URL и метаданные
// (тип содержимого и перцептивный отпечаток).
type Uploaded struct {
	URL  string
	Data map[string]string
}

// NewUploader создаёт загрузчик с лимитами из конфига.
func NewUploader(cfg *config.Config, s storage.Storage, logger *zap.SugaredLogger) *Uploader {
	return &Uploader{
		storage:  s,
		logger:   logger,
		baseURL:  cfg.AssetsBaseURL,
		maxCount: cfg.AttachmentMaxCount,
		maxSize:  cfg.AttachmentMaxSizeBytes,
		types:    cfg.AttachmentTypes,
	}
}

// BaseURL возвращает префикс публичных URL вложений.
func (u *Uploader) BaseURL() string {
	return u.baseURL
}

// Upload валидирует файлы и загружает их по одному, сохраняя порядок входа.
func (u *Uploader) Upload(ctx context.Context, files []*multipart.FileHeader) ([]*Uploaded, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > u.maxCount {
		return nil, errs.Fields{"attachments": errs.New("TOO_MANY")}
	}

	me := make(errs.Fields)
	for i, fh := range files {
		if fh.Size > u.maxSize {
			me[fmt.Sprintf("attachments.%d", i)] = errs.New("TOO_BIG")
			continue
		}
		if !slices.Contains(u.types, fh.Header.Get("Content-Type")) {
			me[fmt.Sprintf("attachments.%d", i)] = errs.New("UNSUPPORTED")
		}
	}
	if len(me) != 0 {
		return nil, me
	}

	result := make([]*Uploaded, 0, len(files))
	for i, fh := range files {
		uploaded, err := u.uploadOne(ctx, fh)
		if err != nil {
			u.logger.Errorw("uploader: upload failed", "index", i, "name", fh.Filename, "error", err)
			return nil, errs.ErrInternalServerError
		}
		result = append(result, uploaded)
	}
	return result, nil
}

func (u *Uploader) uploadOne(ctx context.Context, fh *multipart.FileHeader) (*Uploaded, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}

	// курсор назад: декодер ушёл вглубь файла
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	contentType := fh.Header.Get("Content-Type")
	// ключ — миллисекундная метка: два файла одного расширения в одну
	// миллисекунду получают один ключ, второй перезаписывает первый
	key := fmt.Sprintf("attachments/%d%s", time.Now().UnixMilli(), filepath.Ext(fh.Filename))

	opts := &storage.UploadOpts{
		Key:           key,
		Body:          file,
		ContentType:   contentType,
		ContentLength: fh.Size,
	}
	if err := u.storage.Upload(ctx, opts); err != nil {
		return nil, err
	}

	return &Uploaded{
		URL: fmt.Sprintf("%s/%s", u.baseURL, key),
		Data: map[string]string{
			"type": contentType,
			"hash": base64.StdEncoding.EncodeToString(thumbhash.EncodeImage(img)),
		},
	}, nil
}

// MarshalData сериализует метаданные вложения для хранения.
func (a *Uploaded) MarshalData() string {
	raw, _ := json.Marshal(a.Data)
	return string(raw)
}
