package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"go.uber.org/zap"

	"pinboard/internal/config"
	"pinboard/internal/storage"
)

// fakeStorage записывает вызовы шлюза хранилища вместо сетевых операций.
type fakeStorage struct {
	uploads   []*storage.UploadOpts
	bodies    [][]byte
	deleted   [][]string
	uploadErr error
}

func (f *fakeStorage) Upload(ctx context.Context, opts *storage.UploadOpts) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	body, err := io.ReadAll(opts.Body)
	if err != nil {
		return err
	}
	f.uploads = append(f.uploads, opts)
	f.bodies = append(f.bodies, body)
	return nil
}

func (f *fakeStorage) DeleteObjects(ctx context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys)
	return nil
}

var _ storage.Storage = (*fakeStorage)(nil)

func testUploaderConfig() *config.Config {
	return &config.Config{
		AssetsBaseURL:          "https://assets.test",
		AttachmentMaxCount:     3,
		AttachmentMaxSizeBytes: 100 * 1000,
		AttachmentTypes:        []string{"image/gif", "image/jpeg", "image/png", "image/webp"},
	}
}

// pngBytes кодирует маленькую детерминированную картинку.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

// multipartFiles собирает multipart-форму и возвращает заголовки файлов
// поля attachments — так хендлер передаёт файлы в загрузчик.
func multipartFiles(t *testing.T, files ...testFile) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachments"; filename="%s"`, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("failed to create part: %v", err)
		}
		if _, err := part.Write(f.data); err != nil {
			t.Fatalf("failed to write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	return form.File["attachments"]
}

func nopLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
