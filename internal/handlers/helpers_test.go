package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"pinboard/internal/config"
	"pinboard/internal/handlers"
	"pinboard/internal/middleware"
	"pinboard/internal/repo"
	"pinboard/internal/service"
	"pinboard/internal/storage"
)

// fakeStorage подменяет шлюз хранилища, запоминая загрузки и удаления.
type fakeStorage struct {
	uploads []*storage.UploadOpts
	deleted [][]string
}

func (f *fakeStorage) Upload(ctx context.Context, opts *storage.UploadOpts) error {
	if _, err := io.ReadAll(opts.Body); err != nil {
		return err
	}
	f.uploads = append(f.uploads, opts)
	return nil
}

func (f *fakeStorage) DeleteObjects(ctx context.Context, keys []string) error {
	f.deleted = append(f.deleted, keys)
	return nil
}

var _ storage.Storage = (*fakeStorage)(nil)

// env — полный стек хендлеров поверх in-memory SQLite и фейкового хранилища.
type env struct {
	router  http.Handler
	db      *gorm.DB
	storage *fakeStorage
}

func newEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	cfg := &config.Config{
		AssetsBaseURL:          "https://assets.test",
		AttachmentMaxCount:     3,
		AttachmentMaxSizeBytes: 100 * 1000,
		AttachmentTypes:        []string{"image/gif", "image/jpeg", "image/png", "image/webp"},
	}
	fs := &fakeStorage{}
	logger := zap.NewNop().Sugar()

	userRepo := repo.NewUserRepository(db)
	pinRepo := repo.NewPinRepository(db)
	commentRepo := repo.NewCommentRepository(db)
	attachmentRepo := repo.NewAttachmentRepository(db)

	agg := service.NewAggregator(userRepo, commentRepo, attachmentRepo, logger)
	uploader := service.NewUploader(cfg, fs, logger)

	userService := service.NewUserService(userRepo, logger)
	pinService := service.NewPinService(pinRepo, agg, uploader, logger)
	commentService := service.NewCommentService(commentRepo, attachmentRepo, agg, uploader, fs, logger)

	h := handlers.NewHandler(userService, pinService, commentService, logger)
	return &env{router: h.Router, db: db, storage: fs}
}

func (e *env) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// identify проставляет заголовки приложения и пользователя.
func identify(req *http.Request, appID string, userID int64) *http.Request {
	if appID != "" {
		req.Header.Set(middleware.HeaderAppID, appID)
	}
	if userID != 0 {
		req.Header.Set(middleware.HeaderUserID, strconv.FormatInt(userID, 10))
	}
	return req
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

type testFile struct {
	name        string
	contentType string
	data        []byte
}

// formRequest собирает multipart-запрос из полей и файлов attachments.
func formRequest(t *testing.T, method, path string, fields map[string]string, files ...testFile) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachments"; filename="%s"`, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// pinFields — валидная форма создания пина.
func pinFields(text string) map[string]string {
	return map[string]string{
		"_path": "/docs",
		"path":  "https://app.test/docs",
		"w":     "800",
		"_x":    "0.4",
		"x":     "320",
		"_y":    "0.2",
		"y":     "160",
		"text":  text,
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
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// createUser регистрирует пользователя через API и возвращает внутренний id.
func (e *env) createUser(t *testing.T, appID, externalID, name string) int64 {
	t.Helper()
	req := identify(jsonRequest(t, http.MethodPost, "/v1/users", map[string]string{"id": externalID, "name": name}), appID, 0)
	rr := e.do(req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	user := body["user"].(map[string]any)
	return int64(user["id"].(float64))
}

// createPin создаёт пин через API и возвращает его id.
func (e *env) createPin(t *testing.T, appID string, userID int64, fields map[string]string, files ...testFile) int64 {
	t.Helper()
	req := identify(formRequest(t, http.MethodPost, "/v1/pins", fields, files...), appID, userID)
	rr := e.do(req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	body := decodeBody(t, rr)
	pin := body["pin"].(map[string]any)
	// ответ создания несёт только id
	require.Len(t, pin, 1)
	return int64(pin["id"].(float64))
}
