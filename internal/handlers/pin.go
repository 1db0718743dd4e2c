package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"pinboard/internal/errs"
	"pinboard/internal/middleware"
	"pinboard/internal/model"
	"pinboard/internal/service"

	"go.uber.org/zap"
)

// Предел размера формы при разборе multipart, не лимит вложений.
const maxFormMemory = 32 << 20

// PinHandler обрабатывает листинг, создание, завершение и удаление пинов.
type PinHandler struct {
	PinService *service.PinService
	Logger     *zap.SugaredLogger
}

// NewPinHandler создаёт хендлер pins
func NewPinHandler(pinService *service.PinService, logger *zap.SugaredLogger) *PinHandler {
	return &PinHandler{PinService: pinService, Logger: logger}
}

// List отдаёт пины приложения; ?me=1 сужает до пинов вызывающего,
// ?_path= фильтрует по логическому пути.
func (h *PinHandler) List(w http.ResponseWriter, r *http.Request) {
	appID, _ := middleware.GetAppIDFromContext(r.Context())

	var userID int64
	if r.URL.Query().Get("me") == "1" {
		userID = callerID(r)
	}
	path := r.URL.Query().Get("_path")

	pins, err := h.PinService.List(r.Context(), appID, userID, path)
	if err != nil {
		h.Logger.Errorw("pin list failed", "error", err)
		writeError(w, "nodes", err)
		return
	}

	if pins == nil {
		pins = []*model.Pin{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(pins)))
	writeOK(w, "nodes", pins)
}

// Create принимает multipart-форму с координатами, текстом корневого
// комментария и файлами вложений.
func (h *PinHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, "pin", errs.ErrInvalid)
		return
	}

	pin, text, files, err := parsePinForm(r)
	if err != nil {
		writeError(w, "pin", err)
		return
	}

	appID, _ := middleware.GetAppIDFromContext(r.Context())
	pin.AppID = appID
	pin.UserID = callerID(r)

	if err := h.PinService.Create(r.Context(), pin, text, files); err != nil {
		h.Logger.Errorw("pin create failed", "error", err)
		writeError(w, "pin", err)
		return
	}

	writeOK(w, "pin", map[string]any{"id": pin.ID})
}

// Complete переключает отметку завершения по сырому телу запроса.
func (h *PinHandler) Complete(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, "success", errs.ErrInvalid)
		return
	}

	if err := h.PinService.Complete(r.Context(), pathID(r, "pinID"), callerID(r), string(raw)); err != nil {
		h.Logger.Errorw("pin complete failed", "error", err)
		writeError(w, "success", err)
		return
	}

	writeOK(w, "success", true)
}

// Delete удаляет пин вызывающего; чужой пин остаётся нетронутым.
func (h *PinHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.PinService.Delete(r.Context(), pathID(r, "pinID"), callerID(r)); err != nil {
		h.Logger.Errorw("pin delete failed", "error", err)
		writeError(w, "success", err)
		return
	}

	writeOK(w, "success", true)
}

// parsePinForm собирает пин из multipart-полей. Отсутствующее поле — REQUIRED,
// пустое после обрезки или нечисловое — INVALID; ошибки копятся по всем полям.
func parsePinForm(r *http.Request) (*model.Pin, string, []*multipart.FileHeader, error) {
	form := r.MultipartForm
	fields := make(errs.Fields)

	str := func(name string) string {
		values, ok := form.Value[name]
		if !ok || len(values) == 0 {
			fields[name] = errs.ErrRequired
			return ""
		}
		v := strings.TrimSpace(values[0])
		if v == "" {
			fields[name] = errs.ErrInvalid
		}
		return v
	}
	num := func(name string) float64 {
		v := str(name)
		if _, bad := fields[name]; bad {
			return 0
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fields[name] = errs.ErrInvalid
			return 0
		}
		return f
	}

	pin := &model.Pin{
		LogicalPath: str("_path"),
		Path:        str("path"),
		W:           num("w"),
		RelX:        num("_x"),
		X:           num("x"),
		RelY:        num("_y"),
		Y:           num("y"),
	}
	text := str("text")

	if len(fields) > 0 {
		return nil, "", nil, fields
	}
	return pin, text, form.File["attachments"], nil
}
