package handlers

import (
	"encoding/json"
	"net/http"

	"pinboard/internal/errs"
	"pinboard/internal/middleware"
	"pinboard/internal/service"
	"pinboard/internal/validate"

	"go.uber.org/zap"
)

// UserHandler регистрирует пользователя приложения.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
}

// NewUserHandler создаёт хендлер users
func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger}
}

type upsertUserRequest struct {
	ID   string `json:"id" validate:"trim,required"`
	Name string `json:"name" validate:"trim,required"`
}

// Upsert создаёт пользователя или обновляет имя существующего.
// Идентичность — пара (внешний id, приложение).
func (h *UserHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req upsertUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "user", errs.Fields{"id": errs.ErrInvalid, "name": errs.ErrInvalid})
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, "user", err)
		return
	}

	appID, _ := middleware.GetAppIDFromContext(r.Context())
	id, err := h.UserService.Upsert(r.Context(), appID, req.ID, req.Name)
	if err != nil {
		h.Logger.Errorw("user upsert failed", "error", err)
		writeError(w, "user", err)
		return
	}

	writeOK(w, "user", map[string]any{"id": id, "name": req.Name})
}
