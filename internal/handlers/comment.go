package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"pinboard/internal/errs"
	"pinboard/internal/model"
	"pinboard/internal/service"
	"pinboard/internal/validate"

	"go.uber.org/zap"
)

// CommentHandler обрабатывает ответы на пины и правки комментариев.
type CommentHandler struct {
	CommentService *service.CommentService
	Logger         *zap.SugaredLogger
}

// NewCommentHandler создаёт хендлер comments
func NewCommentHandler(commentService *service.CommentService, logger *zap.SugaredLogger) *CommentHandler {
	return &CommentHandler{CommentService: commentService, Logger: logger}
}

// ListReplies отдаёт ответы на пин: все комментарии кроме корневого,
// от старых к новым.
func (h *CommentHandler) ListReplies(w http.ResponseWriter, r *http.Request) {
	comments, err := h.CommentService.ListReplies(r.Context(), pathID(r, "pinID"))
	if err != nil {
		h.Logger.Errorw("reply list failed", "error", err)
		writeError(w, "nodes", err)
		return
	}

	if comments == nil {
		comments = []*model.Comment{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(len(comments)))
	writeOK(w, "nodes", comments)
}

// Create добавляет ответ на пин: multipart-форма с текстом и файлами вложений.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		writeError(w, "comment", errs.ErrInvalid)
		return
	}

	text, err := commentText(r)
	if err != nil {
		writeError(w, "comment", err)
		return
	}

	comment := &model.Comment{
		PinID:  pathID(r, "pinID"),
		UserID: callerID(r),
		Text:   text,
	}
	if err := h.CommentService.Create(r.Context(), comment, r.MultipartForm.File["attachments"]); err != nil {
		h.Logger.Errorw("comment create failed", "error", err)
		writeError(w, "comment", err)
		return
	}

	writeOK(w, "comment", map[string]any{"id": comment.ID})
}

type updateCommentRequest struct {
	Text string `json:"text" validate:"trim,required"`
}

// Update меняет текст собственного комментария; чужой — тихий no-op.
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, "success", errs.Fields{"text": errs.ErrInvalid})
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, "success", err)
		return
	}

	if err := h.CommentService.UpdateText(r.Context(), pathID(r, "commentID"), callerID(r), req.Text); err != nil {
		h.Logger.Errorw("comment update failed", "error", err)
		writeError(w, "success", err)
		return
	}

	writeOK(w, "success", true)
}

// Delete удаляет собственный комментарий вместе с объектами вложений
// в хранилище.
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.CommentService.Delete(r.Context(), pathID(r, "commentID"), callerID(r)); err != nil {
		h.Logger.Errorw("comment delete failed", "error", err)
		writeError(w, "success", err)
		return
	}

	writeOK(w, "success", true)
}

// commentText достаёт обязательное текстовое поле из multipart-формы.
func commentText(r *http.Request) (string, error) {
	values, ok := r.MultipartForm.Value["text"]
	if !ok || len(values) == 0 {
		return "", errs.Fields{"text": errs.ErrRequired}
	}
	text := strings.TrimSpace(values[0])
	if err := validate.Var(text, "required"); err != nil {
		return "", errs.Fields{"text": err}
	}
	return text, nil
}
