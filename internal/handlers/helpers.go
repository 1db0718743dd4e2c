package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"pinboard/internal/errs"
	"pinboard/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// writeJSON пишет конверт ответа {<payload>: ..., "error": ...}.
func writeJSON(w http.ResponseWriter, status int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, key string, payload any) {
	writeJSON(w, http.StatusOK, map[string]any{key: payload, "error": nil})
}

// writeError подбирает статус по типу ошибки: ошибки полей и кодов — 400,
// всё остальное — 500 с INTERNAL_SERVER_ERROR. Ключ полезной нагрузки
// присутствует и в ошибочном ответе, с пустым значением.
func writeError(w http.ResponseWriter, key string, err error) {
	var payload any
	switch key {
	case "nodes":
		payload = []any{}
	case "success":
		payload = false
	}

	var fields errs.Fields
	if errors.As(err, &fields) {
		writeJSON(w, http.StatusBadRequest, map[string]any{key: payload, "error": fields})
		return
	}
	var code *errs.Code
	if errors.As(err, &code) && !errors.Is(err, errs.ErrInternalServerError) {
		writeJSON(w, http.StatusBadRequest, map[string]any{key: payload, "error": code})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{key: payload, "error": errs.ErrInternalServerError})
}

// callerID возвращает внутренний id пользователя из заголовка;
// нечисловые значения превращаются в 0 и дальше не находят ни одной строки.
func callerID(r *http.Request) int64 {
	raw, _ := middleware.GetUserIDFromContext(r.Context())
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// pathID парсит числовой параметр маршрута; мусор в URL ведёт себя
// как id несуществующей записи.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
