package middleware

import (
	"context"
	"encoding/json"
	"net/http"
)

// Заголовки, по которым запрос привязывается к приложению и пользователю.
const (
	HeaderAppID  = "Pinboard-App-ID"
	HeaderUserID = "Pinboard-User-ID"
)

type ctxKey string

const (
	appIDKey  ctxKey = "appId"
	userIDKey ctxKey = "userId"
)

// WithApp требует заголовок приложения; без него — 400 MISSING_APP_ID.
func WithApp(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		appID := r.Header.Get(HeaderAppID)
		if appID == "" {
			writeIdentityError(w, "MISSING_APP_ID")
			return
		}
		ctx := context.WithValue(r.Context(), appIDKey, appID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithUser требует заголовок пользователя; без него — 400 MISSING_USER_ID.
// Навешивается после WithApp, поэтому MISSING_APP_ID имеет приоритет.
func WithUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(HeaderUserID)
		if userID == "" {
			writeIdentityError(w, "MISSING_USER_ID")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAppIDFromContext возвращает идентификатор приложения из контекста.
func GetAppIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(appIDKey).(string)
	return v, ok
}

// GetUserIDFromContext возвращает идентификатор пользователя из контекста.
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

func writeIdentityError(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code},
	})
}
