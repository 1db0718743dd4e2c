package handlers

import (
	"net/http"

	"pinboard/internal/middleware"
	"pinboard/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	pinService *service.PinService,
	commentService *service.CommentService,
	logger *zap.SugaredLogger,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	// Handlers
	userHandler := NewUserHandler(userService, logger)
	pinHandler := NewPinHandler(pinService, logger)
	commentHandler := NewCommentHandler(commentService, logger)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.WithApp)

		r.Post("/users", userHandler.Upsert)

		r.Group(func(r chi.Router) {
			r.Use(middleware.WithUser)

			r.Route("/pins", func(r chi.Router) {
				r.Get("/", pinHandler.List)
				r.Post("/", pinHandler.Create)

				r.Route("/{pinID}", func(r chi.Router) {
					r.Post("/complete", pinHandler.Complete)
					r.Delete("/", pinHandler.Delete)
					r.Get("/comments", commentHandler.ListReplies)
					r.Post("/comments", commentHandler.Create)
				})
			})

			r.Route("/comments/{commentID}", func(r chi.Router) {
				r.Patch("/", commentHandler.Update)
				r.Delete("/", commentHandler.Delete)
			})
		})
	})

	return &Handler{Router: r}
}
