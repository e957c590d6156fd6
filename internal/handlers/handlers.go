package handlers

import (
	"GophTodo/internal/config"
	"GophTodo/internal/middleware"
	"GophTodo/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router  chi.Router
	Metrics *middleware.Metrics
}

// NewHandler разводящий для хендлеров
func NewHandler(
	todoService *service.TodoService,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()
	metrics := middleware.NewMetrics()

	r.Use(middleware.WithCORS)
	r.Use(metrics.Middleware)
	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Service routes
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	todoHandler := NewTodoHandler(todoService, logger, config)

	// Todo routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/api/todos", todoHandler.List)
		r.Post("/api/todos", todoHandler.Create)
		r.Patch("/api/todos/{todoId}", todoHandler.Update)
		r.Delete("/api/todos/{todoId}", todoHandler.Delete)
		r.Post("/api/todos/{todoId}/attachment", todoHandler.GenerateAttachment)
		r.Put("/api/todos/{todoId}/attachment", todoHandler.Attach)
		r.Post("/api/attachments/upload-url", todoHandler.UploadURL)
	})

	return &Handler{Router: r, Metrics: metrics}
}
