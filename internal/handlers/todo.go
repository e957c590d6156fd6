package handlers

import (
	"GophTodo/internal/config"
	"GophTodo/internal/middleware"
	"GophTodo/internal/model"
	"GophTodo/internal/service"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// TodoHandler обрабатывает запросы к задачам пользователя и их вложениям.
type TodoHandler struct {
	TodoService *service.TodoService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewTodoHandler создаёт хендлер задач
func NewTodoHandler(todoService *service.TodoService, logger *zap.SugaredLogger, cfg *config.Config) *TodoHandler {
	return &TodoHandler{TodoService: todoService, Logger: logger, Config: cfg}
}

type createTodoRequest struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
}

type updateTodoRequest struct {
	Name    *string `json:"name"`
	DueDate *string `json:"dueDate"`
	Done    *bool   `json:"done"`
}

type attachmentRequest struct {
	AttachmentID string `json:"attachmentId"`
}

type listResponse struct {
	Items []model.TodoItem `json:"items"`
}

type itemResponse struct {
	Item *model.TodoItem `json:"item"`
}

type ticketResponse struct {
	AttachmentID  string `json:"attachmentId"`
	UploadURL     string `json:"uploadUrl"`
	AttachmentURL string `json:"attachmentUrl"`
}

// List задачи текущего пользователя
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	items, err := h.TodoService.ListTodos(r.Context(), userID)
	if err != nil {
		h.writeError(w, "List", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{Items: items})
}

// Create новая задача
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Create: invalid request body", "user_id", userID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	item, err := h.TodoService.CreateTodo(r.Context(), userID, service.CreateTodoRequest{
		Name:    req.Name,
		DueDate: req.DueDate,
	})
	if err != nil {
		h.writeError(w, "Create", userID, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemResponse{Item: item})
}

// Update частичное обновление name/dueDate/done
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	todoID := chi.URLParam(r, "todoId")

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Update: invalid request body", "user_id", userID, "todo_id", todoID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	err := h.TodoService.UpdateTodo(r.Context(), userID, todoID, service.UpdateTodoRequest{
		Name:    req.Name,
		DueDate: req.DueDate,
		Done:    req.Done,
	})
	if err != nil {
		h.writeError(w, "Update", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// Delete удаление задачи
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	todoID := chi.URLParam(r, "todoId")

	if err := h.TodoService.DeleteTodo(r.Context(), userID, todoID); err != nil {
		h.writeError(w, "Delete", userID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GenerateAttachment выдаёт новое вложение для задачи: ссылку на загрузку и ссылку на чтение
func (h *TodoHandler) GenerateAttachment(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	todoID := chi.URLParam(r, "todoId")

	ticket, err := h.TodoService.GenerateAttachment(r.Context(), userID, todoID)
	if err != nil {
		h.writeError(w, "GenerateAttachment", userID, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticketResponse{
		AttachmentID:  ticket.AttachmentID,
		UploadURL:     ticket.UploadURL,
		AttachmentURL: ticket.AttachmentURL,
	})
}

// Attach привязывает уже загруженное вложение к задаче
func (h *TodoHandler) Attach(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	todoID := chi.URLParam(r, "todoId")

	var req attachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Attach: invalid request body", "user_id", userID, "todo_id", todoID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	attachmentURL, err := h.TodoService.AttachToTodo(r.Context(), userID, todoID, req.AttachmentID)
	if err != nil {
		h.writeError(w, "Attach", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"attachmentUrl": attachmentURL})
}

// UploadURL подписанная ссылка на загрузку вложения по его идентификатору
func (h *TodoHandler) UploadURL(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req attachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("UploadURL: invalid request body", "user_id", userID, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		return
	}

	uploadURL, err := h.TodoService.RequestUploadURL(r.Context(), req.AttachmentID)
	if err != nil {
		h.writeError(w, "UploadURL", userID, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": uploadURL})
}
