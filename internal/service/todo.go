package service

import (
	"GophTodo/internal/model"
	"GophTodo/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TodoService инкапсулирует бизнес-логику работы с задачами:
// проверку владельца и существования перед каждой мутацией и привязку вложений.
type TodoService struct {
	todos       repo.TodoRepository
	attachments repo.AttachmentStore
	logger      *zap.SugaredLogger

	now         func() time.Time
	newID       func() string
	hideForeign bool
}

// Option настраивает TodoService.
type Option func(*TodoService)

// WithClock подменяет источник времени для createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *TodoService) { s.now = now }
}

// WithIDGenerator подменяет генератор идентификаторов задач и вложений.
func WithIDGenerator(gen func() string) Option {
	return func(s *TodoService) { s.newID = gen }
}

// WithHiddenForeignItems: чужая задача отвечает как отсутствующая (KindNotFound),
// чтобы по ответу нельзя было узнать о существовании чужого todoId.
func WithHiddenForeignItems(hide bool) Option {
	return func(s *TodoService) { s.hideForeign = hide }
}

// NewTodoService создаёт сервис задач.
func NewTodoService(todos repo.TodoRepository, attachments repo.AttachmentStore, logger *zap.SugaredLogger, opts ...Option) *TodoService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &TodoService{
		todos:       todos,
		attachments: attachments,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTodoRequest поля, которые клиент задаёт при создании. todoId клиент передать не может.
type CreateTodoRequest struct {
	Name    string
	DueDate string
}

// UpdateTodoRequest частичное обновление: nil означает «оставить как есть».
type UpdateTodoRequest struct {
	Name    *string
	DueDate *string
	Done    *bool
}

// AttachmentTicket результат выдачи вложения для задачи.
type AttachmentTicket struct {
	AttachmentID  string
	UploadURL     string
	AttachmentURL string
}

// ListTodos возвращает задачи пользователя. Пользователь видит только свой раздел.
func (s *TodoService) ListTodos(ctx context.Context, userID string) ([]model.TodoItem, error) {
	s.logger.Infow("Retrieving todos", "user_id", userID)

	items, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

// CreateTodo создаёт задачу с новым todoId, done=false и пустой ссылкой на вложение.
func (s *TodoService) CreateTodo(ctx context.Context, userID string, req CreateTodoRequest) (*model.TodoItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if err := validateDueDate(req.DueDate); err != nil {
		return nil, err
	}

	item := &model.TodoItem{
		TodoID:        s.newID(),
		UserID:        userID,
		Name:          name,
		DueDate:       strings.TrimSpace(req.DueDate),
		Done:          false,
		AttachmentURL: nil,
		CreatedAt:     s.now().UTC(),
	}

	s.logger.Infow("Adding new todo", "todo_id", item.TodoID, "user_id", userID)

	if err := s.todos.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create todo %s: %w", item.TodoID, err)
	}
	return item, nil
}

// UpdateTodo обновляет name/dueDate/done задачи владельца.
// Не переданные поля сохраняют текущие значения.
func (s *TodoService) UpdateTodo(ctx context.Context, userID, todoID string, req UpdateTodoRequest) error {
	s.logger.Infow("Updating todo", "todo_id", todoID, "user_id", userID)

	item, err := s.ownedTodo(ctx, userID, todoID, "update")
	if err != nil {
		return err
	}

	upd := model.TodoUpdate{Name: item.Name, DueDate: item.DueDate, Done: item.Done}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return invalid("name must not be empty")
		}
		upd.Name = name
	}
	if req.DueDate != nil {
		if err := validateDueDate(*req.DueDate); err != nil {
			return err
		}
		upd.DueDate = strings.TrimSpace(*req.DueDate)
	}
	if req.Done != nil {
		upd.Done = *req.Done
	}

	if err := s.todos.Update(ctx, todoID, upd); err != nil {
		// запись удалили между проверкой и обновлением
		if errors.Is(err, repo.ErrNotFound) {
			return notFound(todoID)
		}
		return fmt.Errorf("update todo %s: %w", todoID, err)
	}
	return nil
}

// DeleteTodo удаляет задачу владельца.
func (s *TodoService) DeleteTodo(ctx context.Context, userID, todoID string) error {
	s.logger.Infow("Deleting todo", "todo_id", todoID, "user_id", userID)

	if _, err := s.ownedTodo(ctx, userID, todoID, "delete"); err != nil {
		return err
	}
	if err := s.todos.Delete(ctx, todoID); err != nil {
		return fmt.Errorf("delete todo %s: %w", todoID, err)
	}
	return nil
}

// AttachToTodo привязывает вложение к задаче владельца: сохраняет публичную ссылку на чтение.
// Существование самого файла не проверяется.
func (s *TodoService) AttachToTodo(ctx context.Context, userID, todoID, attachmentID string) (string, error) {
	if strings.TrimSpace(attachmentID) == "" {
		return "", invalid("attachmentId is required")
	}

	attachmentURL := s.attachments.BuildReadURL(attachmentID)
	s.logger.Infow("Updating todo with attachment URL",
		"todo_id", todoID, "user_id", userID, "attachment_id", attachmentID, "attachment_url", attachmentURL)

	if _, err := s.ownedTodo(ctx, userID, todoID, "attach"); err != nil {
		return "", err
	}

	if err := s.todos.SetAttachmentURL(ctx, todoID, attachmentURL); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", notFound(todoID)
		}
		return "", fmt.Errorf("set attachment url %s: %w", todoID, err)
	}
	return attachmentURL, nil
}

// RequestUploadURL выдаёт подписанную ссылку на загрузку вложения.
// Владелец не проверяется: вложение ещё не связано ни с одной задачей.
func (s *TodoService) RequestUploadURL(ctx context.Context, attachmentID string) (string, error) {
	if strings.TrimSpace(attachmentID) == "" {
		return "", invalid("attachmentId is required")
	}

	s.logger.Infow("Generating upload URL", "attachment_id", attachmentID)

	uploadURL, err := s.attachments.IssueUploadURL(ctx, attachmentID)
	if err != nil {
		return "", fmt.Errorf("issue upload url: %w", err)
	}
	return uploadURL, nil
}

// GenerateAttachment создаёт новый идентификатор вложения, выдаёт ссылку на загрузку
// и сразу привязывает ссылку на чтение к задаче.
func (s *TodoService) GenerateAttachment(ctx context.Context, userID, todoID string) (*AttachmentTicket, error) {
	attachmentID := s.newID()

	uploadURL, err := s.RequestUploadURL(ctx, attachmentID)
	if err != nil {
		return nil, err
	}
	attachmentURL, err := s.AttachToTodo(ctx, userID, todoID, attachmentID)
	if err != nil {
		return nil, err
	}
	return &AttachmentTicket{
		AttachmentID:  attachmentID,
		UploadURL:     uploadURL,
		AttachmentURL: attachmentURL,
	}, nil
}

// ownedTodo загружает задачу и проверяет, что она принадлежит userID.
func (s *TodoService) ownedTodo(ctx context.Context, userID, todoID, action string) (*model.TodoItem, error) {
	item, found, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("get todo %s: %w", todoID, err)
	}
	if !found {
		s.logger.Warnw("No todo found", "todo_id", todoID, "user_id", userID, "action", action)
		return nil, notFound(todoID)
	}
	if item.UserID != userID {
		s.logger.Warnw("Permission error: user is not the owner of todo",
			"todo_id", todoID, "user_id", userID, "action", action)
		if s.hideForeign {
			return nil, notFound(todoID)
		}
		return nil, forbidden(todoID)
	}
	return item, nil
}

var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// validateDueDate: пустая строка допустима (срок не задан).
func validateDueDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return invalid("dueDate: use date (YYYY-MM-DD) or RFC3339 datetime")
}
