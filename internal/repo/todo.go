package repo

import (
	"GophTodo/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound возвращается обновлениями, которые не затронули ни одной записи.
var ErrNotFound = errors.New("todo record not found")

// TodoRepository определяет контракт доступа к задачам для слоя сервиса.
// Репозиторий не проверяет владельца и не решает, существует ли запись: это делает сервис.
type TodoRepository interface {
	// ListByUser возвращает все задачи пользователя (пустой срез, если их нет).
	ListByUser(ctx context.Context, userID string) ([]model.TodoItem, error)

	// GetByID ищет задачу по первичному ключу. found=false без ошибки, если записи нет.
	GetByID(ctx context.Context, todoID string) (item *model.TodoItem, found bool, err error)

	// Create вставляет запись; существующая запись с тем же todoId перезаписывается.
	Create(ctx context.Context, item *model.TodoItem) error

	// Update перезаписывает только name, due_date и done.
	Update(ctx context.Context, todoID string, upd model.TodoUpdate) error

	// Delete удаляет запись. Удаление отсутствующей записи не ошибка.
	Delete(ctx context.Context, todoID string) error

	// SetAttachmentURL перезаписывает только attachment_url.
	SetAttachmentURL(ctx context.Context, todoID, url string) error
}

type todoRepo struct {
	db    *gorm.DB
	table string
}

// NewTodoRepository создаёт gorm-реализацию репозитория задач для таблицы по умолчанию.
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return NewTodoRepositoryForTable(db, model.DefaultTodosTable)
}

// NewTodoRepositoryForTable создаёт репозиторий поверх указанной таблицы.
func NewTodoRepositoryForTable(db *gorm.DB, table string) TodoRepository {
	if table == "" {
		table = model.DefaultTodosTable
	}
	return &todoRepo{db: db, table: table}
}

func (r *todoRepo) tx(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

func (r *todoRepo) ListByUser(ctx context.Context, userID string) ([]model.TodoItem, error) {
	items := []model.TodoItem{}
	if err := r.tx(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *todoRepo) GetByID(ctx context.Context, todoID string) (*model.TodoItem, bool, error) {
	var it model.TodoItem
	err := r.tx(ctx).Where("todo_id = ?", todoID).Take(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &it, true, nil
}

func (r *todoRepo) Create(ctx context.Context, item *model.TodoItem) error {
	return r.tx(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "todo_id"}},
		UpdateAll: true,
	}).Create(item).Error
}

func (r *todoRepo) Update(ctx context.Context, todoID string, upd model.TodoUpdate) error {
	// map, а не структура: gorm пропускает нулевые значения полей структуры (done=false)
	return r.updateColumns(ctx, todoID, map[string]any{
		"name":     upd.Name,
		"due_date": upd.DueDate,
		"done":     upd.Done,
	})
}

func (r *todoRepo) Delete(ctx context.Context, todoID string) error {
	return r.tx(ctx).Where("todo_id = ?", todoID).Delete(&model.TodoItem{}).Error
}

func (r *todoRepo) SetAttachmentURL(ctx context.Context, todoID, url string) error {
	return r.updateColumns(ctx, todoID, map[string]any{"attachment_url": url})
}

func (r *todoRepo) updateColumns(ctx context.Context, todoID string, cols map[string]any) error {
	tx := r.tx(ctx).Where("todo_id = ?", todoID).Updates(cols)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
