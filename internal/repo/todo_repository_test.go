package repo

import (
	"GophTodo/internal/model"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// хелпер для создания базовой задачи
func mkTodo(id, userID, name string, created time.Time) model.TodoItem {
	return model.TodoItem{
		TodoID:    id,
		UserID:    userID,
		Name:      name,
		CreatedAt: created.UTC(),
	}
}

func TestTodoRepository_Create_GetByID(t *testing.T) {
	r := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	it := mkTodo("t1", "u1", "Buy milk", time.Now())
	it.DueDate = "2026-11-01"
	require.NoError(t, r.Create(ctx, &it))

	got, found, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "Buy milk", got.Name)
	assert.Equal(t, "2026-11-01", got.DueDate)
	assert.False(t, got.Done)
	assert.Nil(t, got.AttachmentURL)
	assert.WithinDuration(t, it.CreatedAt, got.CreatedAt, time.Second)

	// отсутствующая запись не ошибка
	got, found, err = r.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestTodoRepository_Create_OverwritesSameID(t *testing.T) {
	r := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	first := mkTodo("t1", "u1", "first", time.Now())
	require.NoError(t, r.Create(ctx, &first))
	second := mkTodo("t1", "u1", "second", time.Now())
	second.Done = true
	require.NoError(t, r.Create(ctx, &second))

	all, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	if assert.Len(t, all, 1) {
		assert.Equal(t, "second", all[0].Name)
		assert.True(t, all[0].Done)
	}
}

func TestTodoRepository_ListByUser(t *testing.T) {
	r := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	items := []model.TodoItem{
		mkTodo("b", "u1", "b", base.Add(2*time.Minute)),
		mkTodo("a", "u1", "a", base.Add(1*time.Minute)),
		mkTodo("x", "u2", "x", base),
	}
	for i := range items {
		it := items[i]
		require.NoError(t, r.Create(ctx, &it))
	}

	got, err := r.ListByUser(ctx, "u1")
	require.NoError(t, err)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "a", got[0].TodoID)
		assert.Equal(t, "b", got[1].TodoID)
	}

	// пустой результат: пустой срез, не nil
	none, err := r.ListByUser(ctx, "ghost")
	assert.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTodoRepository_Update_TouchesOnlyMutableFields(t *testing.T) {
	r := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	created := time.Now().UTC().Add(-time.Hour)
	it := mkTodo("t1", "u1", "old", created)
	require.NoError(t, r.Create(ctx, &it))
	require.NoError(t, r.SetAttachmentURL(ctx, "t1", "https://b.s3.amazonaws.com/att"))

	err := r.Update(ctx, "t1", model.TodoUpdate{Name: "new", DueDate: "2026-12-31", Done: true})
	require.NoError(t, err)

	got, found, err := r.GetByID(ctx, "t1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", got.Name)
	assert.Equal(t, "2026-12-31", got.DueDate)
	assert.True(t, got.Done)
	assert.Equal(t, "u1", got.UserID)
	assert.WithinDuration(t, created, got.CreatedAt, time.Second)
	if assert.NotNil(t, got.AttachmentURL) {
		assert.Equal(t, "https://b.s3.amazonaws.com/att", *got.AttachmentURL)
	}

	// done=false тоже записывается (нулевое значение)
	require.NoError(t, r.Update(ctx, "t1", model.TodoUpdate{Name: "new", Done: false}))
	got, _, err = r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, got.Done)
	assert.Equal(t, "", got.DueDate)
}

func TestTodoRepository_Update_Missing(t *testing.T) {
	r := NewTodoRepository(newTestDB(t))
	err := r.Update(context.Background(), "missing", model.TodoUpdate{Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = r.SetAttachmentURL(context.Background(), "missing", "u")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTodoRepository_Delete_Idempotent(t *testing.T) {
	r := NewTodoRepository(newTestDB(t))
	ctx := context.Background()

	it := mkTodo("t1", "u1", "x", time.Now())
	require.NoError(t, r.Create(ctx, &it))

	assert.NoError(t, r.Delete(ctx, "t1"))
	_, found, err := r.GetByID(ctx, "t1")
	assert.NoError(t, err)
	assert.False(t, found)

	// повторное удаление не ошибка
	assert.NoError(t, r.Delete(ctx, "t1"))
}

func TestTodoRepository_CustomTable(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, Migrate(db, "todos_archive"))
	r := NewTodoRepositoryForTable(db, "todos_archive")
	ctx := context.Background()

	it := mkTodo("t1", "u1", "x", time.Now())
	require.NoError(t, r.Create(ctx, &it))

	// запись не попала в таблицу по умолчанию
	_, found, err := NewTodoRepository(db).GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = r.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestIsPostgresDSN(t *testing.T) {
	assert.True(t, isPostgresDSN("postgres://u:p@localhost:5432/db"))
	assert.True(t, isPostgresDSN("postgresql://localhost/db"))
	assert.True(t, isPostgresDSN("host=localhost user=u dbname=db"))
	assert.False(t, isPostgresDSN("file:todos.db"))
	assert.False(t, isPostgresDSN("todos.sqlite"))
}

func TestInitDB_SQLite(t *testing.T) {
	_, err := InitDB("", "")
	assert.Error(t, err)

	db, err := InitDB("file:initdb_test?mode=memory&cache=shared", "")
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(model.DefaultTodosTable))
}
