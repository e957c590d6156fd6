package handlers_test

import (
	"GophTodo/internal/config"
	"GophTodo/internal/handlers"
	"GophTodo/internal/middleware"
	"GophTodo/internal/model"
	"GophTodo/internal/repo"
	"GophTodo/internal/service"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func newTestAttachments(t *testing.T) repo.AttachmentStore {
	t.Helper()
	cfg := repo.AttachmentConfig{Bucket: "todo-attachments", Region: "us-east-1", URLExpiration: 5 * time.Minute}
	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider("AKIDTEST", "SECRETTEST", ""),
	})
	store, err := repo.NewS3AttachmentStore(client, cfg)
	require.NoError(t, err)
	return store
}

// newHandlersTestRouter роутер поверх in-memory SQLite и локального подписчика S3
func newHandlersTestRouter(t *testing.T, opts ...service.Option) (http.Handler, repo.TodoRepository) {
	t.Helper()
	db, err := repo.InitDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	todos := repo.NewTodoRepository(db)
	logger := zap.NewNop().Sugar()
	svc := service.NewTodoService(todos, newTestAttachments(t), logger, opts...)
	h := handlers.NewHandler(svc, logger, &config.Config{AuthSecret: testSecret})
	return h.Router, todos
}

// Мок хранилища, который всегда падает
type failingTodoRepo struct{ mock.Mock }

func (m *failingTodoRepo) ListByUser(ctx context.Context, userID string) ([]model.TodoItem, error) {
	return nil, m.Called(ctx, userID).Error(0)
}
func (m *failingTodoRepo) GetByID(ctx context.Context, todoID string) (*model.TodoItem, bool, error) {
	return nil, false, m.Called(ctx, todoID).Error(0)
}
func (m *failingTodoRepo) Create(ctx context.Context, item *model.TodoItem) error {
	return m.Called(ctx, item).Error(0)
}
func (m *failingTodoRepo) Update(ctx context.Context, todoID string, upd model.TodoUpdate) error {
	return m.Called(ctx, todoID, upd).Error(0)
}
func (m *failingTodoRepo) Delete(ctx context.Context, todoID string) error {
	return m.Called(ctx, todoID).Error(0)
}
func (m *failingTodoRepo) SetAttachmentURL(ctx context.Context, todoID, url string) error {
	return m.Called(ctx, todoID, url).Error(0)
}

var _ repo.TodoRepository = (*failingTodoRepo)(nil)

func doRequest(t *testing.T, h http.Handler, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := middleware.IssueToken(userID, testSecret)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v))
	return v
}
