package commands

import (
	"GophTodo/internal/config"
	"GophTodo/internal/handlers"
	"GophTodo/internal/middleware"
	"GophTodo/internal/repo"
	"GophTodo/internal/service"
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "cli-secret"

// captureOut перенаправляет вывод CLI в буфер на время теста
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := Out
	Out = buf
	t.Cleanup(func() { Out = prev })
	return buf
}

// newTestServer поднимает настоящий роутер поверх in-memory SQLite
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db, err := repo.InitDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", "")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	attCfg := repo.AttachmentConfig{Bucket: "todo-attachments", Region: "us-east-1", URLExpiration: 5 * time.Minute}
	client := s3.New(s3.Options{
		Region:      attCfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider("AKIDTEST", "SECRETTEST", ""),
	})
	attachments, err := repo.NewS3AttachmentStore(client, attCfg)
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	svc := service.NewTodoService(repo.NewTodoRepository(db), attachments, logger)
	h := handlers.NewHandler(svc, logger, &config.Config{AuthSecret: testSecret})

	ts := httptest.NewServer(h.Router)
	t.Cleanup(ts.Close)
	return ts
}

// clientConfig конфиг клиента с токеном пользователя userID
func clientConfig(t *testing.T, serverURL, userID string) *config.Config {
	t.Helper()
	cfg := &config.Config{ServerURL: serverURL, AuthSecret: testSecret}
	if userID != "" {
		token, err := middleware.IssueToken(userID, testSecret)
		require.NoError(t, err)
		cfg.Token = token
	}
	return cfg
}
