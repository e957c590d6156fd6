package repo

import (
	"GophTodo/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// InitDB открывает БД по строке подключения и применяет миграции таблицы задач.
// PostgreSQL выбирается по DSN (postgres://, postgresql:// или key=value с host=), иначе SQLite.
func InitDB(dsn, table string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}

	var dial gorm.Dialector
	if isPostgresDSN(dsn) {
		dial = postgres.Open(dsn)
	} else {
		// драйвер modernc регистрируется под именем "sqlite"
		dial = gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	}

	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(db, table); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт или обновляет таблицу задач и индекс по user_id.
func Migrate(db *gorm.DB, table string) error {
	if table == "" {
		table = model.DefaultTodosTable
	}
	if err := db.Table(table).AutoMigrate(&model.TodoItem{}); err != nil {
		return fmt.Errorf("migrate %s: %w", table, err)
	}
	return nil
}

func isPostgresDSN(dsn string) bool {
	d := strings.TrimSpace(dsn)
	return strings.HasPrefix(d, "postgres://") ||
		strings.HasPrefix(d, "postgresql://") ||
		strings.Contains(d, "host=")
}
