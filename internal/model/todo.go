package model

import "time"

// TodoItem — серверная модель задачи пользователя.
// Владелец (UserID) и идентификатор (TodoID) задаются один раз при создании.
type TodoItem struct {
	TodoID string `gorm:"column:todo_id;primaryKey" json:"todoId"`
	UserID string `gorm:"column:user_id;not null;index" json:"userId"`

	Name    string `gorm:"not null" json:"name"`
	DueDate string `json:"dueDate"`
	Done    bool   `gorm:"not null;default:false" json:"done"`

	// AttachmentURL меняется только через привязку вложения
	AttachmentURL *string `gorm:"column:attachment_url" json:"attachmentUrl"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

// DefaultTodosTable имя таблицы задач по умолчанию.
const DefaultTodosTable = "todos"

// TableName имя таблицы задач.
func (TodoItem) TableName() string { return DefaultTodosTable }

// TodoUpdate — изменяемая часть задачи. Не хранится отдельно.
type TodoUpdate struct {
	Name    string `json:"name"`
	DueDate string `json:"dueDate"`
	Done    bool   `json:"done"`
}
