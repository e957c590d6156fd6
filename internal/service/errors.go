package service

import (
	"errors"
	"fmt"
)

// ErrorKind: закрытый перечень прикладных ошибок сервиса задач.
// По нему слой входа однозначно выбирает ответ клиенту.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindForbidden
	KindInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

var (
	ErrNotFound  = &Error{Kind: KindNotFound, Msg: "todo not found"}
	ErrForbidden = &Error{Kind: KindForbidden, Msg: "not allowed to modify this todo"}
	ErrInvalid   = &Error{Kind: KindInvalid, Msg: "invalid request"}
)

// Error прикладная ошибка с видом и задачей, к которой она относится.
type Error struct {
	Kind   ErrorKind
	TodoID string
	Msg    string
}

func (e *Error) Error() string {
	if e.TodoID != "" {
		return fmt.Sprintf("%s: %s", e.Msg, e.TodoID)
	}
	return e.Msg
}

// Is сравнивает по виду ошибки, поэтому errors.Is(err, ErrNotFound) работает для любой задачи.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// KindOf возвращает вид ошибки сервиса или KindUnknown для сбоев хранилища.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func notFound(todoID string) error {
	return &Error{Kind: KindNotFound, TodoID: todoID, Msg: ErrNotFound.Msg}
}

func forbidden(todoID string) error {
	return &Error{Kind: KindForbidden, TodoID: todoID, Msg: ErrForbidden.Msg}
}

func invalid(msg string) error {
	return &Error{Kind: KindInvalid, Msg: msg}
}
