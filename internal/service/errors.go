package service

import (
	"errors"
	"fmt"
)

// 错误分类，HTTP 层据此映射状态码
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidState      = errors.New("invalid state")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// InputError 字段级输入错误，errors.Is(err, ErrInvalidInput) 为真
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalid(field, message string) error {
	return &InputError{Field: field, Message: message}
}
