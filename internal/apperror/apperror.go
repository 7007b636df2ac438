package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrSelfReference = errors.New("self reference")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrStorage       = errors.New("storage failure")
)

// AppError 业务错误：kind 决定对外的响应类别，Message 面向调用方
type AppError struct {
	Err     error
	Message string
	Field   string
}

func (e *AppError) Error() string { return e.Message }

func (e *AppError) Unwrap() error { return e.Err }

func Validation(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func NotFound(resource, id string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found: %s", resource, id)}
}

func SelfReference(message string) *AppError {
	return &AppError{Err: ErrSelfReference, Message: message}
}

func Unauthorized(message string) *AppError {
	return &AppError{Err: ErrUnauthorized, Message: message}
}

// Storage 包装底层存储错误，原始错误保留在链上供日志使用
func Storage(err error) *AppError {
	return &AppError{Err: fmt.Errorf("%w: %v", ErrStorage, err), Message: "storage failure"}
}

func Is(err, kind error) bool { return errors.Is(err, kind) }
