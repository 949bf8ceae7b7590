package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidSession сессия мертва (деактивирована, разлогинена, ключ не зарегистрирован).
	// Ловится раннером и останавливает сессию без рестартов.
	ErrInvalidSession = errors.New("invalid session")

	// ErrUnauthorized возвращает адаптер платформы, когда учётка не авторизована.
	ErrUnauthorized = errors.New("unauthorized")
)

type InvalidSessionError struct {
	Session string
	Err     error
}

func (e *InvalidSessionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("session %s: %s", e.Session, ErrInvalidSession)
	}
	return fmt.Sprintf("session %s: %s: %v", e.Session, ErrInvalidSession, e.Err)
}

func (e *InvalidSessionError) Is(target error) bool { return target == ErrInvalidSession }

func (e *InvalidSessionError) Unwrap() error { return e.Err }

// RateLimitedError платформа попросила подождать RetryAfter.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry after %s", e.RetryAfter)
}
