// Package tgerr разбирает текст ошибок TDLib в доменные ошибки.
package tgerr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/larriantoniy/tg_farm_bot/internal/domain"
)

var retryAfterRe = regexp.MustCompile(`(?i)retry after (\d+)`)

// маркеры мёртвой сессии в ответах TDLib
var unauthorizedMarkers = []string{
	"unauthorized",
	"user_deactivated",
	"auth_key_unregistered",
	"session_revoked",
	"session_expired",
}

// Classify переводит ошибки TDLib в доменные.
// TDLib отдаёт их как "<code> <message>", разбираем по тексту.
func Classify(err error) error {
	if err == nil || errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	msg := strings.ToLower(err.Error())

	if m := retryAfterRe.FindStringSubmatch(msg); m != nil {
		sec, _ := strconv.Atoi(m[1])
		return &domain.RateLimitedError{RetryAfter: time.Duration(sec) * time.Second}
	}
	if strings.Contains(msg, "too many requests") {
		return &domain.RateLimitedError{RetryAfter: time.Second}
	}

	for _, marker := range unauthorizedMarkers {
		if strings.Contains(msg, marker) {
			return fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
	}
	return err
}
