package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken bearer JWT вендора. Подпись не проверяем, нам нужен только exp.
type AccessToken string

func (t AccessToken) ExpiresAt() (time.Time, bool) {
	if t == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t), claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Valid пустой, битый или без exp токен невалиден.
func (t AccessToken) Valid(now time.Time) bool {
	exp, ok := t.ExpiresAt()
	return ok && exp.After(now)
}
