package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const webAppDataKey = "tgWebAppData"

var ErrNoInitData = errors.New("tgWebAppData not found in web view url")

// WebAppUser поле user из init data.
type WebAppUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// InitData подписанный payload web app, который уходит вендору.
type InitData struct {
	// Raw строка после двойного декодирования, отправляется как есть.
	Raw string

	QueryID  string
	User     WebAppUser
	AuthDate time.Time
	Hash     string
}

// ParseWebAppURL достаёт tgWebAppData из url, который вернула платформа.
// Данные лежат во фрагменте (#tgWebAppData=...&tgWebAppVersion=...),
// иногда в query. Payload закодирован дважды.
func ParseWebAppURL(raw string) (InitData, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return InitData{}, fmt.Errorf("parse web view url: %w", err)
	}

	encoded, err := lookupWebAppData(u)
	if err != nil {
		return InitData{}, err
	}

	// второй слой
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return InitData{}, fmt.Errorf("decode init data: %w", err)
	}

	fields, err := url.ParseQuery(encoded)
	if err != nil {
		return InitData{}, fmt.Errorf("parse init data: %w", err)
	}

	data := InitData{
		Raw:     decoded,
		QueryID: fields.Get("query_id"),
		Hash:    fields.Get("hash"),
	}
	if data.Hash == "" {
		return InitData{}, fmt.Errorf("init data without hash")
	}

	if u := fields.Get("user"); u != "" {
		if err := json.Unmarshal([]byte(u), &data.User); err != nil {
			return InitData{}, fmt.Errorf("decode init data user: %w", err)
		}
	}

	if ts := fields.Get("auth_date"); ts != "" {
		sec, err := strconv.ParseInt(ts, 10, 64)
		if err != nil {
			return InitData{}, fmt.Errorf("invalid auth_date %q: %w", ts, err)
		}
		data.AuthDate = time.Unix(sec, 0)
	}

	return data, nil
}

// lookupWebAppData возвращает значение tgWebAppData после первого декодирования.
func lookupWebAppData(u *url.URL) (string, error) {
	for _, part := range []string{u.EscapedFragment(), u.RawQuery} {
		if part == "" {
			continue
		}
		// ParseQuery отдаёт распарсенное даже при ошибке в соседних параметрах
		values, _ := url.ParseQuery(part)
		if v := values.Get(webAppDataKey); v != "" {
			return v, nil
		}
	}
	return "", ErrNoInitData
}
