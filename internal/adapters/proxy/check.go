package proxy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultCheckURL = "https://httpbin.org/ip"
	checkTimeout    = 5 * time.Second
)

// CheckIP один GET к ip-echo через client, возвращает внешний ip.
// Ошибка здесь не должна останавливать сессию, только логироваться.
func CheckIP(ctx context.Context, client *http.Client, checkURL string) (string, error) {
	if checkURL == "" {
		checkURL = DefaultCheckURL
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, string(data))
	}

	var body struct {
		Origin string `json:"origin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode ip response: %w", err)
	}
	return body.Origin, nil
}
