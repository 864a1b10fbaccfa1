package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ExpoClient delivers push notifications through Expo's push API. The app
// registers its device token at /auth/pushtoken; tokens look like
// "ExponentPushToken[...]".
type ExpoClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewExpoClient(endpoint string) *ExpoClient {
	if strings.TrimSpace(endpoint) == "" {
		return nil
	}
	return &ExpoClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

type expoPushMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func IsExpoPushToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}

// SendPush posts one message to Expo. Invalid tokens are rejected up front
// so callers can skip users who never registered a device.
func (c *ExpoClient) SendPush(ctx context.Context, token, title, body string, data map[string]string) error {
	if c == nil {
		return errors.New("expo client is nil")
	}
	if !IsExpoPushToken(token) {
		return fmt.Errorf("not a valid expo push token: %q", token)
	}

	msg := expoPushMessage{
		To:    token,
		Sound: "default",
		Title: title,
		Body:  body,
		Data:  data,
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("expo marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("expo create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("expo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("expo send failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
