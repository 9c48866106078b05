package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const baseURL = "https://api.telegram.org"

type Chat struct {
	ID int64 `json:"id"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      Chat   `json:"chat"`
}

type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Client interface {
	SendMessage(ctx context.Context, chatID int64, text string) error // /sendMessage
	GetUpdates(ctx context.Context, offset int64) ([]Update, error)   // /getUpdates, long polling
}

type ClientImpl struct {
	token       string
	pollTimeout time.Duration
	httpClient  *http.Client
}

func NewClient(token string, pollTimeout time.Duration) *ClientImpl {
	return &ClientImpl{
		token:       token,
		pollTimeout: pollTimeout,
		// The HTTP timeout must outlast the long poll held open by the API.
		httpClient: &http.Client{Timeout: pollTimeout + 10*time.Second},
	}
}

// apiResponse is the envelope every Bot API method responds with.
type apiResponse struct {
	Ok          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *ClientImpl) SendMessage(ctx context.Context, chatID int64, text string) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	_, err := c.call(ctx, "sendMessage", payload)
	return err
}

func (c *ClientImpl) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	payload := map[string]any{
		"offset":  offset,
		"timeout": int(c.pollTimeout.Seconds()),
	}
	result, err := c.call(ctx, "getUpdates", payload)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err := json.Unmarshal(result, &updates); err != nil {
		return nil, fmt.Errorf("failed to decode updates: %w", err)
	}
	return updates, nil
}

func (c *ClientImpl) call(ctx context.Context, method string, payload map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/bot%s/%s", baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		err := fmt.Errorf("telegram %s request failed: %w", method, err)
		log.Error(err)
		return nil, err
	}
	defer resp.Body.Close()

	var decoded apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode telegram %s response: %w", method, err)
	}
	if !decoded.Ok {
		return nil, fmt.Errorf("telegram %s rejected: %s", method, decoded.Description)
	}
	return decoded.Result, nil
}
