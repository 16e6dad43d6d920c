package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/cctvstore/internal/config"
)

// Client posts plain-text digests to a chat webhook.
type Client interface {
	SendText(ctx context.Context, text string) error
}

// WebhookClient is a resty-backed implementation of Client. The payload shape
// ({"text": ...}) is accepted by Slack, Google Chat and Mattermost hooks.
type WebhookClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client from configuration.
func NewClient(cfg config.NotifyConfig) (*WebhookClient, error) {
	if cfg.WebhookURL == "" {
		return nil, errors.New("notify webhook url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &WebhookClient{httpClient: restyClient, url: cfg.WebhookURL}, nil
}

type webhookPayload struct {
	Text string `json:"text"`
}

func (c *WebhookClient) SendText(ctx context.Context, text string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(webhookPayload{Text: text}).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("notify webhook error: code=%d, body=%s", resp.StatusCode(), truncate(resp.String(), 200))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
