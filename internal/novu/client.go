// Package novu is a small client of the Novu REST API covering the calls
// the notification dispatcher needs.
package novu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Novip1906/tasks-notify/internal/models"
)

const DefaultBackendURL = "https://api.novu.co"

var ErrMissingAPIKey = errors.New("novu api key is empty")

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

func New(backendURL, apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}

	trimmed := strings.TrimSpace(backendURL)
	if trimmed == "" {
		trimmed = DefaultBackendURL
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid novu backend url: %w", err)
	}

	c := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// APIError is a non-2xx answer from the Novu API.
type APIError struct {
	Status  int
	Message string
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("novu request failed with status %d", e.Status)
	}
	return fmt.Sprintf("novu request failed (%d): %s", e.Status, e.Message)
}

type triggerRequest struct {
	Name    string                   `json:"name"`
	To      triggerTarget            `json:"to"`
	Payload models.CompletionPayload `json:"payload"`
}

type triggerTarget struct {
	SubscriberId string `json:"subscriberId"`
	Email        string `json:"email,omitempty"`
}

type subscriberRequest struct {
	SubscriberId string            `json:"subscriberId"`
	Email        string            `json:"email,omitempty"`
	FirstName    string            `json:"firstName,omitempty"`
	LastName     string            `json:"lastName,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type markRequest struct {
	MessageId string `json:"messageId"`
	Mark      mark   `json:"mark"`
}

type mark struct {
	Seen bool `json:"seen"`
	Read bool `json:"read"`
}

type feedResponse struct {
	Data []feedItem `json:"data"`
}

type feedItem struct {
	Id        string    `json:"_id"`
	Content   string    `json:"content"`
	Seen      bool      `json:"seen"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) Trigger(ctx context.Context, workflowId string, to models.Target, payload models.CompletionPayload) error {
	body := triggerRequest{
		Name:    workflowId,
		To:      triggerTarget{SubscriberId: to.SubscriberId, Email: to.Email},
		Payload: payload,
	}
	return c.do(ctx, http.MethodPost, "/v1/events/trigger", body, nil)
}

func (c *Client) UpsertSubscriber(ctx context.Context, subscriberId string, profile models.SubscriberProfile) error {
	body := subscriberRequest{
		SubscriberId: subscriberId,
		Email:        profile.Email,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		Data:         profile.Data,
	}
	return c.do(ctx, http.MethodPost, "/v1/subscribers", body, nil)
}

func (c *Client) Feed(ctx context.Context, subscriberId string, page, limit int) ([]models.Notification, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	path := "/v1/subscribers/" + url.PathEscape(subscriberId) + "/notifications/feed?" + q.Encode()

	var resp feedResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	items := make([]models.Notification, 0, len(resp.Data))
	for _, it := range resp.Data {
		items = append(items, models.Notification{
			Id:        it.Id,
			Content:   it.Content,
			Seen:      it.Seen,
			Read:      it.Read,
			CreatedAt: it.CreatedAt,
		})
	}
	return items, nil
}

// MarkRead marks the message both seen and read.
func (c *Client) MarkRead(ctx context.Context, subscriberId, messageId string) error {
	body := markRequest{MessageId: messageId, Mark: mark{Seen: true, Read: true}}
	path := "/v1/subscribers/" + url.PathEscape(subscriberId) + "/messages/markAs"
	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any, v any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "ApiKey "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	if payload.Message != "" {
		return strings.TrimSpace(payload.Message)
	}
	return strings.TrimSpace(payload.Error)
}
