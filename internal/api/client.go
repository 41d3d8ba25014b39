package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Config carries the knobs for the remote store API client.
type Config struct {
	// BaseURL is the scheme://host:port of the store API, without a trailing slash.
	BaseURL string
	Timeout time.Duration
	Logger  logrus.FieldLogger
}

// Client is a thin JSON-over-HTTP client for the store API. All durable
// state (items, inventory, purchases) lives behind it; the client itself is
// stateless and safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

func NewClient(cfg Config) *Client {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// Error is a failed API request, carrying the most specific message the
// server provided.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// errorBody matches the server's failure payloads: FastAPI-style
// {"detail": ...} or the looser {"message": ...}.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (b errorBody) best() string {
	switch {
	case b.Detail != "":
		return b.Detail
	case b.Message != "":
		return b.Message
	default:
		return b.Error
	}
}

// flexBool tolerates the API's two spellings of the success flag: the item
// endpoints send the string "true" while the purchase endpoint sends a
// boolean.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	*b = flexBool(strings.EqualFold(s, "true") || s == "1")
	return nil
}

// do issues one request and decodes a 2xx body into out when out is non-nil.
// Non-2xx responses become *Error with the server-provided detail.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Debug("store api request failed")
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var eb errorBody
		if decodeErr := json.NewDecoder(resp.Body).Decode(&eb); decodeErr == nil {
			apiErr.Detail = eb.best()
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
