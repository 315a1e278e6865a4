package register

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"mangiato/internal/logger"
	"mangiato/internal/models"
)

const (
	ContentTypeJSON = "application/json; charset=utf-8"
	acceptJSON      = "application/json"
	acceptText      = "text/plain"
)

// Transport performs one POST and returns the raw status and body.
type Transport interface {
	Post(ctx context.Context, url string, header map[string]string, body []byte) (int, []byte, error)
}

// Result is a completed submit. HasText is false when the body carried
// nothing displayable; that is not an error.
type Result struct {
	Status  int
	Text    string
	HasText bool
}

// StatusError is returned for non-2xx answers.
type StatusError struct {
	Status  int
	Message string // the "error" field of a JSON body, when present
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("registration failed with status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("registration failed with status %d", e.Status)
}

// Client posts registration payloads to one endpoint.
type Client struct {
	endpoint  string
	mode      ResponseMode
	transport Transport
	log       *zap.Logger
}

// NewClient builds a client for cfg.Endpoint; log may be nil.
func NewClient(cfg Config, transport Transport, log *zap.Logger) *Client {
	mode := cfg.ResponseMode
	if mode == "" {
		mode = ResponseModeJSON
	}
	return &Client{
		endpoint:  cfg.Endpoint,
		mode:      mode,
		transport: transport,
		log:       logger.OrNop(log),
	}
}

// Submit posts payload to the configured endpoint. Every call issues exactly
// one request.
func (c *Client) Submit(ctx context.Context, payload models.RegistrationRequest) (*Result, error) {
	body, err := encodePayload(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	header := map[string]string{
		"Content-Type": ContentTypeJSON,
		"Accept":       acceptJSON,
	}
	if c.mode == ResponseModeText {
		header["Accept"] = acceptText
	}

	status, respBody, err := c.transport.Post(ctx, c.endpoint, header, body)
	if err != nil {
		return nil, fmt.Errorf("failed to post registration: %w", err)
	}
	c.log.Debug("registration_posted", zap.String("endpoint", c.endpoint), zap.Int("status", status))

	if status < 200 || status > 299 {
		return nil, &StatusError{Status: status, Message: errorField(respBody)}
	}

	res := &Result{Status: status}
	res.Text, res.HasText = c.extractText(respBody)
	return res, nil
}

func (c *Client) extractText(body []byte) (string, bool) {
	if c.mode == ResponseModeText {
		return string(body), true
	}
	var decoded struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil || decoded.Response == nil {
		return "", false
	}
	return *decoded.Response, true
}

func errorField(body []byte) string {
	var decoded models.ErrorResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ""
	}
	return decoded.Error
}
