package register

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ResponseMode selects how the response body is turned into display text.
type ResponseMode string

const (
	// ResponseModeJSON reads the "response" string field of a JSON body.
	ResponseModeJSON ResponseMode = "json"
	// ResponseModeText uses the raw body.
	ResponseModeText ResponseMode = "text"
)

// ParseResponseMode accepts "json" or "text", case-insensitively.
func ParseResponseMode(s string) (ResponseMode, error) {
	switch ResponseMode(strings.ToLower(strings.TrimSpace(s))) {
	case ResponseModeJSON:
		return ResponseModeJSON, nil
	case ResponseModeText:
		return ResponseModeText, nil
	default:
		return "", fmt.Errorf("unknown response mode %q", s)
	}
}

// Config holds everything the page injects into the form handler.
type Config struct {
	// Endpoint is the registration URL, expanded by the server when the page is rendered.
	Endpoint string
	// PreventDefault suppresses native form navigation on submit.
	PreventDefault bool
	ResponseMode   ResponseMode
	// ShowErrors writes transport and status failures into the display.
	// Off by default: failures are logged and the display is left untouched.
	ShowErrors bool
	// Timeout bounds a single submit; zero means no limit.
	Timeout time.Duration
}

// DefaultConfig posts to the relative users endpoint, prevents native
// navigation and reads JSON responses.
func DefaultConfig() Config {
	return Config{
		Endpoint:       "/v1/users/",
		PreventDefault: true,
		ResponseMode:   ResponseModeJSON,
	}
}

// Form data attributes rendered by the registration page.
const (
	AttrEndpoint       = "data-endpoint"
	AttrPreventDefault = "data-prevent-default"
	AttrResponseMode   = "data-response-mode"
	AttrShowErrors     = "data-show-errors"
	AttrTimeoutMS      = "data-timeout-ms"
)

// ConfigFromAttributes reads the config from element attributes. attr returns
// "" for an absent attribute; absent or unparsable values keep the defaults.
func ConfigFromAttributes(attr func(name string) string) Config {
	cfg := DefaultConfig()
	if v := attr(AttrEndpoint); v != "" {
		cfg.Endpoint = v
	}
	if v, err := strconv.ParseBool(attr(AttrPreventDefault)); err == nil {
		cfg.PreventDefault = v
	}
	if v, err := ParseResponseMode(attr(AttrResponseMode)); err == nil {
		cfg.ResponseMode = v
	}
	if v, err := strconv.ParseBool(attr(AttrShowErrors)); err == nil {
		cfg.ShowErrors = v
	}
	if v, err := strconv.Atoi(attr(AttrTimeoutMS)); err == nil && v > 0 {
		cfg.Timeout = time.Duration(v) * time.Millisecond
	}
	return cfg
}
