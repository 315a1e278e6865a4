package register

import (
	"context"
	"time"

	"github.com/valyala/fasthttp"
)

// FastHTTPTransport posts with a fasthttp client. The context deadline, if
// any, bounds the request; cancellation is only observed before sending.
type FastHTTPTransport struct {
	client *fasthttp.Client
}

// NewFastHTTPTransport wraps client, or a default client when nil.
func NewFastHTTPTransport(client *fasthttp.Client) *FastHTTPTransport {
	if client == nil {
		client = &fasthttp.Client{
			Name:                "mangiato-register",
			MaxIdleConnDuration: 30 * time.Second,
		}
	}
	return &FastHTTPTransport{client: client}
}

// Post sends body to url and returns the status and response body.
func (t *FastHTTPTransport) Post(ctx context.Context, url string, header map[string]string, body []byte) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = t.client.DoDeadline(req, resp, deadline)
	} else {
		err = t.client.Do(req, resp)
	}
	if err != nil {
		return 0, nil, err
	}

	// resp is returned to the pool, copy the body out
	return resp.StatusCode(), append([]byte(nil), resp.Body()...), nil
}
